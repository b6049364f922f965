package qr

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

// Generator encodes ticket links as QR PNGs for email attachments. The
// payload is the plain object id URL; the scanner validates against the
// ledger, so there is nothing secret to protect in the code itself.
type Generator struct {
	size int
}

func NewGenerator() *Generator {
	return &Generator{size: 256}
}

func (g *Generator) Encode(content string) ([]byte, error) {
	if content == "" {
		return nil, errors.New("qr content is empty")
	}
	return qrcode.Encode(content, qrcode.Medium, g.size)
}
