package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() EmailMessage {
	return EmailMessage{
		To:       "buyer@example.com",
		Subject:  "Your CalHacks Ticket - Confirmation",
		TextBody: "plain body",
		HTMLBody: "<p>html body</p>",
		Attachments: []Attachment{{
			Content:     "aGVsbG8=",
			Type:        "image/png",
			Filename:    "ticket-1.png",
			Disposition: "attachment",
		}},
	}
}

func TestSendGridPayload(t *testing.T) {
	var got sgPayload
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(server.Close)

	client := NewSendGridClient("sg-key", "noreply@suicket.com")
	client.url = server.URL

	require.NoError(t, client.Send(context.Background(), testMessage()))

	assert.Equal(t, "Bearer sg-key", authHeader)
	assert.Equal(t, "noreply@suicket.com", got.From.Email)
	require.Len(t, got.Personalizations, 1)
	require.Len(t, got.Personalizations[0].To, 1)
	assert.Equal(t, "buyer@example.com", got.Personalizations[0].To[0].Email)

	// text/plain must precede text/html.
	require.Len(t, got.Content, 2)
	assert.Equal(t, "text/plain", got.Content[0].Type)
	assert.Equal(t, "text/html", got.Content[1].Type)

	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "ticket-1.png", got.Attachments[0].Filename)
}

func TestSendGridErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"message":"bad api key"}]}`))
	}))
	t.Cleanup(server.Close)

	client := NewSendGridClient("bad-key", "noreply@suicket.com")
	client.url = server.URL

	err := client.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "bad api key")
}

func TestSendGridUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewSendGridClient("sg-key", "noreply@suicket.com")
	client.url = server.URL

	assert.Error(t, client.Send(context.Background(), testMessage()))
}
