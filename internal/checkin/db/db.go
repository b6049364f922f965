package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/lib/pq"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"suicket/internal/models"
)

// DB is the scan audit trail. Every door decision is recorded, including
// denials, so disputes can be reconstructed later.
type DB struct {
	Bun *bun.DB
}

// Open selects the backend from the DSN: postgres:// goes to Postgres,
// anything else is treated as a SQLite path.
func Open(dsn, sqlitePath string) (*DB, error) {
	var sqldb *sql.DB
	var bunDB *bun.DB
	var err error

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sqldb, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("opening postgres audit db: %w", err)
		}
		bunDB = bun.NewDB(sqldb, pgdialect.New())
	} else {
		path := sqlitePath
		if path == "" {
			path = "scan_audit.db"
		}
		sqldb, err = sql.Open("sqlite", path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite audit db: %w", err)
		}
		bunDB = bun.NewDB(sqldb, sqlitedialect.New())
	}

	return &DB{Bun: bunDB}, nil
}

// Init creates the audit table if it does not exist.
func (d *DB) Init(ctx context.Context) error {
	_, err := d.Bun.NewCreateTable().
		Model((*models.ScanRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("creating scan_records table: %w", err)
	}
	return nil
}

func (d *DB) RecordScan(ctx context.Context, rec models.ScanRecord) error {
	if _, err := d.Bun.NewInsert().Model(&rec).Exec(ctx); err != nil {
		return fmt.Errorf("inserting scan record: %w", err)
	}
	return nil
}

// ScansForTicket returns the audit history for one ticket, newest first.
func (d *DB) ScansForTicket(ctx context.Context, ticketID string) ([]models.ScanRecord, error) {
	var records []models.ScanRecord
	err := d.Bun.NewSelect().
		Model(&records).
		Where("ticket_id = ?", ticketID).
		Order("scanned_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying scans for ticket %s: %w", ticketID, err)
	}
	return records, nil
}

func (d *DB) Close() error {
	return d.Bun.Close()
}
