package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suicket/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open("", "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, database.Init(context.Background()))

	// Clear leftovers from other tests sharing the in-memory cache.
	_, err = database.Bun.NewDelete().Model((*models.ScanRecord)(nil)).Where("1=1").Exec(context.Background())
	require.NoError(t, err)
	return database
}

func record(id, ticketID, classification string, scannedAt time.Time) models.ScanRecord {
	return models.ScanRecord{
		ID:             id,
		TicketID:       ticketID,
		EventID:        "0xevent1",
		TicketNumber:   7,
		Classification: classification,
		Operator:       "door-1",
		ScannedAt:      scannedAt,
	}
}

func TestRecordAndQueryScans(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, database.RecordScan(ctx, record("a", "0xticket1", "VALID", now.Add(-time.Minute))))
	require.NoError(t, database.RecordScan(ctx, record("b", "0xticket1", "USED", now)))
	require.NoError(t, database.RecordScan(ctx, record("c", "0xticket2", "NOT_FOUND", now)))

	records, err := database.ScansForTicket(ctx, "0xticket1")
	require.NoError(t, err)

	require.Len(t, records, 2)
	// Newest first.
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "USED", records[0].Classification)
	assert.Equal(t, "a", records[1].ID)
	assert.Equal(t, "door-1", records[0].Operator)
}

func TestScansForUnknownTicket(t *testing.T) {
	database := setupTestDB(t)

	records, err := database.ScansForTicket(context.Background(), "0xnobody")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestInitIsIdempotent(t *testing.T) {
	database := setupTestDB(t)
	assert.NoError(t, database.Init(context.Background()))
}
