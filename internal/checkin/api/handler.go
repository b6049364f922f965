package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"suicket/internal/auth"
	"suicket/internal/logger"
	"suicket/internal/models"
	"suicket/internal/monitoring"
	"suicket/internal/scan"
)

// TicketValidator is the door-side verdict source.
type TicketValidator interface {
	Validate(ctx context.Context, ticketID string) scan.Result
}

// AuditStore persists every scan decision.
type AuditStore interface {
	RecordScan(ctx context.Context, rec models.ScanRecord) error
	ScansForTicket(ctx context.Context, ticketID string) ([]models.ScanRecord, error)
}

// CheckinPublisher streams admissions onto the bus. Best-effort only.
type CheckinPublisher interface {
	TicketCheckin(notice models.CheckinNotice) error
}

type Handler struct {
	Validator TicketValidator
	Audit     AuditStore
	Publisher CheckinPublisher
	Metrics   *monitoring.Metrics
	Logger    *logger.Logger
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/scan", h.ScanTicket)
	r.Get("/api/scans/{ticketId}", h.ScanHistory)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type scanRequest struct {
	TicketID string `json:"ticket_id"`
}

type scanResponse struct {
	scan.Result
	Admissible bool `json:"admissible"`
}

// ScanTicket classifies a scanned identifier against the ledger, records
// the decision in the audit trail and publishes admissions.
func (h *Handler) ScanTicket(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.TicketID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ticket_id is required"})
		return
	}

	start := time.Now()
	result := h.Validator.Validate(r.Context(), req.TicketID)
	h.Metrics.LedgerLatency.Observe(time.Since(start).Seconds())
	h.Metrics.ScansTotal.WithLabelValues(string(result.Classification)).Inc()

	operator := auth.UserID(r.Context())
	record := models.ScanRecord{
		ID:             uuid.New().String(),
		TicketID:       req.TicketID,
		EventID:        result.EventID,
		TicketNumber:   result.TicketNumber,
		Classification: string(result.Classification),
		Operator:       operator,
		Reason:         result.Reason,
		ScannedAt:      time.Now(),
	}
	if err := h.Audit.RecordScan(r.Context(), record); err != nil {
		// Audit failures degrade to logging; the verdict stands.
		h.Metrics.AuditFailures.Inc()
		h.Logger.Error("AUDIT", fmt.Sprintf("recording scan of %s: %v", req.TicketID, err))
	}

	if result.Classification.Admissible() && h.Publisher != nil {
		notice := models.CheckinNotice{
			TicketID:       req.TicketID,
			EventID:        result.EventID,
			TicketNumber:   result.TicketNumber,
			Operator:       operator,
			Classification: string(result.Classification),
			ScannedAt:      record.ScannedAt,
		}
		if err := h.Publisher.TicketCheckin(notice); err != nil {
			h.Logger.Warn("KAFKA", fmt.Sprintf("publishing checkin for %s: %v", req.TicketID, err))
		}
	}

	status := http.StatusOK
	if result.Classification == scan.ClassMalformed {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, scanResponse{Result: result, Admissible: result.Classification.Admissible()})
}

// ScanHistory returns the audit trail for one ticket.
func (h *Handler) ScanHistory(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketId")

	records, err := h.Audit.ScansForTicket(r.Context(), ticketID)
	if err != nil {
		h.Logger.Error("AUDIT", fmt.Sprintf("loading scans for %s: %v", ticketID, err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load scan history"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ticket_id": ticketID,
		"scans":     records,
	})
}
