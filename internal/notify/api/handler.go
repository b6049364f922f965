package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"suicket/internal/logger"
	"suicket/internal/notify"
)

// Handler exposes the email relay contract:
// POST /api/send-ticket-email and GET /api/health.
type Handler struct {
	Dispatcher *notify.Dispatcher
	Logger     *logger.Logger
}

func NewHandler(dispatcher *notify.Dispatcher, log *logger.Logger) *Handler {
	return &Handler{Dispatcher: dispatcher, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/send-ticket-email", h.SendTicketEmail)
	r.Get("/api/health", h.Health)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *Handler) SendTicketEmail(w http.ResponseWriter, r *http.Request) {
	var req notify.TicketEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if err := h.Dispatcher.DispatchTicketEmail(r.Context(), req); err != nil {
		if errors.Is(err, notify.ErrMissingFields) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
			return
		}
		h.Logger.Error("EMAIL", "sending ticket email: "+err.Error())
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":   "Failed to send email",
			"details": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Email sent successfully",
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Email service is running",
	})
}
