package handlers

import (
	"log/slog"
	"net/http"

	"github.com/payalife/lms-backend/internal/services"
)

type PaymentHandler struct {
	svc *services.PaymentService
	log *slog.Logger
}

func NewPaymentHandler(svc *services.PaymentService, log *slog.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, log: log}
}

// Callback is the gateway's return endpoint. It always answers with a 302 to
// the frontend result page; the gateway's browser redirect must never land
// on a JSON error.
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	redirect := h.svc.HandleCallback(r.Context(), q.Get("Authority"), q.Get("Status"))
	http.Redirect(w, r, redirect, http.StatusFound)
}
