package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/payalife/lms-backend/internal/api/httpx"
	"github.com/payalife/lms-backend/internal/middleware"
	"github.com/payalife/lms-backend/internal/services"
)

type CertificateHandler struct {
	svc *services.CertificateService
	log *slog.Logger
}

func NewCertificateHandler(svc *services.CertificateService, log *slog.Logger) *CertificateHandler {
	return &CertificateHandler{svc: svc, log: log}
}

func (h *CertificateHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	cert, err := h.svc.GetForUser(r.Context(), chi.URLParam(r, "id"), user)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, cert)
}

// Download streams the certificate PDF.
func (h *CertificateHandler) Download(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	id := chi.URLParam(r, "id")
	out, err := h.svc.Render(r.Context(), id, user)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="certificate-%s.pdf"`, id))
	_, _ = w.Write(out)
}

// Verify is public; QR codes on printed certificates resolve here.
func (h *CertificateHandler) Verify(w http.ResponseWriter, r *http.Request) {
	cert, err := h.svc.Verify(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, cert)
}
