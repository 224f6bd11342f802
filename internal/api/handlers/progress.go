package handlers

import (
	"log/slog"
	"net/http"

	"github.com/payalife/lms-backend/internal/api/httpx"
	"github.com/payalife/lms-backend/internal/api/validate"
	"github.com/payalife/lms-backend/internal/middleware"
	"github.com/payalife/lms-backend/internal/services"
)

type ProgressHandler struct {
	svc *services.ProgressService
	log *slog.Logger
}

func NewProgressHandler(svc *services.ProgressService, log *slog.Logger) *ProgressHandler {
	return &ProgressHandler{svc: svc, log: log}
}

type progressReq struct {
	LessonID    string `json:"lesson_id" validate:"required,uuid"`
	IsCompleted *bool  `json:"is_completed" validate:"required"`
}

// Update marks a lesson watched or unwatched for the signed-in user.
func (h *ProgressHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req progressReq
	if fields, err := validate.DecodeJSON(r, &req); err != nil {
		httpx.ErrorData(w, http.StatusBadRequest, "invalid request", fields)
		return
	}
	user, _ := middleware.UserFrom(r.Context())
	p, err := h.svc.Update(r.Context(), user, req.LessonID, *req.IsCompleted)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, p)
}
