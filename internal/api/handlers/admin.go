package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/payalife/lms-backend/internal/api/httpx"
	"github.com/payalife/lms-backend/internal/api/validate"
	"github.com/payalife/lms-backend/internal/models"
	"github.com/payalife/lms-backend/internal/services"
)

type AdminHandler struct {
	svc *services.AdminService
	log *slog.Logger
}

func NewAdminHandler(svc *services.AdminService, log *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: log}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, stats)
}

// InstructorRequests lists requests by state, PENDING by default.
func (h *AdminHandler) InstructorRequests(w http.ResponseWriter, r *http.Request) {
	status := models.RequestStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.RequestPending
	}
	if !status.Valid() {
		httpx.Error(w, http.StatusBadRequest, "invalid status filter")
		return
	}
	reqs, err := h.svc.ListInstructorRequests(r.Context(), status)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, reqs)
}

type reviewReq struct {
	Approve bool    `json:"approve"`
	Message *string `json:"message" validate:"omitempty,max=1000"`
}

func (h *AdminHandler) ReviewInstructorRequest(w http.ResponseWriter, r *http.Request) {
	var req reviewReq
	if fields, err := validate.DecodeJSON(r, &req); err != nil {
		httpx.ErrorData(w, http.StatusBadRequest, "invalid request", fields)
		return
	}
	out, err := h.svc.ReviewInstructorRequest(r.Context(), chi.URLParam(r, "id"), req.Approve, req.Message)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, out)
}

type publishReq struct {
	IsPublished *bool `json:"is_published" validate:"required"`
}

func (h *AdminHandler) SetCoursePublished(w http.ResponseWriter, r *http.Request) {
	var req publishReq
	if fields, err := validate.DecodeJSON(r, &req); err != nil {
		httpx.ErrorData(w, http.StatusBadRequest, "invalid request", fields)
		return
	}
	course, err := h.svc.SetCoursePublished(r.Context(), chi.URLParam(r, "id"), *req.IsPublished)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, course)
}

type categoryReq struct {
	Title string `json:"title" validate:"required,min=2,max=100"`
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryReq
	if fields, err := validate.DecodeJSON(r, &req); err != nil {
		httpx.ErrorData(w, http.StatusBadRequest, "invalid request", fields)
		return
	}
	cat, err := h.svc.CreateCategory(r.Context(), req.Title)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusCreated, cat)
}

func (h *AdminHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryReq
	if fields, err := validate.DecodeJSON(r, &req); err != nil {
		httpx.ErrorData(w, http.StatusBadRequest, "invalid request", fields)
		return
	}
	cat, err := h.svc.RenameCategory(r.Context(), chi.URLParam(r, "id"), req.Title)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, cat)
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "category deleted")
}
