package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/payalife/lms-backend/internal/api/httpx"
	"github.com/payalife/lms-backend/internal/middleware"
	"github.com/payalife/lms-backend/internal/models"
	repo "github.com/payalife/lms-backend/internal/repository"
	"github.com/payalife/lms-backend/internal/services"
)

const (
	defaultPageSize = 12
	maxPageSize     = 50
)

type CourseHandler struct {
	svc *services.CourseService
	log *slog.Logger
}

func NewCourseHandler(svc *services.CourseService, log *slog.Logger) *CourseHandler {
	return &CourseHandler{svc: svc, log: log}
}

type courseListResp struct {
	Courses []models.Course `json:"courses"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// List serves the public catalog with category, search, and pagination
// query parameters.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	list, err := h.svc.List(r.Context(), repo.CourseFilter{
		Search: q.Get("search"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}, q.Get("category"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, courseListResp{
		Courses: list.Courses,
		Total:   list.Total,
		Page:    page,
		Limit:   limit,
	})
}

type courseDetailResp struct {
	models.Course
	IsEnrolled bool `json:"is_enrolled"`
}

func (h *CourseHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	var viewer *models.User
	if u, ok := middleware.UserFrom(r.Context()); ok {
		viewer = &u
	}
	detail, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"), viewer)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, courseDetailResp{Course: detail.Course, IsEnrolled: detail.IsEnrolled})
}

type enrollResp struct {
	Enrolled   bool   `json:"enrolled"`
	PaymentURL string `json:"payment_url,omitempty"`
	Authority  string `json:"authority,omitempty"`
}

// Enroll enrolls directly for free courses and returns a gateway redirect
// URL for paid ones.
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	res, err := h.svc.Enroll(r.Context(), user, chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	status := http.StatusOK
	if res.Enrolled {
		status = http.StatusCreated
	}
	httpx.OK(w, status, enrollResp{Enrolled: res.Enrolled, PaymentURL: res.PaymentURL, Authority: res.Authority})
}

func (h *CourseHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, cats)
}
