package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/payalife/lms-backend/internal/api/httpx"
	"github.com/payalife/lms-backend/internal/api/validate"
	"github.com/payalife/lms-backend/internal/middleware"
	"github.com/payalife/lms-backend/internal/services"
)

type InstructorHandler struct {
	svc *services.InstructorService
	log *slog.Logger
}

func NewInstructorHandler(svc *services.InstructorService, log *slog.Logger) *InstructorHandler {
	return &InstructorHandler{svc: svc, log: log}
}

// RequestUpgrade files the student's application to become an instructor.
func (h *InstructorHandler) RequestUpgrade(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	req, err := h.svc.RequestUpgrade(r.Context(), user)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusCreated, req)
}

type courseReq struct {
	Title       string  `json:"title" validate:"required,min=3,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Price       int64   `json:"price" validate:"gte=0"`
	CategoryID  string  `json:"category_id" validate:"required,uuid"`
	Thumbnail   *string `json:"thumbnail" validate:"omitempty,max=500"`
}

func (r courseReq) input() services.CourseInput {
	return services.CourseInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       &r.Price,
		CategoryID:  r.CategoryID,
		Thumbnail:   r.Thumbnail,
	}
}

func (h *InstructorHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseReq
	if fields, err := validate.DecodeJSON(r, &req); err != nil {
		httpx.ErrorData(w, http.StatusBadRequest, "invalid request", fields)
		return
	}
	user, _ := middleware.UserFrom(r.Context())
	course, err := h.svc.CreateCourse(r.Context(), user, req.input())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusCreated, course)
}

type courseUpdateReq struct {
	Title       string  `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0"`
	CategoryID  string  `json:"category_id" validate:"omitempty,uuid"`
	Thumbnail   *string `json:"thumbnail" validate:"omitempty,max=500"`
}

func (h *InstructorHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseUpdateReq
	if fields, err := validate.DecodeJSON(r, &req); err != nil {
		httpx.ErrorData(w, http.StatusBadRequest, "invalid request", fields)
		return
	}
	user, _ := middleware.UserFrom(r.Context())
	course, err := h.svc.UpdateCourse(r.Context(), user, chi.URLParam(r, "id"), services.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Thumbnail:   req.Thumbnail,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, course)
}

type lessonReq struct {
	Title      string `json:"title" validate:"required,min=2,max=200"`
	VideoURL   string `json:"video_url" validate:"required,max=500"`
	OrderIndex int    `json:"order_index" validate:"gte=0"`
	Duration   *int   `json:"duration" validate:"omitempty,gt=0"`
	IsFree     bool   `json:"is_free"`
}

func (h *InstructorHandler) AddLesson(w http.ResponseWriter, r *http.Request) {
	var req lessonReq
	if fields, err := validate.DecodeJSON(r, &req); err != nil {
		httpx.ErrorData(w, http.StatusBadRequest, "invalid request", fields)
		return
	}
	user, _ := middleware.UserFrom(r.Context())
	lesson, err := h.svc.AddLesson(r.Context(), user, chi.URLParam(r, "id"), services.LessonInput{
		Title:      req.Title,
		VideoURL:   req.VideoURL,
		OrderIndex: req.OrderIndex,
		Duration:   req.Duration,
		IsFree:     req.IsFree,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusCreated, lesson)
}

func (h *InstructorHandler) MyCourses(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	courses, err := h.svc.MyCourses(r.Context(), user)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, courses)
}

func (h *InstructorHandler) Sales(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	sales, err := h.svc.Sales(r.Context(), user)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, sales)
}
