package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/payalife/lms-backend/internal/api/httpx"
	repo "github.com/payalife/lms-backend/internal/repository"
	"github.com/payalife/lms-backend/internal/services"
)

// writeError maps service errors to HTTP statuses. Anything unrecognized is
// logged and reported as a bare 500.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrForbidden):
		httpx.Error(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, services.ErrSessionExpired):
		httpx.Error(w, http.StatusUnauthorized, "session expired")
	case errors.Is(err, services.ErrRateLimited):
		httpx.Error(w, http.StatusBadRequest, "too many code requests, try again later")
	case errors.Is(err, services.ErrCodeInvalid):
		httpx.Error(w, http.StatusBadRequest, "invalid or expired code")
	case errors.Is(err, services.ErrDispatch):
		httpx.Error(w, http.StatusBadGateway, "could not send code, try again")
	case errors.Is(err, services.ErrAlreadyEnrolled):
		httpx.Error(w, http.StatusBadRequest, "already enrolled in this course")
	case errors.Is(err, services.ErrNotPublished):
		httpx.Error(w, http.StatusBadRequest, "course is not available")
	case errors.Is(err, services.ErrDuplicateRequest):
		httpx.Error(w, http.StatusConflict, "a request is already pending")
	case errors.Is(err, services.ErrCategoryNotFound):
		httpx.Error(w, http.StatusBadRequest, "unknown category")
	case errors.Is(err, repo.ErrDuplicate):
		httpx.Error(w, http.StatusConflict, "conflict")
	default:
		log.Error("request failed", "error", err)
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}
