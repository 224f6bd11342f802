package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/payalife/lms-backend/internal/api/httpx"
	"github.com/payalife/lms-backend/internal/api/validate"
	"github.com/payalife/lms-backend/internal/middleware"
	"github.com/payalife/lms-backend/internal/services"
	"github.com/payalife/lms-backend/internal/upload"
)

// MeHandler serves the signed-in user's profile and library.
type MeHandler struct {
	users   *services.UserService
	certs   *services.CertificateService
	uploads *upload.Store
	log     *slog.Logger
}

func NewMeHandler(users *services.UserService, certs *services.CertificateService, uploads *upload.Store, log *slog.Logger) *MeHandler {
	return &MeHandler{users: users, certs: certs, uploads: uploads, log: log}
}

func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	httpx.OK(w, http.StatusOK, user)
}

type updateProfileReq struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=100"`
	Avatar *string `json:"avatar" validate:"omitempty,max=500"`
}

func (h *MeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProfileReq
	if fields, err := validate.DecodeJSON(r, &req); err != nil {
		httpx.ErrorData(w, http.StatusBadRequest, "invalid request", fields)
		return
	}
	user, _ := middleware.UserFrom(r.Context())
	updated, err := h.users.UpdateProfile(r.Context(), user, req.Name, req.Avatar)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, updated)
}

// UploadAvatar accepts a multipart "avatar" image and stores its public
// path on the profile.
func (h *MeHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("avatar")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	path, err := h.uploads.SaveImage(file, header)
	if err != nil {
		if errors.Is(err, upload.ErrUnsupportedType) || errors.Is(err, upload.ErrTooLarge) {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, h.log, err)
		return
	}

	user, _ := middleware.UserFrom(r.Context())
	updated, err := h.users.UpdateProfile(r.Context(), user, nil, &path)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, updated)
}

func (h *MeHandler) Courses(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	courses, err := h.users.MyCourses(r.Context(), user.ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, courses)
}

func (h *MeHandler) Certificates(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	certs, err := h.certs.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OK(w, http.StatusOK, certs)
}
