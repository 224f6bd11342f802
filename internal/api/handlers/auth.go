package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/payalife/lms-backend/internal/api/httpx"
	"github.com/payalife/lms-backend/internal/api/validate"
	"github.com/payalife/lms-backend/internal/auth"
	"github.com/payalife/lms-backend/internal/middleware"
	"github.com/payalife/lms-backend/internal/services"
)

type AuthHandler struct {
	authSvc *services.AuthService
	otpSvc  *services.OTPService
	secure  bool
	log     *slog.Logger
}

// NewAuthHandler builds the OTP login surface. secure controls the cookie's
// Secure flag and is false only in local development.
func NewAuthHandler(authSvc *services.AuthService, otpSvc *services.OTPService, secure bool, log *slog.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, otpSvc: otpSvc, secure: secure, log: log}
}

type sendOTPReq struct {
	Phone string `json:"phone" validate:"required,phone_ir"`
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPReq
	if fields, err := validate.DecodeJSON(r, &req); err != nil {
		httpx.ErrorData(w, http.StatusBadRequest, "invalid request", fields)
		return
	}
	if err := h.otpSvc.RequestCode(r.Context(), req.Phone); err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.OKMessage(w, http.StatusOK, "code sent")
}

type verifyOTPReq struct {
	Phone string `json:"phone" validate:"required,phone_ir"`
	Code  string `json:"code" validate:"required,len=6"`
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPReq
	if fields, err := validate.DecodeJSON(r, &req); err != nil {
		httpx.ErrorData(w, http.StatusBadRequest, "invalid request", fields)
		return
	}
	user, token, err := h.authSvc.Login(r.Context(), req.Phone, req.Code)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	h.setSessionCookie(w, token)
	httpx.OK(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := middleware.SessionIDFrom(r.Context()); ok {
		if err := h.authSvc.Logout(r.Context(), sessionID); err != nil {
			writeError(w, h.log, err)
			return
		}
	}
	h.clearSessionCookie(w)
	httpx.OKMessage(w, http.StatusOK, "logged out")
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
