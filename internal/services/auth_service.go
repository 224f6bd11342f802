package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/payalife/lms-backend/internal/auth"
	"github.com/payalife/lms-backend/internal/models"
	repo "github.com/payalife/lms-backend/internal/repository"
)

// AuthService turns a verified phone into an authenticated session.
// There is no password path; the OTP is the sole credential.
type AuthService struct {
	users    repo.Users
	sessions repo.Sessions
	otp      *OTPService
	tokens   *auth.TokenManager
	log      *slog.Logger
}

func NewAuthService(users repo.Users, sessions repo.Sessions, otp *OTPService, tokens *auth.TokenManager, log *slog.Logger) *AuthService {
	return &AuthService{users: users, sessions: sessions, otp: otp, tokens: tokens, log: log}
}

// Login verifies the code, finds or creates the user, and opens a session.
// First-time phones get a STUDENT account with no name. Returns the user and
// the signed cookie value for the session.
func (s *AuthService) Login(ctx context.Context, phone, code string) (models.User, string, error) {
	if err := s.otp.VerifyCode(ctx, phone, code); err != nil {
		return models.User{}, "", err
	}

	user, err := s.users.GetByPhone(ctx, phone)
	if errors.Is(err, repo.ErrNotFound) {
		user, err = s.users.Create(ctx, models.User{Phone: phone, Role: models.RoleStudent})
		if err != nil {
			return models.User{}, "", fmt.Errorf("create user: %w", err)
		}
		s.log.Info("user registered", "user_id", user.ID, "phone", phone)
	} else if err != nil {
		return models.User{}, "", fmt.Errorf("load user: %w", err)
	}

	sess, err := s.sessions.Create(ctx, user.ID, s.tokens.TTL())
	if err != nil {
		return models.User{}, "", fmt.Errorf("create session: %w", err)
	}
	token, err := s.tokens.Sign(sess.ID)
	if err != nil {
		return models.User{}, "", fmt.Errorf("sign session: %w", err)
	}
	return user, token, nil
}

// Authenticate resolves a cookie value to its user and session ID. The token
// only names a server-side session row, so deleting the row revokes the
// cookie.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.User, string, error) {
	sessionID, err := s.tokens.Parse(token)
	if err != nil {
		return models.User{}, "", ErrSessionExpired
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return models.User{}, "", ErrSessionExpired
	}
	if sess.Expired(nowUTC()) {
		_ = s.sessions.Delete(ctx, sess.ID)
		return models.User{}, "", ErrSessionExpired
	}
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return models.User{}, "", ErrSessionExpired
	}
	return user, sess.ID, nil
}

// Logout deletes the session row. Missing rows are fine; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
