package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the session cookie issued on successful OTP verification.
const CookieName = "lms_session"

// TokenManager signs and parses the session cookie value. The cookie only
// wraps the server-side session ID; revocation happens by deleting the
// session row, not by token expiry alone.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (tm *TokenManager) Sign(sessionID string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(tm.secret)
}

func (tm *TokenManager) Parse(token string) (sessionID string, err error) {
	claims := &sessionClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return "", err
	}
	if claims.SessionID == "" {
		return "", errors.New("missing session id")
	}
	return claims.SessionID, nil
}

func (tm *TokenManager) TTL() time.Duration { return tm.ttl }
