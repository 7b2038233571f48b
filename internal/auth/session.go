// Package auth establishes who is making a request: password digests,
// server-side sessions and the signed cookie that points at them.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const CookieName = "jobboard_session"

var ErrInvalidToken = errors.New("invalid session token")

// SessionManager issues and resolves login sessions. The cookie holds an
// HS256-signed token naming the session id and user id; the session itself
// lives in the store so logout revokes it even if the cookie is replayed.
type SessionManager struct {
	store       SessionStore
	secret      []byte
	ttl         time.Duration
	rememberTTL time.Duration
	secure      bool
	now         func() time.Time
}

type SessionOptions struct {
	Secret      string
	TTL         time.Duration
	RememberTTL time.Duration
	Secure      bool
}

func NewSessionManager(store SessionStore, opts SessionOptions) *SessionManager {
	return &SessionManager{
		store:       store,
		secret:      []byte(opts.Secret),
		ttl:         opts.TTL,
		rememberTTL: opts.RememberTTL,
		secure:      opts.Secure,
		now:         time.Now,
	}
}

// Login starts a session for userID. With remember the cookie persists for
// RememberTTL; otherwise it is a browser-session cookie backed by TTL.
func (m *SessionManager) Login(ctx context.Context, w http.ResponseWriter, userID uint, remember bool) error {
	ttl := m.ttl
	if remember {
		ttl = m.rememberTTL
	}

	sid := uuid.NewString()
	if err := m.store.Save(ctx, sid, userID, ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	now := m.now()
	claims := jwt.RegisteredClaims{
		ID:        sid,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	cookie := m.cookie(token)
	if remember {
		cookie.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}

// UserID resolves the request's session to a user id.
func (m *SessionManager) UserID(r *http.Request) (uint, error) {
	claims, err := m.claims(r)
	if err != nil {
		return 0, err
	}

	uid, err := m.store.Get(r.Context(), claims.ID)
	if err != nil {
		return 0, err
	}
	if strconv.FormatUint(uint64(uid), 10) != claims.Subject {
		return 0, ErrInvalidToken
	}
	return uid, nil
}

// Logout revokes the current session, if any, and expires the cookie. It is
// safe to call without a session.
func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	var err error
	if claims, cerr := m.claims(r); cerr == nil {
		err = m.store.Delete(r.Context(), claims.ID)
	}

	cookie := m.cookie("")
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
	return err
}

func (m *SessionManager) claims(r *http.Request) (*jwt.RegisteredClaims, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil, ErrSessionNotFound
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(c.Value, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *SessionManager) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
	}
}
