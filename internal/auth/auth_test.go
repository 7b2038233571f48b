package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("mypassword")
	require.NoError(t, err)
	assert.NotEqual(t, "mypassword", hash)
	assert.True(t, h.Verify("mypassword", hash))
	assert.False(t, h.Verify("wrongpassword", hash))

	other, err := h.Hash("mypassword")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "digests are salted")
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/"},
		{"/profile", "/profile"},
		{"/job/3/edit?x=1", "/job/3/edit?x=1"},
		{"https://evil.example/", "/"},
		{"//evil.example/", "/"},
		{"/\\evil.example", "/"},
		{"profile", "/"},
		{"javascript:alert(1)", "/"},
		{"/a\r\nSet-Cookie: x=1", "/"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SafeNext(tc.next, "/"), "next=%q", tc.next)
	}
}

func testStores(t *testing.T) map[string]SessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return map[string]SessionStore{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(rdb),
	}
}

func TestSessionStores(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrSessionNotFound)

			require.NoError(t, store.Save(ctx, "sid-1", 42, time.Hour))
			uid, err := store.Get(ctx, "sid-1")
			require.NoError(t, err)
			assert.Equal(t, uint(42), uid)

			require.NoError(t, store.Delete(ctx, "sid-1"))
			_, err = store.Get(ctx, "sid-1")
			assert.ErrorIs(t, err, ErrSessionNotFound)

			require.NoError(t, store.Delete(ctx, "sid-1"), "delete is idempotent")
		})
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(context.Background(), "sid", 1, time.Minute))
	now = now.Add(2 * time.Minute)

	_, err := s.Get(context.Background(), "sid")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func newManager(store SessionStore) *SessionManager {
	return NewSessionManager(store, SessionOptions{
		Secret:      "test-secret",
		TTL:         time.Hour,
		RememberTTL: 24 * time.Hour,
	})
}

// requestWith replays the cookies set on rec onto a fresh request.
func requestWith(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionManager_LoginResolveLogout(t *testing.T) {
	m := newManager(NewMemoryStore())

	rec := httptest.NewRecorder()
	require.NoError(t, m.Login(context.Background(), rec, 7, false))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Zero(t, cookies[0].MaxAge, "browser-session cookie without remember")

	req := requestWith(rec)
	uid, err := m.UserID(req)
	require.NoError(t, err)
	assert.Equal(t, uint(7), uid)

	out := httptest.NewRecorder()
	require.NoError(t, m.Logout(out, req))
	cleared := out.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	// Replaying the old cookie after logout must not authenticate.
	_, err = m.UserID(req)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionManager_Remember(t *testing.T) {
	m := newManager(NewMemoryStore())

	rec := httptest.NewRecorder()
	require.NoError(t, m.Login(context.Background(), rec, 7, true))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, int((24 * time.Hour).Seconds()), cookies[0].MaxAge)
}

func TestSessionManager_LogoutWithoutSession(t *testing.T) {
	m := newManager(NewMemoryStore())

	rec := httptest.NewRecorder()
	assert.NoError(t, m.Logout(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestSessionManager_RejectsForgedToken(t *testing.T) {
	store := NewMemoryStore()
	good := newManager(store)
	forger := NewSessionManager(store, SessionOptions{Secret: "other", TTL: time.Hour})

	rec := httptest.NewRecorder()
	require.NoError(t, forger.Login(context.Background(), rec, 1, false))

	_, err := good.UserID(requestWith(rec))
	assert.ErrorIs(t, err, ErrInvalidToken)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	_, err = good.UserID(req)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionManager_ExpiredToken(t *testing.T) {
	m := newManager(NewMemoryStore())
	rec := httptest.NewRecorder()
	require.NoError(t, m.Login(context.Background(), rec, 1, false))

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err := m.UserID(requestWith(rec))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
