package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/userhub/user-management/internal/infrastructure/session"
)

type memoryStore struct {
	mu      sync.Mutex
	data    map[string]session.Data
	loadErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]session.Data)}
}

func (m *memoryStore) Load(_ context.Context, id string) (session.Data, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return session.Data{}, false, m.loadErr
	}
	d, ok := m.data[id]
	return d, ok, nil
}

func (m *memoryStore) Save(_ context.Context, id string, data session.Data, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = data
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func serve(t *testing.T, mw echo.MiddlewareFunc, cookie *http.Cookie, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := mw(h)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session-id" {
			return c
		}
	}
	return nil
}

func TestSession_FlashSurvivesOneRequest(t *testing.T) {
	store := newMemoryStore()
	mw := Session(session.NewManager(store, session.Options{}), zerolog.Nop())

	rec := serve(t, mw, nil, func(c echo.Context) error {
		sess := c.Get(session.ContextKey).(*session.Session)
		sess.SetMessage("Registration Successful")
		return c.NoContent(http.StatusOK)
	})
	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)

	var got string
	serve(t, mw, cookie, func(c echo.Context) error {
		got = c.Get(session.ContextKey).(*session.Session).TakeMessage()
		return c.NoContent(http.StatusOK)
	})
	require.Equal(t, "Registration Successful", got)

	serve(t, mw, cookie, func(c echo.Context) error {
		got = c.Get(session.ContextKey).(*session.Session).TakeMessage()
		return c.NoContent(http.StatusOK)
	})
	require.Empty(t, got)
}

func TestSession_UntouchedSessionSetsNoCookie(t *testing.T) {
	store := newMemoryStore()
	mw := Session(session.NewManager(store, session.Options{}), zerolog.Nop())

	rec := serve(t, mw, nil, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.Nil(t, sessionCookie(t, rec))
	require.Empty(t, store.data)
}

func TestSession_DestroyExpiresCookie(t *testing.T) {
	store := newMemoryStore()
	mw := Session(session.NewManager(store, session.Options{}), zerolog.Nop())

	rec := serve(t, mw, nil, func(c echo.Context) error {
		c.Get(session.ContextKey).(*session.Session).Login(7, "alice")
		return c.NoContent(http.StatusOK)
	})
	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	require.Len(t, store.data, 1)

	rec = serve(t, mw, cookie, func(c echo.Context) error {
		c.Get(session.ContextKey).(*session.Session).Destroy()
		return c.Redirect(http.StatusFound, "/login")
	})
	expired := sessionCookie(t, rec)
	require.NotNil(t, expired)
	require.Empty(t, expired.Value)
	require.Less(t, expired.MaxAge, 0)
	require.Empty(t, store.data)
}

func TestSession_StoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.loadErr = errors.New("redis down")
	mw := Session(session.NewManager(store, session.Options{}), zerolog.Nop())

	rec := serve(t, mw, &http.Cookie{Name: "session-id", Value: "abc"}, func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireLogin(t *testing.T) {
	store := newMemoryStore()
	mw := Session(session.NewManager(store, session.Options{}), zerolog.Nop())
	guarded := func(next echo.HandlerFunc) echo.HandlerFunc { return mw(RequireLogin(next)) }

	rec := serve(t, guarded, nil, func(c echo.Context) error {
		t.Fatalf("anonymous request reached handler")
		return nil
	})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	store.data["known"] = session.Data{UserID: 3, Username: "carol"}
	called := false
	rec = serve(t, guarded, &http.Cookie{Name: "session-id", Value: "known"}, func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)
}
