package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultTTL = 24 * time.Hour

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager loads sessions from a Store and commits them back, producing the
// cookie the response must carry.
type Manager struct {
	store Store
	opts  Options
	newID func() string
}

func NewManager(store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "session-id"
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	return &Manager{store: store, opts: opts, newID: uuid.NewString}
}

func (m *Manager) CookieName() string {
	return m.opts.CookieName
}

// Load returns the session stored under id, or a fresh unsaved session when
// id is empty or unknown.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return &Session{}, nil
	}

	data, found, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return &Session{}, nil
	}
	return &Session{id: id, data: data}, nil
}

// Commit persists s if it changed. It returns the cookie to set on the
// response, or nil when the client cookie is already correct.
// A fresh session that was never modified is not saved.
func (m *Manager) Commit(ctx context.Context, s *Session) (*http.Cookie, error) {
	if s.destroyed {
		if s.id != "" {
			if err := m.store.Delete(ctx, s.id); err != nil {
				return nil, err
			}
		}
		return m.cookie("", -1), nil
	}

	if !s.dirty {
		return nil, nil
	}

	if s.rotate && s.id != "" {
		if err := m.store.Delete(ctx, s.id); err != nil {
			return nil, fmt.Errorf("rotate session: %w", err)
		}
		s.id = ""
	}
	if s.id == "" {
		s.id = m.newID()
	}

	if err := m.store.Save(ctx, s.id, s.data, m.opts.TTL); err != nil {
		return nil, err
	}
	s.dirty = false
	s.rotate = false

	return m.cookie(s.id, int(m.opts.TTL.Seconds())), nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
