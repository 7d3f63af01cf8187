// Package session implements server-side browser sessions: a Store keeps the
// payload, the Manager maps it to a cookie and the Session carries one-shot
// flash messages between requests.
package session

import (
	"context"
	"time"
)

// ContextKey is the echo context key under which the current *Session is stored.
const ContextKey = "session"

// Data is the persisted session payload.
type Data struct {
	UserID       int64  `json:"userId,omitempty"`
	Username     string `json:"username,omitempty"`
	Message      string `json:"message,omitempty"`
	AlertMessage string `json:"alert_message,omitempty"`
}

// Store persists session payloads by id.
type Store interface {
	// Load reports found=false for unknown or expired ids.
	Load(ctx context.Context, id string) (Data, bool, error)
	Save(ctx context.Context, id string, data Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Session is the state of one browser session during a single request.
// It is not shared between goroutines.
type Session struct {
	id        string
	data      Data
	dirty     bool
	rotate    bool
	destroyed bool
}

func (s *Session) ID() string       { return s.id }
func (s *Session) UserID() int64    { return s.data.UserID }
func (s *Session) Username() string { return s.data.Username }

// Authenticated reports whether a user is logged in on this session.
func (s *Session) Authenticated() bool {
	return !s.destroyed && s.data.UserID != 0
}

// Login binds the session to a user. The session id is replaced on commit.
func (s *Session) Login(userID int64, username string) {
	s.data.UserID = userID
	s.data.Username = username
	s.dirty = true
	s.rotate = true
}

func (s *Session) SetMessage(msg string) {
	s.data.Message = msg
	s.dirty = true
}

func (s *Session) SetAlert(msg string) {
	s.data.AlertMessage = msg
	s.dirty = true
}

// TakeMessage returns the pending message and clears it.
func (s *Session) TakeMessage() string {
	msg := s.data.Message
	if msg != "" {
		s.data.Message = ""
		s.dirty = true
	}
	return msg
}

// TakeAlert returns the pending alert message and clears it.
func (s *Session) TakeAlert() string {
	msg := s.data.AlertMessage
	if msg != "" {
		s.data.AlertMessage = ""
		s.dirty = true
	}
	return msg
}

// Destroy drops all session state. The stored payload and the cookie are
// removed on commit.
func (s *Session) Destroy() {
	s.data = Data{}
	s.destroyed = true
}
