package domain

import "time"

// UserEventType names a change to a user record.
type UserEventType string

const (
	UserRegistered UserEventType = "user.registered"
	UserUpdated    UserEventType = "user.updated"
	UserDeleted    UserEventType = "user.deleted"
)

// UserEvent is published after a user record changes. It never carries the
// password hash.
type UserEvent struct {
	Type       UserEventType `json:"type"`
	UserID     int64         `json:"user_id"`
	Username   string        `json:"username,omitempty"`
	Email      string        `json:"email,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}
