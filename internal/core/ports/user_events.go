package ports

import (
	"context"

	"github.com/userhub/user-management/internal/core/domain"
)

// UserEventQueue accepts user events for asynchronous delivery. Enqueue must
// not block the caller; it reports false when the event was dropped.
type UserEventQueue interface {
	Enqueue(event domain.UserEvent) bool
}

// UserEventPublisher delivers one event to the message broker.
type UserEventPublisher interface {
	Publish(ctx context.Context, event domain.UserEvent) error
}
