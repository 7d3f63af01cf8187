package ports

import (
	"context"

	"github.com/userhub/user-management/internal/core/domain"
)

// AuthService issues bearer tokens for API clients.
type AuthService interface {
	IssueToken(ctx context.Context, username, password string) (string, *domain.User, error)
}
