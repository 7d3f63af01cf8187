package ports

import (
	"context"

	"github.com/userhub/user-management/internal/core/domain"
)

// RegisterUserInput carries the registration form. Password is plaintext here
// and is hashed before it reaches the repository.
type RegisterUserInput struct {
	Name     string
	LastName string
	Username string
	Email    string
	Password string
}

// UpdateUserInput carries the editable fields of an existing user.
type UpdateUserInput struct {
	ID       int64
	Name     string
	LastName string
	Username string
	Email    string
}

// ListUsersInput carries raw paging parameters; the service normalises them.
type ListUsersInput struct {
	Page  int
	Count int
}

// UserService defines the user use cases shared by the browser and API handlers.
type UserService interface {
	Register(ctx context.Context, input RegisterUserInput) (*domain.User, error)
	Update(ctx context.Context, input UpdateUserInput) error
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	GetProfile(ctx context.Context, id int64) (*domain.UserProfile, error)
	List(ctx context.Context, input ListUsersInput) (*domain.UserPage, error)
	Delete(ctx context.Context, id int64) error
}
