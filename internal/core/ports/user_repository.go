package ports

import (
	"context"

	"github.com/userhub/user-management/internal/core/domain"
)

// UserRepository defines persistence operations on the users table.
// Every store failure is returned wrapped in domain.ErrStore.
type UserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByUsernameExcludingID ignores the row whose id equals id.
	ExistsByUsernameExcludingID(ctx context.Context, username string, id int64) (bool, error)
	ExistsByEmailExcludingID(ctx context.Context, email string, id int64) (bool, error)

	// FindByUsername and FindByID return the full row, password hash included,
	// or domain.ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindProfileByID(ctx context.Context, id int64) (*domain.UserProfile, error)

	// List returns the profiles at offset (page-1)*count ordered by id, and the total row count.
	List(ctx context.Context, page, count int) ([]domain.UserProfile, int64, error)

	// Insert stores user and sets user.ID.
	Insert(ctx context.Context, user *domain.User) error
	// Update overwrites name, last name, username and email of the row with user.ID.
	Update(ctx context.Context, user *domain.User) error
	// DeleteByID reports false when no row matched.
	DeleteByID(ctx context.Context, id int64) (bool, error)
}
