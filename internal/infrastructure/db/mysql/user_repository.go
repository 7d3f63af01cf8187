package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"github.com/userhub/user-management/internal/core/domain"
	"github.com/userhub/user-management/internal/core/ports"
)

// errDuplicateEntry is ER_DUP_ENTRY.
const errDuplicateEntry = 1062

// DBTX is the subset of database/sql used by the repository.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UserRepository implements ports.UserRepository on the MySQL users table.
type UserRepository struct {
	db  DBTX
	log zerolog.Logger
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db DBTX, log zerolog.Logger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "exists by username",
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, username)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "exists by email",
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email)
}

func (r *UserRepository) ExistsByUsernameExcludingID(ctx context.Context, username string, id int64) (bool, error) {
	return r.exists(ctx, "exists by username excluding id",
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = ? AND id <> ?)`, username, id)
}

func (r *UserRepository) ExistsByEmailExcludingID(ctx context.Context, email string, id int64) (bool, error) {
	return r.exists(ctx, "exists by email excluding id",
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = ? AND id <> ?)`, email, id)
}

func (r *UserRepository) exists(ctx context.Context, op, query string, args ...any) (bool, error) {
	var found bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
		return false, r.fail(op, err, map[string]any{"args": args})
	}
	return found, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query :=
		`SELECT id, name, last_name, username, email, password FROM users
		 WHERE username = ?`

	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&u.ID, &u.Name, &u.LastName, &u.Username, &u.Email, &u.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, r.fail("find by username", err, map[string]any{"username": username})
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query :=
		`SELECT id, name, last_name, username, email, password FROM users
		 WHERE id = ?`

	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Name, &u.LastName, &u.Username, &u.Email, &u.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, r.fail("find by id", err, map[string]any{"user_id": id})
	}
	return u, nil
}

func (r *UserRepository) FindProfileByID(ctx context.Context, id int64) (*domain.UserProfile, error) {
	query :=
		`SELECT id, name, last_name, username, email FROM users
		 WHERE id = ?`

	p := &domain.UserProfile{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.LastName, &p.Username, &p.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, r.fail("find profile by id", err, map[string]any{"user_id": id})
	}
	return p, nil
}

func (r *UserRepository) List(ctx context.Context, page, count int) ([]domain.UserProfile, int64, error) {
	query :=
		`SELECT id, name, last_name, username, email FROM users
		 ORDER BY id
		 LIMIT ? OFFSET ?`

	offset := (page - 1) * count
	fields := map[string]any{"page": page, "count": count}

	rows, err := r.db.QueryContext(ctx, query, count, offset)
	if err != nil {
		return nil, 0, r.fail("list users", err, fields)
	}
	defer rows.Close()

	users := make([]domain.UserProfile, 0, count)
	for rows.Next() {
		var p domain.UserProfile
		if err := rows.Scan(&p.ID, &p.Name, &p.LastName, &p.Username, &p.Email); err != nil {
			return nil, 0, r.fail("scan user", err, fields)
		}
		users = append(users, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.fail("iterate users", err, fields)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, r.fail("count users", err, fields)
	}

	return users, total, nil
}

func (r *UserRepository) Insert(ctx context.Context, user *domain.User) error {
	query :=
		`INSERT INTO users (name, last_name, username, email, password)
		 VALUES (?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		user.Name, user.LastName, user.Username, user.Email, user.Password)
	if err != nil {
		if conflict := duplicateEntry(err); conflict != nil {
			return conflict
		}
		return r.fail("insert user", err, map[string]any{"username": user.Username})
	}

	id, err := res.LastInsertId()
	if err != nil {
		return r.fail("insert user id", err, map[string]any{"username": user.Username})
	}
	user.ID = id
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query :=
		`UPDATE users SET name = ?, last_name = ?, email = ?, username = ?
		 WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		user.Name, user.LastName, user.Email, user.Username, user.ID)
	if err != nil {
		if conflict := duplicateEntry(err); conflict != nil {
			return conflict
		}
		return r.fail("update user", err, map[string]any{"user_id": user.ID})
	}

	n, err := res.RowsAffected()
	if err != nil {
		return r.fail("update user rows", err, map[string]any{"user_id": user.ID})
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, r.fail("delete user", err, map[string]any{"user_id": id})
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, r.fail("delete user rows", err, map[string]any{"user_id": id})
	}
	return n > 0, nil
}

// fail logs a store failure and wraps it in domain.ErrStore.
func (r *UserRepository) fail(op string, err error, fields map[string]any) error {
	r.log.Error().Err(err).Str("op", op).Fields(fields).Msg("user repository failure")
	return fmt.Errorf("%w: %s: %w", domain.ErrStore, op, err)
}

// duplicateEntry maps a unique index violation to the matching conflict error.
func duplicateEntry(err error) error {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) || myErr.Number != errDuplicateEntry {
		return nil
	}
	if strings.Contains(myErr.Message, "uq_users_email") {
		return domain.ErrEmailTaken
	}
	return domain.ErrUsernameTaken
}
