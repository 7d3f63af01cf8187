package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStore              = errors.New("repository failure")

	// ErrConflict marks a username or email already held by another user.
	ErrConflict      = errors.New("value already in use")
	ErrUsernameTaken = fmt.Errorf("%w: username", ErrConflict)
	ErrEmailTaken    = fmt.Errorf("%w: email", ErrConflict)
)

// User is a row of the users table. Password holds the bcrypt hash, never plaintext.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

// Profile returns the public projection of u.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:       u.ID,
		Name:     u.Name,
		LastName: u.LastName,
		Username: u.Username,
		Email:    u.Email,
	}
}

// UserProfile is the projection exposed by the API. It has no password field at all.
type UserProfile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserPage is one page of a user listing. Total counts every row in the table.
type UserPage struct {
	Users []UserProfile `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Count int           `json:"count"`
}
