package handler

import "github.com/userhub/user-management/internal/core/domain"

// Request bodies double as HTML form bindings: browser routes post
// application/x-www-form-urlencoded, API routes post JSON.

type createUserRequest struct {
	Name     string `json:"name"      form:"name"      validate:"max=100"`
	LastName string `json:"last_name" form:"last_name" validate:"max=100"`
	Username string `json:"username"  form:"username"  validate:"required,max=50"`
	Email    string `json:"email"     form:"email"     validate:"required,email,max=255"`
	Password string `json:"password"  form:"password"  validate:"required,maxbytes=72"`
}

type updateUserRequest struct {
	Name     string `json:"name"      form:"name"      validate:"max=100"`
	LastName string `json:"last_name" form:"last_name" validate:"max=100"`
	Username string `json:"username"  form:"username"  validate:"required,max=50"`
	Email    string `json:"email"     form:"email"     validate:"required,email,max=255"`
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	Token string              `json:"token"`
	User  *domain.UserProfile `json:"user"`
}
