package handler

import (
	"strings"

	"github.com/userhub/user-management/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req createUserRequest) ports.RegisterUserInput {
	return ports.RegisterUserInput{
		Name:     strings.TrimSpace(req.Name),
		LastName: strings.TrimSpace(req.LastName),
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}
}

func toUpdateInput(id int64, req updateUserRequest) ports.UpdateUserInput {
	return ports.UpdateUserInput{
		ID:       id,
		Name:     strings.TrimSpace(req.Name),
		LastName: strings.TrimSpace(req.LastName),
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
	}
}
