package dto

import "github.com/hongminglow/codemorph-be/internal/models"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PublicUser is the only user shape that leaves the server.
type PublicUser struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
	Image *string     `json:"image"`
}

// NewPublicUser strips everything but the public fields from u.
func NewPublicUser(u models.User) PublicUser {
	return PublicUser{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
		Image: u.Image,
	}
}
