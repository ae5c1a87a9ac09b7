package dto

import (
	"github.com/pardisoft/docflow_app/internal/core/domain"
)

// CreateUserRequest defines the data needed to create a new user.
type CreateUserRequest struct {
	Username string          `json:"username" binding:"required,min=3"`
	Password string          `json:"password" binding:"required,min=8"`
	Name     string          `json:"name" binding:"required"`
	Role     domain.UserRole `json:"role" binding:"omitempty,oneof=ADMIN MANAGER STAFF"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name *string          `json:"name"`
	Role *domain.UserRole `json:"role" binding:"omitempty,oneof=ADMIN MANAGER STAFF"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID   string          `json:"userID"`
	Username string          `json:"username"`
	Name     string          `json:"name"`
	Role     domain.UserRole `json:"role"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
	}
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO.
func ToListUserResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = ToUserResponse(&user)
	}
	return ListUsersResponse{
		Users: userResponses,
	}
}
