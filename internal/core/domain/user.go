package domain

import "time"

// UserRole is the application-level role of a user. The role is the single
// source of capabilities; call sites must use the predicates below instead
// of comparing role strings.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
	RoleStaff   UserRole = "STAFF"
)

// User represents a user of the application in the domain.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (UUID)
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	Role         UserRole `json:"role"`
	PasswordHash string   `json:"-"`
	AuditFields
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
	DeletedAt              *time.Time `json:"deletedAt,omitempty"` // Soft delete
}

// CanApprove reports whether the user may approve or reject documents.
func (u User) CanApprove() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// CanAdminister reports whether the user may perform admin-only mutations
// such as user management.
func (u User) CanAdminister() bool {
	return u.Role == RoleAdmin
}
