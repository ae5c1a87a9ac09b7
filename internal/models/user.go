package models

import (
	"database/sql"
	"time"
)

// UserRole mirrors domain.UserRole at the persistence layer.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
	RoleStaff   UserRole = "STAFF"
)

// User is the users table row.
type User struct {
	UserID       string   `db:"user_id"`
	Username     string   `db:"username"`
	Name         string   `db:"name"`
	Role         UserRole `db:"role"`
	PasswordHash string   `db:"password_hash"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"` // Soft delete

	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`        // Hash of the refresh token
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"` // Expiry of the stored refresh token
}
