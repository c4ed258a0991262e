package models

import (
	"time"

	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents the canonical identity entity. The role column is the sole
// authorization signal across the platform.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Name         string         `gorm:"column:name;not null"`
	ImageURL     *string        `gorm:"column:image_url"`
	Role         enums.UserRole `gorm:"column:role;type:user_role;not null;default:user"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
