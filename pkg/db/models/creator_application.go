package models

import (
	"time"

	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	"github.com/adrianvasquez/fundhub-backend/pkg/types"
	"github.com/google/uuid"
)

// CreatorApplication is a user's request to be promoted to the creator role.
// A user holds at most one application in {pending, approved} at a time.
type CreatorApplication struct {
	ID              uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	FullName        string                  `gorm:"column:full_name;not null"`
	Bio             string                  `gorm:"column:bio;not null"`
	Website         *string                 `gorm:"column:website"`
	Social          *types.SocialLinks      `gorm:"column:social;type:social_links_t"`
	Status          enums.ApplicationStatus `gorm:"column:status;type:application_status;not null;default:pending;index"`
	ReviewedBy      *uuid.UUID              `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt      *time.Time              `gorm:"column:reviewed_at"`
	RejectionReason *string                 `gorm:"column:rejection_reason"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`

	User     *User `gorm:"foreignKey:UserID"`
	Reviewer *User `gorm:"foreignKey:ReviewedBy"`
}
