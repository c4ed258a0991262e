package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is an append-only campaign discussion entry.
type Comment struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID uuid.UUID `gorm:"column:campaign_id;type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Content    string    `gorm:"column:content;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`

	User *User `gorm:"foreignKey:UserID"`
}
