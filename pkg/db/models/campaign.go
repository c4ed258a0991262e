package models

import (
	"time"

	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Campaign is a funding request with a goal, deadline, and status lifecycle.
// CurrentAmount is a denormalized running total maintained atomically by the
// pledges repository; it never goes below zero.
type Campaign struct {
	ID               uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CreatorID        uuid.UUID            `gorm:"column:creator_id;type:uuid;not null;index"`
	Title            string               `gorm:"column:title;not null"`
	Slug             string               `gorm:"type:text;not null;uniqueIndex"`
	Description      string               `gorm:"column:description;not null"`
	ShortDescription string               `gorm:"column:short_description;not null"`
	Category         string               `gorm:"column:category;not null;index"`
	GoalAmount       decimal.Decimal      `gorm:"column:goal_amount;type:numeric(12,2);not null"`
	CurrentAmount    decimal.Decimal      `gorm:"column:current_amount;type:numeric(12,2);not null"`
	Currency         string               `gorm:"column:currency;not null"`
	ImageURL         *string              `gorm:"column:image_url"`
	VideoURL         *string              `gorm:"column:video_url"`
	StartDate        time.Time            `gorm:"column:start_date;not null"`
	EndDate          time.Time            `gorm:"column:end_date;not null"`
	Status           enums.CampaignStatus `gorm:"column:status;type:campaign_status;not null;default:draft;index"`
	ApprovedBy       *uuid.UUID           `gorm:"column:approved_by;type:uuid"`
	ApprovedAt       *time.Time           `gorm:"column:approved_at"`
	RejectionReason  *string              `gorm:"column:rejection_reason"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`

	Creator *User `gorm:"foreignKey:CreatorID"`
}

// HasEnded reports whether the campaign deadline has passed at the given time.
func (c *Campaign) HasEnded(now time.Time) bool {
	return now.After(c.EndDate)
}
