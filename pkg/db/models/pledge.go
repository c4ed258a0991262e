package models

import (
	"time"

	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pledge is a backer's monetary commitment to a campaign.
type Pledge struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID      uuid.UUID           `gorm:"column:campaign_id;type:uuid;not null;index"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Amount          decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency        string              `gorm:"column:currency;not null"`
	Message         *string             `gorm:"column:message"`
	IsAnonymous     bool                `gorm:"column:is_anonymous;not null;default:false"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:pending;index"`
	PaymentIntentID *string             `gorm:"column:payment_intent_id"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`

	Campaign *Campaign `gorm:"foreignKey:CampaignID"`
	User     *User     `gorm:"foreignKey:UserID"`
}
