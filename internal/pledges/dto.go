package pledges

import (
	"time"

	"github.com/adrianvasquez/fundhub-backend/internal/campaigns"
	"github.com/adrianvasquez/fundhub-backend/internal/users"
	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PledgeDTO is the API shape of a pledge. User is omitted for anonymous
// pledges in public listings.
type PledgeDTO struct {
	ID              uuid.UUID               `json:"id"`
	CampaignID      uuid.UUID               `json:"campaign_id"`
	UserID          uuid.UUID               `json:"user_id"`
	Amount          decimal.Decimal         `json:"amount"`
	Currency        string                  `json:"currency"`
	Message         *string                 `json:"message,omitempty"`
	IsAnonymous     bool                    `json:"is_anonymous"`
	PaymentStatus   enums.PaymentStatus     `json:"payment_status"`
	PaymentIntentID *string                 `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	User            *users.SummaryDTO       `json:"user,omitempty"`
	Campaign        *campaigns.CampaignDTO  `json:"campaign,omitempty"`
}

// StatsDTO aggregates the funding progress of a single campaign. Only
// pledges that still count toward the total feed the numbers.
type StatsDTO struct {
	TotalBackers     int64           `json:"total_backers"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	PercentageFunded float64         `json:"percentage_funded"`
	DaysLeft         int             `json:"days_left"`
	GoalAmount       decimal.Decimal `json:"goal_amount"`
	Currency         string          `json:"currency"`
	IsFullyFunded    bool            `json:"is_fully_funded"`
	HasEnded         bool            `json:"has_ended"`
}

// CreatePledgeDTO carries the fields the repository needs to persist a pledge.
type CreatePledgeDTO struct {
	CampaignID  uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Message     *string
	IsAnonymous bool
}

// FromModel maps a pledge row to its DTO. hideUser strips the backer
// identity for anonymous pledges in public views.
func FromModel(m *models.Pledge, hideUser bool) *PledgeDTO {
	if m == nil {
		return nil
	}
	dto := &PledgeDTO{
		ID:              m.ID,
		CampaignID:      m.CampaignID,
		UserID:          m.UserID,
		Amount:          m.Amount,
		Currency:        m.Currency,
		Message:         m.Message,
		IsAnonymous:     m.IsAnonymous,
		PaymentStatus:   m.PaymentStatus,
		PaymentIntentID: m.PaymentIntentID,
		CreatedAt:       m.CreatedAt,
	}
	if m.User != nil && !(hideUser && m.IsAnonymous) {
		dto.User = users.SummaryFromModel(m.User)
	}
	if m.Campaign != nil {
		dto.Campaign = campaigns.FromModel(m.Campaign)
	}
	return dto
}

// ToModel builds a pledge row. Payment starts in the pending state until a
// processor callback moves it along.
func (c CreatePledgeDTO) ToModel() *models.Pledge {
	return &models.Pledge{
		CampaignID:    c.CampaignID,
		UserID:        c.UserID,
		Amount:        c.Amount,
		Currency:      c.Currency,
		Message:       c.Message,
		IsAnonymous:   c.IsAnonymous,
		PaymentStatus: enums.PaymentStatusPending,
	}
}
