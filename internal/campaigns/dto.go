package campaigns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adrianvasquez/fundhub-backend/internal/users"
	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
)

// CampaignDTO is the transport shape for a campaign.
type CampaignDTO struct {
	ID               uuid.UUID            `json:"id"`
	CreatorID        uuid.UUID            `json:"creator_id"`
	Title            string               `json:"title"`
	Slug             string               `json:"slug"`
	Description      string               `json:"description"`
	ShortDescription string               `json:"short_description"`
	Category         string               `json:"category"`
	GoalAmount       decimal.Decimal      `json:"goal_amount"`
	CurrentAmount    decimal.Decimal      `json:"current_amount"`
	Currency         string               `json:"currency"`
	ImageURL         *string              `json:"image_url,omitempty"`
	VideoURL         *string              `json:"video_url,omitempty"`
	StartDate        time.Time            `json:"start_date"`
	EndDate          time.Time            `json:"end_date"`
	Status           enums.CampaignStatus `json:"status"`
	ApprovedBy       *uuid.UUID           `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time           `json:"approved_at,omitempty"`
	RejectionReason  *string              `json:"rejection_reason,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`

	Creator *users.SummaryDTO `json:"creator,omitempty"`
}

// CreateCampaignDTO holds creation-time data for a new campaign.
type CreateCampaignDTO struct {
	CreatorID        uuid.UUID
	Title            string
	Slug             string
	Description      string
	ShortDescription string
	Category         string
	GoalAmount       decimal.Decimal
	Currency         string
	ImageURL         *string
	VideoURL         *string
	StartDate        time.Time
	EndDate          time.Time
}

// FromModel maps the persisted campaign into a DTO.
func FromModel(m *models.Campaign) *CampaignDTO {
	if m == nil {
		return nil
	}
	return &CampaignDTO{
		ID:               m.ID,
		CreatorID:        m.CreatorID,
		Title:            m.Title,
		Slug:             m.Slug,
		Description:      m.Description,
		ShortDescription: m.ShortDescription,
		Category:         m.Category,
		GoalAmount:       m.GoalAmount,
		CurrentAmount:    m.CurrentAmount,
		Currency:         m.Currency,
		ImageURL:         m.ImageURL,
		VideoURL:         m.VideoURL,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		Status:           m.Status,
		ApprovedBy:       m.ApprovedBy,
		ApprovedAt:       m.ApprovedAt,
		RejectionReason:  m.RejectionReason,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		Creator:          users.SummaryFromModel(m.Creator),
	}
}

// CampaignPage is one page of the public campaign listing. NextCursor is
// empty on the final page.
type CampaignPage struct {
	Items      []CampaignDTO `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// FromModels maps a slice of campaigns.
func FromModels(campaigns []models.Campaign) []CampaignDTO {
	dtos := make([]CampaignDTO, 0, len(campaigns))
	for i := range campaigns {
		dtos = append(dtos, *FromModel(&campaigns[i]))
	}
	return dtos
}

// ToModel prepares the GORM model from the creation DTO. New campaigns always
// start as an unfunded draft.
func (c CreateCampaignDTO) ToModel() *models.Campaign {
	return &models.Campaign{
		CreatorID:        c.CreatorID,
		Title:            c.Title,
		Slug:             c.Slug,
		Description:      c.Description,
		ShortDescription: c.ShortDescription,
		Category:         c.Category,
		GoalAmount:       c.GoalAmount,
		CurrentAmount:    decimal.Zero,
		Currency:         c.Currency,
		ImageURL:         c.ImageURL,
		VideoURL:         c.VideoURL,
		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		Status:           enums.CampaignStatusDraft,
	}
}
