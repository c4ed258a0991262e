package applications

import (
	"time"

	"github.com/google/uuid"

	"github.com/adrianvasquez/fundhub-backend/internal/users"
	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	"github.com/adrianvasquez/fundhub-backend/pkg/types"
)

// ApplicationDTO is the transport shape for a creator application.
type ApplicationDTO struct {
	ID              uuid.UUID               `json:"id"`
	UserID          uuid.UUID               `json:"user_id"`
	FullName        string                  `json:"full_name"`
	Bio             string                  `json:"bio"`
	Website         *string                 `json:"website,omitempty"`
	Social          *types.SocialLinks      `json:"social,omitempty"`
	Status          enums.ApplicationStatus `json:"status"`
	ReviewedBy      *uuid.UUID              `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time              `json:"reviewed_at,omitempty"`
	RejectionReason *string                 `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`

	User     *users.SummaryDTO `json:"user,omitempty"`
	Reviewer *users.SummaryDTO `json:"reviewer,omitempty"`
}

// CreateApplicationDTO holds creation-time data for a new application.
type CreateApplicationDTO struct {
	UserID   uuid.UUID
	FullName string
	Bio      string
	Website  *string
	Social   *types.SocialLinks
}

// FromModel maps the persisted application into a DTO.
func FromModel(m *models.CreatorApplication) *ApplicationDTO {
	if m == nil {
		return nil
	}
	dto := &ApplicationDTO{
		ID:              m.ID,
		UserID:          m.UserID,
		FullName:        m.FullName,
		Bio:             m.Bio,
		Website:         m.Website,
		Status:          m.Status,
		ReviewedBy:      m.ReviewedBy,
		ReviewedAt:      m.ReviewedAt,
		RejectionReason: m.RejectionReason,
		CreatedAt:       m.CreatedAt,
		User:            users.SummaryFromModel(m.User),
		Reviewer:        users.SummaryFromModel(m.Reviewer),
	}
	if m.Social != nil {
		cpy := *m.Social
		dto.Social = &cpy
	}
	return dto
}

// FromModels maps a slice of applications.
func FromModels(apps []models.CreatorApplication) []ApplicationDTO {
	dtos := make([]ApplicationDTO, 0, len(apps))
	for i := range apps {
		dtos = append(dtos, *FromModel(&apps[i]))
	}
	return dtos
}

// ToModel prepares the GORM model from the creation DTO.
func (c CreateApplicationDTO) ToModel() *models.CreatorApplication {
	model := &models.CreatorApplication{
		UserID:   c.UserID,
		FullName: c.FullName,
		Bio:      c.Bio,
		Website:  c.Website,
		Status:   enums.ApplicationStatusPending,
	}
	if c.Social != nil {
		cpy := *c.Social
		model.Social = &cpy
	}
	return model
}
