package comments

import (
	"time"

	"github.com/adrianvasquez/fundhub-backend/internal/users"
	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CommentDTO is the API shape of a comment.
type CommentDTO struct {
	ID         uuid.UUID         `json:"id"`
	CampaignID uuid.UUID         `json:"campaign_id"`
	UserID     uuid.UUID         `json:"user_id"`
	Content    string            `json:"content"`
	CreatedAt  time.Time         `json:"created_at"`
	User       *users.SummaryDTO `json:"user,omitempty"`
}

// CreateCommentDTO carries the fields the repository needs to persist a comment.
type CreateCommentDTO struct {
	CampaignID uuid.UUID
	UserID     uuid.UUID
	Content    string
}

func FromModel(m *models.Comment) *CommentDTO {
	if m == nil {
		return nil
	}
	dto := &CommentDTO{
		ID:         m.ID,
		CampaignID: m.CampaignID,
		UserID:     m.UserID,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
	if m.User != nil {
		dto.User = users.SummaryFromModel(m.User)
	}
	return dto
}

func FromModels(comments []models.Comment) []CommentDTO {
	out := make([]CommentDTO, 0, len(comments))
	for i := range comments {
		out = append(out, *FromModel(&comments[i]))
	}
	return out
}

func (c CreateCommentDTO) ToModel() *models.Comment {
	return &models.Comment{
		CampaignID: c.CampaignID,
		UserID:     c.UserID,
		Content:    c.Content,
	}
}
