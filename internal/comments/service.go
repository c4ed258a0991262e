package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	pkgerrors "github.com/adrianvasquez/fundhub-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type commentRepository interface {
	Create(ctx context.Context, dto CreateCommentDTO) (*models.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentUserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type commentCampaignFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
}

// Service exposes campaign comment operations.
type Service interface {
	Create(ctx context.Context, userID, campaignID uuid.UUID, content string) (*CommentDTO, error)
	Delete(ctx context.Context, userID, commentID uuid.UUID) error
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]CommentDTO, error)
}

type service struct {
	repo      commentRepository
	users     commentUserFinder
	campaigns commentCampaignFinder
}

// NewService builds a comments service with the provided dependencies.
func NewService(repo commentRepository, users commentUserFinder, campaigns commentCampaignFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("comments repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if campaigns == nil {
		return nil, fmt.Errorf("campaigns repository required")
	}
	return &service{repo: repo, users: users, campaigns: campaigns}, nil
}

func (s *service) Create(ctx context.Context, userID, campaignID uuid.UUID, content string) (*CommentDTO, error) {
	if _, err := s.loadUser(ctx, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}

	if _, err := s.campaigns.FindByID(ctx, campaignID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load campaign")
	}

	comment, err := s.repo.Create(ctx, CreateCommentDTO{
		CampaignID: campaignID,
		UserID:     userID,
		Content:    content,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create comment")
	}
	return FromModel(comment), nil
}

func (s *service) Delete(ctx context.Context, userID, commentID uuid.UUID) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Comment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comment")
	}
	if comment.UserID != userID && user.Role != enums.UserRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "You don't have permission to delete this comment")
	}

	if err := s.repo.Delete(ctx, commentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete comment")
	}
	return nil
}

func (s *service) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]CommentDTO, error) {
	comments, err := s.repo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}
	return FromModels(comments), nil
}

func (s *service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Not authenticated")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
