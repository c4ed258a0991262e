package campaigns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	pkgerrors "github.com/adrianvasquez/fundhub-backend/pkg/errors"
	"github.com/adrianvasquez/fundhub-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type campaignRepository interface {
	Create(ctx context.Context, dto CreateCampaignDTO) (*models.Campaign, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	FindBySlug(ctx context.Context, slug string) (*models.Campaign, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListActive(ctx context.Context, category string, limit int, cursor *pagination.Cursor) ([]models.Campaign, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Campaign, error)
	ListPending(ctx context.Context) ([]models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountPledges(ctx context.Context, campaignID uuid.UUID) (int64, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CreateInput captures the creator-provided campaign fields.
type CreateInput struct {
	Title            string
	Slug             string
	Description      string
	ShortDescription string
	Category         string
	GoalAmount       decimal.Decimal
	Currency         string
	ImageURL         *string
	VideoURL         *string
	EndDate          time.Time
}

// UpdateInput captures the draft-editable fields.
type UpdateInput struct {
	Title            *string
	Description      *string
	ShortDescription *string
	Category         *string
	GoalAmount       *decimal.Decimal
	ImageURL         *string
	VideoURL         *string
	EndDate          *time.Time
}

// ReviewInput captures the admin decision for a pending campaign.
type ReviewInput struct {
	Approve         bool
	RejectionReason *string
}

// Service exposes campaign lifecycle operations.
type Service interface {
	Create(ctx context.Context, creatorID uuid.UUID, input CreateInput) (*CampaignDTO, error)
	Update(ctx context.Context, actorID, campaignID uuid.UUID, input UpdateInput) (*CampaignDTO, error)
	SubmitForReview(ctx context.Context, actorID, campaignID uuid.UUID) (*CampaignDTO, error)
	Review(ctx context.Context, adminID, campaignID uuid.UUID, input ReviewInput) (*CampaignDTO, error)
	Delete(ctx context.Context, actorID, campaignID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*CampaignDTO, error)
	GetBySlug(ctx context.Context, slug string) (*CampaignDTO, error)
	ListActive(ctx context.Context, category string, params pagination.Params) (*CampaignPage, error)
	ListMine(ctx context.Context, creatorID uuid.UUID) ([]CampaignDTO, error)
	ListPending(ctx context.Context) ([]CampaignDTO, error)
}

type service struct {
	repo  campaignRepository
	users userFinder
	now   func() time.Time
}

// NewService builds a campaigns service with the provided dependencies.
func NewService(repo campaignRepository, users userFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("campaigns repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, users: users, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, creatorID uuid.UUID, input CreateInput) (*CampaignDTO, error) {
	creator, err := s.loadUser(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if !creator.Role.CanCreateCampaigns() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only creators can create campaigns")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	if !input.GoalAmount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "goal_amount must be greater than 0")
	}

	taken, err := s.repo.SlugExists(ctx, slug)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Campaign slug already exists")
	}

	now := s.now().UTC()
	if !input.EndDate.After(now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_date must be in the future")
	}

	campaign, err := s.repo.Create(ctx, CreateCampaignDTO{
		CreatorID:        creatorID,
		Title:            input.Title,
		Slug:             slug,
		Description:      input.Description,
		ShortDescription: input.ShortDescription,
		Category:         input.Category,
		GoalAmount:       input.GoalAmount,
		Currency:         input.Currency,
		ImageURL:         input.ImageURL,
		VideoURL:         input.VideoURL,
		StartDate:        now,
		EndDate:          input.EndDate.UTC(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create campaign")
	}
	return FromModel(campaign), nil
}

func (s *service) Update(ctx context.Context, actorID, campaignID uuid.UUID, input UpdateInput) (*CampaignDTO, error) {
	actor, err := s.loadUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	campaign, err := s.loadCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.CreatorID != actorID && actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "You don't have permission to update this campaign")
	}

	// Edits are locked once the campaign leaves draft.
	if campaign.Status != enums.CampaignStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Only draft campaigns can be edited")
	}

	if input.Title != nil {
		campaign.Title = *input.Title
	}
	if input.Description != nil {
		campaign.Description = *input.Description
	}
	if input.ShortDescription != nil {
		campaign.ShortDescription = *input.ShortDescription
	}
	if input.Category != nil {
		campaign.Category = *input.Category
	}
	if input.GoalAmount != nil {
		if !input.GoalAmount.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "goal_amount must be greater than 0")
		}
		campaign.GoalAmount = *input.GoalAmount
	}
	if input.ImageURL != nil {
		cpy := *input.ImageURL
		campaign.ImageURL = &cpy
	}
	if input.VideoURL != nil {
		cpy := *input.VideoURL
		campaign.VideoURL = &cpy
	}
	if input.EndDate != nil {
		campaign.EndDate = input.EndDate.UTC()
	}

	if err := s.repo.Update(ctx, campaign); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update campaign")
	}
	return FromModel(campaign), nil
}

func (s *service) SubmitForReview(ctx context.Context, actorID, campaignID uuid.UUID) (*CampaignDTO, error) {
	campaign, err := s.loadCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.CreatorID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "You don't have permission to submit this campaign")
	}
	if campaign.Status != enums.CampaignStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Only draft campaigns can be submitted for review")
	}

	campaign.Status = enums.CampaignStatusPending
	if err := s.repo.Update(ctx, campaign); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit campaign")
	}
	return FromModel(campaign), nil
}

func (s *service) Review(ctx context.Context, adminID, campaignID uuid.UUID, input ReviewInput) (*CampaignDTO, error) {
	admin, err := s.loadUser(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if admin.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only admins can review campaigns")
	}

	campaign, err := s.loadCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != enums.CampaignStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Campaign is not pending review")
	}

	now := s.now().UTC()
	if input.Approve {
		campaign.Status = enums.CampaignStatusActive
		campaign.ApprovedBy = &adminID
		campaign.ApprovedAt = &now
		campaign.RejectionReason = nil
	} else {
		campaign.Status = enums.CampaignStatusRejected
		campaign.RejectionReason = input.RejectionReason
	}

	if err := s.repo.Update(ctx, campaign); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "review campaign")
	}
	return FromModel(campaign), nil
}

func (s *service) Delete(ctx context.Context, actorID, campaignID uuid.UUID) error {
	actor, err := s.loadUser(ctx, actorID)
	if err != nil {
		return err
	}
	campaign, err := s.loadCampaign(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.CreatorID != actorID && actor.Role != enums.UserRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "You don't have permission to delete this campaign")
	}

	pledgeCount, err := s.repo.CountPledges(ctx, campaignID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pledges")
	}
	if pledgeCount > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "Cannot delete campaign with existing pledges")
	}

	if err := s.repo.Delete(ctx, campaignID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete campaign")
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*CampaignDTO, error) {
	campaign, err := s.loadCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(campaign), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*CampaignDTO, error) {
	campaign, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load campaign")
	}
	return FromModel(campaign), nil
}

func (s *service) ListActive(ctx context.Context, category string, params pagination.Params) (*CampaignPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	// Fetch one extra row to learn whether another page exists.
	campaigns, err := s.repo.ListActive(ctx, category, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list campaigns")
	}

	page := &CampaignPage{}
	if len(campaigns) > limit {
		campaigns = campaigns[:limit]
		last := campaigns[len(campaigns)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	page.Items = FromModels(campaigns)
	return page, nil
}

func (s *service) ListMine(ctx context.Context, creatorID uuid.UUID) ([]CampaignDTO, error) {
	campaigns, err := s.repo.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list campaigns")
	}
	return FromModels(campaigns), nil
}

func (s *service) ListPending(ctx context.Context) ([]CampaignDTO, error) {
	campaigns, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending campaigns")
	}
	return FromModels(campaigns), nil
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

func (s *service) loadCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	campaign, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load campaign")
	}
	return campaign, nil
}
