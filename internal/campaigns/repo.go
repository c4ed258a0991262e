package campaigns

import (
	"context"
	"fmt"
	"time"

	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	"github.com/adrianvasquez/fundhub-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles campaign persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to campaign operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new campaign row.
func (r *Repository) Create(ctx context.Context, dto CreateCampaignDTO) (*models.Campaign, error) {
	campaign := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(campaign).Error; err != nil {
		return nil, err
	}
	return campaign, nil
}

// FindByID loads a campaign with its creator.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		First(&campaign, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// FindBySlug loads a campaign by its slug with the creator joined.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("slug = ?", slug).
		First(&campaign).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// SlugExists reports whether a campaign already claims the slug.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListActive returns active campaigns newest first, optionally filtered by
// category, keyed on (created_at, id) so pages stay stable under inserts.
func (r *Repository) ListActive(ctx context.Context, category string, limit int, cursor *pagination.Cursor) ([]models.Campaign, error) {
	query := r.db.WithContext(ctx).
		Preload("Creator").
		Where("status = ?", enums.CampaignStatusActive)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var campaigns []models.Campaign
	if err := query.Order("created_at DESC, id DESC").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// ListByCreator returns the creator's campaigns, newest first.
func (r *Repository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// ListPending returns campaigns awaiting review with creators joined.
func (r *Repository) ListPending(ctx context.Context) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("status = ?", enums.CampaignStatusPending).
		Order("created_at ASC").
		Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// Update saves the provided campaign.
func (r *Repository) Update(ctx context.Context, campaign *models.Campaign) error {
	if campaign == nil {
		return fmt.Errorf("campaign is required")
	}
	return r.db.WithContext(ctx).Save(campaign).Error
}

// Delete removes the campaign row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Campaign{}, "id = ?", id).Error
}

// CountPledges returns the number of pledge rows attached to the campaign.
func (r *Repository) CountPledges(ctx context.Context, campaignID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Pledge{}).
		Where("campaign_id = ?", campaignID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CloseOutEnded resolves every active campaign whose deadline has passed,
// marking funded ones successful and the rest failed. Returns the number of
// rows moved into each terminal state.
func (r *Repository) CloseOutEnded(ctx context.Context, tx *gorm.DB, now time.Time) (succeeded, failed int64, err error) {
	if tx == nil {
		return 0, 0, gorm.ErrInvalidTransaction
	}

	res := tx.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("status = ? AND end_date < ? AND current_amount >= goal_amount",
			enums.CampaignStatusActive, now).
		Updates(map[string]any{
			"status":     enums.CampaignStatusSuccessful,
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, 0, res.Error
	}
	succeeded = res.RowsAffected

	res = tx.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("status = ? AND end_date < ? AND current_amount < goal_amount",
			enums.CampaignStatusActive, now).
		Updates(map[string]any{
			"status":     enums.CampaignStatusFailed,
			"updated_at": now,
		})
	if res.Error != nil {
		return succeeded, 0, res.Error
	}
	failed = res.RowsAffected

	return succeeded, failed, nil
}
