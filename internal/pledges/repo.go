package pledges

import (
	"context"

	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository provides pledge persistence on top of gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx inserts a pledge inside an existing transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, dto CreatePledgeDTO) (*models.Pledge, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	pledge := dto.ToModel()
	if err := tx.Create(pledge).Error; err != nil {
		return nil, err
	}
	return pledge, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Pledge, error) {
	var pledge models.Pledge
	if err := r.db.WithContext(ctx).First(&pledge, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pledge, nil
}

func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Pledge, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var pledge models.Pledge
	if err := tx.First(&pledge, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pledge, nil
}

// FindCampaignWithTx loads the campaign row a pledge mutation is about to
// touch, inside the same transaction.
func (r *Repository) FindCampaignWithTx(tx *gorm.DB, id uuid.UUID) (*models.Campaign, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var campaign models.Campaign
	if err := tx.First(&campaign, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// ListByUser returns a backer's pledges, newest first, with campaigns joined.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Pledge, error) {
	var pledges []models.Pledge
	err := r.db.WithContext(ctx).
		Preload("Campaign").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&pledges).Error
	return pledges, err
}

// ListByCampaign returns the pledges shown on a campaign page, newest first.
// Failed and refunded pledges are excluded.
func (r *Repository) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]models.Pledge, error) {
	var pledges []models.Pledge
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("campaign_id = ? AND payment_status IN ?", campaignID,
			[]enums.PaymentStatus{enums.PaymentStatusPending, enums.PaymentStatusCompleted}).
		Order("created_at DESC").
		Find(&pledges).Error
	return pledges, err
}

type campaignTotals struct {
	TotalAmount  decimal.Decimal
	TotalBackers int64
}

// TotalsForCampaign sums the pledges that count toward a campaign's total.
func (r *Repository) TotalsForCampaign(ctx context.Context, campaignID uuid.UUID) (decimal.Decimal, int64, error) {
	var totals campaignTotals
	err := r.db.WithContext(ctx).
		Model(&models.Pledge{}).
		Select("COALESCE(SUM(amount), 0) AS total_amount, COUNT(*) AS total_backers").
		Where("campaign_id = ? AND payment_status IN ?", campaignID,
			[]enums.PaymentStatus{enums.PaymentStatusPending, enums.PaymentStatusCompleted}).
		Scan(&totals).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return totals.TotalAmount, totals.TotalBackers, nil
}

func (r *Repository) UpdateWithTx(tx *gorm.DB, pledge *models.Pledge) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Save(pledge).Error
}

func (r *Repository) DeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Delete(&models.Pledge{}, "id = ?", id).Error
}

// IncrementCampaignTotal bumps the campaign's running total in SQL so
// concurrent pledges never clobber each other.
func (r *Repository) IncrementCampaignTotal(tx *gorm.DB, campaignID uuid.UUID, amount decimal.Decimal) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		Update("current_amount", gorm.Expr("current_amount + ?", amount)).Error
}

// DecrementCampaignTotal releases a pledge amount back, flooring at zero.
func (r *Repository) DecrementCampaignTotal(tx *gorm.DB, campaignID uuid.UUID, amount decimal.Decimal) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		Update("current_amount",
			gorm.Expr("CASE WHEN current_amount >= ? THEN current_amount - ? ELSE 0 END", amount, amount)).
		Error
}
