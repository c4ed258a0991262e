package applications

import (
	"context"
	"fmt"

	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles creator application persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to application operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new application row.
func (r *Repository) Create(ctx context.Context, dto CreateApplicationDTO) (*models.CreatorApplication, error) {
	app := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		return nil, err
	}
	return app, nil
}

// FindByID loads an application by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CreatorApplication, error) {
	var app models.CreatorApplication
	if err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// FindActiveByUser returns the user's pending or approved application, if any.
func (r *Repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CreatorApplication, error) {
	var app models.CreatorApplication
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, []enums.ApplicationStatus{
			enums.ApplicationStatusPending,
			enums.ApplicationStatusApproved,
		}).
		Order("created_at DESC").
		First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// FindLatestByUser returns the user's most recent application regardless of status.
func (r *Repository) FindLatestByUser(ctx context.Context, userID uuid.UUID) (*models.CreatorApplication, error) {
	var app models.CreatorApplication
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// ListPending returns all pending applications joined with the applicant.
func (r *Repository) ListPending(ctx context.Context) ([]models.CreatorApplication, error) {
	var apps []models.CreatorApplication
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", enums.ApplicationStatusPending).
		Order("created_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// ListAll returns every application joined with applicant and reviewer.
func (r *Repository) ListAll(ctx context.Context) ([]models.CreatorApplication, error) {
	var apps []models.CreatorApplication
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Reviewer").
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// FindByIDWithTx loads an application using the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.CreatorApplication, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var app models.CreatorApplication
	if err := tx.First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// UpdateWithTx persists the application using the provided transaction.
func (r *Repository) UpdateWithTx(tx *gorm.DB, app *models.CreatorApplication) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if app == nil {
		return fmt.Errorf("application is required")
	}
	return tx.Save(app).Error
}
