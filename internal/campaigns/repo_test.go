package campaigns

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adrianvasquez/fundhub-backend/pkg/db/models"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	"github.com/adrianvasquez/fundhub-backend/pkg/pagination"
)

func newCampaignTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Campaign{}, &models.Pledge{}))
	return conn
}

func seedActiveCampaign(t *testing.T, db *gorm.DB, createdAt, endDate time.Time, goal, current int64) *models.Campaign {
	t.Helper()
	campaign := &models.Campaign{
		ID:               uuid.New(),
		CreatorID:        uuid.New(),
		Title:            "Test Campaign",
		Slug:             uuid.NewString(),
		Description:      "desc",
		ShortDescription: "short",
		Category:         "technology",
		GoalAmount:       decimal.NewFromInt(goal),
		CurrentAmount:    decimal.NewFromInt(current),
		Currency:         "USD",
		StartDate:        createdAt,
		EndDate:          endDate,
		Status:           enums.CampaignStatusActive,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
	require.NoError(t, db.Create(campaign).Error)
	return campaign
}

func TestRepositoryListActivePaginatesNewestFirst(t *testing.T) {
	db := newCampaignTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := base.Add(30 * 24 * time.Hour)
	oldest := seedActiveCampaign(t, db, base, future, 100, 0)
	middle := seedActiveCampaign(t, db, base.Add(time.Minute), future, 100, 0)
	newest := seedActiveCampaign(t, db, base.Add(2*time.Minute), future, 100, 0)

	first, err := repo.ListActive(ctx, "", 2, nil)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, newest.ID, first[0].ID)
	require.Equal(t, middle.ID, first[1].ID)

	rest, err := repo.ListActive(ctx, "", 2, &pagination.Cursor{
		CreatedAt: first[1].CreatedAt,
		ID:        first[1].ID,
	})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, oldest.ID, rest[0].ID)
}

func TestRepositoryListActiveFiltersByCategory(t *testing.T) {
	db := newCampaignTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := base.Add(30 * 24 * time.Hour)
	seedActiveCampaign(t, db, base, future, 100, 0)
	art := seedActiveCampaign(t, db, base.Add(time.Minute), future, 100, 0)
	require.NoError(t, db.Model(art).Update("category", "art").Error)

	got, err := repo.ListActive(ctx, "art", 10, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, art.ID, got[0].ID)
}

func TestRepositoryCloseOutEnded(t *testing.T) {
	db := newCampaignTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	funded := seedActiveCampaign(t, db, past.Add(-time.Hour), past, 100, 150)
	unfunded := seedActiveCampaign(t, db, past.Add(-time.Hour), past, 100, 40)
	running := seedActiveCampaign(t, db, past, future, 100, 999)

	succeeded, failed, err := repo.CloseOutEnded(ctx, db, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, succeeded)
	require.EqualValues(t, 1, failed)

	var reloaded models.Campaign
	require.NoError(t, db.First(&reloaded, "id = ?", funded.ID).Error)
	require.Equal(t, enums.CampaignStatusSuccessful, reloaded.Status)

	require.NoError(t, db.First(&reloaded, "id = ?", unfunded.ID).Error)
	require.Equal(t, enums.CampaignStatusFailed, reloaded.Status)

	require.NoError(t, db.First(&reloaded, "id = ?", running.ID).Error)
	require.Equal(t, enums.CampaignStatusActive, reloaded.Status)
}

func TestRepositoryCloseOutEndedRequiresTransaction(t *testing.T) {
	repo := NewRepository(newCampaignTestDB(t))

	_, _, err := repo.CloseOutEnded(context.Background(), nil, time.Now())
	require.ErrorIs(t, err, gorm.ErrInvalidTransaction)
}

func TestRepositorySlugExists(t *testing.T) {
	db := newCampaignTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	campaign := seedActiveCampaign(t, db, base, base.Add(time.Hour), 100, 0)

	exists, err := repo.SlugExists(ctx, campaign.Slug)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.SlugExists(ctx, "unclaimed-slug")
	require.NoError(t, err)
	require.False(t, exists)
}
