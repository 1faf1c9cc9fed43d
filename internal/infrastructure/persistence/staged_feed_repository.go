package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellercentric/backend/internal/domain/feed"
	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/infrastructure/persistence/models"
)

// GormStagedFeedRepository implements StagedFeedRepository using GORM
type GormStagedFeedRepository struct {
	db *gorm.DB
}

// NewGormStagedFeedRepository creates a new GormStagedFeedRepository
func NewGormStagedFeedRepository(db *gorm.DB) *GormStagedFeedRepository {
	return &GormStagedFeedRepository{db: db}
}

// FindByID finds a staged feed by its ID
func (r *GormStagedFeedRepository) FindByID(ctx context.Context, id uuid.UUID) (*feed.StagedFeed, error) {
	var model models.StagedFeedModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySubmissionID finds a staged feed by the marketplace submission id
func (r *GormStagedFeedRepository) FindBySubmissionID(ctx context.Context, submissionID string) (*feed.StagedFeed, error) {
	var model models.StagedFeedModel
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a staged feed
func (r *GormStagedFeedRepository) Save(ctx context.Context, f *feed.StagedFeed) error {
	model := models.StagedFeedModelFromDomain(f)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindUnreconciled returns submitted feeds whose processing report has not
// been collected yet, oldest submission first
func (r *GormStagedFeedRepository) FindUnreconciled(ctx context.Context) ([]*feed.StagedFeed, error) {
	var feedModels []models.StagedFeedModel
	if err := r.db.WithContext(ctx).
		Where("ack_status = ?", feed.AckSent).
		Order("submitted_at ASC").
		Find(&feedModels).Error; err != nil {
		return nil, err
	}

	feeds := make([]*feed.StagedFeed, len(feedModels))
	for i, model := range feedModels {
		feeds[i] = model.ToDomain()
	}
	return feeds, nil
}

// Ensure GormStagedFeedRepository implements StagedFeedRepository
var _ feed.StagedFeedRepository = (*GormStagedFeedRepository)(nil)
