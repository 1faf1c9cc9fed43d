package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellercentric/backend/internal/domain/feed"
	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/infrastructure/persistence/models"
)

// GormStagedDocumentRepository implements StagedDocumentRepository using GORM
type GormStagedDocumentRepository struct {
	db *gorm.DB
}

// NewGormStagedDocumentRepository creates a new GormStagedDocumentRepository
func NewGormStagedDocumentRepository(db *gorm.DB) *GormStagedDocumentRepository {
	return &GormStagedDocumentRepository{db: db}
}

// FindByID finds a staged document by its ID
func (r *GormStagedDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*feed.StagedDocument, error) {
	var model models.StagedDocumentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds a staged document by its marketplace document id
func (r *GormStagedDocumentRepository) FindByExternalID(ctx context.Context, externalDocumentID string) (*feed.StagedDocument, error) {
	var model models.StagedDocumentModel
	if err := r.db.WithContext(ctx).
		Where("external_document_id = ?", externalDocumentID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a staged document
func (r *GormStagedDocumentRepository) Save(ctx context.Context, d *feed.StagedDocument) error {
	model := models.StagedDocumentModelFromDomain(d)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindExtractable returns documents awaiting extraction, oldest first.
// A non-positive retry ceiling admits any failure count.
func (r *GormStagedDocumentRepository) FindExtractable(ctx context.Context, policy feed.RetryPolicy, limit int) ([]*feed.StagedDocument, error) {
	query := r.db.WithContext(ctx).
		Model(&models.StagedDocumentModel{}).
		Where("status IN ?", []feed.DocumentStatus{feed.DocumentDownloaded, feed.DocumentExtractError})
	if policy.MaxFailures > 0 {
		query = query.Where("failure_count < ?", policy.MaxFailures)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var documentModels []models.StagedDocumentModel
	if err := query.Order("downloaded_at ASC").Find(&documentModels).Error; err != nil {
		return nil, err
	}
	return toDomainDocuments(documentModels), nil
}

// FindAckable returns extracted documents that have not been acknowledged yet
func (r *GormStagedDocumentRepository) FindAckable(ctx context.Context, limit int) ([]*feed.StagedDocument, error) {
	query := r.db.WithContext(ctx).
		Model(&models.StagedDocumentModel{}).
		Where("status = ? AND ack_status IN ?",
			feed.DocumentExtracted,
			[]feed.AckStatus{feed.AckNotAcked, feed.AckError})
	if limit > 0 {
		query = query.Limit(limit)
	}

	var documentModels []models.StagedDocumentModel
	if err := query.Order("extracted_at ASC").Find(&documentModels).Error; err != nil {
		return nil, err
	}
	return toDomainDocuments(documentModels), nil
}

// FindAckSent returns documents with an acknowledgment in flight
func (r *GormStagedDocumentRepository) FindAckSent(ctx context.Context) ([]*feed.StagedDocument, error) {
	var documentModels []models.StagedDocumentModel
	if err := r.db.WithContext(ctx).
		Where("ack_status = ?", feed.AckSent).
		Order("submission_id ASC, ack_message_id ASC").
		Find(&documentModels).Error; err != nil {
		return nil, err
	}
	return toDomainDocuments(documentModels), nil
}

// SaveExtraction persists the document's new state together with its staged
// orders in one transaction, so a partially extracted document can never be
// observed.
func (r *GormStagedDocumentRepository) SaveExtraction(ctx context.Context, d *feed.StagedDocument, orders []*feed.StagedOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(models.StagedDocumentModelFromDomain(d)).Error; err != nil {
			return err
		}
		for _, so := range orders {
			if err := tx.Save(models.StagedOrderModelFromDomain(so)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindAll finds staged documents matching the filter
func (r *GormStagedDocumentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*feed.StagedDocument, error) {
	query := r.db.WithContext(ctx).Model(&models.StagedDocumentModel{})
	query = applyDocumentFilter(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, StagedDocumentSortFields, "downloaded_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var documentModels []models.StagedDocumentModel
	if err := query.Find(&documentModels).Error; err != nil {
		return nil, err
	}
	return toDomainDocuments(documentModels), nil
}

// Count counts all staged documents
func (r *GormStagedDocumentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StagedDocumentModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyDocumentFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("external_document_id ILIKE ?", "%"+strings.TrimSpace(filter.Search)+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "ack_status":
			query = query.Where("ack_status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		}
	}
	return query
}

func toDomainDocuments(documentModels []models.StagedDocumentModel) []*feed.StagedDocument {
	documents := make([]*feed.StagedDocument, len(documentModels))
	for i, model := range documentModels {
		documents[i] = model.ToDomain()
	}
	return documents
}

// Ensure GormStagedDocumentRepository implements StagedDocumentRepository
var _ feed.StagedDocumentRepository = (*GormStagedDocumentRepository)(nil)
