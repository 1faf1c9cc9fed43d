package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellercentric/backend/internal/domain/party"
	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/infrastructure/persistence/models"
)

// GormPartyRepository implements PartyRepository using GORM
type GormPartyRepository struct {
	db *gorm.DB
}

// NewGormPartyRepository creates a new GormPartyRepository
func NewGormPartyRepository(db *gorm.DB) *GormPartyRepository {
	return &GormPartyRepository{db: db}
}

// FindByID finds a party by its ID
func (r *GormPartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.Party, error) {
	var model models.PartyModel
	if err := r.db.WithContext(ctx).
		Preload("Addresses").
		Preload("Phones").
		Preload("Emails").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalEmail finds the party registered under a marketplace
// buyer email, used for deduplication during order import
func (r *GormPartyRepository) FindByExternalEmail(ctx context.Context, email string) (*party.Party, error) {
	var model models.PartyModel
	if err := r.db.WithContext(ctx).
		Preload("Addresses").
		Preload("Phones").
		Preload("Emails").
		Where("external_email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a party together with its contact mechanisms
func (r *GormPartyRepository) Save(ctx context.Context, p *party.Party) error {
	model := models.PartyModelFromDomain(p)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Addresses", "Phones", "Emails").Save(model).Error; err != nil {
			return err
		}
		if err := replacePartyChildren(tx, model); err != nil {
			return err
		}
		return nil
	})
}

func replacePartyChildren(tx *gorm.DB, model *models.PartyModel) error {
	if err := tx.Where("party_id = ?", model.ID).Delete(&models.PostalAddressModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("party_id = ?", model.ID).Delete(&models.PhoneContactModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("party_id = ?", model.ID).Delete(&models.EmailContactModel{}).Error; err != nil {
		return err
	}
	if len(model.Addresses) > 0 {
		if err := tx.Create(&model.Addresses).Error; err != nil {
			return err
		}
	}
	if len(model.Phones) > 0 {
		if err := tx.Create(&model.Phones).Error; err != nil {
			return err
		}
	}
	if len(model.Emails) > 0 {
		if err := tx.Create(&model.Emails).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindAll finds parties matching the filter
func (r *GormPartyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*party.Party, error) {
	query := r.db.WithContext(ctx).Model(&models.PartyModel{}).
		Preload("Addresses").
		Preload("Phones").
		Preload("Emails")
	query = applyPartyFilter(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, PartySortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var partyModels []models.PartyModel
	if err := query.Find(&partyModels).Error; err != nil {
		return nil, err
	}

	parties := make([]*party.Party, len(partyModels))
	for i, model := range partyModels {
		parties[i] = model.ToDomain()
	}
	return parties, nil
}

// Count counts all parties
func (r *GormPartyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PartyModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyPartyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR external_email ILIKE ?",
			search, search, search)
	}
	for key, value := range filter.Filters {
		switch key {
		case "classification":
			query = query.Where("classification = ?", value)
		}
	}
	return query
}

// Ensure GormPartyRepository implements PartyRepository
var _ party.PartyRepository = (*GormPartyRepository)(nil)
