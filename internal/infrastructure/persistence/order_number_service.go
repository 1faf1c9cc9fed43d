package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sellercentric/backend/internal/domain/order"
)

// defaultOrderNumberPrefix marks internally generated order numbers
const defaultOrderNumberPrefix = "WS"

// SequenceOrderNumberService hands out order numbers from a Postgres
// sequence. Each call consumes a value, so a failed import leaves a gap
// rather than a duplicate.
type SequenceOrderNumberService struct {
	db     *gorm.DB
	prefix string
}

// NewSequenceOrderNumberService creates a new SequenceOrderNumberService
func NewSequenceOrderNumberService(db *gorm.DB) *SequenceOrderNumberService {
	return &SequenceOrderNumberService{db: db, prefix: defaultOrderNumberPrefix}
}

// NextOrderNumber draws the next number from the order_number_seq sequence
func (s *SequenceOrderNumberService) NextOrderNumber(ctx context.Context) (string, error) {
	var next int64
	if err := s.db.WithContext(ctx).
		Raw("SELECT nextval('order_number_seq')").
		Scan(&next).Error; err != nil {
		return "", fmt.Errorf("draw order number: %w", err)
	}
	return fmt.Sprintf("%s%06d", s.prefix, next), nil
}

// Ensure SequenceOrderNumberService implements OrderNumberService
var _ order.OrderNumberService = (*SequenceOrderNumberService)(nil)
