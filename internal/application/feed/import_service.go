package feedapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sellercentric/backend/internal/domain/catalog"
	"github.com/sellercentric/backend/internal/domain/feed"
	"github.com/sellercentric/backend/internal/domain/geo"
	"github.com/sellercentric/backend/internal/domain/order"
	"github.com/sellercentric/backend/internal/domain/party"
	"github.com/sellercentric/backend/internal/domain/shared/valueobject"
)

// ImportConfig carries the feature switches governing order import
type ImportConfig struct {
	// FacilityID is the warehouse inventory is reserved against
	FacilityID string
	// RequireInventory fails the import when a reservation comes up short
	RequireInventory bool
	// RequireTaxAuthority fails the import when a collected tax cannot be
	// mapped to an authority
	RequireTaxAuthority bool
	// AutoApprove moves imported orders straight to APPROVED
	AutoApprove bool
}

// ImportResult summarizes one ImportOrders run
type ImportResult struct {
	Attempted int `json:"attempted"`
	Imported  int `json:"imported"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// ImportUnitOfWork persists the outcome of one order import atomically:
// the party (created or updated), the new order and the staging row
// advance together or not at all
type ImportUnitOfWork interface {
	SaveImport(ctx context.Context, p *party.Party, o *order.Order, so *feed.StagedOrder) error
}

// ImportService turns staged marketplace orders into internal orders
type ImportService struct {
	stagedRepo  feed.StagedOrderRepository
	orderRepo   order.OrderRepository
	partyRepo   party.PartyRepository
	numberSvc   order.OrderNumberService
	products    *catalog.ProductResolver
	inventory   catalog.InventoryService
	geoResolver *geo.Resolver
	taxResolver *geo.TaxAuthorityResolver
	uow         ImportUnitOfWork
	policy      feed.RetryPolicy
	config      ImportConfig
	batchSize   int
	logger      *zap.Logger
}

// NewImportService creates a new ImportService
func NewImportService(
	stagedRepo feed.StagedOrderRepository,
	orderRepo order.OrderRepository,
	partyRepo party.PartyRepository,
	numberSvc order.OrderNumberService,
	products *catalog.ProductResolver,
	inventory catalog.InventoryService,
	geoResolver *geo.Resolver,
	taxResolver *geo.TaxAuthorityResolver,
	uow ImportUnitOfWork,
	policy feed.RetryPolicy,
	config ImportConfig,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		stagedRepo:  stagedRepo,
		orderRepo:   orderRepo,
		partyRepo:   partyRepo,
		numberSvc:   numberSvc,
		products:    products,
		inventory:   inventory,
		geoResolver: geoResolver,
		taxResolver: taxResolver,
		uow:         uow,
		policy:      policy,
		config:      config,
		batchSize:   50,
		logger:      logger,
	}
}

// SetBatchSize overrides how many staged orders one run processes
func (s *ImportService) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// ImportOrders processes importable staging rows under the retry ceiling.
// Each order imports in its own transaction; a failure records the cause
// on the staging row and continues with the next order.
func (s *ImportService) ImportOrders(ctx context.Context) (*ImportResult, error) {
	staged, err := s.stagedRepo.FindImportable(ctx, s.policy, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("find importable orders: %w", err)
	}

	result := &ImportResult{Attempted: len(staged)}
	for _, so := range staged {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		skipped, err := s.importOne(ctx, so)
		if err != nil {
			result.Failed++
			so.MarkFailed(err)
			if saveErr := s.stagedRepo.Save(ctx, so); saveErr != nil {
				return result, fmt.Errorf("save failed staging row %s: %w", so.ExternalOrderID, saveErr)
			}
			s.logger.Error("Order import failed",
				zap.String("external_order_id", so.ExternalOrderID),
				zap.Int("failure_count", so.FailureCount),
				zap.Error(err))
			continue
		}
		if skipped {
			result.Skipped++
		} else {
			result.Imported++
		}
	}

	s.logger.Info("Order import completed",
		zap.Int("attempted", result.Attempted),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *ImportService) importOne(ctx context.Context, so *feed.StagedOrder) (skipped bool, err error) {
	// a previous run may have imported this order and failed only on the
	// staging row update
	if existing, findErr := s.orderRepo.FindByExternalID(ctx, so.ExternalOrderID); findErr == nil {
		so.MarkImported(existing.ID, time.Now())
		if saveErr := s.stagedRepo.Save(ctx, so); saveErr != nil {
			return false, saveErr
		}
		return true, nil
	}

	buyer, err := s.resolveParty(ctx, so)
	if err != nil {
		return false, err
	}

	addr, phoneContact, err := s.resolveShipTo(ctx, so, buyer)
	if err != nil {
		return false, err
	}

	orderNumber, err := s.numberSvc.NextOrderNumber(ctx)
	if err != nil {
		return false, fmt.Errorf("allocate order number: %w", err)
	}

	currency := valueobject.Currency(so.CurrencyCode)
	if so.CurrencyCode == "" {
		currency = valueobject.DefaultCurrency
	}
	o, err := order.NewOrder(orderNumber, so.ExternalOrderID, order.ChannelMarketplace, buyer.ID, currency)
	if err != nil {
		return false, err
	}

	if err := s.buildLines(ctx, so, o); err != nil {
		return false, err
	}

	sg := order.NewShipGroup(so.ShipmentMethod, so.FulfillmentClass)
	if addr != nil {
		sg.PostalAddressID = &addr.ID
	}
	if phoneContact != nil {
		sg.PhoneContactID = &phoneContact.ID
	}
	o.SetShipGroup(sg)

	if err := s.reserveInventory(ctx, so, o); err != nil {
		return false, err
	}

	if s.config.AutoApprove {
		if err := o.Approve(); err != nil {
			return false, err
		}
	}

	so.MarkImported(o.ID, time.Now())
	if err := s.uow.SaveImport(ctx, buyer, o, so); err != nil {
		return false, fmt.Errorf("save import: %w", err)
	}

	s.logger.Info("Order imported",
		zap.String("external_order_id", so.ExternalOrderID),
		zap.String("order_number", o.OrderNumber),
		zap.String("grand_total", o.GrandTotal().String()))
	return false, nil
}

// resolveParty finds the buyer by external email or creates a new party
func (s *ImportService) resolveParty(ctx context.Context, so *feed.StagedOrder) (*party.Party, error) {
	if so.BuyerEmail == "" {
		return nil, fmt.Errorf("order %s: buyer email missing", so.ExternalOrderID)
	}
	buyer, err := s.partyRepo.FindByExternalEmail(ctx, so.BuyerEmail)
	if err != nil {
		first, last := splitName(so.BuyerName)
		buyer, err = party.NewParty(first, last, so.BuyerEmail, party.ClassificationMarketplaceCustomer)
		if err != nil {
			return nil, err
		}
	}
	if so.BuyerPhone != "" {
		s.attachPhone(buyer, so.BuyerPhone, party.ContactPurposePrimary, so.ExternalOrderID)
	}
	return buyer, nil
}

// resolveShipTo resolves the geo references for the ship-to address and
// attaches address and phone contacts, reusing existing ones on match
func (s *ImportService) resolveShipTo(ctx context.Context, so *feed.StagedOrder, buyer *party.Party) (*party.PostalAddress, *party.PhoneContact, error) {
	state, err := s.geoResolver.ResolveState(ctx, so.ShipState)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve state %q: %w", so.ShipState, err)
	}
	country, err := s.geoResolver.ResolveCountry(ctx, so.ShipCountry)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve country %q: %w", so.ShipCountry, err)
	}

	candidate := party.NewPostalAddress(so.ShipToName, so.ShipAddress1, so.ShipAddress2, so.ShipCity, so.ShipPostalCode, party.ContactPurposeShipping)
	candidate.StateGeoID = &state.ID
	candidate.CountryGeoID = &country.ID
	candidate.StateRaw = so.ShipState
	candidate.CountryRaw = so.ShipCountry

	addr := buyer.FindMatchingAddress(candidate)
	if addr == nil {
		addr = buyer.AddAddress(candidate)
	}

	var phoneContact *party.PhoneContact
	if so.ShipPhone != "" {
		phoneContact = s.attachPhone(buyer, so.ShipPhone, party.ContactPurposeShipping, so.ExternalOrderID)
	}
	return addr, phoneContact, nil
}

// attachPhone parses and attaches a phone contact, reusing an existing
// contact with the same number. Unparseable numbers are kept verbatim.
func (s *ImportService) attachPhone(buyer *party.Party, raw string, purpose party.ContactPurpose, externalOrderID string) *party.PhoneContact {
	number, parsed := valueobject.ParsePhoneNumber(raw)
	if !parsed {
		s.logger.Warn("Phone number kept verbatim",
			zap.String("external_order_id", externalOrderID),
			zap.String("raw", raw))
	}
	if number.IsEmpty() {
		return nil
	}
	if existing := buyer.FindPhone(number); existing != nil {
		return existing
	}
	return buyer.AddPhone(number, purpose)
}

// buildLines resolves each staged item to a product and assembles the
// order's items and adjustments
func (s *ImportService) buildLines(ctx context.Context, so *feed.StagedOrder, o *order.Order) error {
	for _, item := range so.Items {
		product, err := s.products.Resolve(ctx, item.ProductCode)
		if err != nil {
			return fmt.Errorf("resolve product %q: %w", item.ProductCode, err)
		}

		line := o.AddItem(order.NewItem(product.ID, item.ExternalItemID, item.Description, item.Quantity, item.UnitPrice()).
			WithSubtotal(item.PrincipalTotal()))

		for _, comp := range item.Components {
			if comp.Kind == feed.ComponentPrincipal {
				continue
			}
			o.AddAdjustment(order.NewItemAdjustment(adjustmentTypeForComponent(comp.Kind), comp.Amount, comp.Kind, line.SequenceID))
		}
		for _, promo := range item.Promotions {
			o.AddAdjustment(order.NewItemAdjustment(order.AdjustmentPromotion, promo.Amount, promo.Kind, line.SequenceID).
				WithPromotion(promo.PromotionID, promo.ClaimCode))
		}
		for _, fee := range item.Fees {
			o.AddAdjustment(order.NewItemAdjustment(order.AdjustmentFee, fee.Amount, fee.Kind, line.SequenceID))
		}
		if err := s.buildTaxAdjustments(ctx, item, o, line.SequenceID); err != nil {
			return err
		}
	}
	return nil
}

// adjustmentTypeForComponent maps a non-principal price component onto
// the adjustment it books as. Shipping components carry shipping charges;
// gift wrap, COD and other surcharges book as fees.
func adjustmentTypeForComponent(kind string) order.AdjustmentType {
	if strings.Contains(kind, "Shipping") {
		return order.AdjustmentShipping
	}
	return order.AdjustmentFee
}

func (s *ImportService) buildTaxAdjustments(ctx context.Context, item feed.StagedOrderItem, o *order.Order, seqID int) error {
	for _, tax := range item.Taxes {
		adj := order.NewItemAdjustment(order.AdjustmentSalesTax, tax.Amount, tax.Kind, seqID)
		authority, err := s.taxResolver.Resolve(ctx, geo.JurisdictionLevel(tax.JurisdLevel), tax.JurisdName, tax.JurisdStateCode)
		if err != nil {
			if s.config.RequireTaxAuthority {
				return fmt.Errorf("resolve tax authority for %s/%s: %w", tax.JurisdLevel, tax.JurisdName, err)
			}
			s.logger.Warn("Tax authority not resolved",
				zap.String("external_order_id", o.ExternalOrderID),
				zap.String("jurisdiction", tax.JurisdName),
				zap.String("level", tax.JurisdLevel))
		} else {
			adj = adj.WithTaxAuthority(authority)
		}
		o.AddAdjustment(adj)
	}
	return nil
}

// reserveInventory reserves each line against the configured facility.
// Reservations happen outside the import transaction and are not undone
// when a later step fails.
func (s *ImportService) reserveInventory(ctx context.Context, so *feed.StagedOrder, o *order.Order) error {
	for _, line := range o.Items {
		unsatisfied, err := s.inventory.Reserve(ctx, s.config.FacilityID, line.ProductID, line.Quantity)
		if err != nil {
			return fmt.Errorf("reserve inventory for item %s: %w", line.ExternalItemID, err)
		}
		if unsatisfied.GreaterThan(decimal.Zero) {
			if s.config.RequireInventory {
				return fmt.Errorf("order %s: %s units of item %s not available", so.ExternalOrderID, unsatisfied, line.ExternalItemID)
			}
			s.logger.Warn("Inventory reservation short",
				zap.String("external_order_id", so.ExternalOrderID),
				zap.String("external_item_id", line.ExternalItemID),
				zap.String("unsatisfied", unsatisfied.String()))
		}
	}
	return nil
}

// splitName splits a display name into first and last on the final space
func splitName(full string) (string, string) {
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == ' ' {
			return full[:i], full[i+1:]
		}
	}
	return full, ""
}
