// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel)
// - feed.go: Staging context models (StagedDocument, StagedOrder, StagedFeed)
// - party.go: Party context models (Party and its contact mechanisms)
// - order.go: Order context models (Order, items, adjustments, ship group)
// - finance.go: Finance context models (Invoice, Payment, BillingAccount)
// - catalog.go: Catalog context models (Product)
// - geo.go: Reference data models (Geo, TaxJurisdiction)
package models
