package marketplace

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CanonicalProduct is the marketplace-agnostic product listing representation.
type CanonicalProduct struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Marketplace Code
	ExternalID  string
	Barcode     string
	SKU         string
	Title       string
	Price       decimal.Decimal
	// StockQuantity is the quantity currently listed on the marketplace
	StockQuantity int64
	Approval      ProductStatus
	// RawStatus is the untranslated approval state from the marketplace
	RawStatus    string
	RawPayload   []byte
	LastSyncedAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
