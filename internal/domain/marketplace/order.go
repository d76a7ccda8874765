package marketplace

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CanonicalOrder is the marketplace-agnostic order representation.
// (Marketplace, ExternalID) is globally unique per owner account; re-syncing
// the same external id updates the stored row in place, never duplicates it.
type CanonicalOrder struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Marketplace Code
	// ExternalID is the order identifier on the marketplace
	ExternalID string
	// OrderNumber is the human-facing order number, when distinct from ExternalID
	OrderNumber string
	Status      OrderStatus
	// RawStatus is the untranslated status, kept so unknown codes stay visible
	RawStatus   string
	Customer    Customer
	Items       []LineItem
	TotalAmount decimal.Decimal
	Currency    string
	PlacedAt    time.Time
	// RawPayload is the original marketplace payload, retained for audit
	RawPayload []byte
	// ERPReference is set once the order has been accepted by the downstream
	// ERP. It is sticky: a re-sync never clears it.
	ERPReference string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LineItem is one order line. Marketplaces return the complete current item
// list on every call, so line items are replaced wholesale on merge.
type LineItem struct {
	// Barcode or seller SKU identifying the product
	Barcode  string
	SKU      string
	Name     string
	Quantity decimal.Decimal
	// UnitPrice is the per-unit selling price
	UnitPrice decimal.Decimal
}

// Customer holds buyer details. Every field is optional; some marketplaces
// omit customer data entirely on list calls.
type Customer struct {
	Name    string
	Email   string
	Phone   string
	City    string
	Address string
}

// MergeCustomer overlays incoming customer fields onto stored ones:
// a field present in the incoming payload wins, a field absent in the
// incoming payload keeps its stored value.
func MergeCustomer(stored, incoming Customer) Customer {
	out := stored
	if incoming.Name != "" {
		out.Name = incoming.Name
	}
	if incoming.Email != "" {
		out.Email = incoming.Email
	}
	if incoming.Phone != "" {
		out.Phone = incoming.Phone
	}
	if incoming.City != "" {
		out.City = incoming.City
	}
	if incoming.Address != "" {
		out.Address = incoming.Address
	}
	return out
}
