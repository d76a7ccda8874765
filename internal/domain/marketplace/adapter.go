package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Raw records and pages
// ---------------------------------------------------------------------------

// RawRecord is one marketplace item in its half-translated form: the adapter
// has decoded the wire payload and lifted out the identity and status fields,
// but the canonical conversion happens later in the merge stage so that a
// single undecodable item can be logged and skipped without losing the page.
type RawRecord struct {
	// ExternalID is the marketplace-scoped identifier of the record
	ExternalID string
	// RawStatus is the untranslated status string as the marketplace sent it
	RawStatus string
	// Payload is the original wire payload, retained for audit
	Payload []byte
	// Order is set when the record decodes to an order
	Order *CanonicalOrder
	// Product is set when the record decodes to a product
	Product *CanonicalProduct
	// Question is set when the record decodes to a customer question
	Question *CanonicalQuestion
	// Return is set when the record decodes to a return request
	Return *CanonicalReturn
	// DecodeErr is set when the item payload was individually malformed.
	// The surrounding page is still valid.
	DecodeErr error
}

// Page is one batch of raw records plus the cursor for the next batch.
// A nil NextCursor signals exhaustion.
type Page struct {
	Items      []RawRecord
	NextCursor *string
}

// ListFilter narrows a listing call. All fields are optional.
type ListFilter struct {
	// Status filters by the marketplace's raw status vocabulary
	Status string
	// StartTime bounds the record creation time range
	StartTime time.Time
	// EndTime bounds the record creation time range
	EndTime time.Time
}

// Account carries the per-seller credentials and identity an adapter needs
// for one call. Credential semantics are adapter-specific.
type Account struct {
	// OwnerID is the seller account that owns the marketplace connection
	OwnerID uuid.UUID
	// SellerID is the seller/merchant identifier on the marketplace
	SellerID string
	// APIKey and APISecret authenticate the call
	APIKey    string
	APISecret string
}

// ---------------------------------------------------------------------------
// Capability interfaces
// ---------------------------------------------------------------------------

// OrderLister fetches one page of orders.
type OrderLister interface {
	ListOrders(ctx context.Context, acct Account, cursor *string, filter ListFilter) (*Page, error)
}

// ProductLister fetches one page of products.
type ProductLister interface {
	ListProducts(ctx context.Context, acct Account, cursor *string, filter ListFilter) (*Page, error)
}

// QuestionLister fetches one page of customer questions.
type QuestionLister interface {
	ListQuestions(ctx context.Context, acct Account, cursor *string, filter ListFilter) (*Page, error)
}

// ReturnLister fetches one page of return requests.
type ReturnLister interface {
	ListReturns(ctx context.Context, acct Account, cursor *string, filter ListFilter) (*Page, error)
}

// ---------------------------------------------------------------------------
// Adapter port
// ---------------------------------------------------------------------------

// Adapter is the port interface one marketplace implements. Concrete
// implementations live in the infrastructure layer, one independent
// implementation per marketplace; they share nothing but this interface
// because the wire formats have little in common.
//
// Capabilities are optional: a marketplace without a returns API returns
// (nil, false) from Returns and callers must check before invoking.
type Adapter interface {
	// Code returns the marketplace this adapter handles
	Code() Code

	// CheckConnection verifies the account credentials with a cheap call
	CheckConnection(ctx context.Context, acct Account) error

	// Orders returns the order listing capability, if offered
	Orders() (OrderLister, bool)
	// Products returns the product listing capability, if offered
	Products() (ProductLister, bool)
	// Questions returns the question listing capability, if offered
	Questions() (QuestionLister, bool)
	// Returns returns the return-request listing capability, if offered
	Returns() (ReturnLister, bool)
}

// CapabilityFunc is one listing capability in callable form, independent of
// which entity type it serves.
type CapabilityFunc func(ctx context.Context, acct Account, cursor *string, filter ListFilter) (*Page, error)

// Capability resolves the listing function for one entity type, or
// (nil, false) when the adapter does not offer it.
func Capability(a Adapter, entity EntityType) (CapabilityFunc, bool) {
	switch entity {
	case EntityOrder:
		if l, ok := a.Orders(); ok {
			return l.ListOrders, true
		}
	case EntityProduct:
		if l, ok := a.Products(); ok {
			return l.ListProducts, true
		}
	case EntityQuestion:
		if l, ok := a.Questions(); ok {
			return l.ListQuestions, true
		}
	case EntityReturn:
		if l, ok := a.Returns(); ok {
			return l.ListReturns, true
		}
	}
	return nil, false
}

// Registry provides access to registered marketplace adapters.
type Registry interface {
	// Get returns the adapter for the given code
	Get(code Code) (Adapter, error)
	// List returns all registered adapters
	List() []Adapter
}
