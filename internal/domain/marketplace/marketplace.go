package marketplace

// ---------------------------------------------------------------------------
// Code identifies a connected marketplace
// ---------------------------------------------------------------------------

// Code identifies a connected marketplace.
type Code string

const (
	// CodeTrendyol represents the Trendyol marketplace
	CodeTrendyol Code = "TRENDYOL"
	// CodeHepsiburada represents the Hepsiburada marketplace
	CodeHepsiburada Code = "HEPSIBURADA"
	// CodeN11 represents the N11 marketplace
	CodeN11 Code = "N11"
	// CodePazarama represents the Pazarama marketplace
	CodePazarama Code = "PAZARAMA"
	// CodeIdefix represents the Idefix marketplace
	CodeIdefix Code = "IDEFIX"
)

// AllCodes returns every known marketplace code in a stable order.
func AllCodes() []Code {
	return []Code{CodeTrendyol, CodeHepsiburada, CodeN11, CodePazarama, CodeIdefix}
}

// IsValid returns true if the code is a known marketplace
func (c Code) IsValid() bool {
	switch c {
	case CodeTrendyol, CodeHepsiburada, CodeN11, CodePazarama, CodeIdefix:
		return true
	default:
		return false
	}
}

// String returns the string representation of Code
func (c Code) String() string {
	return string(c)
}

// ---------------------------------------------------------------------------
// EntityType selects which record stream a sync run crawls
// ---------------------------------------------------------------------------

// EntityType selects which record stream a sync run crawls.
type EntityType string

const (
	EntityOrder    EntityType = "ORDER"
	EntityProduct  EntityType = "PRODUCT"
	EntityQuestion EntityType = "QUESTION"
	EntityReturn   EntityType = "RETURN"
)

// AllEntityTypes returns every entity type in a stable order.
func AllEntityTypes() []EntityType {
	return []EntityType{EntityOrder, EntityProduct, EntityQuestion, EntityReturn}
}

// IsValid returns true if the entity type is known
func (t EntityType) IsValid() bool {
	switch t {
	case EntityOrder, EntityProduct, EntityQuestion, EntityReturn:
		return true
	default:
		return false
	}
}

// String returns the string representation of EntityType
func (t EntityType) String() string {
	return string(t)
}

// ---------------------------------------------------------------------------
// Canonical statuses
// ---------------------------------------------------------------------------

// OrderStatus is the canonical order state shared by all marketplaces.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "NEW"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusUnknown   OrderStatus = "UNKNOWN"
)

// IsValid returns true if the status is a canonical order status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusApproved, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsFinal returns true for states that no longer change on the marketplace
func (s OrderStatus) IsFinal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// ProductStatus is the canonical product approval state.
type ProductStatus string

const (
	ProductStatusApproved ProductStatus = "APPROVED"
	ProductStatusPending  ProductStatus = "PENDING"
	ProductStatusRejected ProductStatus = "REJECTED"
	ProductStatusUnknown  ProductStatus = "UNKNOWN"
)

// IsValid returns true if the status is a canonical product status
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusApproved, ProductStatusPending, ProductStatusRejected, ProductStatusUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}
