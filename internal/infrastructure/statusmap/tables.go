package statusmap

import "github.com/pazarhub/backend/internal/domain/marketplace"

// defaultOrderTables holds every raw order status observed per marketplace.
// Keys are matched case-insensitively.
var defaultOrderTables = map[marketplace.Code]map[string]marketplace.OrderStatus{
	marketplace.CodeTrendyol: {
		"Awaiting":          marketplace.OrderStatusNew,
		"Created":           marketplace.OrderStatusNew,
		"Picking":           marketplace.OrderStatusApproved,
		"Invoiced":          marketplace.OrderStatusApproved,
		"Shipped":           marketplace.OrderStatusShipped,
		"AtCollectionPoint": marketplace.OrderStatusShipped,
		"Delivered":         marketplace.OrderStatusDelivered,
		"Cancelled":         marketplace.OrderStatusCancelled,
		"UnSupplied":        marketplace.OrderStatusCancelled,
		"Returned":          marketplace.OrderStatusCancelled,
	},
	marketplace.CodeHepsiburada: {
		"Created":     marketplace.OrderStatusNew,
		"UnPacked":    marketplace.OrderStatusNew,
		"Packed":      marketplace.OrderStatusApproved,
		"ReadyToShip": marketplace.OrderStatusApproved,
		"Shipped":     marketplace.OrderStatusShipped,
		"InTransit":   marketplace.OrderStatusShipped,
		"Delivered":   marketplace.OrderStatusDelivered,
		"UnDelivered": marketplace.OrderStatusShipped,
		"Cancelled":   marketplace.OrderStatusCancelled,
		"Returned":    marketplace.OrderStatusCancelled,
	},
	marketplace.CodeN11: {
		"Created":   marketplace.OrderStatusNew,
		"Picking":   marketplace.OrderStatusApproved,
		"Invoiced":  marketplace.OrderStatusApproved,
		"Shipped":   marketplace.OrderStatusShipped,
		"Delivered": marketplace.OrderStatusDelivered,
		"Cancelled": marketplace.OrderStatusCancelled,
		"Returned":  marketplace.OrderStatusCancelled,
	},
	// Pazarama reports numeric status codes.
	marketplace.CodePazarama: {
		"1": marketplace.OrderStatusNew,
		"2": marketplace.OrderStatusApproved,
		"3": marketplace.OrderStatusShipped,
		"4": marketplace.OrderStatusDelivered,
		"5": marketplace.OrderStatusCancelled,
	},
	marketplace.CodeIdefix: {
		"Created":     marketplace.OrderStatusNew,
		"Waiting":     marketplace.OrderStatusNew,
		"Preparation": marketplace.OrderStatusApproved,
		"Packaged":    marketplace.OrderStatusApproved,
		"Shipped":     marketplace.OrderStatusShipped,
		"Delivered":   marketplace.OrderStatusDelivered,
		"Cancelled":   marketplace.OrderStatusCancelled,
		"Returned":    marketplace.OrderStatusCancelled,
	},
}

// defaultProductTables maps raw approval/listing states.
var defaultProductTables = map[marketplace.Code]map[string]marketplace.ProductStatus{
	marketplace.CodeTrendyol: {
		"true":     marketplace.ProductStatusApproved, // approved flag
		"false":    marketplace.ProductStatusPending,
		"Approved": marketplace.ProductStatusApproved,
		"Rejected": marketplace.ProductStatusRejected,
		"Archived": marketplace.ProductStatusRejected,
	},
	marketplace.CodeHepsiburada: {
		"Listed":      marketplace.ProductStatusApproved,
		"Unavailable": marketplace.ProductStatusPending,
		"Rejected":    marketplace.ProductStatusRejected,
	},
	marketplace.CodeN11: {
		"Active":     marketplace.ProductStatusApproved,
		"Suspended":  marketplace.ProductStatusPending,
		"Prohibited": marketplace.ProductStatusRejected,
	},
	marketplace.CodePazarama: {
		"Approved":        marketplace.ProductStatusApproved,
		"WaitingApproval": marketplace.ProductStatusPending,
		"Rejected":        marketplace.ProductStatusRejected,
	},
	marketplace.CodeIdefix: {
		"Active":  marketplace.ProductStatusApproved,
		"Draft":   marketplace.ProductStatusPending,
		"Passive": marketplace.ProductStatusRejected,
	},
}
