package marketplace

import "time"

// Wire shapes for the Idefix merchant API.

type idefixOrdersResponse struct {
	Content     []idefixOrder `json:"content"`
	SearchAfter string        `json:"searchAfter"`
}

type idefixOrder struct {
	OrderNumber     string            `json:"orderNumber"`
	Status          string            `json:"status"`
	OrderDate       time.Time         `json:"orderDate"`
	TotalPrice      float64           `json:"totalPrice"`
	Customer        idefixCustomer    `json:"customer"`
	DeliveryAddress idefixAddress     `json:"deliveryAddress"`
	Items           []idefixOrderItem `json:"items"`
}

type idefixCustomer struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type idefixAddress struct {
	City    string `json:"city"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type idefixOrderItem struct {
	Barcode         string  `json:"barcode"`
	VendorStockCode string  `json:"vendorStockCode"`
	Title           string  `json:"title"`
	Quantity        int64   `json:"quantity"`
	Price           float64 `json:"price"`
}

type idefixProductsResponse struct {
	Content     []idefixProduct `json:"content"`
	SearchAfter string          `json:"searchAfter"`
}

type idefixProduct struct {
	Barcode         string  `json:"barcode"`
	VendorStockCode string  `json:"vendorStockCode"`
	Title           string  `json:"title"`
	Price           float64 `json:"price"`
	Stock           int64   `json:"stock"`
	Status          string  `json:"status"`
}

type idefixReturnsResponse struct {
	Content     []idefixReturn `json:"content"`
	SearchAfter string         `json:"searchAfter"`
}

type idefixReturn struct {
	ReturnID    string    `json:"returnId"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"createdAt"`
}
