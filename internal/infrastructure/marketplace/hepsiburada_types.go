package marketplace

import "time"

// Wire shapes for the Hepsiburada OMS and listing APIs.

type hepsiburadaPackagesResponse struct {
	Items      []hepsiburadaPackage `json:"items"`
	Offset     int                  `json:"offset"`
	Limit      int                  `json:"limit"`
	TotalCount int64                `json:"totalCount"`
}

type hepsiburadaPackage struct {
	PackageNumber   string                 `json:"packageNumber"`
	OrderNumber     string                 `json:"orderNumber"`
	Status          string                 `json:"status"`
	OrderDate       time.Time              `json:"orderDate"`
	CustomerName    string                 `json:"customerName"`
	Email           string                 `json:"email"`
	TotalPrice      hepsiburadaAmount      `json:"totalPrice"`
	ShippingAddress hepsiburadaAddress     `json:"shippingAddress"`
	Items           []hepsiburadaOrderLine `json:"items"`
	CargoCompany    string                 `json:"cargoCompany"`
	TrackingNumber  string                 `json:"barcode"`
}

type hepsiburadaAmount struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type hepsiburadaAddress struct {
	City        string `json:"city"`
	Town        string `json:"town"`
	AddressLine string `json:"address"`
	Phone       string `json:"phoneNumber"`
}

type hepsiburadaOrderLine struct {
	SKU         string            `json:"sku"`
	MerchantSKU string            `json:"merchantSku"`
	Name        string            `json:"name"`
	Quantity    int64             `json:"quantity"`
	Price       hepsiburadaAmount `json:"price"`
}

type hepsiburadaListingsResponse struct {
	Listings   []hepsiburadaListing `json:"listings"`
	TotalCount int64                `json:"totalCount"`
}

type hepsiburadaListing struct {
	MerchantSKU    string `json:"merchantSku"`
	HepsiburadaSKU string `json:"hepsiburadaSku"`
	ProductName    string `json:"productName"`
	Price          string `json:"price"`
	AvailableStock int64  `json:"availableStock"`
	IsSalable      *bool  `json:"isSalable"`
}

type hepsiburadaClaimsResponse struct {
	Items      []hepsiburadaClaim `json:"items"`
	TotalCount int64              `json:"totalCount"`
}

type hepsiburadaClaim struct {
	ClaimNumber string    `json:"claimNumber"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"createdAt"`
}
