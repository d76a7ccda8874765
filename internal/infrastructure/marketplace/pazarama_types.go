package marketplace

import "time"

// Wire shapes for the Pazarama merchant gateway.

type pazaramaTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type pazaramaOrdersResponse struct {
	Data    []pazaramaOrder `json:"data"`
	Success bool            `json:"success"`
}

type pazaramaOrder struct {
	OrderNumber     string              `json:"orderNumber"`
	OrderState      int                 `json:"orderState"`
	OrderDate       time.Time           `json:"orderDate"`
	TotalAmount     float64             `json:"totalAmount"`
	CustomerName    string              `json:"customerName"`
	ShipmentAddress pazaramaAddress     `json:"shipmentAddress"`
	Items           []pazaramaOrderItem `json:"items"`
}

type pazaramaAddress struct {
	City    string `json:"cityName"`
	Address string `json:"address"`
	Phone   string `json:"phoneNumber"`
}

type pazaramaOrderItem struct {
	Barcode     string  `json:"barcode"`
	StockCode   string  `json:"stockCode"`
	ProductName string  `json:"productName"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
}

type pazaramaProductsResponse struct {
	Data    []pazaramaProduct `json:"data"`
	Success bool              `json:"success"`
}

type pazaramaProduct struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	StockCode  string  `json:"stockCode"`
	SalePrice  float64 `json:"salePrice"`
	StockCount int64   `json:"stockCount"`
	State      int     `json:"state"`
}
