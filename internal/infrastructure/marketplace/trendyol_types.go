package marketplace

// Wire shapes for the Trendyol supplier API. Only the fields we read are
// declared; the full payload is preserved verbatim on the record.

type trendyolPackagesResponse struct {
	Content       []trendyolPackage `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
}

type trendyolPackage struct {
	ID              int64                 `json:"id"`
	OrderNumber     string                `json:"orderNumber"`
	Status          string                `json:"status"`
	OrderDate       int64                 `json:"orderDate"`
	GrossAmount     float64               `json:"grossAmount"`
	TotalPrice      float64               `json:"totalPrice"`
	CustomerEmail   string                `json:"customerEmail"`
	ShipmentAddress trendyolAddress       `json:"shipmentAddress"`
	Lines           []trendyolPackageLine `json:"lines"`
	CargoProvider   string                `json:"cargoProviderName"`
	CargoTracking   int64                 `json:"cargoTrackingNumber"`
}

type trendyolAddress struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	City        string `json:"city"`
	District    string `json:"district"`
	FullAddress string `json:"fullAddress"`
	Phone       string `json:"phone"`
}

type trendyolPackageLine struct {
	Barcode     string  `json:"barcode"`
	MerchantSKU string  `json:"merchantSku"`
	ProductName string  `json:"productName"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
}

type trendyolProductsResponse struct {
	Content    []trendyolProduct `json:"content"`
	TotalPages int               `json:"totalPages"`
}

type trendyolProduct struct {
	Barcode   string  `json:"barcode"`
	Title     string  `json:"title"`
	StockCode string  `json:"stockCode"`
	Quantity  int64   `json:"quantity"`
	SalePrice float64 `json:"salePrice"`
	ListPrice float64 `json:"listPrice"`
	Approved  bool    `json:"approved"`
	OnSale    bool    `json:"onSale"`
}

type trendyolQuestionsResponse struct {
	Content    []trendyolQuestion `json:"content"`
	TotalPages int                `json:"totalPages"`
}

type trendyolQuestion struct {
	ID            int64  `json:"id"`
	Text          string `json:"text"`
	Status        string `json:"status"`
	UserName      string `json:"userName"`
	ProductMainID string `json:"productMainId"`
	CreationDate  int64  `json:"creationDate"`
}

type trendyolClaimsResponse struct {
	Content    []trendyolClaim `json:"content"`
	TotalPages int             `json:"totalPages"`
}

type trendyolClaim struct {
	ID          string `json:"id"`
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
	Reason      string `json:"reasonName"`
	ClaimDate   int64  `json:"claimDate"`
}
