package sync

import (
	"encoding/json"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

// erpOrderPayload is the order/create body expected by the downstream ERP.
type erpOrderPayload struct {
	OrderNumber  string         `json:"order_number"`
	Source       string         `json:"source"`
	CustomerName string         `json:"customer_name,omitempty"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	City         string         `json:"city,omitempty"`
	Address      string         `json:"address,omitempty"`
	TotalAmount  string         `json:"total_amount"`
	Currency     string         `json:"currency,omitempty"`
	PaymentType  int            `json:"payment_type"`
	OrderDate    string         `json:"order_date"`
	Lines        []erpOrderLine `json:"lines"`
}

type erpOrderLine struct {
	Barcode   string `json:"barcode,omitempty"`
	StockCode string `json:"stock_code,omitempty"`
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// buildERPPayload renders a merged canonical order into the ERP wire shape.
// Amounts travel as strings so the ERP parses them with full precision.
func buildERPPayload(order *marketplace.CanonicalOrder, paymentType int) ([]byte, error) {
	p := erpOrderPayload{
		OrderNumber:  order.OrderNumber,
		Source:       order.Marketplace.String(),
		CustomerName: order.Customer.Name,
		Email:        order.Customer.Email,
		Phone:        order.Customer.Phone,
		City:         order.Customer.City,
		Address:      order.Customer.Address,
		TotalAmount:  order.TotalAmount.String(),
		Currency:     order.Currency,
		PaymentType:  paymentType,
		OrderDate:    order.PlacedAt.UTC().Format("2006-01-02 15:04:05"),
	}
	if p.OrderNumber == "" {
		p.OrderNumber = order.ExternalID
	}
	for _, line := range order.Items {
		p.Lines = append(p.Lines, erpOrderLine{
			Barcode:   line.Barcode,
			StockCode: line.SKU,
			Name:      line.Name,
			Quantity:  line.Quantity.String(),
			UnitPrice: line.UnitPrice.String(),
		})
	}
	return json.Marshal(p)
}
