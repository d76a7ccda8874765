package marketplace

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

const idefixMaxResponseSize = 10 * 1024 * 1024

// IdefixConfig holds the Idefix endpoint settings.
type IdefixConfig struct {
	APIBaseURL     string
	TimeoutSeconds int
	PageSize       int
}

// DefaultIdefixConfig returns production endpoint defaults.
func DefaultIdefixConfig() IdefixConfig {
	return IdefixConfig{
		APIBaseURL:     "https://merchantapi.idefix.com",
		TimeoutSeconds: 30,
		PageSize:       50,
	}
}

// IdefixAdapter implements the marketplace.Adapter port for Idefix. Auth is
// a base64 vendor token header built from the key/secret pair, and listings
// page with an opaque searchAfter token instead of page numbers. Questions
// are not exposed to integrators.
type IdefixAdapter struct {
	cfg        IdefixConfig
	httpClient *http.Client
}

// NewIdefixAdapter creates an Idefix adapter.
func NewIdefixAdapter(cfg IdefixConfig) *IdefixAdapter {
	if cfg.APIBaseURL == "" {
		cfg = DefaultIdefixConfig()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	return &IdefixAdapter{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

func (a *IdefixAdapter) Code() marketplace.Code {
	return marketplace.CodeIdefix
}

// CheckConnection verifies the vendor token with a one-item order search.
func (a *IdefixAdapter) CheckConnection(ctx context.Context, acct marketplace.Account) error {
	endpoint := fmt.Sprintf("%s/order/search?size=1", a.cfg.APIBaseURL)
	_, err := a.doGet(ctx, acct, endpoint)
	return err
}

func (a *IdefixAdapter) Orders() (marketplace.OrderLister, bool)     { return a, true }
func (a *IdefixAdapter) Products() (marketplace.ProductLister, bool) { return a, true }

// Questions is absent: Idefix has no integrator question endpoint.
func (a *IdefixAdapter) Questions() (marketplace.QuestionLister, bool) { return nil, false }

func (a *IdefixAdapter) Returns() (marketplace.ReturnLister, bool) { return a, true }

// ListOrders fetches one page of orders using the searchAfter token.
func (a *IdefixAdapter) ListOrders(ctx context.Context, acct marketplace.Account, cursor *string, filter marketplace.ListFilter) (*marketplace.Page, error) {
	endpoint := fmt.Sprintf("%s/order/search?size=%d", a.cfg.APIBaseURL, a.cfg.PageSize)
	if cursor != nil {
		endpoint += "&searchAfter=" + url.QueryEscape(*cursor)
	}
	if filter.Status != "" {
		endpoint += "&status=" + url.QueryEscape(filter.Status)
	}
	if !filter.StartTime.IsZero() {
		endpoint += "&startDate=" + url.QueryEscape(filter.StartTime.UTC().Format(time.RFC3339))
	}

	body, err := a.doGet(ctx, acct, endpoint)
	if err != nil {
		return nil, err
	}

	var resp idefixOrdersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("decoding orders page: %w", err))
	}

	out := &marketplace.Page{Items: make([]marketplace.RawRecord, 0, len(resp.Content))}
	for _, o := range resp.Content {
		out.Items = append(out.Items, idefixOrderToRecord(acct, o))
	}
	if resp.SearchAfter != "" && len(resp.Content) > 0 {
		sa := resp.SearchAfter
		out.NextCursor = &sa
	}
	return out, nil
}

// ListProducts fetches one page of vendor products.
func (a *IdefixAdapter) ListProducts(ctx context.Context, acct marketplace.Account, cursor *string, _ marketplace.ListFilter) (*marketplace.Page, error) {
	endpoint := fmt.Sprintf("%s/product/search?size=%d", a.cfg.APIBaseURL, a.cfg.PageSize)
	if cursor != nil {
		endpoint += "&searchAfter=" + url.QueryEscape(*cursor)
	}

	body, err := a.doGet(ctx, acct, endpoint)
	if err != nil {
		return nil, err
	}

	var resp idefixProductsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("decoding products page: %w", err))
	}

	out := &marketplace.Page{Items: make([]marketplace.RawRecord, 0, len(resp.Content))}
	for _, p := range resp.Content {
		raw, _ := json.Marshal(p)
		out.Items = append(out.Items, marketplace.RawRecord{
			ExternalID: p.Barcode,
			RawStatus:  p.Status,
			Payload:    raw,
			Product: &marketplace.CanonicalProduct{
				OwnerID:       acct.OwnerID,
				Marketplace:   marketplace.CodeIdefix,
				ExternalID:    p.Barcode,
				Barcode:       p.Barcode,
				SKU:           p.VendorStockCode,
				Title:         p.Title,
				Price:         decimal.NewFromFloat(p.Price),
				StockQuantity: p.Stock,
				RawStatus:     p.Status,
				RawPayload:    raw,
			},
		})
	}
	if resp.SearchAfter != "" && len(resp.Content) > 0 {
		sa := resp.SearchAfter
		out.NextCursor = &sa
	}
	return out, nil
}

// ListReturns fetches one page of return requests.
func (a *IdefixAdapter) ListReturns(ctx context.Context, acct marketplace.Account, cursor *string, _ marketplace.ListFilter) (*marketplace.Page, error) {
	endpoint := fmt.Sprintf("%s/return/search?size=%d", a.cfg.APIBaseURL, a.cfg.PageSize)
	if cursor != nil {
		endpoint += "&searchAfter=" + url.QueryEscape(*cursor)
	}

	body, err := a.doGet(ctx, acct, endpoint)
	if err != nil {
		return nil, err
	}

	var resp idefixReturnsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("decoding returns page: %w", err))
	}

	out := &marketplace.Page{Items: make([]marketplace.RawRecord, 0, len(resp.Content))}
	for _, r := range resp.Content {
		raw, _ := json.Marshal(r)
		out.Items = append(out.Items, marketplace.RawRecord{
			ExternalID: r.ReturnID,
			RawStatus:  r.Status,
			Payload:    raw,
			Return: &marketplace.CanonicalReturn{
				OwnerID:         acct.OwnerID,
				Marketplace:     marketplace.CodeIdefix,
				ExternalID:      r.ReturnID,
				OrderExternalID: r.OrderNumber,
				Reason:          r.Reason,
				RawStatus:       r.Status,
				RequestedAt:     r.CreatedAt,
				RawPayload:      raw,
			},
		})
	}
	if resp.SearchAfter != "" && len(resp.Content) > 0 {
		sa := resp.SearchAfter
		out.NextCursor = &sa
	}
	return out, nil
}

func (a *IdefixAdapter) doGet(ctx context.Context, acct marketplace.Account, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}
	token := base64.StdEncoding.EncodeToString([]byte(acct.APIKey + ":" + acct.APISecret))
	req.Header.Set("x-vendor-token", token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, idefixMaxResponseSize))
	if err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindUnauthorized,
			fmt.Errorf("HTTP %d", resp.StatusCode))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindRateLimited,
			fmt.Errorf("HTTP %d", resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound:
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindNotFound,
			fmt.Errorf("HTTP %d", resp.StatusCode))
	case resp.StatusCode >= 500:
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindTransient,
			fmt.Errorf("HTTP %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncateBody(body)))
	}
	return body, nil
}

// idefixOrderToRecord converts one order to a raw record.
func idefixOrderToRecord(acct marketplace.Account, o idefixOrder) marketplace.RawRecord {
	raw, _ := json.Marshal(o)

	order := &marketplace.CanonicalOrder{
		OwnerID:     acct.OwnerID,
		Marketplace: marketplace.CodeIdefix,
		ExternalID:  o.OrderNumber,
		OrderNumber: o.OrderNumber,
		RawStatus:   o.Status,
		TotalAmount: decimal.NewFromFloat(o.TotalPrice),
		Currency:    "TRY",
		PlacedAt:    o.OrderDate,
		RawPayload:  raw,
		Customer: marketplace.Customer{
			Name:    o.Customer.FullName,
			Email:   o.Customer.Email,
			Phone:   o.DeliveryAddress.Phone,
			City:    o.DeliveryAddress.City,
			Address: o.DeliveryAddress.Address,
		},
	}
	for _, item := range o.Items {
		order.Items = append(order.Items, marketplace.LineItem{
			Barcode:   item.Barcode,
			SKU:       item.VendorStockCode,
			Name:      item.Title,
			Quantity:  decimal.NewFromInt(item.Quantity),
			UnitPrice: decimal.NewFromFloat(item.Price),
		})
	}

	return marketplace.RawRecord{
		ExternalID: o.OrderNumber,
		RawStatus:  o.Status,
		Payload:    raw,
		Order:      order,
	}
}

var _ marketplace.Adapter = (*IdefixAdapter)(nil)
