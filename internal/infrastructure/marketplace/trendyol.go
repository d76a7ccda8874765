package marketplace

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

// trendyolMaxResponseSize bounds a Trendyol API response read (10MB).
const trendyolMaxResponseSize = 10 * 1024 * 1024

// TrendyolConfig holds the Trendyol endpoint settings.
type TrendyolConfig struct {
	APIBaseURL     string
	TimeoutSeconds int
	PageSize       int
}

// DefaultTrendyolConfig returns production endpoint defaults.
func DefaultTrendyolConfig() TrendyolConfig {
	return TrendyolConfig{
		APIBaseURL:     "https://api.trendyol.com/sapigw",
		TimeoutSeconds: 30,
		PageSize:       50,
	}
}

// TrendyolAdapter implements the marketplace.Adapter port for Trendyol.
// Trendyol is JSON REST with HTTP Basic auth (api key/secret) and zero-based
// page/size pagination; orders are modeled as shipment packages.
type TrendyolAdapter struct {
	cfg        TrendyolConfig
	httpClient *http.Client
}

// NewTrendyolAdapter creates a Trendyol adapter.
func NewTrendyolAdapter(cfg TrendyolConfig) *TrendyolAdapter {
	if cfg.APIBaseURL == "" {
		cfg = DefaultTrendyolConfig()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	return &TrendyolAdapter{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Code returns the marketplace code this adapter handles
func (a *TrendyolAdapter) Code() marketplace.Code {
	return marketplace.CodeTrendyol
}

// CheckConnection verifies credentials with a one-item package listing.
func (a *TrendyolAdapter) CheckConnection(ctx context.Context, acct marketplace.Account) error {
	url := fmt.Sprintf("%s/suppliers/%s/orders?page=0&size=1", a.cfg.APIBaseURL, acct.SellerID)
	_, err := a.doGet(ctx, acct, url)
	return err
}

// Orders returns the order listing capability
func (a *TrendyolAdapter) Orders() (marketplace.OrderLister, bool) { return a, true }

// Products returns the product listing capability
func (a *TrendyolAdapter) Products() (marketplace.ProductLister, bool) { return a, true }

// Questions returns the question listing capability
func (a *TrendyolAdapter) Questions() (marketplace.QuestionLister, bool) { return a, true }

// Returns returns the claim listing capability
func (a *TrendyolAdapter) Returns() (marketplace.ReturnLister, bool) { return a, true }

// ---------------------------------------------------------------------------
// Listing operations
// ---------------------------------------------------------------------------

// ListOrders fetches one page of shipment packages.
func (a *TrendyolAdapter) ListOrders(ctx context.Context, acct marketplace.Account, cursor *string, filter marketplace.ListFilter) (*marketplace.Page, error) {
	page := cursorToPage(cursor)
	url := fmt.Sprintf("%s/suppliers/%s/orders?page=%d&size=%d&orderByField=PackageLastModifiedDate&orderByDirection=DESC",
		a.cfg.APIBaseURL, acct.SellerID, page, a.cfg.PageSize)
	if filter.Status != "" {
		url += "&status=" + filter.Status
	}
	if !filter.StartTime.IsZero() {
		url += "&startDate=" + strconv.FormatInt(filter.StartTime.UnixMilli(), 10)
	}
	if !filter.EndTime.IsZero() {
		url += "&endDate=" + strconv.FormatInt(filter.EndTime.UnixMilli(), 10)
	}

	body, err := a.doGet(ctx, acct, url)
	if err != nil {
		return nil, err
	}

	var resp trendyolPackagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("decoding packages page: %w", err))
	}

	out := &marketplace.Page{Items: make([]marketplace.RawRecord, 0, len(resp.Content))}
	for _, pkg := range resp.Content {
		out.Items = append(out.Items, trendyolPackageToRecord(acct, pkg))
	}
	if page+1 < resp.TotalPages {
		out.NextCursor = pageToCursor(page + 1)
	}
	return out, nil
}

// ListProducts fetches one page of listed products.
func (a *TrendyolAdapter) ListProducts(ctx context.Context, acct marketplace.Account, cursor *string, _ marketplace.ListFilter) (*marketplace.Page, error) {
	page := cursorToPage(cursor)
	url := fmt.Sprintf("%s/suppliers/%s/products?page=%d&size=%d",
		a.cfg.APIBaseURL, acct.SellerID, page, a.cfg.PageSize)

	body, err := a.doGet(ctx, acct, url)
	if err != nil {
		return nil, err
	}

	var resp trendyolProductsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("decoding products page: %w", err))
	}

	out := &marketplace.Page{Items: make([]marketplace.RawRecord, 0, len(resp.Content))}
	for _, p := range resp.Content {
		out.Items = append(out.Items, trendyolProductToRecord(acct, p))
	}
	if page+1 < resp.TotalPages {
		out.NextCursor = pageToCursor(page + 1)
	}
	return out, nil
}

// ListQuestions fetches one page of customer questions.
func (a *TrendyolAdapter) ListQuestions(ctx context.Context, acct marketplace.Account, cursor *string, _ marketplace.ListFilter) (*marketplace.Page, error) {
	page := cursorToPage(cursor)
	url := fmt.Sprintf("%s/suppliers/%s/questions/filter?page=%d&size=%d",
		a.cfg.APIBaseURL, acct.SellerID, page, a.cfg.PageSize)

	body, err := a.doGet(ctx, acct, url)
	if err != nil {
		return nil, err
	}

	var resp trendyolQuestionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("decoding questions page: %w", err))
	}

	out := &marketplace.Page{Items: make([]marketplace.RawRecord, 0, len(resp.Content))}
	for _, q := range resp.Content {
		raw, _ := json.Marshal(q)
		out.Items = append(out.Items, marketplace.RawRecord{
			ExternalID: strconv.FormatInt(q.ID, 10),
			RawStatus:  q.Status,
			Payload:    raw,
			Question: &marketplace.CanonicalQuestion{
				OwnerID:           acct.OwnerID,
				Marketplace:       marketplace.CodeTrendyol,
				ExternalID:        strconv.FormatInt(q.ID, 10),
				ProductExternalID: q.ProductMainID,
				CustomerName:      q.UserName,
				Text:              q.Text,
				Answered:          q.Status == "ANSWERED",
				AskedAt:           time.UnixMilli(q.CreationDate),
				RawPayload:        raw,
			},
		})
	}
	if page+1 < resp.TotalPages {
		out.NextCursor = pageToCursor(page + 1)
	}
	return out, nil
}

// ListReturns fetches one page of claims.
func (a *TrendyolAdapter) ListReturns(ctx context.Context, acct marketplace.Account, cursor *string, _ marketplace.ListFilter) (*marketplace.Page, error) {
	page := cursorToPage(cursor)
	url := fmt.Sprintf("%s/suppliers/%s/claims?page=%d&size=%d",
		a.cfg.APIBaseURL, acct.SellerID, page, a.cfg.PageSize)

	body, err := a.doGet(ctx, acct, url)
	if err != nil {
		return nil, err
	}

	var resp trendyolClaimsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("decoding claims page: %w", err))
	}

	out := &marketplace.Page{Items: make([]marketplace.RawRecord, 0, len(resp.Content))}
	for _, cl := range resp.Content {
		raw, _ := json.Marshal(cl)
		out.Items = append(out.Items, marketplace.RawRecord{
			ExternalID: cl.ID,
			RawStatus:  cl.Status,
			Payload:    raw,
			Return: &marketplace.CanonicalReturn{
				OwnerID:         acct.OwnerID,
				Marketplace:     marketplace.CodeTrendyol,
				ExternalID:      cl.ID,
				OrderExternalID: cl.OrderNumber,
				Reason:          cl.Reason,
				RawStatus:       cl.Status,
				RequestedAt:     time.UnixMilli(cl.ClaimDate),
				RawPayload:      raw,
			},
		})
	}
	if page+1 < resp.TotalPages {
		out.NextCursor = pageToCursor(page + 1)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

// doGet performs a Basic-auth GET and classifies transport failures.
func (a *TrendyolAdapter) doGet(ctx context.Context, acct marketplace.Account, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}
	token := base64.StdEncoding.EncodeToString([]byte(acct.APIKey + ":" + acct.APISecret))
	req.Header.Set("Authorization", "Basic "+token)
	req.Header.Set("User-Agent", acct.SellerID+" - SelfIntegration")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, trendyolMaxResponseSize))
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

// trendyolPackageToRecord converts one shipment package to a raw record.
func trendyolPackageToRecord(acct marketplace.Account, pkg trendyolPackage) marketplace.RawRecord {
	raw, _ := json.Marshal(pkg)
	externalID := strconv.FormatInt(pkg.ID, 10)

	order := &marketplace.CanonicalOrder{
		OwnerID:     acct.OwnerID,
		Marketplace: marketplace.CodeTrendyol,
		ExternalID:  externalID,
		OrderNumber: pkg.OrderNumber,
		RawStatus:   pkg.Status,
		TotalAmount: decimal.NewFromFloat(pkg.GrossAmount),
		Currency:    "TRY",
		PlacedAt:    time.UnixMilli(pkg.OrderDate),
		RawPayload:  raw,
		Customer: marketplace.Customer{
			Name:    joinName(pkg.ShipmentAddress.FirstName, pkg.ShipmentAddress.LastName),
			Email:   pkg.CustomerEmail,
			Phone:   pkg.ShipmentAddress.Phone,
			City:    pkg.ShipmentAddress.City,
			Address: pkg.ShipmentAddress.FullAddress,
		},
	}
	for _, line := range pkg.Lines {
		order.Items = append(order.Items, marketplace.LineItem{
			Barcode:   line.Barcode,
			SKU:       line.MerchantSKU,
			Name:      line.ProductName,
			Quantity:  decimal.NewFromInt(line.Quantity),
			UnitPrice: decimal.NewFromFloat(line.Price),
		})
	}

	return marketplace.RawRecord{
		ExternalID: externalID,
		RawStatus:  pkg.Status,
		Payload:    raw,
		Order:      order,
	}
}

// trendyolProductToRecord converts one listed product to a raw record.
func trendyolProductToRecord(acct marketplace.Account, p trendyolProduct) marketplace.RawRecord {
	raw, _ := json.Marshal(p)
	rawStatus := strconv.FormatBool(p.Approved)

	return marketplace.RawRecord{
		ExternalID: p.Barcode,
		RawStatus:  rawStatus,
		Payload:    raw,
		Product: &marketplace.CanonicalProduct{
			OwnerID:       acct.OwnerID,
			Marketplace:   marketplace.CodeTrendyol,
			ExternalID:    p.Barcode,
			Barcode:       p.Barcode,
			SKU:           p.StockCode,
			Title:         p.Title,
			Price:         decimal.NewFromFloat(p.SalePrice),
			StockQuantity: p.Quantity,
			RawStatus:     rawStatus,
			RawPayload:    raw,
		},
	}
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

func truncateBody(b []byte) string {
	if len(b) > 200 {
		return string(b[:200]) + "..."
	}
	return string(b)
}

// cursorToPage decodes a zero-based page number cursor; nil means page 0.
func cursorToPage(cursor *string) int {
	if cursor == nil {
		return 0
	}
	n, err := strconv.Atoi(*cursor)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// pageToCursor encodes a page number as a cursor.
func pageToCursor(page int) *string {
	s := strconv.Itoa(page)
	return &s
}

// Ensure TrendyolAdapter implements the Adapter port
var _ marketplace.Adapter = (*TrendyolAdapter)(nil)
