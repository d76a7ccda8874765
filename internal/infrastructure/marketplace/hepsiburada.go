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

const hepsiburadaMaxResponseSize = 10 * 1024 * 1024

// HepsiburadaConfig holds the Hepsiburada endpoint settings.
type HepsiburadaConfig struct {
	OrdersBaseURL   string
	ListingsBaseURL string
	TimeoutSeconds  int
	PageSize        int
}

// DefaultHepsiburadaConfig returns production endpoint defaults.
func DefaultHepsiburadaConfig() HepsiburadaConfig {
	return HepsiburadaConfig{
		OrdersBaseURL:   "https://oms-external.hepsiburada.com",
		ListingsBaseURL: "https://listing-external.hepsiburada.com",
		TimeoutSeconds:  30,
		PageSize:        50,
	}
}

// HepsiburadaAdapter implements the marketplace.Adapter port for Hepsiburada.
// Hepsiburada is JSON REST with Basic auth (merchant id as user name) and
// offset/limit pagination. The seller question API is not exposed to
// integrators, so the question capability is absent.
type HepsiburadaAdapter struct {
	cfg        HepsiburadaConfig
	httpClient *http.Client
}

// NewHepsiburadaAdapter creates a Hepsiburada adapter.
func NewHepsiburadaAdapter(cfg HepsiburadaConfig) *HepsiburadaAdapter {
	if cfg.OrdersBaseURL == "" {
		cfg = DefaultHepsiburadaConfig()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	return &HepsiburadaAdapter{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

func (a *HepsiburadaAdapter) Code() marketplace.Code {
	return marketplace.CodeHepsiburada
}

// CheckConnection verifies credentials with a one-item package listing.
func (a *HepsiburadaAdapter) CheckConnection(ctx context.Context, acct marketplace.Account) error {
	url := fmt.Sprintf("%s/packages/merchantid/%s?offset=0&limit=1", a.cfg.OrdersBaseURL, acct.SellerID)
	_, err := a.doGet(ctx, acct, url)
	return err
}

func (a *HepsiburadaAdapter) Orders() (marketplace.OrderLister, bool)     { return a, true }
func (a *HepsiburadaAdapter) Products() (marketplace.ProductLister, bool) { return a, true }

// Questions is absent: Hepsiburada has no integrator question endpoint.
func (a *HepsiburadaAdapter) Questions() (marketplace.QuestionLister, bool) { return nil, false }

func (a *HepsiburadaAdapter) Returns() (marketplace.ReturnLister, bool) { return a, true }

// ListOrders fetches one page of order packages.
func (a *HepsiburadaAdapter) ListOrders(ctx context.Context, acct marketplace.Account, cursor *string, filter marketplace.ListFilter) (*marketplace.Page, error) {
	offset := cursorToOffset(cursor)
	url := fmt.Sprintf("%s/packages/merchantid/%s?offset=%d&limit=%d",
		a.cfg.OrdersBaseURL, acct.SellerID, offset, a.cfg.PageSize)
	if !filter.StartTime.IsZero() {
		url += "&beginDate=" + filter.StartTime.UTC().Format(time.RFC3339)
	}
	if !filter.EndTime.IsZero() {
		url += "&endDate=" + filter.EndTime.UTC().Format(time.RFC3339)
	}

	body, err := a.doGet(ctx, acct, url)
	if err != nil {
		return nil, err
	}

	var resp hepsiburadaPackagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("decoding packages page: %w", err))
	}

	out := &marketplace.Page{Items: make([]marketplace.RawRecord, 0, len(resp.Items))}
	for _, pkg := range resp.Items {
		out.Items = append(out.Items, hepsiburadaPackageToRecord(acct, pkg))
	}
	if int64(offset+len(resp.Items)) < resp.TotalCount && len(resp.Items) > 0 {
		out.NextCursor = offsetToCursor(offset + a.cfg.PageSize)
	}
	return out, nil
}

// ListProducts fetches one page of listings.
func (a *HepsiburadaAdapter) ListProducts(ctx context.Context, acct marketplace.Account, cursor *string, _ marketplace.ListFilter) (*marketplace.Page, error) {
	offset := cursorToOffset(cursor)
	url := fmt.Sprintf("%s/listings/merchantid/%s?offset=%d&limit=%d",
		a.cfg.ListingsBaseURL, acct.SellerID, offset, a.cfg.PageSize)

	body, err := a.doGet(ctx, acct, url)
	if err != nil {
		return nil, err
	}

	var resp hepsiburadaListingsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("decoding listings page: %w", err))
	}

	out := &marketplace.Page{Items: make([]marketplace.RawRecord, 0, len(resp.Listings))}
	for _, l := range resp.Listings {
		raw, _ := json.Marshal(l)
		rawStatus := "Listed"
		if l.IsSalable != nil && !*l.IsSalable {
			rawStatus = "Unavailable"
		}
		price, _ := decimal.NewFromString(l.Price)
		out.Items = append(out.Items, marketplace.RawRecord{
			ExternalID: l.MerchantSKU,
			RawStatus:  rawStatus,
			Payload:    raw,
			Product: &marketplace.CanonicalProduct{
				OwnerID:       acct.OwnerID,
				Marketplace:   marketplace.CodeHepsiburada,
				ExternalID:    l.MerchantSKU,
				Barcode:       l.HepsiburadaSKU,
				SKU:           l.MerchantSKU,
				Title:         l.ProductName,
				Price:         price,
				StockQuantity: l.AvailableStock,
				RawStatus:     rawStatus,
				RawPayload:    raw,
			},
		})
	}
	if int64(offset+len(resp.Listings)) < resp.TotalCount && len(resp.Listings) > 0 {
		out.NextCursor = offsetToCursor(offset + a.cfg.PageSize)
	}
	return out, nil
}

// ListReturns fetches one page of return claims.
func (a *HepsiburadaAdapter) ListReturns(ctx context.Context, acct marketplace.Account, cursor *string, _ marketplace.ListFilter) (*marketplace.Page, error) {
	offset := cursorToOffset(cursor)
	url := fmt.Sprintf("%s/claims/merchantid/%s?offset=%d&limit=%d",
		a.cfg.OrdersBaseURL, acct.SellerID, offset, a.cfg.PageSize)

	body, err := a.doGet(ctx, acct, url)
	if err != nil {
		return nil, err
	}

	var resp hepsiburadaClaimsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("decoding claims page: %w", err))
	}

	out := &marketplace.Page{Items: make([]marketplace.RawRecord, 0, len(resp.Items))}
	for _, cl := range resp.Items {
		raw, _ := json.Marshal(cl)
		out.Items = append(out.Items, marketplace.RawRecord{
			ExternalID: cl.ClaimNumber,
			RawStatus:  cl.Status,
			Payload:    raw,
			Return: &marketplace.CanonicalReturn{
				OwnerID:         acct.OwnerID,
				Marketplace:     marketplace.CodeHepsiburada,
				ExternalID:      cl.ClaimNumber,
				OrderExternalID: cl.OrderNumber,
				Reason:          cl.Reason,
				RawStatus:       cl.Status,
				RequestedAt:     cl.CreatedAt,
				RawPayload:      raw,
			},
		})
	}
	if int64(offset+len(resp.Items)) < resp.TotalCount && len(resp.Items) > 0 {
		out.NextCursor = offsetToCursor(offset + a.cfg.PageSize)
	}
	return out, nil
}

func (a *HepsiburadaAdapter) doGet(ctx context.Context, acct marketplace.Account, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}
	token := base64.StdEncoding.EncodeToString([]byte(acct.SellerID + ":" + acct.APISecret))
	req.Header.Set("Authorization", "Basic "+token)
	req.Header.Set("User-Agent", acct.SellerID)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, hepsiburadaMaxResponseSize))
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

// hepsiburadaPackageToRecord converts one order package to a raw record.
func hepsiburadaPackageToRecord(acct marketplace.Account, pkg hepsiburadaPackage) marketplace.RawRecord {
	raw, _ := json.Marshal(pkg)

	total := decimal.Zero
	order := &marketplace.CanonicalOrder{
		OwnerID:     acct.OwnerID,
		Marketplace: marketplace.CodeHepsiburada,
		ExternalID:  pkg.PackageNumber,
		OrderNumber: pkg.OrderNumber,
		RawStatus:   pkg.Status,
		Currency:    "TRY",
		PlacedAt:    pkg.OrderDate,
		RawPayload:  raw,
		Customer: marketplace.Customer{
			Name:    pkg.CustomerName,
			Email:   pkg.Email,
			Phone:   pkg.ShippingAddress.Phone,
			City:    pkg.ShippingAddress.City,
			Address: pkg.ShippingAddress.AddressLine,
		},
	}
	for _, line := range pkg.Items {
		unit := decimal.NewFromFloat(line.Price.Amount)
		qty := decimal.NewFromInt(line.Quantity)
		order.Items = append(order.Items, marketplace.LineItem{
			Barcode:   line.SKU,
			SKU:       line.MerchantSKU,
			Name:      line.Name,
			Quantity:  qty,
			UnitPrice: unit,
		})
		total = total.Add(unit.Mul(qty))
	}
	if pkg.TotalPrice.Amount > 0 {
		order.TotalAmount = decimal.NewFromFloat(pkg.TotalPrice.Amount)
	} else {
		order.TotalAmount = total
	}

	return marketplace.RawRecord{
		ExternalID: pkg.PackageNumber,
		RawStatus:  pkg.Status,
		Payload:    raw,
		Order:      order,
	}
}

// cursorToOffset decodes an item offset cursor; nil means the first page.
func cursorToOffset(cursor *string) int {
	if cursor == nil {
		return 0
	}
	n, err := strconv.Atoi(*cursor)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func offsetToCursor(offset int) *string {
	s := strconv.Itoa(offset)
	return &s
}

var _ marketplace.Adapter = (*HepsiburadaAdapter)(nil)
