package marketplace

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

const pazaramaMaxResponseSize = 10 * 1024 * 1024

// pazaramaTokenSlack re-fetches the token this long before it expires.
const pazaramaTokenSlack = 60 * time.Second

// PazaramaConfig holds the Pazarama endpoint settings.
type PazaramaConfig struct {
	APIBaseURL     string
	TokenURL       string
	TimeoutSeconds int
	PageSize       int
}

// DefaultPazaramaConfig returns production endpoint defaults.
func DefaultPazaramaConfig() PazaramaConfig {
	return PazaramaConfig{
		APIBaseURL:     "https://isortagimapi.pazarama.com",
		TokenURL:       "https://isortagimgiris.pazarama.com/connect/token",
		TimeoutSeconds: 30,
		PageSize:       50,
	}
}

// PazaramaAdapter implements the marketplace.Adapter port for Pazarama.
// Pazarama authenticates with an OAuth client-credentials token fetched from
// a separate identity host; tokens are cached per seller until shortly
// before expiry. Question and return services are not exposed to
// integrators, so only the order and product capabilities are present.
type PazaramaAdapter struct {
	cfg        PazaramaConfig
	httpClient *http.Client

	mu     sync.Mutex
	tokens map[string]pazaramaToken // keyed by API key
}

type pazaramaToken struct {
	value     string
	expiresAt time.Time
}

// NewPazaramaAdapter creates a Pazarama adapter.
func NewPazaramaAdapter(cfg PazaramaConfig) *PazaramaAdapter {
	if cfg.APIBaseURL == "" {
		cfg = DefaultPazaramaConfig()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	return &PazaramaAdapter{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		tokens: make(map[string]pazaramaToken),
	}
}

func (a *PazaramaAdapter) Code() marketplace.Code {
	return marketplace.CodePazarama
}

// CheckConnection verifies credentials by fetching a token.
func (a *PazaramaAdapter) CheckConnection(ctx context.Context, acct marketplace.Account) error {
	_, err := a.token(ctx, acct)
	return err
}

func (a *PazaramaAdapter) Orders() (marketplace.OrderLister, bool)     { return a, true }
func (a *PazaramaAdapter) Products() (marketplace.ProductLister, bool) { return a, true }

// Questions is absent: Pazarama has no integrator question endpoint.
func (a *PazaramaAdapter) Questions() (marketplace.QuestionLister, bool) { return nil, false }

// Returns is absent: Pazarama has no integrator claim endpoint.
func (a *PazaramaAdapter) Returns() (marketplace.ReturnLister, bool) { return nil, false }

// ListOrders fetches one page of orders.
func (a *PazaramaAdapter) ListOrders(ctx context.Context, acct marketplace.Account, cursor *string, filter marketplace.ListFilter) (*marketplace.Page, error) {
	page := cursorToPage(cursor)
	endpoint := fmt.Sprintf("%s/order/getOrdersForApi?Page=%d&Size=%d", a.cfg.APIBaseURL, page+1, a.cfg.PageSize)
	if !filter.StartTime.IsZero() {
		endpoint += "&StartDate=" + url.QueryEscape(filter.StartTime.UTC().Format("2006-01-02"))
	}
	if !filter.EndTime.IsZero() {
		endpoint += "&EndDate=" + url.QueryEscape(filter.EndTime.UTC().Format("2006-01-02"))
	}

	body, err := a.doGet(ctx, acct, endpoint)
	if err != nil {
		return nil, err
	}

	var resp pazaramaOrdersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("decoding orders page: %w", err))
	}

	out := &marketplace.Page{Items: make([]marketplace.RawRecord, 0, len(resp.Data))}
	for _, o := range resp.Data {
		out.Items = append(out.Items, pazaramaOrderToRecord(acct, o))
	}
	// Pazarama reports no page count; a full page implies more may follow.
	if len(resp.Data) == a.cfg.PageSize {
		out.NextCursor = pageToCursor(page + 1)
	}
	return out, nil
}

// ListProducts fetches one page of seller products.
func (a *PazaramaAdapter) ListProducts(ctx context.Context, acct marketplace.Account, cursor *string, _ marketplace.ListFilter) (*marketplace.Page, error) {
	page := cursorToPage(cursor)
	endpoint := fmt.Sprintf("%s/product/products?Page=%d&Size=%d", a.cfg.APIBaseURL, page+1, a.cfg.PageSize)

	body, err := a.doGet(ctx, acct, endpoint)
	if err != nil {
		return nil, err
	}

	var resp pazaramaProductsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("decoding products page: %w", err))
	}

	out := &marketplace.Page{Items: make([]marketplace.RawRecord, 0, len(resp.Data))}
	for _, p := range resp.Data {
		raw, _ := json.Marshal(p)
		rawStatus := strconv.Itoa(p.State)
		out.Items = append(out.Items, marketplace.RawRecord{
			ExternalID: p.Code,
			RawStatus:  rawStatus,
			Payload:    raw,
			Product: &marketplace.CanonicalProduct{
				OwnerID:       acct.OwnerID,
				Marketplace:   marketplace.CodePazarama,
				ExternalID:    p.Code,
				Barcode:       p.Code,
				SKU:           p.StockCode,
				Title:         p.Name,
				Price:         decimal.NewFromFloat(p.SalePrice),
				StockQuantity: p.StockCount,
				RawStatus:     rawStatus,
				RawPayload:    raw,
			},
		})
	}
	if len(resp.Data) == a.cfg.PageSize {
		out.NextCursor = pageToCursor(page + 1)
	}
	return out, nil
}

// token returns a cached bearer token for the account, fetching a fresh one
// when missing or near expiry.
func (a *PazaramaAdapter) token(ctx context.Context, acct marketplace.Account) (string, error) {
	a.mu.Lock()
	cached, ok := a.tokens[acct.APIKey]
	a.mu.Unlock()
	if ok && time.Until(cached.expiresAt) > pazaramaTokenSlack {
		return cached.value, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}, "scope": {"merchantgatewayapi.fullaccess"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}
	basic := base64.StdEncoding.EncodeToString([]byte(acct.APIKey + ":" + acct.APISecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, pazaramaMaxResponseSize))
	if err != nil {
		return "", marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		// The identity host answers 400 invalid_client for bad credentials.
		return "", marketplace.NewAdapterError(a.Code(), marketplace.KindUnauthorized,
			fmt.Errorf("token request: HTTP %d: %s", resp.StatusCode, truncateBody(body)))
	case resp.StatusCode != http.StatusOK:
		return "", marketplace.NewAdapterError(a.Code(), marketplace.KindTransient,
			fmt.Errorf("token request: HTTP %d", resp.StatusCode))
	}

	var tok pazaramaTokenResponse
	if err := json.Unmarshal(body, &tok); err != nil || tok.AccessToken == "" {
		return "", marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("decoding token response: %w", err))
	}

	a.mu.Lock()
	a.tokens[acct.APIKey] = pazaramaToken{
		value:     tok.AccessToken,
		expiresAt: time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second),
	}
	a.mu.Unlock()
	return tok.AccessToken, nil
}

func (a *PazaramaAdapter) doGet(ctx context.Context, acct marketplace.Account, endpoint string) ([]byte, error) {
	bearer, err := a.token(ctx, acct)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, pazaramaMaxResponseSize))
	if err != nil {
		return nil, marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// Evict the cached token so the next attempt re-authenticates.
		a.mu.Lock()
		delete(a.tokens, acct.APIKey)
		a.mu.Unlock()
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

// pazaramaOrderToRecord converts one order to a raw record.
func pazaramaOrderToRecord(acct marketplace.Account, o pazaramaOrder) marketplace.RawRecord {
	raw, _ := json.Marshal(o)
	rawStatus := strconv.Itoa(o.OrderState)

	order := &marketplace.CanonicalOrder{
		OwnerID:     acct.OwnerID,
		Marketplace: marketplace.CodePazarama,
		ExternalID:  o.OrderNumber,
		OrderNumber: o.OrderNumber,
		RawStatus:   rawStatus,
		TotalAmount: decimal.NewFromFloat(o.TotalAmount),
		Currency:    "TRY",
		PlacedAt:    o.OrderDate,
		RawPayload:  raw,
		Customer: marketplace.Customer{
			Name:    o.CustomerName,
			Phone:   o.ShipmentAddress.Phone,
			City:    o.ShipmentAddress.City,
			Address: o.ShipmentAddress.Address,
		},
	}
	for _, item := range o.Items {
		order.Items = append(order.Items, marketplace.LineItem{
			Barcode:   item.Barcode,
			SKU:       item.StockCode,
			Name:      item.ProductName,
			Quantity:  decimal.NewFromInt(item.Quantity),
			UnitPrice: decimal.NewFromFloat(item.Price),
		})
	}

	return marketplace.RawRecord{
		ExternalID: o.OrderNumber,
		RawStatus:  rawStatus,
		Payload:    raw,
		Order:      order,
	}
}

var _ marketplace.Adapter = (*PazaramaAdapter)(nil)
