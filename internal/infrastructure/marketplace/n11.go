package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

const n11MaxResponseSize = 10 * 1024 * 1024

// N11Config holds the N11 SOAP endpoint settings.
type N11Config struct {
	ServiceBaseURL string
	TimeoutSeconds int
	PageSize       int
}

// DefaultN11Config returns production endpoint defaults.
func DefaultN11Config() N11Config {
	return N11Config{
		ServiceBaseURL: "https://api.n11.com/ws",
		TimeoutSeconds: 30,
		PageSize:       50,
	}
}

// N11Adapter implements the marketplace.Adapter port for N11. Unlike the
// other marketplaces N11 exposes SOAP services; the credentials ride inside
// the request envelope rather than a header, and paging is a currentPage /
// pageSize block echoed back with a pageCount. N11 has no integrator return
// claim service, so the return capability is absent.
type N11Adapter struct {
	cfg        N11Config
	httpClient *http.Client
}

// NewN11Adapter creates an N11 adapter.
func NewN11Adapter(cfg N11Config) *N11Adapter {
	if cfg.ServiceBaseURL == "" {
		cfg = DefaultN11Config()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	return &N11Adapter{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

func (a *N11Adapter) Code() marketplace.Code {
	return marketplace.CodeN11
}

// CheckConnection verifies credentials with a one-item order search.
func (a *N11Adapter) CheckConnection(ctx context.Context, acct marketplace.Account) error {
	env := n11OrderListRequest{Auth: n11Auth(acct), Paging: n11Paging{CurrentPage: 0, PageSize: 1}}
	var resp n11OrderListResponse
	return a.call(ctx, "OrderService.wsdl", "DetailedOrderListRequest", env, &resp)
}

func (a *N11Adapter) Orders() (marketplace.OrderLister, bool)       { return a, true }
func (a *N11Adapter) Products() (marketplace.ProductLister, bool)   { return a, true }
func (a *N11Adapter) Questions() (marketplace.QuestionLister, bool) { return a, true }

// Returns is absent: N11 exposes no claim listing service.
func (a *N11Adapter) Returns() (marketplace.ReturnLister, bool) { return nil, false }

// ListOrders fetches one page of orders through the detailed order service.
func (a *N11Adapter) ListOrders(ctx context.Context, acct marketplace.Account, cursor *string, filter marketplace.ListFilter) (*marketplace.Page, error) {
	page := cursorToPage(cursor)
	env := n11OrderListRequest{
		Auth:   n11Auth(acct),
		Status: filter.Status,
		Paging: n11Paging{CurrentPage: page, PageSize: a.cfg.PageSize},
	}
	var resp n11OrderListResponse
	if err := a.call(ctx, "OrderService.wsdl", "DetailedOrderListRequest", env, &resp); err != nil {
		return nil, err
	}

	out := &marketplace.Page{Items: make([]marketplace.RawRecord, 0, len(resp.OrderList))}
	for _, o := range resp.OrderList {
		out.Items = append(out.Items, n11OrderToRecord(acct, o))
	}
	if page+1 < resp.Paging.PageCount {
		out.NextCursor = pageToCursor(page + 1)
	}
	return out, nil
}

// ListProducts fetches one page of listed products.
func (a *N11Adapter) ListProducts(ctx context.Context, acct marketplace.Account, cursor *string, _ marketplace.ListFilter) (*marketplace.Page, error) {
	page := cursorToPage(cursor)
	env := n11ProductListRequest{
		Auth:   n11Auth(acct),
		Paging: n11Paging{CurrentPage: page, PageSize: a.cfg.PageSize},
	}
	var resp n11ProductListResponse
	if err := a.call(ctx, "ProductService.wsdl", "GetProductListRequest", env, &resp); err != nil {
		return nil, err
	}

	out := &marketplace.Page{Items: make([]marketplace.RawRecord, 0, len(resp.Products))}
	for _, p := range resp.Products {
		raw, _ := json.Marshal(p)
		price, _ := decimal.NewFromString(p.DisplayPrice)
		var stock int64
		for _, s := range p.StockItems {
			stock += s.Quantity
		}
		out.Items = append(out.Items, marketplace.RawRecord{
			ExternalID: p.SellerCode,
			RawStatus:  p.ApprovalStatus,
			Payload:    raw,
			Product: &marketplace.CanonicalProduct{
				OwnerID:       acct.OwnerID,
				Marketplace:   marketplace.CodeN11,
				ExternalID:    p.SellerCode,
				Barcode:       p.Barcode,
				SKU:           p.SellerCode,
				Title:         p.Title,
				Price:         price,
				StockQuantity: stock,
				RawStatus:     p.ApprovalStatus,
				RawPayload:    raw,
			},
		})
	}
	if page+1 < resp.Paging.PageCount {
		out.NextCursor = pageToCursor(page + 1)
	}
	return out, nil
}

// ListQuestions fetches one page of product questions.
func (a *N11Adapter) ListQuestions(ctx context.Context, acct marketplace.Account, cursor *string, _ marketplace.ListFilter) (*marketplace.Page, error) {
	page := cursorToPage(cursor)
	env := n11QuestionListRequest{
		Auth:   n11Auth(acct),
		Paging: n11Paging{CurrentPage: page, PageSize: a.cfg.PageSize},
	}
	var resp n11QuestionListResponse
	if err := a.call(ctx, "ProductQuestionService.wsdl", "GetProductQuestionListRequest", env, &resp); err != nil {
		return nil, err
	}

	out := &marketplace.Page{Items: make([]marketplace.RawRecord, 0, len(resp.Questions))}
	for _, q := range resp.Questions {
		raw, _ := json.Marshal(q)
		askedAt, _ := time.Parse("02/01/2006 15:04", q.QuestionDate)
		out.Items = append(out.Items, marketplace.RawRecord{
			ExternalID: q.ID,
			RawStatus:  q.Status,
			Payload:    raw,
			Question: &marketplace.CanonicalQuestion{
				OwnerID:           acct.OwnerID,
				Marketplace:       marketplace.CodeN11,
				ExternalID:        q.ID,
				ProductExternalID: q.ProductSellerCode,
				CustomerName:      q.BuyerName,
				Text:              q.QuestionText,
				Answered:          q.Status == "ANSWERED",
				AskedAt:           askedAt,
				RawPayload:        raw,
			},
		})
	}
	if page+1 < resp.Paging.PageCount {
		out.NextCursor = pageToCursor(page + 1)
	}
	return out, nil
}

// call posts one SOAP envelope and decodes the typed response body. N11
// reports auth failures through result.status inside an HTTP 200, so the
// result block is inspected as well as the status code.
func (a *N11Adapter) call(ctx context.Context, service, operation string, request any, response n11Result) error {
	payload, err := xml.Marshal(n11Envelope{
		BodyContent: n11BodyContent{Operation: operation, Request: request},
	})
	if err != nil {
		return marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("encoding %s envelope: %w", operation, err))
	}

	url := a.cfg.ServiceBaseURL + "/" + service
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url,
		bytes.NewReader(append([]byte(xml.Header), payload...)))
	if err != nil {
		return marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, n11MaxResponseSize))
	if err != nil {
		return marketplace.NewAdapterError(a.Code(), marketplace.KindTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return marketplace.NewAdapterError(a.Code(), marketplace.KindRateLimited,
			fmt.Errorf("HTTP %d", resp.StatusCode))
	case resp.StatusCode >= 500:
		return marketplace.NewAdapterError(a.Code(), marketplace.KindTransient,
			fmt.Errorf("HTTP %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncateBody(body)))
	}

	var outer n11ResponseEnvelope
	if err := xml.Unmarshal(body, &outer); err != nil {
		return marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("decoding %s envelope: %w", operation, err))
	}
	if err := xml.Unmarshal(outer.Body.Inner, response); err != nil {
		return marketplace.NewAdapterError(a.Code(), marketplace.KindMalformed,
			fmt.Errorf("decoding %s body: %w", operation, err))
	}

	if r := response.ResultOf(); r.Status != "success" {
		switch r.ErrorCode {
		case "SELLER_API_001", "SELLER_API_002": // bad key / bad secret
			return marketplace.NewAdapterError(a.Code(), marketplace.KindUnauthorized,
				fmt.Errorf("%s: %s", r.ErrorCode, r.ErrorMessage))
		default:
			return marketplace.NewAdapterError(a.Code(), marketplace.KindTransient,
				fmt.Errorf("%s: %s", r.ErrorCode, r.ErrorMessage))
		}
	}
	return nil
}

// n11Auth builds the credential block embedded in every request.
func n11Auth(acct marketplace.Account) n11AuthBlock {
	return n11AuthBlock{AppKey: acct.APIKey, AppSecret: acct.APISecret}
}

// n11OrderToRecord converts one detailed order to a raw record.
func n11OrderToRecord(acct marketplace.Account, o n11Order) marketplace.RawRecord {
	raw, _ := json.Marshal(o)
	total, _ := decimal.NewFromString(o.TotalAmount)
	placedAt, _ := time.Parse("02/01/2006 15:04", o.CreateDate)

	order := &marketplace.CanonicalOrder{
		OwnerID:     acct.OwnerID,
		Marketplace: marketplace.CodeN11,
		ExternalID:  o.ID,
		OrderNumber: o.OrderNumber,
		RawStatus:   o.Status,
		TotalAmount: total,
		Currency:    "TRY",
		PlacedAt:    placedAt,
		RawPayload:  raw,
		Customer: marketplace.Customer{
			Name:    o.Buyer.FullName,
			Email:   o.Buyer.Email,
			Phone:   o.ShippingAddress.GSM,
			City:    o.ShippingAddress.City,
			Address: o.ShippingAddress.Address,
		},
	}
	for _, item := range o.OrderItemList {
		qty, _ := decimal.NewFromString(item.Quantity)
		unit, _ := decimal.NewFromString(item.Price)
		order.Items = append(order.Items, marketplace.LineItem{
			SKU:       item.SellerCode,
			Name:      item.ProductName,
			Quantity:  qty,
			UnitPrice: unit,
		})
	}

	return marketplace.RawRecord{
		ExternalID: o.ID,
		RawStatus:  o.Status,
		Payload:    raw,
		Order:      order,
	}
}

var _ marketplace.Adapter = (*N11Adapter)(nil)
