package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

// CanonicalOrderModel is the persistence model for the CanonicalOrder domain
// entity. Line items and customer details ride as JSONB next to the order
// row because they are always read and replaced as a whole.
type CanonicalOrderModel struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key"`
	OwnerID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_order_natural_key,priority:1"`
	Marketplace  marketplace.Code `gorm:"type:varchar(20);not null;uniqueIndex:idx_order_natural_key,priority:2"`
	ExternalID   string           `gorm:"type:varchar(100);not null;uniqueIndex:idx_order_natural_key,priority:3"`
	OrderNumber  string           `gorm:"type:varchar(100);index"`
	Status       string           `gorm:"type:varchar(20);not null;index"`
	RawStatus    string           `gorm:"type:varchar(100);not null"`
	CustomerJSON string           `gorm:"type:jsonb;column:customer"`
	ItemsJSON    string           `gorm:"type:jsonb;column:items"`
	TotalAmount  decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Currency     string           `gorm:"type:varchar(8)"`
	PlacedAt     time.Time        `gorm:"index"`
	RawPayload   []byte           `gorm:"type:jsonb"`
	ERPReference string           `gorm:"type:varchar(100);index"`
	CreatedAt    time.Time        `gorm:"not null"`
	UpdatedAt    time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CanonicalOrderModel) TableName() string {
	return "canonical_orders"
}

// ToDomain converts the persistence model to a domain CanonicalOrder entity.
func (m *CanonicalOrderModel) ToDomain() *marketplace.CanonicalOrder {
	order := &marketplace.CanonicalOrder{
		ID:           m.ID,
		OwnerID:      m.OwnerID,
		Marketplace:  m.Marketplace,
		ExternalID:   m.ExternalID,
		OrderNumber:  m.OrderNumber,
		Status:       marketplace.OrderStatus(m.Status),
		RawStatus:    m.RawStatus,
		TotalAmount:  m.TotalAmount,
		Currency:     m.Currency,
		PlacedAt:     m.PlacedAt,
		RawPayload:   m.RawPayload,
		ERPReference: m.ERPReference,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.CustomerJSON != "" {
		_ = json.Unmarshal([]byte(m.CustomerJSON), &order.Customer)
	}
	if m.ItemsJSON != "" {
		_ = json.Unmarshal([]byte(m.ItemsJSON), &order.Items)
	}
	return order
}

// FromDomain populates the persistence model from a domain CanonicalOrder.
func (m *CanonicalOrderModel) FromDomain(o *marketplace.CanonicalOrder) {
	m.ID = o.ID
	m.OwnerID = o.OwnerID
	m.Marketplace = o.Marketplace
	m.ExternalID = o.ExternalID
	m.OrderNumber = o.OrderNumber
	m.Status = o.Status.String()
	m.RawStatus = o.RawStatus
	m.TotalAmount = o.TotalAmount
	m.Currency = o.Currency
	m.PlacedAt = o.PlacedAt
	m.RawPayload = o.RawPayload
	m.ERPReference = o.ERPReference
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt

	if b, err := json.Marshal(o.Customer); err == nil {
		m.CustomerJSON = string(b)
	}
	if len(o.Items) > 0 {
		if b, err := json.Marshal(o.Items); err == nil {
			m.ItemsJSON = string(b)
		}
	} else {
		m.ItemsJSON = "[]"
	}
}

// CanonicalOrderModelFromDomain creates a persistence model from a domain order.
func CanonicalOrderModelFromDomain(o *marketplace.CanonicalOrder) *CanonicalOrderModel {
	m := &CanonicalOrderModel{}
	m.FromDomain(o)
	return m
}

// CanonicalProductModel is the persistence model for CanonicalProduct.
type CanonicalProductModel struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key"`
	OwnerID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_product_natural_key,priority:1"`
	Marketplace   marketplace.Code `gorm:"type:varchar(20);not null;uniqueIndex:idx_product_natural_key,priority:2"`
	ExternalID    string           `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_natural_key,priority:3"`
	Barcode       string           `gorm:"type:varchar(100);index"`
	SKU           string           `gorm:"type:varchar(100);index"`
	Title         string           `gorm:"type:varchar(255)"`
	Price         decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	StockQuantity int64            `gorm:"not null;default:0"`
	Approval      string           `gorm:"type:varchar(20);not null"`
	RawStatus     string           `gorm:"type:varchar(100);not null"`
	RawPayload    []byte           `gorm:"type:jsonb"`
	LastSyncedAt  time.Time
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CanonicalProductModel) TableName() string {
	return "canonical_products"
}

// ToDomain converts the persistence model to a domain CanonicalProduct.
func (m *CanonicalProductModel) ToDomain() *marketplace.CanonicalProduct {
	return &marketplace.CanonicalProduct{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		Marketplace:   m.Marketplace,
		ExternalID:    m.ExternalID,
		Barcode:       m.Barcode,
		SKU:           m.SKU,
		Title:         m.Title,
		Price:         m.Price,
		StockQuantity: m.StockQuantity,
		Approval:      marketplace.ProductStatus(m.Approval),
		RawStatus:     m.RawStatus,
		RawPayload:    m.RawPayload,
		LastSyncedAt:  m.LastSyncedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain CanonicalProduct.
func (m *CanonicalProductModel) FromDomain(p *marketplace.CanonicalProduct) {
	m.ID = p.ID
	m.OwnerID = p.OwnerID
	m.Marketplace = p.Marketplace
	m.ExternalID = p.ExternalID
	m.Barcode = p.Barcode
	m.SKU = p.SKU
	m.Title = p.Title
	m.Price = p.Price
	m.StockQuantity = p.StockQuantity
	m.Approval = p.Approval.String()
	m.RawStatus = p.RawStatus
	m.RawPayload = p.RawPayload
	m.LastSyncedAt = p.LastSyncedAt
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// CanonicalProductModelFromDomain creates a persistence model from a domain product.
func CanonicalProductModelFromDomain(p *marketplace.CanonicalProduct) *CanonicalProductModel {
	m := &CanonicalProductModel{}
	m.FromDomain(p)
	return m
}

// CanonicalQuestionModel is the persistence model for CanonicalQuestion.
type CanonicalQuestionModel struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key"`
	OwnerID           uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_question_natural_key,priority:1"`
	Marketplace       marketplace.Code `gorm:"type:varchar(20);not null;uniqueIndex:idx_question_natural_key,priority:2"`
	ExternalID        string           `gorm:"type:varchar(100);not null;uniqueIndex:idx_question_natural_key,priority:3"`
	ProductExternalID string           `gorm:"type:varchar(100);index"`
	CustomerName      string           `gorm:"type:varchar(100)"`
	Text              string           `gorm:"type:text"`
	Answered          bool             `gorm:"not null;default:false"`
	AskedAt           time.Time        `gorm:"index"`
	RawPayload        []byte           `gorm:"type:jsonb"`
	CreatedAt         time.Time        `gorm:"not null"`
	UpdatedAt         time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CanonicalQuestionModel) TableName() string {
	return "canonical_questions"
}

// ToDomain converts the persistence model to a domain CanonicalQuestion.
func (m *CanonicalQuestionModel) ToDomain() *marketplace.CanonicalQuestion {
	return &marketplace.CanonicalQuestion{
		ID:                m.ID,
		OwnerID:           m.OwnerID,
		Marketplace:       m.Marketplace,
		ExternalID:        m.ExternalID,
		ProductExternalID: m.ProductExternalID,
		CustomerName:      m.CustomerName,
		Text:              m.Text,
		Answered:          m.Answered,
		AskedAt:           m.AskedAt,
		RawPayload:        m.RawPayload,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain CanonicalQuestion.
func (m *CanonicalQuestionModel) FromDomain(q *marketplace.CanonicalQuestion) {
	m.ID = q.ID
	m.OwnerID = q.OwnerID
	m.Marketplace = q.Marketplace
	m.ExternalID = q.ExternalID
	m.ProductExternalID = q.ProductExternalID
	m.CustomerName = q.CustomerName
	m.Text = q.Text
	m.Answered = q.Answered
	m.AskedAt = q.AskedAt
	m.RawPayload = q.RawPayload
	m.CreatedAt = q.CreatedAt
	m.UpdatedAt = q.UpdatedAt
}

// CanonicalReturnModel is the persistence model for CanonicalReturn.
type CanonicalReturnModel struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key"`
	OwnerID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_return_natural_key,priority:1"`
	Marketplace     marketplace.Code `gorm:"type:varchar(20);not null;uniqueIndex:idx_return_natural_key,priority:2"`
	ExternalID      string           `gorm:"type:varchar(100);not null;uniqueIndex:idx_return_natural_key,priority:3"`
	OrderExternalID string           `gorm:"type:varchar(100);index"`
	Reason          string           `gorm:"type:varchar(255)"`
	Status          string           `gorm:"type:varchar(20);not null"`
	RawStatus       string           `gorm:"type:varchar(100);not null"`
	RequestedAt     time.Time        `gorm:"index"`
	RawPayload      []byte           `gorm:"type:jsonb"`
	CreatedAt       time.Time        `gorm:"not null"`
	UpdatedAt       time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CanonicalReturnModel) TableName() string {
	return "canonical_returns"
}

// ToDomain converts the persistence model to a domain CanonicalReturn.
func (m *CanonicalReturnModel) ToDomain() *marketplace.CanonicalReturn {
	return &marketplace.CanonicalReturn{
		ID:              m.ID,
		OwnerID:         m.OwnerID,
		Marketplace:     m.Marketplace,
		ExternalID:      m.ExternalID,
		OrderExternalID: m.OrderExternalID,
		Reason:          m.Reason,
		Status:          marketplace.OrderStatus(m.Status),
		RawStatus:       m.RawStatus,
		RequestedAt:     m.RequestedAt,
		RawPayload:      m.RawPayload,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain CanonicalReturn.
func (m *CanonicalReturnModel) FromDomain(r *marketplace.CanonicalReturn) {
	m.ID = r.ID
	m.OwnerID = r.OwnerID
	m.Marketplace = r.Marketplace
	m.ExternalID = r.ExternalID
	m.OrderExternalID = r.OrderExternalID
	m.Reason = r.Reason
	m.Status = r.Status.String()
	m.RawStatus = r.RawStatus
	m.RequestedAt = r.RequestedAt
	m.RawPayload = r.RawPayload
	m.CreatedAt = r.CreatedAt
	m.UpdatedAt = r.UpdatedAt
}
