package marketplace

import (
	"time"

	"github.com/google/uuid"
)

// CanonicalQuestion is a customer product question pulled from a marketplace.
type CanonicalQuestion struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Marketplace Code
	ExternalID  string
	// ProductExternalID links the question to the listed product, when known
	ProductExternalID string
	CustomerName      string
	Text              string
	// Answered indicates the seller has already responded on the marketplace
	Answered   bool
	AskedAt    time.Time
	RawPayload []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CanonicalReturn is a return/claim request pulled from a marketplace.
type CanonicalReturn struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Marketplace Code
	ExternalID  string
	// OrderExternalID links the return to its originating order
	OrderExternalID string
	Reason          string
	Status          OrderStatus
	RawStatus       string
	RequestedAt     time.Time
	RawPayload      []byte
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
