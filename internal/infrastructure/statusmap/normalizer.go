package statusmap

import (
	"strings"
	"sync"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

// Normalizer maps marketplace-specific raw status values to the canonical
// enums. The tables are seeded with every raw value observed so far and can
// be extended per marketplace through configuration overrides, so a new code
// rolled out by a marketplace degrades to UNKNOWN instead of failing the run.
type Normalizer struct {
	mu       sync.RWMutex
	orders   map[marketplace.Code]map[string]marketplace.OrderStatus
	products map[marketplace.Code]map[string]marketplace.ProductStatus
}

// New creates a Normalizer with the built-in tables.
func New() *Normalizer {
	n := &Normalizer{
		orders:   make(map[marketplace.Code]map[string]marketplace.OrderStatus),
		products: make(map[marketplace.Code]map[string]marketplace.ProductStatus),
	}
	for code, table := range defaultOrderTables {
		m := make(map[string]marketplace.OrderStatus, len(table))
		for raw, st := range table {
			m[normalizeRaw(raw)] = st
		}
		n.orders[code] = m
	}
	for code, table := range defaultProductTables {
		m := make(map[string]marketplace.ProductStatus, len(table))
		for raw, st := range table {
			m[normalizeRaw(raw)] = st
		}
		n.products[code] = m
	}
	return n
}

// normalizeRaw folds case and surrounding whitespace so the tables are
// insensitive to marketplace casing drift.
func normalizeRaw(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// NormalizeOrder maps a raw order status. The second return value is false
// when the raw value had no mapping and the result degraded to UNKNOWN;
// callers log such items with a warning annotation, never as failures.
func (n *Normalizer) NormalizeOrder(code marketplace.Code, raw string) (marketplace.OrderStatus, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if table, ok := n.orders[code]; ok {
		if st, ok := table[normalizeRaw(raw)]; ok {
			return st, true
		}
	}
	return marketplace.OrderStatusUnknown, false
}

// NormalizeProduct maps a raw product approval state.
func (n *Normalizer) NormalizeProduct(code marketplace.Code, raw string) (marketplace.ProductStatus, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if table, ok := n.products[code]; ok {
		if st, ok := table[normalizeRaw(raw)]; ok {
			return st, true
		}
	}
	return marketplace.ProductStatusUnknown, false
}

// AddOrderMapping installs or overrides one raw->canonical order mapping.
// Used to load operator overrides from configuration.
func (n *Normalizer) AddOrderMapping(code marketplace.Code, raw string, status marketplace.OrderStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	table, ok := n.orders[code]
	if !ok {
		table = make(map[string]marketplace.OrderStatus)
		n.orders[code] = table
	}
	table[normalizeRaw(raw)] = status
}

// AddProductMapping installs or overrides one raw->canonical product mapping.
func (n *Normalizer) AddProductMapping(code marketplace.Code, raw string, status marketplace.ProductStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	table, ok := n.products[code]
	if !ok {
		table = make(map[string]marketplace.ProductStatus)
		n.products[code] = table
	}
	table[normalizeRaw(raw)] = status
}

// LoadOverrides merges configured mappings, e.g. from the
// [statusmap.orders.<marketplace>] config tables. Unknown canonical names are
// ignored rather than failing startup.
func (n *Normalizer) LoadOverrides(orders map[string]map[string]string, products map[string]map[string]string) {
	for codeStr, table := range orders {
		code := marketplace.Code(strings.ToUpper(codeStr))
		if !code.IsValid() {
			continue
		}
		for raw, canonical := range table {
			st := marketplace.OrderStatus(strings.ToUpper(canonical))
			if st.IsValid() {
				n.AddOrderMapping(code, raw, st)
			}
		}
	}
	for codeStr, table := range products {
		code := marketplace.Code(strings.ToUpper(codeStr))
		if !code.IsValid() {
			continue
		}
		for raw, canonical := range table {
			st := marketplace.ProductStatus(strings.ToUpper(canonical))
			if st.IsValid() {
				n.AddProductMapping(code, raw, st)
			}
		}
	}
}
