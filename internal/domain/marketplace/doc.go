// Package marketplace contains the Marketplace bounded context.
// This context models the connected sales channels and their canonical records.
//
// Key concepts:
//   - Adapter: Port interface for pulling records from a marketplace (Trendyol, Hepsiburada, N11, Pazarama, Idefix)
//   - Capability interfaces: optional per-entity listing operations an adapter may or may not offer
//   - CanonicalOrder/CanonicalProduct/CanonicalQuestion/CanonicalReturn: marketplace-agnostic records
//   - AdapterError: classified transport/decoding failures driving the crawler's retry policy
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package marketplace
