// Package sync contains the catalog synchronization bounded context.
// This context manages pulling product data from external sources and
// reconciling it into the canonical catalog.
//
// Key concepts:
//   - SourceAdapter: Port interface for connecting to product sources (Odoo, Shopify, WooCommerce, Trendyol)
//   - NormalizedProduct: The single canonical DTO every source maps into
//   - Session: Connect/test/disconnect lifecycle around a batch run
//   - Run: Persisted record of one batch synchronization run
//   - SyncResult: The one artifact a run reports to its caller
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package sync
