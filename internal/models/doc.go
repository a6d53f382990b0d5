// Package models defines the core domain models for the receipt ledger.
//
// # Models
//
//   - LineItem: a candidate item extracted from raw receipt text, pre-review
//   - Receipt: a persisted receipt (or synthetic manual settlement)
//   - Item: a reviewed, persisted line item assigned to a party
//   - User: a registered party account
//
// # Party modelling
//
// Items and receipts reference parties through two closed tagged types rather
// than raw strings:
//
//   - Assignee: a real party, Shared (split evenly) or Excluded (recorded but
//     never counted)
//   - Payer: a real party, SplitAll ("both" in the legacy schema) or
//     Unattributed (no payer recorded)
//
// The legacy sentinel strings ("shared", "excluded", "both") survive only at
// the storage and JSON boundaries, via String/Parse round-trips.
//
// # Design principles
//
// 1. Receipts are append-mostly history: created atomically with their items,
// mutated only by full item-set replacement, removed only by cascade delete.
// 2. Receipt.Total is a cached aggregate (sum of non-excluded item prices)
// with a single write path; readers that need correctness recompute from items.
// 3. Models hold no storage or transport concerns.
package models
