// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitbill/billsplitter/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for receipt ledger persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer. The ledger engine never touches a
// store; it receives already-loaded snapshots.
type Store interface {
	// CreateUser persists a new party account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns nil, nil if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns nil, nil if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// ListUsers returns all party accounts ordered by creation time.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateReceipt persists a receipt together with its items as one atomic
	// unit. It populates missing IDs and timestamps and writes the cached
	// total (sum of non-excluded item prices).
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error

	// GetReceipt retrieves a receipt with its items.
	GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error)

	// ListReceipts returns all receipts (without items), newest bill first.
	ListReceipts(ctx context.Context) ([]*models.Receipt, error)

	// ListItems returns every item in the store. Together with ListReceipts
	// this forms the snapshot the ledger engine reconciles over.
	ListItems(ctx context.Context) ([]models.Item, error)

	// ReplaceItems swaps a receipt's full item set and rewrites the cached
	// total in one transaction. Receipts have no field-level patching.
	ReplaceItems(ctx context.Context, receiptID string, items []models.Item) error

	// UpdateReceiptTotal rewrites only the cached total. Used by the
	// recompute pass; idempotent.
	UpdateReceiptTotal(ctx context.Context, receiptID string, total float64) error

	// DeleteReceipt removes a receipt and all of its items in one
	// transaction: items first, then the receipt, all-or-nothing.
	DeleteReceipt(ctx context.Context, receiptID string) error

	// Close releases any resources held by the store.
	Close() error
}
