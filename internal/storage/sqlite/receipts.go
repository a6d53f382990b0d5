package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitbill/billsplitter/internal/ledger"
	"github.com/splitbill/billsplitter/internal/models"
	"github.com/splitbill/billsplitter/internal/storage"
)

// payerValue maps a Payer to its column value; unattributed stores as NULL.
func payerValue(p models.Payer) interface{} {
	if p.IsUnattributed() {
		return nil
	}
	return p.String()
}

// CreateReceipt persists a receipt and its items as one transaction.
// The cached total is computed here, from the non-excluded items, and nowhere
// else except ReplaceItems/UpdateReceiptTotal.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if receipt.UploadDate == 0 {
		receipt.UploadDate = time.Now().Unix()
	}
	receipt.Total = ledger.ReceiptTotal(receipt.Items)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO receipts (id, upload_date, payer_id, filename, bill_date, total) VALUES (?, ?, ?, ?, ?, ?)",
		receipt.ID, receipt.UploadDate, payerValue(receipt.Payer), receipt.Filename, receipt.BillDate, receipt.Total,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	for i := range receipt.Items {
		item := &receipt.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.ReceiptID = receipt.ID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, receipt_id, description, price, assigned_to) VALUES (?, ?, ?, ?, ?)",
			item.ID, item.ReceiptID, item.Description, item.Price, item.AssignedTo.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetReceipt retrieves a receipt by ID, including all of its items.
func (s *SQLiteStore) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	var payer sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT id, upload_date, payer_id, filename, bill_date, total FROM receipts WHERE id = ?",
		receiptID,
	).Scan(&receipt.ID, &receipt.UploadDate, &payer, &receipt.Filename, &receipt.BillDate, &receipt.Total)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	receipt.Payer = models.ParsePayer(payer.String)

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, receipt_id, description, price, assigned_to FROM items WHERE receipt_id = ? ORDER BY rowid",
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		receipt.Items = append(receipt.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return receipt, nil
}

// ListReceipts returns all receipts without their items, newest bill first.
func (s *SQLiteStore) ListReceipts(ctx context.Context) ([]*models.Receipt, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, upload_date, payer_id, filename, bill_date, total FROM receipts ORDER BY bill_date DESC, upload_date DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*models.Receipt
	for rows.Next() {
		receipt := &models.Receipt{}
		var payer sql.NullString
		if err := rows.Scan(&receipt.ID, &receipt.UploadDate, &payer, &receipt.Filename, &receipt.BillDate, &receipt.Total); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipt.Payer = models.ParsePayer(payer.String)
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}

	return receipts, nil
}

// ListItems returns every item in the store, in insertion order.
func (s *SQLiteStore) ListItems(ctx context.Context) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, receipt_id, description, price, assigned_to FROM items ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

// ReplaceItems swaps the receipt's full item set and rewrites the cached
// total in the same transaction.
func (s *SQLiteStore) ReplaceItems(ctx context.Context, receiptID string, items []models.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM receipts WHERE id = ?", receiptID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check receipt existence: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE receipt_id = ?", receiptID); err != nil {
		return fmt.Errorf("failed to delete old items: %w", err)
	}

	for i := range items {
		item := &items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.ReceiptID = receiptID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, receipt_id, description, price, assigned_to) VALUES (?, ?, ?, ?, ?)",
			item.ID, item.ReceiptID, item.Description, item.Price, item.AssignedTo.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, "UPDATE receipts SET total = ? WHERE id = ?",
		ledger.ReceiptTotal(items), receiptID)
	if err != nil {
		return fmt.Errorf("failed to update cached total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateReceiptTotal rewrites only the cached total.
func (s *SQLiteStore) UpdateReceiptTotal(ctx context.Context, receiptID string, total float64) error {
	res, err := s.db.ExecContext(ctx, "UPDATE receipts SET total = ? WHERE id = ?", total, receiptID)
	if err != nil {
		return fmt.Errorf("failed to update cached total: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	return nil
}

// DeleteReceipt removes the receipt and all of its items in one transaction:
// items first, then the receipt. A failure rolls back both, so a partial
// delete can never leave orphaned items.
func (s *SQLiteStore) DeleteReceipt(ctx context.Context, receiptID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE receipt_id = ?", receiptID); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM receipts WHERE id = ?", receiptID)
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// scanItem reads one item row; assignment sentinels are parsed back into the
// tagged type.
func scanItem(rows *sql.Rows) (models.Item, error) {
	var item models.Item
	var assignedTo string
	if err := rows.Scan(&item.ID, &item.ReceiptID, &item.Description, &item.Price, &assignedTo); err != nil {
		return models.Item{}, fmt.Errorf("failed to scan item: %w", err)
	}
	item.AssignedTo = models.ParseAssignee(assignedTo)
	return item, nil
}
