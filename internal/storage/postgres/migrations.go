package postgres

import "database/sql"

// schema mirrors the SQLite layout. Columns keep the legacy sentinel strings;
// an unattributed payer is NULL.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS receipts (
    id TEXT PRIMARY KEY,
    upload_date BIGINT NOT NULL,
    payer_id TEXT,
    filename TEXT NOT NULL,
    bill_date TEXT NOT NULL,
    total DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    receipt_id TEXT NOT NULL REFERENCES receipts(id),
    description TEXT NOT NULL,
    price DOUBLE PRECISION NOT NULL,
    assigned_to TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_receipt_id ON items(receipt_id);
CREATE INDEX IF NOT EXISTS idx_receipts_bill_date ON receipts(bill_date);
`

func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
