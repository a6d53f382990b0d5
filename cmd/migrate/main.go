// Command migrate copies a SQLite database into Postgres. Rows are inserted
// with ON CONFLICT DO NOTHING, so re-running after a partial failure is safe.
package main

import (
	"database/sql"
	"flag"
	"log/slog"
	"os"

	"github.com/splitbill/billsplitter/internal/storage/postgres"
	"github.com/splitbill/billsplitter/internal/storage/sqlite"
	"github.com/splitbill/billsplitter/pkg/logging"
)

func main() {
	logging.Setup()

	var (
		dbPath = flag.String("db", "./data/billsplitter.db", "source SQLite database file")
		dsn    = flag.String("dsn", os.Getenv("DATABASE_URL"), "target Postgres connection string")
	)
	flag.Parse()

	if *dsn == "" {
		slog.Error("No target DSN: pass -dsn or set DATABASE_URL")
		os.Exit(1)
	}

	src, err := sqlite.New(*dbPath)
	if err != nil {
		slog.Error("Failed to open source database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer src.Close()

	dst, err := postgres.New(*dsn)
	if err != nil {
		slog.Error("Failed to open target database", "error", err)
		os.Exit(1)
	}
	defer dst.Close()

	if err := migrate(src.DB(), dst.DB()); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Migration complete")
}

// migrate copies users, then receipts, then items, so every foreign key
// target exists before its referrers.
func migrate(src, dst *sql.DB) error {
	if n, err := copyUsers(src, dst); err != nil {
		return err
	} else {
		slog.Info("Users migrated", "count", n)
	}
	if n, err := copyReceipts(src, dst); err != nil {
		return err
	} else {
		slog.Info("Receipts migrated", "count", n)
	}
	n, err := copyItems(src, dst)
	if err != nil {
		return err
	}
	slog.Info("Items migrated", "count", n)
	return nil
}

func copyUsers(src, dst *sql.DB) (int, error) {
	rows, err := src.Query(`SELECT id, name, email, password_hash, created_at FROM users`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, name, email, hash string
		var createdAt int64
		if err := rows.Scan(&id, &name, &email, &hash, &createdAt); err != nil {
			return count, err
		}
		_, err := dst.Exec(
			`INSERT INTO users (id, name, email, password_hash, created_at)
			 VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`,
			id, name, email, hash, createdAt,
		)
		if err != nil {
			return count, err
		}
		count++
	}
	return count, rows.Err()
}

func copyReceipts(src, dst *sql.DB) (int, error) {
	rows, err := src.Query(`SELECT id, upload_date, payer_id, filename, bill_date, total FROM receipts`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, filename, billDate string
		var payer sql.NullString
		var uploadDate int64
		var total float64
		if err := rows.Scan(&id, &uploadDate, &payer, &filename, &billDate, &total); err != nil {
			return count, err
		}
		// Legacy databases stored missing payers as empty strings; normalize
		// them to NULL on the way over.
		if payer.Valid && payer.String == "" {
			payer.Valid = false
		}
		_, err := dst.Exec(
			`INSERT INTO receipts (id, upload_date, payer_id, filename, bill_date, total)
			 VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`,
			id, uploadDate, payer, filename, billDate, total,
		)
		if err != nil {
			return count, err
		}
		count++
	}
	return count, rows.Err()
}

func copyItems(src, dst *sql.DB) (int, error) {
	rows, err := src.Query(`SELECT id, receipt_id, description, price, assigned_to FROM items`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, receiptID, description, assignedTo string
		var price float64
		if err := rows.Scan(&id, &receiptID, &description, &price, &assignedTo); err != nil {
			return count, err
		}
		_, err := dst.Exec(
			`INSERT INTO items (id, receipt_id, description, price, assigned_to)
			 VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`,
			id, receiptID, description, price, assignedTo,
		)
		if err != nil {
			return count, err
		}
		count++
	}
	return count, rows.Err()
}
