// Command recompute repairs cached receipt totals. Totals are written once at
// save time; items edited by out-of-band tooling leave them stale until this
// runs. With -dry-run it only reports the drift.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/splitbill/billsplitter/internal/ledger"
	"github.com/splitbill/billsplitter/internal/models"
	"github.com/splitbill/billsplitter/internal/storage"
	"github.com/splitbill/billsplitter/internal/storage/postgres"
	"github.com/splitbill/billsplitter/internal/storage/sqlite"
	"github.com/splitbill/billsplitter/pkg/logging"
)

func main() {
	logging.Setup()

	var (
		dbPath = flag.String("db", "./data/billsplitter.db", "SQLite database file")
		dsn    = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (overrides -db)")
		dryRun = flag.Bool("dry-run", false, "report drift without writing")
	)
	flag.Parse()

	store, err := openStore(*dbPath, *dsn)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := run(context.Background(), store, *dryRun); err != nil {
		slog.Error("Recompute failed", "error", err)
		os.Exit(1)
	}
}

func openStore(dbPath, dsn string) (storage.Store, error) {
	if dsn != "" {
		return postgres.New(dsn)
	}
	return sqlite.New(dbPath)
}

func run(ctx context.Context, store storage.Store, dryRun bool) error {
	listed, err := store.ListReceipts(ctx)
	if err != nil {
		return err
	}
	receipts := make([]models.Receipt, len(listed))
	for i, r := range listed {
		receipts[i] = *r
	}
	items, err := store.ListItems(ctx)
	if err != nil {
		return err
	}

	drifts := ledger.CheckTotals(receipts, items)
	if len(drifts) == 0 {
		slog.Info("All cached totals match", "receipts", len(receipts))
		return nil
	}

	for _, d := range drifts {
		slog.Warn("Cached total drifted",
			"receipt_id", d.ReceiptID,
			"filename", d.Filename,
			"cached", d.Cached,
			"actual", d.Actual,
		)
		if dryRun {
			continue
		}
		if err := store.UpdateReceiptTotal(ctx, d.ReceiptID, d.Actual); err != nil {
			return err
		}
	}

	if dryRun {
		slog.Info("Dry run: no totals written", "drifted", len(drifts))
	} else {
		slog.Info("Cached totals repaired", "drifted", len(drifts))
	}
	return nil
}
