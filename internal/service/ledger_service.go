package service

import (
	"context"
	"log/slog"

	"github.com/splitbill/billsplitter/internal/ledger"
	"github.com/splitbill/billsplitter/internal/models"
	"github.com/splitbill/billsplitter/internal/storage"
)

// LedgerService exposes reconciliation over the stored history. Every call
// loads the full snapshot and recomputes from scratch; there is no cached
// aggregation state to go stale.
type LedgerService struct {
	store    storage.Store
	resolver *PartyResolver
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(store storage.Store, resolver *PartyResolver) *LedgerService {
	return &LedgerService{store: store, resolver: resolver}
}

// Balances reconciles the complete history into a balance report.
func (s *LedgerService) Balances(ctx context.Context) (*ledger.Report, error) {
	receipts, items, parties, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	report := ledger.Reconcile(receipts, items, parties)
	if len(report.Warnings) > 0 {
		slog.Warn("Reconciliation found unattributed receipts",
			"count", len(report.Warnings),
		)
	}
	return &report, nil
}

// Drift reports receipts whose cached totals disagree with their items.
func (s *LedgerService) Drift(ctx context.Context) ([]ledger.Drift, error) {
	receipts, items, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.CheckTotals(receipts, items), nil
}

// load fetches the reconciliation snapshot: all receipts, all items and the
// ordered party list.
func (s *LedgerService) load(ctx context.Context) ([]models.Receipt, []models.Item, []string, error) {
	listed, err := s.store.ListReceipts(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	receipts := make([]models.Receipt, len(listed))
	for i, r := range listed {
		receipts[i] = *r
	}

	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	parties, err := s.resolver.Parties(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return receipts, items, parties, nil
}
