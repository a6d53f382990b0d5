package service

import (
	"context"
	"math"
	"testing"

	"github.com/splitbill/billsplitter/internal/models"
)

func TestLedgerServiceBalances(t *testing.T) {
	store := newTestStore(t)
	receipts := newTestReceiptService(t, store, "")
	svc := NewLedgerService(store, NewPartyResolver(store, []string{"eser", "david"}))
	ctx := context.Background()

	// eser pays 30: 10 personal to eser, 20 shared.
	// david pays 10: 10 personal to david.
	// Responsibility: eser 20, david 20. Net: eser +10, david -10.
	saves := []SaveReceiptRequest{
		{
			Filename: "2024-03-02-rewe.pdf",
			BillDate: "2024-03-02",
			Payer:    models.PartyPayer("eser"),
			Items: []SaveItem{
				{Description: "Shampoo", Price: 10.00, AssignedTo: models.PartyAssignee("eser")},
				{Description: "Groceries", Price: 20.00, AssignedTo: models.AssigneeShared},
			},
		},
		{
			Filename: "2024-03-05-dm.pdf",
			BillDate: "2024-03-05",
			Payer:    models.PartyPayer("david"),
			Items: []SaveItem{
				{Description: "Razors", Price: 10.00, AssignedTo: models.PartyAssignee("david")},
			},
		},
	}
	for _, req := range saves {
		if _, err := receipts.Save(ctx, req); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	report, err := svc.Balances(ctx)
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}

	if math.Abs(report.Net["eser"]-10.00) > 0.001 {
		t.Errorf("net[eser] = %v, want 10.00", report.Net["eser"])
	}
	if math.Abs(report.Net["david"]+10.00) > 0.001 {
		t.Errorf("net[david] = %v, want -10.00", report.Net["david"])
	}
	if report.Settlement.Debtor != "david" || report.Settlement.Creditor != "eser" {
		t.Errorf("settlement = %+v, want david owes eser", report.Settlement)
	}
	if math.Abs(report.Settlement.Amount-20.00) > 0.001 {
		t.Errorf("settlement amount = %v, want 20.00", report.Settlement.Amount)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("warnings = %+v, want none", report.Warnings)
	}
}

func TestLedgerServiceSettlementClearsBalance(t *testing.T) {
	store := newTestStore(t)
	receipts := newTestReceiptService(t, store, "")
	svc := NewLedgerService(store, NewPartyResolver(store, []string{"eser", "david"}))
	ctx := context.Background()

	_, err := receipts.Save(ctx, SaveReceiptRequest{
		Filename: "2024-03-02-rewe.pdf",
		Payer:    models.PartyPayer("eser"),
		Items: []SaveItem{
			{Description: "Groceries", Price: 20.00, AssignedTo: models.AssigneeShared},
		},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	before, err := svc.Balances(ctx)
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if before.Settlement.Debtor != "david" || math.Abs(before.Settlement.Amount-20.00) > 0.001 {
		t.Fatalf("settlement before = %+v, want david owes 20.00", before.Settlement)
	}

	if _, err := receipts.RecordSettlement(ctx, "david", "eser", 10.00, ""); err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	after, err := svc.Balances(ctx)
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if after.Settlement.Amount > 0.001 {
		t.Errorf("settlement after = %+v, want cleared", after.Settlement)
	}
	if math.Abs(after.Net["eser"]) > 0.001 || math.Abs(after.Net["david"]) > 0.001 {
		t.Errorf("net after = %+v, want zero balances", after.Net)
	}
}

func TestLedgerServiceWarnsOnUnattributedReceipts(t *testing.T) {
	store := newTestStore(t)
	svc := NewLedgerService(store, NewPartyResolver(store, []string{"eser", "david"}))
	ctx := context.Background()

	receipt := &models.Receipt{
		Payer:    models.PayerUnattributed,
		Filename: "orphan.pdf",
		BillDate: "Unknown Date",
		Items: []models.Item{
			{Description: "Mystery", Price: 9.99, AssignedTo: models.AssigneeShared},
		},
	}
	if err := store.CreateReceipt(ctx, receipt); err != nil {
		t.Fatalf("CreateReceipt failed: %v", err)
	}

	report, err := svc.Balances(ctx)
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(report.Warnings))
	}
	if report.Warnings[0].ReceiptID != receipt.ID {
		t.Errorf("warning receipt = %q, want %q", report.Warnings[0].ReceiptID, receipt.ID)
	}
	// Shared cost is still owed even though nobody gets paid credit.
	if math.Abs(report.SharedTotal-9.99) > 0.001 {
		t.Errorf("shared total = %v, want 9.99", report.SharedTotal)
	}
}

func TestLedgerServiceDrift(t *testing.T) {
	store := newTestStore(t)
	svc := NewLedgerService(store, NewPartyResolver(store, []string{"eser", "david"}))
	ctx := context.Background()

	receipt := &models.Receipt{
		Payer:    models.PartyPayer("eser"),
		Filename: "drifted.pdf",
		BillDate: "2024-05-01",
		Items: []models.Item{
			{Description: "Bread", Price: 2.00, AssignedTo: models.AssigneeShared},
		},
	}
	if err := store.CreateReceipt(ctx, receipt); err != nil {
		t.Fatalf("CreateReceipt failed: %v", err)
	}

	drifts, err := svc.Drift(ctx)
	if err != nil {
		t.Fatalf("Drift failed: %v", err)
	}
	if len(drifts) != 0 {
		t.Fatalf("fresh store reports drift: %+v", drifts)
	}

	if err := store.UpdateReceiptTotal(ctx, receipt.ID, 99.00); err != nil {
		t.Fatalf("UpdateReceiptTotal failed: %v", err)
	}
	drifts, err = svc.Drift(ctx)
	if err != nil {
		t.Fatalf("Drift failed: %v", err)
	}
	if len(drifts) != 1 {
		t.Fatalf("got %d drifts, want 1", len(drifts))
	}
	if drifts[0].ReceiptID != receipt.ID {
		t.Errorf("drift receipt = %q, want %q", drifts[0].ReceiptID, receipt.ID)
	}
}
