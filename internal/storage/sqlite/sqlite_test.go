package sqlite

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/splitbill/billsplitter/internal/ledger"
	"github.com/splitbill/billsplitter/internal/models"
	"github.com/splitbill/billsplitter/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "billsplitter-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreReceipts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateReceipt generates IDs and caches the total", func(t *testing.T) {
		receipt := &models.Receipt{
			Payer:    models.PartyPayer("eser"),
			Filename: "2024-03-02-rewe.pdf",
			BillDate: "2024-03-02",
			Items: []models.Item{
				{Description: "Bread", Price: 1.99, AssignedTo: models.AssigneeShared},
				{Description: "Milk", Price: 2.49, AssignedTo: models.PartyAssignee("david")},
				{Description: "Cigarettes", Price: 8.50, AssignedTo: models.AssigneeExcluded},
			},
		}

		if err := store.CreateReceipt(ctx, receipt); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}
		if receipt.ID == "" {
			t.Error("Expected receipt ID to be generated")
		}
		if receipt.UploadDate == 0 {
			t.Error("Expected UploadDate to be set")
		}
		// Excluded item must not count toward the cached total.
		if math.Abs(receipt.Total-4.48) > 0.001 {
			t.Errorf("Total = %v, want 4.48", receipt.Total)
		}
		for _, item := range receipt.Items {
			if item.ID == "" || item.ReceiptID != receipt.ID {
				t.Errorf("item not linked to receipt: %+v", item)
			}
		}
	})

	t.Run("GetReceipt round-trips payer and assignment sentinels", func(t *testing.T) {
		original := &models.Receipt{
			Payer:    models.PayerSplitAll,
			Filename: "2024-03-05-edeka.pdf",
			BillDate: "2024-03-05",
			Items: []models.Item{
				{Description: "Wine", Price: 7.99, AssignedTo: models.AssigneeShared},
				{Description: "Refund", Price: -1.50, AssignedTo: models.AssigneeExcluded},
			},
		}
		if err := store.CreateReceipt(ctx, original); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}

		got, err := store.GetReceipt(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetReceipt failed: %v", err)
		}
		if !got.Payer.IsSplitAll() {
			t.Errorf("payer = %v, want split-all", got.Payer)
		}
		if len(got.Items) != 2 {
			t.Fatalf("got %d items, want 2", len(got.Items))
		}
		if !got.Items[0].AssignedTo.IsShared() {
			t.Errorf("item 0 assignment = %v, want shared", got.Items[0].AssignedTo)
		}
		if !got.Items[1].AssignedTo.IsExcluded() {
			t.Errorf("item 1 assignment = %v, want excluded", got.Items[1].AssignedTo)
		}
		if math.Abs(got.Items[1].Price+1.50) > 0.001 {
			t.Errorf("item 1 price = %v, want -1.50", got.Items[1].Price)
		}
	})

	t.Run("unattributed payer stores as NULL and loads back", func(t *testing.T) {
		receipt := &models.Receipt{
			Payer:    models.PayerUnattributed,
			Filename: "unknown.pdf",
			BillDate: "Unknown Date",
		}
		if err := store.CreateReceipt(ctx, receipt); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}

		got, err := store.GetReceipt(ctx, receipt.ID)
		if err != nil {
			t.Fatalf("GetReceipt failed: %v", err)
		}
		if !got.Payer.IsUnattributed() {
			t.Errorf("payer = %v, want unattributed", got.Payer)
		}
	})

	t.Run("GetReceipt on missing ID reports not found", func(t *testing.T) {
		_, err := store.GetReceipt(ctx, "does-not-exist")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteStoreReplaceItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	receipt := &models.Receipt{
		Payer:    models.PartyPayer("eser"),
		Filename: "2024-04-01-aldi.pdf",
		BillDate: "2024-04-01",
		Items: []models.Item{
			{Description: "Old", Price: 5.00, AssignedTo: models.AssigneeShared},
		},
	}
	if err := store.CreateReceipt(ctx, receipt); err != nil {
		t.Fatalf("CreateReceipt failed: %v", err)
	}

	newItems := []models.Item{
		{Description: "New A", Price: 3.00, AssignedTo: models.PartyAssignee("eser")},
		{Description: "New B", Price: 4.00, AssignedTo: models.AssigneeExcluded},
	}
	if err := store.ReplaceItems(ctx, receipt.ID, newItems); err != nil {
		t.Fatalf("ReplaceItems failed: %v", err)
	}

	got, err := store.GetReceipt(ctx, receipt.ID)
	if err != nil {
		t.Fatalf("GetReceipt failed: %v", err)
	}
	if len(got.Items) != 2 || got.Items[0].Description != "New A" {
		t.Fatalf("items = %+v, want replaced set", got.Items)
	}
	if math.Abs(got.Total-3.00) > 0.001 {
		t.Errorf("cached total = %v, want 3.00 (excluded item not counted)", got.Total)
	}

	if err := store.ReplaceItems(ctx, "missing", newItems); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("ReplaceItems on missing receipt: err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStoreUpdateReceiptTotal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	receipt := &models.Receipt{Filename: "x.pdf", BillDate: "2024-01-01"}
	if err := store.CreateReceipt(ctx, receipt); err != nil {
		t.Fatalf("CreateReceipt failed: %v", err)
	}

	if err := store.UpdateReceiptTotal(ctx, receipt.ID, 12.34); err != nil {
		t.Fatalf("UpdateReceiptTotal failed: %v", err)
	}
	got, err := store.GetReceipt(ctx, receipt.ID)
	if err != nil {
		t.Fatalf("GetReceipt failed: %v", err)
	}
	if math.Abs(got.Total-12.34) > 0.001 {
		t.Errorf("total = %v, want 12.34", got.Total)
	}

	if err := store.UpdateReceiptTotal(ctx, "missing", 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStoreDeleteReceiptCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	keep := &models.Receipt{
		Payer: models.PartyPayer("david"), Filename: "keep.pdf", BillDate: "2024-02-01",
		Items: []models.Item{{Description: "Keep", Price: 6.00, AssignedTo: models.PartyAssignee("david")}},
	}
	doomed := &models.Receipt{
		Payer: models.PartyPayer("eser"), Filename: "doomed.pdf", BillDate: "2024-02-02",
		Items: []models.Item{
			{Description: "Gone A", Price: 10.00, AssignedTo: models.AssigneeShared},
			{Description: "Gone B", Price: 2.00, AssignedTo: models.PartyAssignee("eser")},
		},
	}
	for _, r := range []*models.Receipt{keep, doomed} {
		if err := store.CreateReceipt(ctx, r); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}
	}

	if err := store.DeleteReceipt(ctx, doomed.ID); err != nil {
		t.Fatalf("DeleteReceipt failed: %v", err)
	}

	items, err := store.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	for _, item := range items {
		if item.ReceiptID == doomed.ID {
			t.Errorf("orphaned item survived cascade: %+v", item)
		}
	}

	// A reconciliation over the remaining history carries no residue of the
	// deleted receipt.
	receipts, err := store.ListReceipts(ctx)
	if err != nil {
		t.Fatalf("ListReceipts failed: %v", err)
	}
	snapshot := make([]models.Receipt, len(receipts))
	for i, r := range receipts {
		snapshot[i] = *r
	}
	report := ledger.Reconcile(snapshot, items, []string{"eser", "david"})
	if math.Abs(report.Personal["david"]-6.00) > 0.001 {
		t.Errorf("personal[david] = %v, want 6.00", report.Personal["david"])
	}
	if report.SharedTotal != 0 || report.Personal["eser"] != 0 {
		t.Errorf("deleted receipt still contributes: %+v", report)
	}

	if err := store.DeleteReceipt(ctx, doomed.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("eser@example.com", "eser", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "eser@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID || byEmail.Name != "eser" {
		t.Errorf("GetUserByEmail = %+v, want %+v", byEmail, user)
	}

	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID == nil || byID.Email != user.Email {
		t.Errorf("GetUserByID = %+v, want %+v", byID, user)
	}

	missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Errorf("GetUserByEmail(missing) = %v, %v, want nil, nil", missing, err)
	}

	if err := store.CreateUser(ctx, models.NewUser("david@example.com", "david", "hash")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("ListUsers returned %d users, want 2", len(users))
	}
}
