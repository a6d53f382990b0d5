package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/splitbill/billsplitter/internal/extractor"
	"github.com/splitbill/billsplitter/internal/models"
	"github.com/splitbill/billsplitter/internal/storage"
	"github.com/splitbill/billsplitter/internal/textextract"
)

// ErrInvalidInput marks request validation failures the API maps to 400.
var ErrInvalidInput = errors.New("invalid input")

// billDatePattern recovers the purchase date from filenames like
// "2024-03-02-rewe.pdf".
var billDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// unknownBillDate is stored when the filename carries no date.
const unknownBillDate = "Unknown Date"

// UploadResult is what the review UI renders: the extracted candidate items
// and a raw sum (before any review or exclusion) to compare against the
// printed total.
type UploadResult struct {
	Filename string            `json:"filename"`
	BillDate string            `json:"bill_date"`
	Items    []models.LineItem `json:"items"`
	RawSum   float64           `json:"raw_sum"`
}

// SaveItem is one reviewed item in a save request.
type SaveItem struct {
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	AssignedTo  models.Assignee `json:"assigned_to"`
}

// SaveReceiptRequest persists one reviewed extraction session.
type SaveReceiptRequest struct {
	Filename string       `json:"filename"`
	BillDate string       `json:"bill_date"`
	Payer    models.Payer `json:"payer"`
	Items    []SaveItem   `json:"items"`
}

// ReceiptSummary is one history row: the receipt plus per-party subtotals.
type ReceiptSummary struct {
	ID          string             `json:"id"`
	Filename    string             `json:"filename"`
	BillDate    string             `json:"bill_date"`
	UploadDate  int64              `json:"upload_date"`
	Payer       models.Payer       `json:"payer"`
	Total       float64            `json:"total"`
	PartyTotals map[string]float64 `json:"party_totals"`
	SharedTotal float64            `json:"shared_total"`
}

// ReceiptService covers the receipt lifecycle: upload and extraction, save
// after review, history, details, deletion and manual settlements.
type ReceiptService struct {
	store    storage.Store
	text     textextract.Extractor
	ex       *extractor.Extractor
	resolver *PartyResolver
}

// NewReceiptService creates a ReceiptService.
func NewReceiptService(store storage.Store, text textextract.Extractor, ex *extractor.Extractor, resolver *PartyResolver) *ReceiptService {
	return &ReceiptService{store: store, text: text, ex: ex, resolver: resolver}
}

// Upload runs text extraction and line-item extraction on one document. The
// result is not persisted; it goes to the reviewer.
func (s *ReceiptService) Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	raw, err := s.text.Extract(ctx, filename, data)
	if err != nil {
		slog.Error("Text extraction failed", "filename", filename, "error", err)
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	items := s.ex.Extract(raw)
	billDate := billDatePattern.FindString(filename)
	if billDate == "" {
		billDate = unknownBillDate
	}

	slog.Info("Document extracted",
		"filename", filename,
		"bill_date", billDate,
		"items", len(items),
	)
	return &UploadResult{
		Filename: filename,
		BillDate: billDate,
		Items:    items,
		RawSum:   extractor.Sum(items),
	}, nil
}

// Save persists one reviewed receipt with its items as an atomic unit.
// Excluded items are saved too; they are history, just never counted.
func (s *ReceiptService) Save(ctx context.Context, req SaveReceiptRequest) (*models.Receipt, error) {
	if req.Filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}

	parties, err := s.resolver.Parties(ctx)
	if err != nil {
		return nil, err
	}
	if err := validatePayer(req.Payer, parties); err != nil {
		return nil, err
	}

	items := make([]models.Item, 0, len(req.Items))
	for i, it := range req.Items {
		if it.Description == "" {
			return nil, fmt.Errorf("%w: item %d has no description", ErrInvalidInput, i)
		}
		if err := validateAssignee(it.AssignedTo, parties); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, models.Item{
			Description: it.Description,
			Price:       it.Price,
			AssignedTo:  it.AssignedTo,
		})
	}

	billDate := req.BillDate
	if billDate == "" {
		billDate = unknownBillDate
	}
	receipt := &models.Receipt{
		Payer:    req.Payer,
		Filename: req.Filename,
		BillDate: billDate,
		Items:    items,
	}
	if err := s.store.CreateReceipt(ctx, receipt); err != nil {
		slog.Error("Failed to save receipt", "filename", req.Filename, "error", err)
		return nil, err
	}

	slog.Info("Receipt saved",
		"receipt_id", receipt.ID,
		"payer", receipt.Payer.String(),
		"items", len(receipt.Items),
		"total", receipt.Total,
	)
	return receipt, nil
}

// History returns all receipts, newest bill first, each with per-party and
// shared subtotals.
func (s *ReceiptService) History(ctx context.Context) ([]ReceiptSummary, error) {
	receipts, err := s.store.ListReceipts(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	parties, err := s.resolver.Parties(ctx)
	if err != nil {
		return nil, err
	}

	byReceipt := make(map[string][]models.Item, len(receipts))
	for _, it := range items {
		byReceipt[it.ReceiptID] = append(byReceipt[it.ReceiptID], it)
	}

	summaries := make([]ReceiptSummary, 0, len(receipts))
	for _, r := range receipts {
		summary := ReceiptSummary{
			ID:          r.ID,
			Filename:    r.Filename,
			BillDate:    r.BillDate,
			UploadDate:  r.UploadDate,
			Payer:       r.Payer,
			Total:       r.Total,
			PartyTotals: make(map[string]float64, len(parties)),
		}
		for _, p := range parties {
			summary.PartyTotals[p] = 0
		}
		for _, it := range byReceipt[r.ID] {
			switch {
			case it.AssignedTo.IsShared():
				summary.SharedTotal += it.Price
			case it.AssignedTo.IsExcluded():
				// Not part of any subtotal.
			default:
				if party, ok := it.AssignedTo.Party(); ok {
					if _, known := summary.PartyTotals[party]; known {
						summary.PartyTotals[party] += it.Price
					}
				}
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ReplaceItems swaps a receipt's full item set after a re-review. There is no
// field-level item patching; the reviewer always submits the complete set.
func (s *ReceiptService) ReplaceItems(ctx context.Context, receiptID string, reviewed []SaveItem) (*models.Receipt, error) {
	parties, err := s.resolver.Parties(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.Item, 0, len(reviewed))
	for i, it := range reviewed {
		if it.Description == "" {
			return nil, fmt.Errorf("%w: item %d has no description", ErrInvalidInput, i)
		}
		if err := validateAssignee(it.AssignedTo, parties); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, models.Item{
			Description: it.Description,
			Price:       it.Price,
			AssignedTo:  it.AssignedTo,
		})
	}

	if err := s.store.ReplaceItems(ctx, receiptID, items); err != nil {
		return nil, err
	}
	slog.Info("Receipt items replaced", "receipt_id", receiptID, "items", len(items))
	return s.store.GetReceipt(ctx, receiptID)
}

// Details returns one receipt with its items.
func (s *ReceiptService) Details(ctx context.Context, receiptID string) (*models.Receipt, error) {
	return s.store.GetReceipt(ctx, receiptID)
}

// Delete cascade-removes a receipt and its items.
func (s *ReceiptService) Delete(ctx context.Context, receiptID string) error {
	if err := s.store.DeleteReceipt(ctx, receiptID); err != nil {
		slog.Error("Failed to delete receipt", "receipt_id", receiptID, "error", err)
		return err
	}
	slog.Info("Receipt deleted", "receipt_id", receiptID)
	return nil
}

// RecordSettlement persists a direct payment between two parties as a
// synthetic receipt with a single item: the payer paid the receipt, the
// payee "consumed" the amount.
func (s *ReceiptService) RecordSettlement(ctx context.Context, from, to string, amount float64, note string) (*models.Receipt, error) {
	parties, err := s.resolver.Parties(ctx)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateParty(from, parties); err != nil {
		return nil, fmt.Errorf("%w: payer: %v", ErrInvalidInput, err)
	}
	if err := models.ValidateParty(to, parties); err != nil {
		return nil, fmt.Errorf("%w: payee: %v", ErrInvalidInput, err)
	}
	if from == to {
		return nil, fmt.Errorf("%w: payer and payee must differ", ErrInvalidInput)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: settlement amount must be positive", ErrInvalidInput)
	}

	if note == "" {
		note = fmt.Sprintf("Settlement %s -> %s", from, to)
	}
	receipt := &models.Receipt{
		Payer:    models.PartyPayer(from),
		Filename: "manual-settlement",
		BillDate: time.Now().Format("2006-01-02"),
		Items: []models.Item{
			{Description: note, Price: amount, AssignedTo: models.PartyAssignee(to)},
		},
	}
	if err := s.store.CreateReceipt(ctx, receipt); err != nil {
		return nil, err
	}

	slog.Info("Settlement recorded", "from", from, "to", to, "amount", amount)
	return receipt, nil
}

func validatePayer(p models.Payer, parties []string) error {
	party, ok := p.Party()
	if !ok {
		return nil // split-all and unattributed are always allowed
	}
	if err := models.ValidateParty(party, parties); err != nil {
		return fmt.Errorf("%w: payer: %v", ErrInvalidInput, err)
	}
	return nil
}

func validateAssignee(a models.Assignee, parties []string) error {
	party, ok := a.Party()
	if !ok {
		return nil // shared and excluded are always allowed
	}
	if err := models.ValidateParty(party, parties); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
