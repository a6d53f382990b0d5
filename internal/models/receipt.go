package models

// LineItem is a candidate item produced by the extractor, before human
// review. Price is signed: discount and refund lines stay negative.
type LineItem struct {
	// Description is the text preceding the price token, trimmed.
	Description string `json:"description"`

	// Price is the parsed amount with the decimal separator normalized.
	Price float64 `json:"price"`

	// IsValid is a review hint for the UI; the ledger never enforces it.
	IsValid bool `json:"is_valid"`
}

// Item is a reviewed line item owned by exactly one receipt.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// ReceiptID is the owning receipt. Items are deleted with their receipt.
	ReceiptID string `json:"receipt_id"`

	// Description is the item text as reviewed.
	Description string `json:"description"`

	// Price is the item amount.
	Price float64 `json:"price"`

	// AssignedTo is the party responsible for this item's cost.
	AssignedTo Assignee `json:"assigned_to"`
}

// Receipt represents one persisted receipt together with who paid it.
// A manual settlement between parties is an ordinary Receipt with exactly one
// item assigned to the payee; there is no separate settlement entity.
type Receipt struct {
	// ID is the unique identifier for the receipt (UUID format).
	ID string `json:"id"`

	// UploadDate is the Unix timestamp when the receipt was saved.
	UploadDate int64 `json:"upload_date"`

	// Payer identifies who paid this receipt.
	Payer Payer `json:"payer"`

	// Filename is the name of the uploaded document.
	Filename string `json:"filename"`

	// BillDate is the purchase date in YYYY-MM-DD form, or a placeholder when
	// no date could be recovered from the filename.
	BillDate string `json:"bill_date"`

	// Total is the cached sum of non-excluded item prices at save time. It is
	// maintained only by the store's create/replace paths; reconciliation
	// always recomputes from items instead of trusting it.
	Total float64 `json:"total"`

	// Items holds the receipt's items when loaded together with the receipt.
	Items []Item `json:"items,omitempty"`
}
