package ledger

import (
	"math"

	"github.com/splitbill/billsplitter/internal/models"
)

// Drift records a receipt whose cached total disagrees with the live sum of
// its non-excluded items. The cache is written once at save time, so drift
// means the items were edited by out-of-band tooling since then.
type Drift struct {
	ReceiptID string  `json:"receipt_id"`
	Filename  string  `json:"filename"`
	Cached    float64 `json:"cached"`
	Actual    float64 `json:"actual"`
}

// CheckTotals detects cache drift across the whole history. It never
// auto-corrects; cmd/recompute rewrites the cached values.
func CheckTotals(receipts []models.Receipt, items []models.Item) []Drift {
	actual := make(map[string]float64, len(receipts))
	for _, it := range items {
		if it.AssignedTo.IsExcluded() {
			continue
		}
		actual[it.ReceiptID] += it.Price
	}

	var drifts []Drift
	for _, r := range receipts {
		if math.Abs(r.Total-actual[r.ID]) < epsilon {
			continue
		}
		drifts = append(drifts, Drift{
			ReceiptID: r.ID,
			Filename:  r.Filename,
			Cached:    r.Total,
			Actual:    actual[r.ID],
		})
	}
	return drifts
}
