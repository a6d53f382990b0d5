// Package ledger computes who owes whom across the full receipt history.
//
// Reconcile is a pure function over a snapshot of persisted records. It is
// invoked on demand and recomputes everything from scratch each time; there
// is no incremental state, which keeps it trivially consistent and
// idempotent. Read consistency of the snapshot is the caller's concern.
package ledger

import (
	"math"

	"github.com/splitbill/billsplitter/internal/models"
)

// epsilon absorbs floating point noise when comparing balances.
const epsilon = 0.01

// Settlement is the single directional instruction derived from the extreme
// net balances. The zero value means nobody owes anybody.
type Settlement struct {
	Debtor   string  `json:"debtor"`
	Creditor string  `json:"creditor"`
	Amount   float64 `json:"amount"`
}

// Transfer is one edge of the multi-party transfer plan.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Warning flags a receipt that was silently excluded from paid totals
// because it has no attributable payer. Such receipts understate how much was
// actually paid, so they are surfaced instead of dropped.
type Warning struct {
	ReceiptID string  `json:"receipt_id"`
	Filename  string  `json:"filename"`
	Amount    float64 `json:"amount"`
}

// Report is the full reconciliation result.
type Report struct {
	// Parties is the configured party list, in order.
	Parties []string `json:"parties"`

	// Personal is the sum of item prices assigned directly to each party.
	Personal map[string]float64 `json:"personal"`

	// Paid is the amount each party actually paid across all receipts.
	Paid map[string]float64 `json:"paid"`

	// Responsibility is personal plus an even share of the shared total.
	Responsibility map[string]float64 `json:"responsibility"`

	// Net is paid minus responsibility. Positive means the party is owed.
	Net map[string]float64 `json:"net"`

	// SharedTotal is the sum of item prices marked shared.
	SharedTotal float64 `json:"shared_total"`

	// Settlement is the single instruction between the highest and lowest
	// net parties.
	Settlement Settlement `json:"settlement"`

	// Transfers is a transfer plan that clears every balance. With two
	// parties it is at most the Settlement edge; with more it is a greedy
	// debtor/creditor matching.
	Transfers []Transfer `json:"transfers"`

	// Warnings lists receipts excluded from paid totals for lack of a payer.
	Warnings []Warning `json:"warnings,omitempty"`
}

// ReceiptTotal sums the prices of the non-excluded items of one receipt.
// This is the canonical value of the cached Receipt.Total field.
func ReceiptTotal(items []models.Item) float64 {
	var total float64
	for _, it := range items {
		if it.AssignedTo.IsExcluded() {
			continue
		}
		total += it.Price
	}
	return total
}

// Reconcile computes per-party balances and the settlement instruction over
// the complete history. Malformed records (items assigned to an unknown
// party, receipts paid by an unknown party) are skipped rather than aborting
// the computation; payer problems are reported as warnings.
func Reconcile(receipts []models.Receipt, items []models.Item, parties []string) Report {
	report := Report{
		Parties:        parties,
		Personal:       make(map[string]float64, len(parties)),
		Paid:           make(map[string]float64, len(parties)),
		Responsibility: make(map[string]float64, len(parties)),
		Net:            make(map[string]float64, len(parties)),
	}
	for _, p := range parties {
		report.Personal[p] = 0
		report.Paid[p] = 0
	}
	if len(parties) == 0 {
		return report
	}

	known := make(map[string]bool, len(parties))
	for _, p := range parties {
		known[p] = true
	}

	// Personal and shared totals, plus per-receipt non-excluded sums.
	receiptTotals := make(map[string]float64, len(receipts))
	for _, it := range items {
		if !it.AssignedTo.IsExcluded() {
			receiptTotals[it.ReceiptID] += it.Price
		}
		switch {
		case it.AssignedTo.IsShared():
			report.SharedTotal += it.Price
		case it.AssignedTo.IsExcluded():
			// Recorded for history only.
		default:
			party, _ := it.AssignedTo.Party()
			if known[party] {
				report.Personal[party] += it.Price
			}
		}
	}

	// Attribute each receipt's total to whoever paid it.
	for _, r := range receipts {
		total := receiptTotals[r.ID]
		switch {
		case r.Payer.IsSplitAll():
			share := total / float64(len(parties))
			for _, p := range parties {
				report.Paid[p] += share
			}
		case r.Payer.IsUnattributed():
			report.Warnings = append(report.Warnings, Warning{
				ReceiptID: r.ID, Filename: r.Filename, Amount: total,
			})
		default:
			party, _ := r.Payer.Party()
			if !known[party] {
				report.Warnings = append(report.Warnings, Warning{
					ReceiptID: r.ID, Filename: r.Filename, Amount: total,
				})
				continue
			}
			report.Paid[party] += total
		}
	}

	sharedShare := report.SharedTotal / float64(len(parties))
	for _, p := range parties {
		report.Responsibility[p] = report.Personal[p] + sharedShare
		report.Net[p] = report.Paid[p] - report.Responsibility[p]
	}

	report.Settlement = settle(report.Net, parties)
	report.Transfers = planTransfers(report.Net, parties)
	return report
}

// settle derives the single instruction: the lowest-net party owes the
// highest-net party the spread between them. Ties break in favor of the
// party listed first in the configured order, which keeps the result
// deterministic for any party count.
func settle(net map[string]float64, parties []string) Settlement {
	high, low := parties[0], parties[0]
	for _, p := range parties[1:] {
		if net[p] > net[high] {
			high = p
		}
		if net[p] < net[low] {
			low = p
		}
	}

	amount := net[high] - net[low]
	if amount < epsilon {
		return Settlement{}
	}
	return Settlement{Debtor: low, Creditor: high, Amount: amount}
}

// planTransfers greedily matches debtors against creditors until every
// balance is cleared. Party order makes the pairing deterministic.
func planTransfers(net map[string]float64, parties []string) []Transfer {
	var debtors, creditors []string
	owed := make(map[string]float64, len(parties))
	for _, p := range parties {
		switch {
		case net[p] < -epsilon:
			debtors = append(debtors, p)
			owed[p] = -net[p]
		case net[p] > epsilon:
			creditors = append(creditors, p)
			owed[p] = net[p]
		}
	}

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := debtors[i], creditors[j]

		amount := math.Min(owed[debtor], owed[creditor])
		if amount > epsilon {
			transfers = append(transfers, Transfer{From: debtor, To: creditor, Amount: amount})
		}

		owed[debtor] -= amount
		owed[creditor] -= amount
		if owed[debtor] < epsilon {
			i++
		}
		if owed[creditor] < epsilon {
			j++
		}
	}
	return transfers
}
