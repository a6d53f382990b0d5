// Package extractor turns raw text recovered from a receipt into an ordered
// list of candidate line items.
//
// The input is whatever the text-extraction collaborator produced for one
// uploaded document: noisy, line-oriented, with locale-specific number
// formats, trailing tax codes and non-item lines mixed in. Extraction is a
// pure computation; malformed lines are skipped, never reported as errors.
package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/splitbill/billsplitter/internal/models"
)

// priceToken matches a trailing price: an optionally negative amount with
// exactly two decimals (comma or period separator), followed only by
// discardable junk (whitespace, tax-rate letters, currency symbols) to the
// end of the line. Anchoring on the suffix makes the match greedy-to-the-
// right: a product code embedded in the description is ignored unless it
// itself ends in a two-decimal group. Weight sub-lines like "0,99/kg" carry a
// unit after the amount and stay unmatched.
var priceToken = regexp.MustCompile(`(-?\d+[.,]\d{2})\s*[A-Za-z€$£]*$`)

// Config carries the locale-specific keyword lists. Receipt vocabulary is
// language-bound, so the lists are injected rather than hardcoded; they are
// loadable from the application config file.
type Config struct {
	// StopKeywords end extraction entirely: once a line contains one of these
	// (case-insensitive substring match), all remaining lines are discarded.
	// This assumes totals and footer lines appear strictly after all items.
	StopKeywords []string `yaml:"stop_keywords"`

	// SkipKeywords drop a single line (case-insensitive whole-word match)
	// without ending extraction: subtotal, tax, payment-method lines and the
	// like.
	SkipKeywords []string `yaml:"skip_keywords"`
}

// DefaultConfig returns the reference keyword lists: German receipt
// vocabulary plus the common English equivalents.
func DefaultConfig() Config {
	return Config{
		StopKeywords: []string{"summe"},
		SkipKeywords: []string{
			"subtotal", "tax", "mwst", "cash", "bar", "card", "karte",
			"payment", "zahlung", "amount", "betrag", "change", "rückgeld",
			"balance", "saldo", "discount", "rabatt", "credit", "gutschrift",
		},
	}
}

// Extractor extracts line items from raw receipt text.
type Extractor struct {
	stop []string
	skip *regexp.Regexp
}

// New builds an Extractor from the given keyword configuration. Empty lists
// disable the corresponding filter.
func New(cfg Config) *Extractor {
	e := &Extractor{}
	for _, kw := range cfg.StopKeywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			e.stop = append(e.stop, kw)
		}
	}
	var quoted []string
	for _, kw := range cfg.SkipKeywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			quoted = append(quoted, regexp.QuoteMeta(kw))
		}
	}
	if len(quoted) > 0 {
		e.skip = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return e
}

// Extract parses raw text into line items, preserving source order.
//
// Per line: trim, drop if empty, stop entirely on a stop keyword, drop on a
// skip keyword, then look for a trailing price token. Lines without a token
// (weight sub-lines, page-break markers) are dropped. No deduplication or
// merging is performed.
//
// Known limitation: the stop keywords are matched as substrings anywhere in
// the line, so an item description that happens to contain one truncates the
// rest of the receipt.
func (e *Extractor) Extract(raw string) []models.LineItem {
	var items []models.LineItem

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		if e.stopsAt(lower) {
			break
		}
		if e.skip != nil && e.skip.MatchString(line) {
			continue
		}

		loc := priceToken.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}

		priceStr := strings.Replace(line[loc[2]:loc[3]], ",", ".", 1)
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			continue
		}

		items = append(items, models.LineItem{
			Description: strings.TrimSpace(line[:loc[2]]),
			Price:       price,
			IsValid:     true,
		})
	}

	return items
}

func (e *Extractor) stopsAt(lowerLine string) bool {
	for _, kw := range e.stop {
		if strings.Contains(lowerLine, kw) {
			return true
		}
	}
	return false
}

// Sum returns the raw sum of all extracted prices, before any review or
// exclusion. Shown next to the extracted items so the reviewer can compare it
// against the printed receipt total.
func Sum(items []models.LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price
	}
	return total
}
