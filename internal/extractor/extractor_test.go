package extractor

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/splitbill/billsplitter/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []models.LineItem
	}{
		{
			name: "stops at total line and discards the rest",
			raw:  "Bread 1,99 A\nMilk 2,49\nSumme 24,50\nExtra 9,99",
			want: []models.LineItem{
				{Description: "Bread", Price: 1.99, IsValid: true},
				{Description: "Milk", Price: 2.49, IsValid: true},
			},
		},
		{
			name: "payment line is skipped without stopping",
			raw:  "Karte -5,00\nApple 0,99",
			want: []models.LineItem{
				{Description: "Apple", Price: 0.99, IsValid: true},
			},
		},
		{
			name: "empty and unparseable lines are skipped",
			raw:  "\n   \nLidl Filiale 123\n2,5 kg x 0,99/kg\nBananas 2,48 B\n",
			want: []models.LineItem{
				{Description: "Bananas", Price: 2.48, IsValid: true},
			},
		},
		{
			name: "last two-decimal token wins over embedded numbers",
			raw:  "Art 4711 Coffee 6,99 A",
			want: []models.LineItem{
				{Description: "Art 4711 Coffee", Price: 6.99, IsValid: true},
			},
		},
		{
			name: "period separator and trailing currency symbol",
			raw:  "Olive Oil 8.49 €",
			want: []models.LineItem{
				{Description: "Olive Oil", Price: 8.49, IsValid: true},
			},
		},
		{
			name: "negative discount line keeps its sign",
			raw:  "Coupon Apples -0,50\nApples 2,00",
			want: []models.LineItem{
				{Description: "Coupon Apples", Price: -0.50, IsValid: true},
				{Description: "Apples", Price: 2.00, IsValid: true},
			},
		},
		{
			name: "zero price is a valid item",
			raw:  "Gratis Probe 0,00",
			want: []models.LineItem{
				{Description: "Gratis Probe", Price: 0, IsValid: true},
			},
		},
		{
			name: "three decimals do not parse as a price",
			raw:  "Weird 1,999\nOk 1,99",
			want: []models.LineItem{
				{Description: "Ok", Price: 1.99, IsValid: true},
			},
		},
		{
			name: "page break marker between pages is ignored",
			raw:  "Cheese 3,29\n--PAGE BREAK--\nWine 7,99",
			want: []models.LineItem{
				{Description: "Cheese", Price: 3.29, IsValid: true},
				{Description: "Wine", Price: 7.99, IsValid: true},
			},
		},
		{
			name: "stop keyword is case-insensitive",
			raw:  "Milk 1,09\nSUMME 1,09\nGhost 5,00",
			want: []models.LineItem{
				{Description: "Milk", Price: 1.09, IsValid: true},
			},
		},
		{
			name: "keyword inside a word does not skip the line",
			raw:  "Barilla Pasta 1,79",
			want: []models.LineItem{
				{Description: "Barilla Pasta", Price: 1.79, IsValid: true},
			},
		},
		{
			name: "empty input yields no items",
			raw:  "",
			want: nil,
		},
	}

	ex := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ex.Extract(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("Extract() returned %d items, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].Description != tt.want[i].Description {
					t.Errorf("item %d description = %q, want %q", i, got[i].Description, tt.want[i].Description)
				}
				if !almostEqual(got[i].Price, tt.want[i].Price) {
					t.Errorf("item %d price = %v, want %v", i, got[i].Price, tt.want[i].Price)
				}
				if !got[i].IsValid {
					t.Errorf("item %d expected IsValid", i)
				}
			}
		})
	}
}

func TestExtractCustomKeywords(t *testing.T) {
	ex := New(Config{
		StopKeywords: []string{"grand total"},
		SkipKeywords: []string{"visa"},
	})

	got := ex.Extract("Pizza 12.50\nVISA 12.50\nGrand Total 12.50\nTip 2.00")
	if len(got) != 1 || got[0].Description != "Pizza" {
		t.Fatalf("Extract() = %+v, want single Pizza item", got)
	}

	// Default German keywords must not apply with a custom config.
	got = ex.Extract("Summe 3,00\nKarte 3,00")
	if len(got) != 2 {
		t.Fatalf("Extract() = %+v, want both lines parsed", got)
	}
}

// Extraction never panics and every emitted price round-trips through its
// normalized decimal string.
func TestExtractPriceRoundTrip(t *testing.T) {
	inputs := []string{
		"Bread 1,99 A\nMilk 2,49\nRefund -3,10",
		"junk \x00\xff lines\n!!! 0,05",
		strings.Repeat("A 1,23\n", 50),
	}

	ex := New(DefaultConfig())
	for _, raw := range inputs {
		for _, item := range ex.Extract(raw) {
			s := strconv.FormatFloat(item.Price, 'f', 2, 64)
			back, err := strconv.ParseFloat(s, 64)
			if err != nil {
				t.Fatalf("price %v did not round-trip: %v", item.Price, err)
			}
			if !almostEqual(back, item.Price) {
				t.Errorf("price %v round-tripped to %v", item.Price, back)
			}
		}
	}
}

func TestSum(t *testing.T) {
	items := []models.LineItem{
		{Price: 1.99}, {Price: 2.49}, {Price: -0.50},
	}
	if got := Sum(items); !almostEqual(got, 3.98) {
		t.Errorf("Sum() = %v, want 3.98", got)
	}
	if got := Sum(nil); got != 0 {
		t.Errorf("Sum(nil) = %v, want 0", got)
	}
}
