package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PriceEntry bir Stripe price id'sinin kaç kredi verdiğini tutar
type PriceEntry struct {
	PriceID string `json:"price_id"`
	Credits int64  `json:"credits"`
}

// PriceTable deploy sırasında belirlenir, çalışma anında değişmez.
type PriceTable struct {
	credits map[string]int64
}

// NewPriceTable verilen map'in kopyasıyla tablo oluşturur
func NewPriceTable(m map[string]int64) PriceTable {
	credits := make(map[string]int64, len(m))
	for id, n := range m {
		credits[id] = n
	}
	return PriceTable{credits: credits}
}

// ParsePriceTable "price_a:1000,price_b:5000" formatını okur.
func ParsePriceTable(raw string) (PriceTable, error) {
	credits := make(map[string]int64)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, qty, ok := strings.Cut(part, ":")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return PriceTable{}, fmt.Errorf("invalid entry %q, expected price_id:credits", part)
		}

		n, err := strconv.ParseInt(strings.TrimSpace(qty), 10, 64)
		if err != nil {
			return PriceTable{}, fmt.Errorf("invalid credit quantity for %s: %w", id, err)
		}
		if n <= 0 {
			return PriceTable{}, fmt.Errorf("credit quantity for %s must be positive, got %d", id, n)
		}
		if _, dup := credits[id]; dup {
			return PriceTable{}, fmt.Errorf("duplicate price id %s", id)
		}
		credits[id] = n
	}
	return PriceTable{credits: credits}, nil
}

func (t PriceTable) Lookup(priceID string) (int64, bool) {
	n, ok := t.credits[priceID]
	return n, ok
}

func (t PriceTable) Len() int {
	return len(t.credits)
}

// Entries kredi miktarına göre artan sırada döner
func (t PriceTable) Entries() []PriceEntry {
	entries := make([]PriceEntry, 0, len(t.credits))
	for id, n := range t.credits {
		entries = append(entries, PriceEntry{PriceID: id, Credits: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Credits == entries[j].Credits {
			return entries[i].PriceID < entries[j].PriceID
		}
		return entries[i].Credits < entries[j].Credits
	})
	return entries
}
