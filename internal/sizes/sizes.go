package sizes

import (
	"fmt"
	"strings"
)

type Entry struct {
	Code  string
	Label string
}

// Table is an ordered canonical size set. Completion fills against it, so
// order is part of the contract: synthesized rows appear in table order.
type Table struct {
	Name    string
	Entries []Entry
}

// V1 is the baseline table used by the vendor feeds seen so far.
var V1 = Table{
	Name: "v1",
	Entries: []Entry{
		{Code: "XS", Label: "XSmall"},
		{Code: "SM", Label: "Small"},
		{Code: "ME", Label: "Medium"},
		{Code: "LA", Label: "Large"},
		{Code: "XL", Label: "X Large"},
	},
}

// V2 is the renumbered revision: same five sizes, shorter middle codes.
var V2 = Table{
	Name: "v2",
	Entries: []Entry{
		{Code: "XS", Label: "XSmall"},
		{Code: "S", Label: "Small"},
		{Code: "M", Label: "Medium"},
		{Code: "L", Label: "Large"},
		{Code: "XL", Label: "X Large"},
	},
}

func ByName(name string) (Table, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "v1":
		return V1, nil
	case "v2":
		return V2, nil
	default:
		return Table{}, fmt.Errorf("unknown size table: %s", name)
	}
}

func (t Table) Len() int {
	return len(t.Entries)
}

func (t Table) Codes() []string {
	out := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		out = append(out, e.Code)
	}
	return out
}

// Label returns the full-text label for a code.
func (t Table) Label(code string) (string, bool) {
	for _, e := range t.Entries {
		if e.Code == code {
			return e.Label, true
		}
	}
	return "", false
}

// MatchesSKU reports whether the SKU contains any size code as a substring.
// This is the historical row-kind discriminant; a parent SKU that happens to
// contain a code is misclassified as a variant.
func (t Table) MatchesSKU(sku string) bool {
	for _, e := range t.Entries {
		if strings.Contains(sku, e.Code) {
			return true
		}
	}
	return false
}
