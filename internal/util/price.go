package util

import (
	"regexp"
	"strings"
)

var currencyRunes = regexp.MustCompile(`[€$£¥]`)

// NormalizePrice strips currency symbols and surrounding whitespace from a
// raw price cell: "€19.99 " -> "19.99". The numeric text itself is kept
// verbatim; prices flow through the pipeline as strings.
func NormalizePrice(input string) string {
	return strings.TrimSpace(currencyRunes.ReplaceAllString(input, ""))
}
