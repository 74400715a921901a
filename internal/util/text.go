package util

import "strings"

// SplitName splits a product-name cell into the product (first token) and
// the color (everything after it).
func SplitName(name string) (product, color string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// FirstToken returns the first whitespace-delimited token of a value.
func FirstToken(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// LastSegment returns the last '-'-delimited segment of a SKU.
func LastSegment(sku string) string {
	parts := strings.Split(sku, "-")
	return parts[len(parts)-1]
}

// TrimSegments removes the last n '-'-delimited segments from a SKU.
// TrimSegments("SKU1-RED-XS", 2) == "SKU1".
func TrimSegments(sku string, n int) string {
	parts := strings.Split(sku, "-")
	if len(parts) <= n {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-n], "-")
}

// Suffix3 returns the last three runes of an MPN, the stand-in color key
// used when deriving item SKUs. Shorter values are returned whole.
func Suffix3(mpn string) string {
	r := []rune(mpn)
	if len(r) <= 3 {
		return mpn
	}
	return string(r[len(r)-3:])
}
