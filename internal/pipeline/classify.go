package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"stockforge/internal"
	"stockforge/internal/sizes"
	"stockforge/internal/util"
)

// sizeAnnotation matches the free-text size embedded in a product name,
// e.g. "Widget Red [S]Size=XSmall".
var sizeAnnotation = regexp.MustCompile(`\[S\]Size=(\S+)`)

type rowKind int

const (
	rowSkip rowKind = iota
	rowParent
	rowVariant
)

// classify decides the row kind. The discriminant is the historical
// substring test: a row is a variant iff its SKU contains any canonical size
// code. Rows with an empty SKU are skipped so stray cells never become a
// parent keyed "".
func classify(rec internal.RawRecord, table sizes.Table) rowKind {
	sku := rec.Get(internal.ColProductSKU)
	if strings.TrimSpace(sku) == "" {
		return rowSkip
	}
	if table.MatchesSKU(sku) {
		return rowVariant
	}
	return rowParent
}

type parentRow struct {
	SKU     string
	Product string
	Color   string
	Price   string
	Line    int
}

func parseParent(rec internal.RawRecord) parentRow {
	product, color := util.SplitName(rec.Get(internal.ColProductName))
	return parentRow{
		SKU:     rec.Get(internal.ColProductSKU),
		Product: product,
		Color:   color,
		Price:   util.NormalizePrice(rec.Get(internal.ColPrice)),
		Line:    rec.Line,
	}
}

type variantRow struct {
	SKU       string
	SizeCode  string
	SizeLabel string
	Stock     int
	MPN       string
	GTIN      string
	Status    string
	ColorID   string
	Line      int
}

// parseVariant extracts the coded fields of a variant row. The size label
// comes from the canonical table; for suffixes the table does not know, the
// [S]Size= annotation's first token is used instead.
func parseVariant(rec internal.RawRecord, table sizes.Table) (variantRow, error) {
	sku := rec.Get(internal.ColProductSKU)
	code := util.LastSegment(sku)

	label, ok := table.Label(code)
	if !ok {
		m := sizeAnnotation.FindStringSubmatch(rec.Get(internal.ColProductName))
		if m == nil {
			return variantRow{}, &SizeAnnotationMissingError{Line: rec.Line, SKU: sku}
		}
		label = util.FirstToken(m[1])
		if label == "" {
			return variantRow{}, &SizeAnnotationMissingError{Line: rec.Line, SKU: sku}
		}
	}

	mpn := rec.Get(internal.ColMPN)
	return variantRow{
		SKU:       sku,
		SizeCode:  code,
		SizeLabel: label,
		Stock:     parseStock(rec.Get(internal.ColStock)),
		MPN:       mpn,
		GTIN:      rec.Get(internal.ColGTIN),
		Status:    rec.Get(internal.ColStatus),
		ColorID:   util.Suffix3(mpn),
		Line:      rec.Line,
	}, nil
}

func parseStock(cell string) int {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	n, err := strconv.Atoi(cell)
	if err != nil {
		return 0
	}
	return n
}
