package pipeline

import (
	"fmt"

	"stockforge/internal"
	"stockforge/internal/sizes"
	"stockforge/internal/util"
)

// Options carries the caller-side inputs to normalization. ProductSKUBase is
// the stem every derived item SKU starts with; DefaultPrice is used when no
// parent row supplied a price. Sizes defaults to the v1 table.
type Options struct {
	ProductName    string
	ProductSKUBase string
	DefaultPrice   string
	Attrs          internal.Attributes
	Sizes          sizes.Table
}

// accumulator is the fold state: the parent context seen most recently and
// the group map built so far. One accumulator lives per Normalize call.
type accumulator struct {
	parent *parentRow
	groups *internal.ProductGroupMap
	opts   Options
}

// Normalize folds the record stream into the canonical group map and then
// completes every group against the canonical size set. Any failure aborts
// the whole call; there is no partial output.
func Normalize(records []internal.RawRecord, opts Options) (*internal.ProductGroupMap, error) {
	if opts.Sizes.Len() == 0 {
		opts.Sizes = sizes.V1
	}

	acc := &accumulator{groups: internal.NewProductGroupMap(), opts: opts}
	for _, rec := range records {
		if err := acc.fold(rec); err != nil {
			return nil, &NormalizationError{Line: rec.Line, Err: err}
		}
	}

	if err := completeSizes(acc.groups, acc.opts); err != nil {
		return nil, &NormalizationError{Err: err}
	}
	return acc.groups, nil
}

func (a *accumulator) fold(rec internal.RawRecord) error {
	switch classify(rec, a.opts.Sizes) {
	case rowSkip:
		return nil

	case rowParent:
		p := parseParent(rec)
		if p.Product == "" {
			p.Product = a.opts.ProductName
		}
		a.parent = &p

		if g := a.groups.Get(p.SKU); g != nil {
			// Repeated parent row: name and color keep their first
			// values, the completion price follows the latest row.
			g.Price = p.Price
			return nil
		}
		a.groups.Insert(&internal.ProductGroup{
			SKU:     p.SKU,
			Product: p.Product,
			Color:   p.Color,
			Price:   p.Price,
			Attrs:   a.opts.Attrs,
			Items:   map[string]internal.VariantRecord{},
		})
		return nil

	case rowVariant:
		v, err := parseVariant(rec, a.opts.Sizes)
		if err != nil {
			return err
		}
		if a.parent == nil {
			return &NoCurrentParentError{Line: rec.Line, SKU: v.SKU}
		}

		price := a.parent.Price
		if price == "" {
			price = a.opts.DefaultPrice
		}

		group := a.groups.Get(a.parent.SKU)
		group.Put(itemSKU(a.opts.ProductSKUBase, v.ColorID, v.SizeCode), internal.VariantRecord{
			SizeCode:  v.SizeCode,
			SizeLabel: v.SizeLabel,
			Stock:     v.Stock,
			MPN:       v.MPN,
			GTIN:      v.GTIN,
			Price:     price,
			Status:    v.Status,
			Line:      v.Line,
		})
		return nil
	}
	return nil
}

// completeSizes guarantees one item per canonical size code in every group.
// Synthesized rows are zero-stock placeholders and never replace a parsed
// row. A group with no parsed variant has no MPN to derive the color
// identifier from and is a hard error.
func completeSizes(groups *internal.ProductGroupMap, opts Options) error {
	for _, sku := range groups.Order {
		g := groups.Groups[sku]
		if len(g.ItemOrder) == 0 {
			return &EmptyGroupError{SKU: sku}
		}

		colorID := util.Suffix3(g.Items[g.ItemOrder[0]].MPN)
		price := g.Price
		if price == "" {
			price = opts.DefaultPrice
		}

		for _, entry := range opts.Sizes.Entries {
			key := itemSKU(opts.ProductSKUBase, colorID, entry.Code)
			if _, ok := g.Items[key]; ok {
				continue
			}
			g.Put(key, internal.VariantRecord{
				SizeCode:    entry.Code,
				SizeLabel:   entry.Label,
				Price:       price,
				Synthesized: true,
			})
		}
	}
	return nil
}

func itemSKU(base, colorID, sizeCode string) string {
	return fmt.Sprintf("%s-%s-%s", base, colorID, sizeCode)
}
