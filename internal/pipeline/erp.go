package pipeline

import (
	"strconv"
	"strings"

	"stockforge/internal"
	"stockforge/internal/util"
)

var erpHeader = []string{
	"id", "name", "default_code", "base_sku", "barcode", "categ_id/id",
	"list_price", "standard_price", "weight", "is_published", "qty_available",
	"description_sale", "pack_length", "pack_width", "pack_height",
}

// ProjectERP maps flat report rows onto the ERP product import schema.
// Rows with zero stock are dropped; everything else derives from the item
// SKU and status. Description and package dimensions are intentionally
// blank placeholders, cost and weight pass through when the report carried
// them.
func ProjectERP(flat []internal.FlatRow, primary, secondary, tertiary string) []internal.ERPRow {
	category := categoryExternalID(primary, secondary, tertiary)

	out := []internal.ERPRow{}
	for _, row := range flat {
		if row.Stock == 0 {
			continue
		}
		out = append(out, internal.ERPRow{
			ExternalID:    productExternalID(row.ItemSKU),
			Name:          row.Item,
			DefaultCode:   row.ItemSKU,
			BaseSKU:       util.TrimSegments(row.ItemSKU, 2),
			Barcode:       row.GTIN,
			CategoryID:    category,
			ListPrice:     row.Price,
			StandardPrice: row.Cost,
			Weight:        row.Weight,
			Published:     publishedFlag(row.Status),
			QtyAvailable:  strconv.Itoa(row.Stock),
		})
	}
	return out
}

// ERPHeader returns the import column list; order is part of the contract.
func ERPHeader() []string {
	return erpHeader
}

func ERPCells(row internal.ERPRow) []string {
	return []string{
		row.ExternalID, row.Name, row.DefaultCode, row.BaseSKU, row.Barcode,
		row.CategoryID, row.ListPrice, row.StandardPrice, row.Weight,
		row.Published, row.QtyAvailable, row.Description,
		row.PackLength, row.PackWidth, row.PackHeight,
	}
}

func productExternalID(itemSKU string) string {
	return "product_" + strings.ReplaceAll(itemSKU, "-", "_")
}

func publishedFlag(status string) string {
	if strings.EqualFold(strings.TrimSpace(status), "active") {
		return "1"
	}
	return "0"
}

// categoryExternalID joins up to three category levels into an import id:
// lower-cased, spaces flattened to underscores, prefixed "category_".
// All-empty levels yield an empty id so the column imports as unset.
func categoryExternalID(levels ...string) string {
	parts := []string{}
	for _, level := range levels {
		level = strings.TrimSpace(level)
		if level == "" {
			continue
		}
		level = strings.ToLower(level)
		level = strings.Join(strings.Fields(level), "_")
		parts = append(parts, level)
	}
	if len(parts) == 0 {
		return ""
	}
	return "category_" + strings.Join(parts, "_")
}
