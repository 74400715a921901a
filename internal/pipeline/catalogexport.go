package pipeline

import (
	"strconv"

	"stockforge/internal"
)

// Header of the variants-expert item catalog import. The app rejects files
// whose columns deviate, so the full 32-column grid is emitted even though
// most cells stay empty.
var itemCatalogHeader = []string{
	"Entry Type", "Entry Name", "Item Group Name",
	"Attribute 1 Name", "Attribute 1 Option",
	"Attribute 2 Name", "Attribute 2 Option",
	"Attribute 3 Name", "Attribute 3 Option",
	"Quantity", "Unit", "Min Level", "Price", "Notes", "Tags", "Primary Folder",
	"Subfolder-level1", "Subfolder-level2", "Subfolder-level3", "Subfolder-level4",
	"Photo1", "Photo2", "Photo3", "Photo4", "Photo5", "Photo6", "Photo7", "Photo8",
	"Barcode/QR1-Data", "Barcode/QR1-Type", "Barcode/QR2-Data", "Barcode/QR2-Type",
}

const (
	catalogUnit       = "Unit"
	catalogMinLevel   = "2"
	catalogGTINFormat = "org.iso.Code128"
)

// ProjectItemCatalog maps flat rows onto item catalog lines: one item per
// row, color and size as the two variant attributes, the GTIN as the second
// barcode slot.
func ProjectItemCatalog(flat []internal.FlatRow) []internal.ItemCatalogRow {
	out := make([]internal.ItemCatalogRow, 0, len(flat))
	for _, row := range flat {
		barcodeType := ""
		if row.GTIN != "" {
			barcodeType = catalogGTINFormat
		}
		out = append(out, internal.ItemCatalogRow{
			EntryName:   row.Product,
			GroupName:   row.Product,
			Color:       row.Color,
			Size:        row.Size,
			Quantity:    strconv.Itoa(row.Stock),
			Price:       row.Price,
			Barcode:     row.GTIN,
			BarcodeType: barcodeType,
		})
	}
	return out
}

func ItemCatalogHeader() []string {
	return itemCatalogHeader
}

func ItemCatalogCells(row internal.ItemCatalogRow) []string {
	return []string{
		"Item", row.EntryName, row.GroupName,
		"Color", row.Color,
		"Size", row.Size,
		"", "",
		row.Quantity, catalogUnit, catalogMinLevel, row.Price, "", "", "",
		"", "", "", "",
		"", "", "", "", "", "", "", "",
		"", "", row.Barcode, row.BarcodeType,
	}
}
