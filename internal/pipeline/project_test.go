package pipeline

import (
	"strings"
	"testing"

	"stockforge/internal"
)

func sampleFlat(t *testing.T) []internal.FlatRow {
	t.Helper()
	groups, err := Normalize(csvRecords(t, sampleExport), Options{
		ProductName:    "Widget",
		ProductSKUBase: "SKU1",
	})
	if err != nil {
		t.Fatal(err)
	}
	return Flatten(groups)
}

func TestFlatten(t *testing.T) {
	flat := sampleFlat(t)
	if len(flat) != 5 {
		t.Fatalf("rows=%d", len(flat))
	}

	first := flat[0]
	if first.Item != "Widget Red XS" {
		t.Fatalf("item=%q", first.Item)
	}
	if first.ItemSKU != "SKU1-RED-XS" || first.Size != "XSmall" || first.Stock != 5 {
		t.Fatalf("row=%+v", first)
	}
	if flat[1].Stock != 0 || flat[1].MPN != "" {
		t.Fatalf("synthesized=%+v", flat[1])
	}
}

func TestParseFlatReportRoundTrip(t *testing.T) {
	flat := sampleFlat(t)
	cells := make([][]string, 0, len(flat))
	for _, row := range flat {
		cells = append(cells, FlatCells(row, false))
	}
	payload, err := WriteTable(FlatHeader(false), cells, ContainerCSV)
	if err != nil {
		t.Fatal(err)
	}

	back, err := ParseFlatReport(payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != len(flat) {
		t.Fatalf("rows=%d", len(back))
	}
	if back[0].ItemSKU != flat[0].ItemSKU || back[0].Stock != flat[0].Stock {
		t.Fatalf("row=%+v", back[0])
	}
}

func TestProjectERP(t *testing.T) {
	rows := ProjectERP(sampleFlat(t), "Apparel", "Widgets", "")
	// Zero-stock rows drop, only the parsed XS row survives.
	if len(rows) != 1 {
		t.Fatalf("rows=%d", len(rows))
	}
	row := rows[0]
	if row.ExternalID != "product_SKU1_RED_XS" {
		t.Fatalf("id=%q", row.ExternalID)
	}
	if row.BaseSKU != "SKU1" {
		t.Fatalf("base=%q", row.BaseSKU)
	}
	if row.CategoryID != "category_apparel_widgets" {
		t.Fatalf("category=%q", row.CategoryID)
	}
	if row.Published != "1" {
		t.Fatalf("published=%q", row.Published)
	}
	if row.QtyAvailable != "5" {
		t.Fatalf("qty=%q", row.QtyAvailable)
	}
}

func TestProjectERPUnpublished(t *testing.T) {
	flat := []internal.FlatRow{{ItemSKU: "SKU1-RED-XS", Stock: 3, Status: "Discontinued"}}
	rows := ProjectERP(flat, "", "", "")
	if len(rows) != 1 || rows[0].Published != "0" {
		t.Fatalf("rows=%+v", rows)
	}
	if rows[0].CategoryID != "" {
		t.Fatalf("category=%q", rows[0].CategoryID)
	}
}

func TestProjectStockCount(t *testing.T) {
	rows := ProjectStockCount(sampleFlat(t), "WH/Stock")
	if len(rows) != 1 {
		t.Fatalf("rows=%d", len(rows))
	}
	row := rows[0]
	if row.ExternalID != "stock_count_sku1_red_xs" {
		t.Fatalf("id=%q", row.ExternalID)
	}
	if row.ProductRef != "SKU1-RED-XS" || row.Counted != "5" || row.OnHand != "0" {
		t.Fatalf("row=%+v", row)
	}
	if row.Location != "WH/Stock" || row.Assignee != "Administrator" {
		t.Fatalf("row=%+v", row)
	}
}

func TestProjectItemCatalog(t *testing.T) {
	flat := sampleFlat(t)
	rows := ProjectItemCatalog(flat)
	// Catalog keeps every row, zero stock included.
	if len(rows) != len(flat) {
		t.Fatalf("rows=%d", len(rows))
	}

	if len(ItemCatalogHeader()) != 32 {
		t.Fatalf("header=%d", len(ItemCatalogHeader()))
	}
	cells := ItemCatalogCells(rows[0])
	if len(cells) != len(ItemCatalogHeader()) {
		t.Fatalf("cells=%d header=%d", len(cells), len(ItemCatalogHeader()))
	}
	if cells[0] != "Item" || cells[3] != "Color" || cells[5] != "Size" {
		t.Fatalf("cells=%v", cells)
	}
	if rows[0].BarcodeType != "org.iso.Code128" {
		t.Fatalf("barcodeType=%q", rows[0].BarcodeType)
	}
	// Synthesized rows have no GTIN, so no barcode type either.
	if rows[1].Barcode != "" || rows[1].BarcodeType != "" {
		t.Fatalf("row=%+v", rows[1])
	}
}

func TestCategoryExternalID(t *testing.T) {
	if got := categoryExternalID("Summer Wear", "", "Kids"); got != "category_summer_wear_kids" {
		t.Fatalf("got %q", got)
	}
	if got := categoryExternalID("", "", ""); got != "" {
		t.Fatalf("got %q", got)
	}
	if strings.Contains(categoryExternalID("A B"), " ") {
		t.Fatal("spaces survived")
	}
}
