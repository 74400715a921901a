package pipeline

import (
	"testing"

	"stockforge/internal"
)

func TestDetectInventoryExport(t *testing.T) {
	res := DetectInventoryExport("Weekly inventory export", "stock levels attached", []string{"export.xlsx"})
	if !res.IsExport {
		t.Fatalf("res=%+v", res)
	}
	if res.Reason != "rules_positive" {
		t.Fatalf("reason=%q", res.Reason)
	}

	res = DetectInventoryExport("Lunch on Friday?", "see you then", nil)
	if res.IsExport {
		t.Fatalf("res=%+v", res)
	}
	if res.Reason != "rules_negative" {
		t.Fatalf("reason=%q", res.Reason)
	}
}

func TestDetectHTMLTableBody(t *testing.T) {
	res := DetectInventoryExport("variant price list", "<table><tr><td>sku</td></tr></table>", nil)
	if !res.IsExport {
		t.Fatalf("res=%+v", res)
	}
}

func TestInitialProductInfo(t *testing.T) {
	name, base, err := InitialProductInfo([]byte(sampleExport), internal.FormatCSV, "")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Widget" {
		t.Fatalf("name=%q", name)
	}
	if base != "ABC123" {
		t.Fatalf("base=%q", base)
	}
}

func TestInitialProductInfoEmpty(t *testing.T) {
	_, _, err := InitialProductInfo([]byte("Product SKU,Product Name\n"), internal.FormatCSV, "")
	if err == nil {
		t.Fatal("expected error for header-only input")
	}
}
