package pipeline

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"stockforge/internal"
)

func mkXLSX(sheet string, rows [][]any) []byte {
	f := excelize.NewFile()
	if sheet != "" {
		f.SetSheetName(f.GetSheetName(0), sheet)
	} else {
		sheet = f.GetSheetName(0)
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func TestReadCSVWithBOM(t *testing.T) {
	blob := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Product SKU,Product Name\nABC123,Widget Red\n")...)
	records, err := ReadTable(blob, internal.FormatCSV, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records=%d", len(records))
	}
	if got := records[0].Get("Product SKU"); got != "ABC123" {
		t.Fatalf("sku=%q", got)
	}
	if records[0].Line != 2 {
		t.Fatalf("line=%d", records[0].Line)
	}
}

func TestReadCSVBlankAndShortRows(t *testing.T) {
	blob := []byte("Product SKU,Product Name,Price\nABC123,Widget Red\n,,\nDEF456,Gadget Blue,10\n")
	records, err := ReadTable(blob, internal.FormatCSV, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d", len(records))
	}
	// Short row pads the missing trailing cell.
	if got := records[0].Get("Price"); got != "" {
		t.Fatalf("price=%q", got)
	}
	if records[1].Line != 4 {
		t.Fatalf("line=%d", records[1].Line)
	}
}

func TestReadCSVMultilineCellKeepsSourceLines(t *testing.T) {
	blob := []byte("Product SKU,Product Name\n\"ABC123\",\"Widget\nRed\"\nDEF456,Gadget Blue\n")
	records, err := ReadTable(blob, internal.FormatCSV, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d", len(records))
	}
	if records[0].Line != 2 {
		t.Fatalf("line=%d", records[0].Line)
	}
	// The quoted cell spans two source lines, so the next record sits on
	// line 4, not 3.
	if records[1].Line != 4 {
		t.Fatalf("line=%d", records[1].Line)
	}
}

func TestReadXLSX(t *testing.T) {
	blob := mkXLSX("Export", [][]any{
		{"Product SKU", "Product Name", "Stock"},
		{"ABC123", "Widget Red", ""},
		{"ABC123-XS", "Widget Red [S]Size=XSmall", 5},
	})

	records, err := ReadTable(blob, internal.FormatXLSX, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d", len(records))
	}
	if got := records[1].Get("Stock"); got != "5" {
		t.Fatalf("stock=%q", got)
	}

	names, err := ListSheets(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "Export" {
		t.Fatalf("sheets=%v", names)
	}
}

func TestReadXLSXSheetNotFound(t *testing.T) {
	blob := mkXLSX("Export", [][]any{{"Product SKU"}, {"ABC123"}})
	_, err := ReadTable(blob, internal.FormatXLSX, "Missing")
	var notFound *SheetNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err=%v", err)
	}
	if notFound.Sheet != "Missing" {
		t.Fatalf("sheet=%q", notFound.Sheet)
	}
}

func TestReadHTMLTable(t *testing.T) {
	blob := []byte(`<html><body><table>
<tr><th>Product SKU</th><th>Product Name</th></tr>
<tr><td>ABC123</td><td>Widget Red</td></tr>
</table></body></html>`)

	records, err := ReadTable(blob, internal.FormatHTML, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records=%d", len(records))
	}
	if got := records[0].Get("Product Name"); got != "Widget Red" {
		t.Fatalf("name=%q", got)
	}
}

func TestReadHTMLNoTable(t *testing.T) {
	_, err := ReadTable([]byte("<html><body><p>hi</p></body></html>"), internal.FormatHTML, "")
	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("err=%v", err)
	}
}
