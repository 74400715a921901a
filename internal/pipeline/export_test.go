package pipeline

import (
	"testing"

	"stockforge/internal"
)

func TestContainerByName(t *testing.T) {
	c, err := ContainerByName("")
	if err != nil || c != ContainerCSV {
		t.Fatalf("c=%v err=%v", c, err)
	}
	c, err = ContainerByName("XLSX")
	if err != nil || c != ContainerXLSX {
		t.Fatalf("c=%v err=%v", c, err)
	}
	if _, err := ContainerByName("pdf"); err == nil {
		t.Fatal("expected error")
	}
	if ContainerXLSX.Ext() != ".xlsx" || ContainerCSV.Ext() != ".csv" {
		t.Fatal("ext mismatch")
	}
}

func TestWriteTableBothContainers(t *testing.T) {
	header := []string{"Product SKU", "Stock"}
	rows := [][]string{{"ABC123-XS", "5"}, {"ABC123-SM", "0"}}

	for _, tc := range []struct {
		container Container
		format    internal.SourceFormat
	}{
		{ContainerCSV, internal.FormatCSV},
		{ContainerXLSX, internal.FormatXLSX},
	} {
		payload, err := WriteTable(header, rows, tc.container)
		if err != nil {
			t.Fatal(err)
		}
		back, err := ReadTable(payload, tc.format, "")
		if err != nil {
			t.Fatal(err)
		}
		if len(back) != 2 {
			t.Fatalf("%s rows=%d", tc.container, len(back))
		}
		if got := back[0].Get("Product SKU"); got != "ABC123-XS" {
			t.Fatalf("%s sku=%q", tc.container, got)
		}
		if got := back[1].Get("Stock"); got != "0" {
			t.Fatalf("%s stock=%q", tc.container, got)
		}
	}
}
