package sizes

import "testing"

func TestByName(t *testing.T) {
	table, err := ByName("")
	if err != nil {
		t.Fatal(err)
	}
	if table.Name != "v1" {
		t.Fatalf("default table=%s", table.Name)
	}

	table, err = ByName("V2")
	if err != nil {
		t.Fatal(err)
	}
	if table.Name != "v2" || table.Len() != 5 {
		t.Fatalf("table=%s len=%d", table.Name, table.Len())
	}

	if _, err := ByName("v3"); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestLabel(t *testing.T) {
	label, ok := V1.Label("ME")
	if !ok || label != "Medium" {
		t.Fatalf("label=%q ok=%v", label, ok)
	}
	if _, ok := V1.Label("M"); ok {
		t.Fatal("v1 should not know code M")
	}
	if label, _ := V2.Label("M"); label != "Medium" {
		t.Fatalf("v2 M label=%q", label)
	}
}

func TestMatchesSKU(t *testing.T) {
	if !V1.MatchesSKU("ABC123-XS") {
		t.Fatal("suffix code not matched")
	}
	// Substring semantics: a code anywhere in the SKU counts.
	if !V1.MatchesSKU("XSABC123") {
		t.Fatal("embedded code not matched")
	}
	if V1.MatchesSKU("ABC123") {
		t.Fatal("plain SKU matched")
	}
}
