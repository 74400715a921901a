package storage

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUpsertEmailIdempotent(t *testing.T) {
	db := openTestDB(t)

	first, err := db.UpsertEmail("imap", "<m1@example.com>", "subject", "a@example.com", "2026-08-01T00:00:00Z", "h1", "/raw/1.eml", "fetched")
	if err != nil {
		t.Fatal(err)
	}
	second, err := db.UpsertEmail("imap", "<m1@example.com>", "subject v2", "a@example.com", "2026-08-01T00:00:00Z", "h2", "/raw/2.eml", "fetched")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Fatalf("ids differ: %d vs %d", first.ID, second.ID)
	}
	if second.Subject != "subject v2" || second.Hash != "h2" {
		t.Fatalf("row=%+v", second)
	}
}

func TestEmailStatusFlow(t *testing.T) {
	db := openTestDB(t)

	email, err := db.UpsertEmail("gmail", "<m2@example.com>", "s", "b@example.com", "2026-08-01T00:00:00Z", "h", "/raw/3.eml", "fetched")
	if err != nil {
		t.Fatal(err)
	}

	pending, err := db.ListEmailsByStatus("fetched", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending=%d", len(pending))
	}

	if err := db.UpdateEmailStatus(email.ID, "processed"); err != nil {
		t.Fatal(err)
	}
	pending, err = db.ListEmailsByStatus("fetched", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending=%d", len(pending))
	}

	row, err := db.MustEmailByProviderMessageID("gmail", "<m2@example.com>")
	if err != nil {
		t.Fatal(err)
	}
	if row.Status != "processed" {
		t.Fatalf("status=%q", row.Status)
	}

	if _, err := db.MustEmailByProviderMessageID("gmail", "<missing@example.com>"); err == nil {
		t.Fatal("expected error for missing email")
	}
}

func TestConversionsClearOnReprocess(t *testing.T) {
	db := openTestDB(t)

	email, err := db.UpsertEmail("imap", "<m3@example.com>", "s", "c@example.com", "2026-08-01T00:00:00Z", "h", "/raw/4.eml", "fetched")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := db.InsertConversion(email.ID, "export.csv", "flat", "/out/a.csv", 1, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := db.InsertConversion(email.ID, "export2.csv", "flat", "/out/b.csv", 2, 10); err != nil {
		t.Fatal(err)
	}

	rows, err := db.ListConversions(email.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Items != 5 {
		t.Fatalf("rows=%+v", rows)
	}

	if err := db.ClearEmailProcessing(email.ID); err != nil {
		t.Fatal(err)
	}
	rows, err = db.ListConversions(email.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows=%d", len(rows))
	}
}

func TestMetadata(t *testing.T) {
	db := openTestDB(t)

	value, err := db.GetMetadata("cursor")
	if err != nil {
		t.Fatal(err)
	}
	if value != nil {
		t.Fatalf("value=%v", *value)
	}

	if err := db.SetMetadata("cursor", "abc"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMetadata("cursor", "def"); err != nil {
		t.Fatal(err)
	}
	value, err = db.GetMetadata("cursor")
	if err != nil {
		t.Fatal(err)
	}
	if value == nil || *value != "def" {
		t.Fatalf("value=%v", value)
	}
}
