package connectors

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stockforge/internal"
	"stockforge/internal/storage"
)

type fakeConnector struct {
	messages []internal.FetchedMailMessage
}

func (f *fakeConnector) FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error) {
	return f.messages, nil
}

func mkEML(subject, body string, attachments map[string]string) []byte {
	var b strings.Builder
	b.WriteString("From: vendor@example.com\r\n")
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/mixed; boundary=\"frontier\"\r\n")
	b.WriteString("\r\n")
	b.WriteString("--frontier\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(body + "\r\n")
	for name, content := range attachments {
		b.WriteString("--frontier\r\n")
		fmt.Fprintf(&b, "Content-Type: text/csv; name=%q\r\n", name)
		fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n", name)
		b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		b.WriteString(base64.StdEncoding.EncodeToString([]byte(content)) + "\r\n")
	}
	b.WriteString("--frontier--\r\n")
	return []byte(b.String())
}

func fetchedMsg(id string, raw []byte) internal.FetchedMailMessage {
	return internal.FetchedMailMessage{
		Provider:   "imap",
		MessageID:  id,
		Subject:    "subject",
		From:       "vendor@example.com",
		ReceivedAt: "2026-08-01T00:00:00Z",
		Raw:        raw,
	}
}

func TestFetchAndStoreScreensPayloads(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	tabular := mkEML("inventory export", "attached", map[string]string{"export.csv": "Product SKU\nABC123\n"})
	plain := mkEML("hello", "no tables here", nil)

	svc := NewFetchService(db, filepath.Join(tmp, "raw"), &fakeConnector{messages: []internal.FetchedMailMessage{
		fetchedMsg("<m1@example.com>", tabular),
		fetchedMsg("<m2@example.com>", plain),
	}})

	result, err := svc.FetchAndStore("INBOX", 10)
	if err != nil {
		t.Fatal(err)
	}
	if result.Fetched != 2 || result.Stored != 2 || result.Ignored != 1 {
		t.Fatalf("result=%+v", result)
	}

	row, err := db.MustEmailByProviderMessageID("imap", "<m1@example.com>")
	if err != nil {
		t.Fatal(err)
	}
	if row.Status != "fetched" {
		t.Fatalf("status=%q", row.Status)
	}
	if _, err := os.Stat(row.RawRef); err != nil {
		t.Fatal(err)
	}

	row, err = db.MustEmailByProviderMessageID("imap", "<m2@example.com>")
	if err != nil {
		t.Fatal(err)
	}
	if row.Status != "ignored" {
		t.Fatalf("status=%q", row.Status)
	}
}

func TestFetchAndStoreKeepsProcessedStatus(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	tabular := mkEML("inventory export", "attached", map[string]string{"export.csv": "Product SKU\nABC123\n"})
	svc := NewFetchService(db, filepath.Join(tmp, "raw"), &fakeConnector{messages: []internal.FetchedMailMessage{
		fetchedMsg("<m1@example.com>", tabular),
	}})

	if _, err := svc.FetchAndStore("INBOX", 10); err != nil {
		t.Fatal(err)
	}
	row, err := db.MustEmailByProviderMessageID("imap", "<m1@example.com>")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.UpdateEmailStatus(row.ID, "processed"); err != nil {
		t.Fatal(err)
	}

	// A second cycle sees the same message again; its status must survive.
	if _, err := svc.FetchAndStore("INBOX", 10); err != nil {
		t.Fatal(err)
	}
	row, err = db.MustEmailByProviderMessageID("imap", "<m1@example.com>")
	if err != nil {
		t.Fatal(err)
	}
	if row.Status != "processed" {
		t.Fatalf("status=%q", row.Status)
	}
}

func TestHasTabularPayload(t *testing.T) {
	if !hasTabularPayload(mkEML("s", "b", map[string]string{"stock.xlsx": "x"})) {
		t.Fatal("xlsx attachment not recognized")
	}
	if hasTabularPayload(mkEML("s", "plain text only", nil)) {
		t.Fatal("plain mail recognized")
	}
	if hasTabularPayload([]byte("not mail at all")) {
		t.Fatal("garbage recognized")
	}
}
