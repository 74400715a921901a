package connectors

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhillyerd/enmime"

	"stockforge/internal"
	"stockforge/internal/storage"
)

// FetchService pulls new mail from one provider and lands it in the local
// journal: the raw .eml on disk keyed by content hash, the metadata row in
// sqlite. Messages carrying nothing the converter can read are filed as
// "ignored" so the processing batch never opens them; everything else starts
// as "fetched".
type FetchService struct {
	db         *storage.DB
	rawMailDir string
	connector  MailConnector
}

type FetchResult struct {
	Fetched int
	Stored  int
	Ignored int
}

func NewFetchService(db *storage.DB, rawMailDir string, connector MailConnector) *FetchService {
	return &FetchService{db: db, rawMailDir: rawMailDir, connector: connector}
}

func (s *FetchService) FetchAndStore(label string, max int) (FetchResult, error) {
	messages, err := s.connector.FetchInbox(label, max)
	if err != nil {
		return FetchResult{}, err
	}

	result := FetchResult{Fetched: len(messages)}
	for _, msg := range messages {
		status := "fetched"
		if !hasTabularPayload(msg.Raw) {
			status = "ignored"
			result.Ignored++
		}
		if _, err := s.store(msg, status); err != nil {
			return result, err
		}
		result.Stored++
	}

	return result, nil
}

// store archives the raw message once per content hash and upserts the
// journal row. Refetching an already-processed message updates its metadata
// but never resets its status, so fetch cycles stay idempotent.
func (s *FetchService) store(msg internal.FetchedMailMessage, status string) (internal.EmailRow, error) {
	sum := sha256.Sum256(msg.Raw)
	hash := hex.EncodeToString(sum[:])

	if err := os.MkdirAll(s.rawMailDir, 0o755); err != nil {
		return internal.EmailRow{}, err
	}
	rawPath := filepath.Join(s.rawMailDir, hash+".eml")
	if _, err := os.Stat(rawPath); os.IsNotExist(err) {
		if err := os.WriteFile(rawPath, msg.Raw, 0o644); err != nil {
			return internal.EmailRow{}, err
		}
	}

	return s.db.UpsertEmail(msg.Provider, msg.MessageID, msg.Subject, msg.From, msg.ReceivedAt, hash, rawPath, status)
}

// hasTabularPayload pre-screens for the shapes the converter consumes: a
// csv/xlsx attachment, or an HTML body carrying a table. Unparseable mail
// has nothing to convert and screens out too.
func hasTabularPayload(raw []byte) bool {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return false
	}
	for _, att := range env.Attachments {
		name := strings.ToLower(strings.TrimSpace(att.FileName))
		if strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls") {
			return true
		}
	}
	return strings.Contains(strings.ToLower(env.HTML), "<table")
}
