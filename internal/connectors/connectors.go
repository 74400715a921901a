package connectors

import (
	"fmt"
	"strings"

	"stockforge/internal"
	"stockforge/internal/config"
	"stockforge/internal/connectors/gmail"
	"stockforge/internal/connectors/imap"
)

// MailConnector pulls raw messages from one mailbox provider. Implementations
// return full RFC 5322 payloads so the conversion pass can re-read
// attachments at any later point.
type MailConnector interface {
	FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error)
}

// ForProvider builds the connector a provider name selects. Both the
// listener and the CLI resolve providers through here.
func ForProvider(cfg config.Config, provider string) (MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmail.NewConnector(cfg)
	case "imap":
		return imap.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", provider)
	}
}
