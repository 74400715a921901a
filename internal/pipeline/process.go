package pipeline

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"

	"stockforge/internal"
	"stockforge/internal/config"
	"stockforge/internal/sizes"
	"stockforge/internal/storage"
)

type ProcessingService struct {
	db  *storage.DB
	cfg config.Config
}

func NewProcessingService(db *storage.DB, cfg config.Config) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg}
}

type ProcessResult struct {
	EmailID int
	Outputs int
}

func (s *ProcessingService) ProcessByProviderMessageID(provider, messageID string) (ProcessResult, error) {
	email, err := s.db.MustEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.ProcessEmail(email)
}

func (s *ProcessingService) ProcessPending(limit int, provider string) (int, int, error) {
	pending, err := s.db.ListEmailsByStatus("fetched", limit)
	if err != nil {
		return 0, 0, err
	}
	processedEmails := 0
	producedOutputs := 0
	for _, email := range pending {
		if provider != "" && email.Provider != provider {
			continue
		}
		res, err := s.ProcessEmail(email)
		if err != nil {
			return processedEmails, producedOutputs, err
		}
		processedEmails++
		producedOutputs += res.Outputs
	}
	return processedEmails, producedOutputs, nil
}

// tableSource is one tabular payload found in a mail: a CSV or XLSX
// attachment, or the HTML body itself when it carries a product table.
type tableSource struct {
	Name   string
	Format internal.SourceFormat
	Data   []byte
}

func (s *ProcessingService) ProcessEmail(email internal.EmailRow) (ProcessResult, error) {
	start := time.Now()
	raw, err := os.ReadFile(email.RawRef)
	if err != nil {
		return ProcessResult{}, err
	}

	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return ProcessResult{}, err
	}

	sources := collectTableSources(env)
	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.Name)
	}

	subject := firstNonEmpty(env.GetHeader("Subject"), email.Subject)
	detect := DetectInventoryExport(subject, env.Text+"\n"+env.HTML, names)

	if err := s.db.ClearEmailProcessing(email.ID); err != nil {
		return ProcessResult{}, err
	}

	trace := traceID()
	if !detect.IsExport || len(sources) == 0 {
		_ = s.db.UpdateEmailStatus(email.ID, "skipped")
		_ = s.db.InsertRun(trace, email.ID,
			map[string]float64{"totalMs": float64(time.Since(start).Milliseconds()), "score": detect.Score},
			map[string]int{"sources": len(sources), "outputs": 0})
		return ProcessResult{EmailID: email.ID, Outputs: 0}, nil
	}

	table, err := sizes.ByName(s.cfg.SizeTable)
	if err != nil {
		return ProcessResult{}, err
	}
	container, err := ContainerByName(s.cfg.MailListenerContainer)
	if err != nil {
		return ProcessResult{}, err
	}

	outputs := 0
	for _, src := range sources {
		ref, groups, items, err := s.convertSource(src, table, container, trace)
		if err != nil {
			return ProcessResult{}, fmt.Errorf("convert %s: %w", src.Name, err)
		}
		if _, err := s.db.InsertConversion(email.ID, src.Name, "flat", ref, groups, items); err != nil {
			return ProcessResult{}, err
		}
		outputs++
	}

	if err := s.db.UpdateEmailStatus(email.ID, "processed"); err != nil {
		return ProcessResult{}, err
	}
	_ = s.db.InsertRun(trace, email.ID,
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds()), "score": detect.Score},
		map[string]int{"sources": len(sources), "outputs": outputs})

	return ProcessResult{EmailID: email.ID, Outputs: outputs}, nil
}

func (s *ProcessingService) convertSource(src tableSource, table sizes.Table, container Container, trace string) (ref string, groups, items int, err error) {
	productName, skuBase, err := InitialProductInfo(src.Data, src.Format, "")
	if err != nil {
		return "", 0, 0, err
	}

	records, err := ReadTable(src.Data, src.Format, "")
	if err != nil {
		return "", 0, 0, err
	}

	result, err := Normalize(records, Options{
		ProductName:    productName,
		ProductSKUBase: skuBase,
		DefaultPrice:   s.cfg.DefaultPrice,
		Sizes:          table,
	})
	if err != nil {
		return "", 0, 0, err
	}

	flat := Flatten(result)
	cells := make([][]string, 0, len(flat))
	for _, row := range flat {
		cells = append(cells, FlatCells(row, false))
	}
	data, err := WriteTable(FlatHeader(false), cells, container)
	if err != nil {
		return "", 0, 0, err
	}

	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return "", 0, 0, err
	}
	base := strings.TrimSuffix(filepath.Base(src.Name), filepath.Ext(src.Name))
	ref = filepath.Join(s.cfg.OutputDir, fmt.Sprintf("%s-%s%s", base, trace, container.Ext()))
	if err := os.WriteFile(ref, data, 0o644); err != nil {
		return "", 0, 0, err
	}

	return ref, len(result.Order), len(flat), nil
}

func collectTableSources(env *enmime.Envelope) []tableSource {
	out := []tableSource{}
	for _, att := range env.Attachments {
		name := strings.TrimSpace(att.FileName)
		if name == "" {
			name = "attachment"
		}
		switch {
		case strings.HasSuffix(strings.ToLower(name), ".csv"):
			out = append(out, tableSource{Name: name, Format: internal.FormatCSV, Data: att.Content})
		case strings.HasSuffix(strings.ToLower(name), ".xlsx"), strings.HasSuffix(strings.ToLower(name), ".xls"):
			out = append(out, tableSource{Name: name, Format: internal.FormatXLSX, Data: att.Content})
		}
	}

	if len(out) == 0 && strings.Contains(strings.ToLower(env.HTML), "<table") {
		out = append(out, tableSource{Name: "body", Format: internal.FormatHTML, Data: []byte(env.HTML)})
	}

	return out
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
