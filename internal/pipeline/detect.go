package pipeline

import "strings"

type DetectResult struct {
	IsExport bool
	Score    float64
	Reason   string
}

var detectKeywords = []string{"inventory", "stock", "export", "variant", "sku", "restock", "price list"}

// DetectInventoryExport scores whether a fetched mail looks like a vendor
// inventory export. Tuned loose on purpose: a false positive fails later in
// the reader with a descriptive error, a false negative silently drops a
// vendor feed.
func DetectInventoryExport(subject, text string, attachmentNames []string) DetectResult {
	subject = strings.ToLower(subject)
	text = strings.ToLower(text)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(subject, kw) {
			score += 0.2
		}
		if strings.Contains(text, kw) {
			score += 0.1
		}
	}

	for _, name := range attachmentNames {
		ln := strings.ToLower(name)
		if strings.HasSuffix(ln, ".csv") || strings.HasSuffix(ln, ".xlsx") || strings.HasSuffix(ln, ".xls") {
			score += 0.35
			break
		}
	}

	if strings.Contains(text, "<table") {
		score += 0.2
	}
	if score > 1 {
		score = 1
	}

	isExport := score >= 0.45
	reason := "rules_negative"
	if isExport {
		reason = "rules_positive"
	}

	return DetectResult{IsExport: isExport, Score: score, Reason: reason}
}
