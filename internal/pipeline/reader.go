package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"stockforge/internal"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadTable parses an uploaded buffer into header-keyed records. The first
// row is the header; fully blank rows are dropped so trailing spreadsheet
// padding never surfaces as records. Line numbers are 1-based and count the
// header row.
func ReadTable(buf []byte, format internal.SourceFormat, sheet string) ([]internal.RawRecord, error) {
	switch format {
	case internal.FormatCSV:
		return readCSV(buf)
	case internal.FormatXLSX:
		return readXLSX(buf, sheet)
	case internal.FormatHTML:
		return readHTML(buf)
	default:
		return nil, &FormatError{Format: string(format), Err: fmt.Errorf("unsupported source format")}
	}
}

// ListSheets returns the sheet names of a spreadsheet buffer in workbook
// order.
func ListSheets(buf []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return nil, &FormatError{Format: string(internal.FormatXLSX), Err: err}
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func readCSV(buf []byte) ([]internal.RawRecord, error) {
	buf = bytes.TrimPrefix(buf, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(buf))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	// Read row by row so each record keeps its true input line; a quoted
	// cell with embedded newlines would otherwise shift every row after it.
	rows := [][]string{}
	lines := []int{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &FormatError{Format: string(internal.FormatCSV), Err: err}
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, row)
		lines = append(lines, line)
	}
	if len(rows) == 0 {
		return nil, &FormatError{Format: string(internal.FormatCSV), Err: fmt.Errorf("input is empty")}
	}

	return rowsToRecords(rows, lines), nil
}

func readXLSX(buf []byte, sheet string) ([]internal.RawRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return nil, &FormatError{Format: string(internal.FormatXLSX), Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &FormatError{Format: string(internal.FormatXLSX), Err: fmt.Errorf("workbook has no sheets")}
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !containsString(sheets, sheet) {
		return nil, &SheetNotFoundError{Sheet: sheet, Available: sheets}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &FormatError{Format: string(internal.FormatXLSX), Err: err}
	}
	if len(rows) == 0 {
		return nil, &FormatError{Format: string(internal.FormatXLSX), Err: fmt.Errorf("sheet %q is empty", sheet)}
	}

	return rowsToRecords(rows, nil), nil
}

func readHTML(buf []byte) ([]internal.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf))
	if err != nil {
		return nil, &FormatError{Format: string(internal.FormatHTML), Err: err}
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, &FormatError{Format: string(internal.FormatHTML), Err: fmt.Errorf("no table element found")}
	}

	rows := [][]string{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := []string{}
		tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		rows = append(rows, cells)
	})
	if len(rows) == 0 {
		return nil, &FormatError{Format: string(internal.FormatHTML), Err: fmt.Errorf("table has no rows")}
	}

	return rowsToRecords(rows, nil), nil
}

// rowsToRecords maps data rows onto the first (header) row. Cells without a
// header and headerless short rows pad to ""; blank rows are skipped. lines
// carries the source line per row when the format tracks it (CSV); a nil
// lines falls back to the row index.
func rowsToRecords(rows [][]string, lines []int) []internal.RawRecord {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	out := make([]internal.RawRecord, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		fields := make(map[string]string, len(headers))
		for col, header := range headers {
			if header == "" {
				continue
			}
			if col < len(row) {
				fields[header] = strings.TrimSpace(row[col])
			} else {
				fields[header] = ""
			}
		}
		line := i + 1
		if lines != nil {
			line = lines[i]
		}
		out = append(out, internal.RawRecord{Line: line, Fields: fields})
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
