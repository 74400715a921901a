package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Container selects the serialized form of an export. The cell grid is
// identical either way; only the envelope differs.
type Container string

const (
	ContainerCSV  Container = "csv"
	ContainerXLSX Container = "xlsx"
)

func ContainerByName(name string) (Container, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "csv":
		return ContainerCSV, nil
	case "xlsx":
		return ContainerXLSX, nil
	default:
		return "", fmt.Errorf("unsupported output container: %s", name)
	}
}

func (c Container) Ext() string {
	return "." + string(c)
}

func (c Container) ContentType() string {
	if c == ContainerXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// WriteTable serializes a header plus rows into the chosen container.
func WriteTable(header []string, rows [][]string, container Container) ([]byte, error) {
	switch container {
	case ContainerCSV:
		return writeCSV(header, rows)
	case ContainerXLSX:
		return writeXLSX(header, rows)
	default:
		return nil, fmt.Errorf("unsupported output container: %s", container)
	}
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeXLSX(header []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for col, h := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	for i, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf := bytes.NewBuffer(nil)
	if _, err := f.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
