package pipeline

import (
	"fmt"
	"strings"

	"stockforge/internal"
	"stockforge/internal/util"
)

// InitialProductInfo reads just the first data row to seed caller-side
// defaults: the first token of the product name and the first '-' segment of
// the SKU.
func InitialProductInfo(buf []byte, format internal.SourceFormat, sheet string) (productName, productSKUBase string, err error) {
	records, err := ReadTable(buf, format, sheet)
	if err != nil {
		return "", "", err
	}
	if len(records) == 0 {
		return "", "", &FormatError{Format: string(format), Err: fmt.Errorf("no data rows")}
	}

	first := records[0]
	productName = util.FirstToken(first.Get(internal.ColProductName))
	productSKUBase = strings.SplitN(first.Get(internal.ColProductSKU), "-", 2)[0]
	return productName, productSKUBase, nil
}
