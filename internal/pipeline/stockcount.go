package pipeline

import (
	"strconv"
	"strings"

	"stockforge/internal"
)

var stockCountHeader = []string{
	"id", "product_id/id", "product_id", "location_id", "counted_quantity",
	"on_hand_quantity", "difference_quantity", "user_id",
}

// The count import wants an owner per line; the real assignee is picked in
// the ERP after import.
const stockCountAssignee = "Administrator"

// ProjectStockCount maps flat rows with positive stock onto count-adjustment
// lines: counted = input stock, on-hand and difference fixed at zero, the
// item SKU echoed as both product reference and display.
func ProjectStockCount(flat []internal.FlatRow, location string) []internal.StockCountRow {
	out := []internal.StockCountRow{}
	for _, row := range flat {
		if row.Stock <= 0 {
			continue
		}
		out = append(out, internal.StockCountRow{
			ExternalID:  stockCountExternalID(row.ItemSKU),
			ProductRef:  row.ItemSKU,
			ProductName: row.ItemSKU,
			Location:    location,
			Counted:     strconv.Itoa(row.Stock),
			OnHand:      "0",
			Difference:  "0",
			Assignee:    stockCountAssignee,
		})
	}
	return out
}

func StockCountHeader() []string {
	return stockCountHeader
}

func StockCountCells(row internal.StockCountRow) []string {
	return []string{
		row.ExternalID, row.ProductRef, row.ProductName, row.Location,
		row.Counted, row.OnHand, row.Difference, row.Assignee,
	}
}

func stockCountExternalID(itemSKU string) string {
	return "stock_count_" + strings.ToLower(strings.ReplaceAll(itemSKU, "-", "_"))
}
