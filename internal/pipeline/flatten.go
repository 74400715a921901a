package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"stockforge/internal"
)

// Column order of the flat inventory report. Downstream imports key on these
// names, so order and spelling are part of the contract.
var flatBaseHeader = []string{
	"Product", "Item", "Item SKU", "Color", "Size", "Stock", "MPN", "GTIN", "Price", "Status",
}

var flatExtendedHeader = []string{
	"Brand", "Gender", "Suppliers", "Wholesale Price", "Consignment Price", "Cost", "Weight",
}

// Flatten projects the aggregated structure into flat report rows, one per
// item, groups in first-seen order and items in filing order. The input is
// not mutated.
func Flatten(groups *internal.ProductGroupMap) []internal.FlatRow {
	out := []internal.FlatRow{}
	for _, sku := range groups.Order {
		g := groups.Groups[sku]
		for _, key := range g.ItemOrder {
			item := g.Items[key]
			out = append(out, internal.FlatRow{
				Product: g.Product,
				Item:    fmt.Sprintf("%s %s %s", g.Product, g.Color, item.SizeCode),
				ItemSKU: key,
				Color:   g.Color,
				Size:    item.SizeLabel,
				Stock:   item.Stock,
				MPN:     item.MPN,
				GTIN:    item.GTIN,
				Price:   item.Price,
				Status:  item.Status,

				Brand:            g.Attrs.Brand,
				Gender:           g.Attrs.Gender,
				Suppliers:        strings.Join(g.Attrs.Suppliers, ";"),
				WholesalePrice:   g.Attrs.WholesalePrice,
				ConsignmentPrice: g.Attrs.ConsignmentPrice,
				Cost:             g.Attrs.Cost,
				Weight:           g.Attrs.Weight,
			})
		}
	}
	return out
}

// FlatHeader returns the report header; extended adds the attribute and
// pricing-tier columns.
func FlatHeader(extended bool) []string {
	if !extended {
		return flatBaseHeader
	}
	return append(append([]string{}, flatBaseHeader...), flatExtendedHeader...)
}

// FlatCells renders one row in FlatHeader order.
func FlatCells(row internal.FlatRow, extended bool) []string {
	cells := []string{
		row.Product, row.Item, row.ItemSKU, row.Color, row.Size,
		strconv.Itoa(row.Stock), row.MPN, row.GTIN, row.Price, row.Status,
	}
	if extended {
		cells = append(cells,
			row.Brand, row.Gender, row.Suppliers,
			row.WholesalePrice, row.ConsignmentPrice, row.Cost, row.Weight,
		)
	}
	return cells
}

// ParseFlatReport re-ingests a previously produced flat report CSV, the
// input shape of the ERP, stock-count and item-catalog projectors. Unknown
// columns are ignored; a non-numeric stock cell reads as 0.
func ParseFlatReport(buf []byte) ([]internal.FlatRow, error) {
	records, err := readCSV(buf)
	if err != nil {
		return nil, err
	}

	out := make([]internal.FlatRow, 0, len(records))
	for _, rec := range records {
		out = append(out, internal.FlatRow{
			Product: rec.Get("Product"),
			Item:    rec.Get("Item"),
			ItemSKU: rec.Get("Item SKU"),
			Color:   rec.Get("Color"),
			Size:    rec.Get("Size"),
			Stock:   parseStock(rec.Get("Stock")),
			MPN:     rec.Get("MPN"),
			GTIN:    rec.Get("GTIN"),
			Price:   rec.Get("Price"),
			Status:  rec.Get("Status"),

			Brand:            rec.Get("Brand"),
			Gender:           rec.Get("Gender"),
			Suppliers:        rec.Get("Suppliers"),
			WholesalePrice:   rec.Get("Wholesale Price"),
			ConsignmentPrice: rec.Get("Consignment Price"),
			Cost:             rec.Get("Cost"),
			Weight:           rec.Get("Weight"),
		})
	}
	return out, nil
}
