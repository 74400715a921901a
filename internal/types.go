package internal

type SourceFormat string

const (
	FormatCSV  SourceFormat = "csv"
	FormatXLSX SourceFormat = "xlsx"
	FormatHTML SourceFormat = "html"
)

// Input column names of the vendor export. The reader keys RawRecord fields
// by whatever the header row says; these are the cells the pipeline reads.
const (
	ColProductSKU  = "Product SKU"
	ColProductName = "Product Name"
	ColPrice       = "Price"
	ColMPN         = "MPN"
	ColStock       = "Stock"
	ColGTIN        = "GTIN"
	ColStatus      = "Status"
)

// RawRecord is one data row of the input table. Line is the 1-based row
// number in the source, header row included, carried for error context.
type RawRecord struct {
	Line   int
	Fields map[string]string
}

func (r RawRecord) Get(key string) string {
	return r.Fields[key]
}

// VariantRecord is one sellable unit line, parsed or synthesized.
type VariantRecord struct {
	SizeCode    string
	SizeLabel   string
	Stock       int
	MPN         string
	GTIN        string
	Price       string
	Status      string
	Synthesized bool
	Line        int
}

// Attributes are caller-supplied product-level fields attached to every
// group during normalization.
type Attributes struct {
	Brand            string
	Gender           string
	Suppliers        []string
	WholesalePrice   string
	ConsignmentPrice string
	Cost             string
	Weight           string
}

// ProductGroup is one parent product with its items keyed by item SKU.
// ItemOrder preserves filing order.
type ProductGroup struct {
	SKU       string
	Product   string
	Color     string
	Price     string
	Attrs     Attributes
	Items     map[string]VariantRecord
	ItemOrder []string
}

func (g *ProductGroup) Put(itemSKU string, v VariantRecord) {
	if _, ok := g.Items[itemSKU]; !ok {
		g.ItemOrder = append(g.ItemOrder, itemSKU)
	}
	g.Items[itemSKU] = v
}

// ProductGroupMap is the canonical aggregated structure, ordered by first
// sight of each parent SKU.
type ProductGroupMap struct {
	Groups map[string]*ProductGroup
	Order  []string
}

func NewProductGroupMap() *ProductGroupMap {
	return &ProductGroupMap{Groups: map[string]*ProductGroup{}}
}

func (m *ProductGroupMap) Get(sku string) *ProductGroup {
	return m.Groups[sku]
}

func (m *ProductGroupMap) Insert(g *ProductGroup) {
	if _, ok := m.Groups[g.SKU]; ok {
		return
	}
	m.Groups[g.SKU] = g
	m.Order = append(m.Order, g.SKU)
}

// FlatRow is one line of the flat inventory report. The ERP, stock-count and
// item-catalog projectors all operate on this shape.
type FlatRow struct {
	Product string
	Item    string
	ItemSKU string
	Color   string
	Size    string
	Stock   int
	MPN     string
	GTIN    string
	Price   string
	Status  string

	Brand            string
	Gender           string
	Suppliers        string
	WholesalePrice   string
	ConsignmentPrice string
	Cost             string
	Weight           string
}

// ERPRow is one Odoo-style product import line.
type ERPRow struct {
	ExternalID    string
	Name          string
	DefaultCode   string
	BaseSKU       string
	Barcode       string
	ListPrice     string
	StandardPrice string
	Weight        string
	CategoryID    string
	Published     string
	QtyAvailable  string
	Description   string
	PackLength    string
	PackWidth     string
	PackHeight    string
}

// StockCountRow is one count-adjustment line for the stock-count import.
type StockCountRow struct {
	ExternalID  string
	ProductRef  string
	ProductName string
	Location    string
	Counted     string
	OnHand      string
	Difference  string
	Assignee    string
}

// ItemCatalogRow is one line of the variants-expert item catalog export.
type ItemCatalogRow struct {
	EntryName   string
	GroupName   string
	Color       string
	Size        string
	Quantity    string
	Price       string
	Barcode     string
	BarcodeType string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}

type EmailRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

// ConversionRow records one produced output file for a processed email.
type ConversionRow struct {
	ID         int
	EmailID    int
	Attachment string
	Schema     string
	OutputRef  string
	Groups     int
	Items      int
	CreatedAt  string
}
