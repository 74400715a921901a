package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stockforge/internal"
	"stockforge/internal/config"
	"stockforge/internal/connectors"
	"stockforge/internal/pipeline"
	"stockforge/internal/sizes"
	"stockforge/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "convert":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "vendor export file (csv|xlsx|html)")
		output := fs.String("output", "", "output file path")
		sheet := fs.String("sheet", "", "xlsx sheet name (default first)")
		sizeTable := fs.String("sizes", cfg.SizeTable, "size table: v1|v2")
		productName := fs.String("product", "", "product name override")
		skuBase := fs.String("sku-base", "", "item SKU base override")
		defaultPrice := fs.String("price", cfg.DefaultPrice, "fallback price")
		brand := fs.String("brand", "", "brand attribute")
		gender := fs.String("gender", "", "gender attribute")
		suppliers := fs.String("suppliers", "", "semicolon-separated suppliers")
		extended := fs.Bool("extended", false, "emit extended attribute columns")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *output == "" {
			must(fmt.Errorf("--input and --output are required"))
		}

		data, format, err := readInput(*input)
		must(err)
		table, err := sizes.ByName(*sizeTable)
		must(err)

		name, base := *productName, *skuBase
		if name == "" || base == "" {
			seedName, seedBase, err := pipeline.InitialProductInfo(data, format, *sheet)
			must(err)
			if name == "" {
				name = seedName
			}
			if base == "" {
				base = seedBase
			}
		}

		records, err := pipeline.ReadTable(data, format, *sheet)
		must(err)
		groups, err := pipeline.Normalize(records, pipeline.Options{
			ProductName:    name,
			ProductSKUBase: base,
			DefaultPrice:   *defaultPrice,
			Attrs: internal.Attributes{
				Brand:     *brand,
				Gender:    *gender,
				Suppliers: splitList(*suppliers),
			},
			Sizes: table,
		})
		must(err)

		flat := pipeline.Flatten(groups)
		cells := make([][]string, 0, len(flat))
		for _, row := range flat {
			cells = append(cells, pipeline.FlatCells(row, *extended))
		}
		must(writeOutput(*output, pipeline.FlatHeader(*extended), cells))
		fmt.Printf("convert done groups=%d items=%d output=%s\n", len(groups.Order), len(flat), *output)

	case "erp":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "flat report csv")
		output := fs.String("output", "", "output file path")
		primary := fs.String("category1", "", "primary category")
		secondary := fs.String("category2", "", "secondary category")
		tertiary := fs.String("category3", "", "tertiary category")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *output == "" {
			must(fmt.Errorf("--input and --output are required"))
		}

		flat, err := readFlatReport(*input)
		must(err)
		rows := pipeline.ProjectERP(flat, *primary, *secondary, *tertiary)
		cells := make([][]string, 0, len(rows))
		for _, row := range rows {
			cells = append(cells, pipeline.ERPCells(row))
		}
		must(writeOutput(*output, pipeline.ERPHeader(), cells))
		fmt.Printf("erp conversion done rows=%d output=%s\n", len(rows), *output)

	case "stockcount":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "flat report csv")
		output := fs.String("output", "", "output file path")
		location := fs.String("location", cfg.StockLocation, "stock location")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *output == "" {
			must(fmt.Errorf("--input and --output are required"))
		}

		flat, err := readFlatReport(*input)
		must(err)
		rows := pipeline.ProjectStockCount(flat, *location)
		cells := make([][]string, 0, len(rows))
		for _, row := range rows {
			cells = append(cells, pipeline.StockCountCells(row))
		}
		must(writeOutput(*output, pipeline.StockCountHeader(), cells))
		fmt.Printf("stockcount conversion done rows=%d output=%s\n", len(rows), *output)

	case "catalog":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "flat report csv")
		output := fs.String("output", "", "output file path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *output == "" {
			must(fmt.Errorf("--input and --output are required"))
		}

		flat, err := readFlatReport(*input)
		must(err)
		rows := pipeline.ProjectItemCatalog(flat)
		cells := make([][]string, 0, len(rows))
		for _, row := range rows {
			cells = append(cells, pipeline.ItemCatalogCells(row))
		}
		must(writeOutput(*output, pipeline.ItemCatalogHeader(), cells))
		fmt.Printf("catalog conversion done rows=%d output=%s\n", len(rows), *output)

	case "sheets":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "xlsx file")
		_ = fs.Parse(os.Args[2:])
		if *input == "" {
			must(fmt.Errorf("--input is required"))
		}
		data, err := os.ReadFile(*input)
		must(err)
		names, err := pipeline.ListSheets(data)
		must(err)
		for _, name := range names {
			fmt.Println(name)
		}

	case "info":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "vendor export file")
		sheet := fs.String("sheet", "", "xlsx sheet name")
		_ = fs.Parse(os.Args[2:])
		if *input == "" {
			must(fmt.Errorf("--input is required"))
		}
		data, format, err := readInput(*input)
		must(err)
		name, base, err := pipeline.InitialProductInfo(data, format, *sheet)
		must(err)
		fmt.Printf("product=%s skuBase=%s\n", name, base)

	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", cfg.MailListenerProvider, "gmail|imap")
		label := fs.String("label", cfg.MailListenerLabel, "mailbox/label")
		max := fs.Int("max", cfg.MailListenerFetchMax, "max messages")
		_ = fs.Parse(os.Args[2:])

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		conn, err := connectors.ForProvider(cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d ignored=%d\n", *provider, result.Fetched, result.Stored, result.Ignored)

	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", cfg.MailListenerProvider, "gmail|imap")
		messageID := fs.String("messageId", "", "specific message-id")
		batch := fs.Int("batch", cfg.MailListenerProcessBatch, "batch size")
		_ = fs.Parse(os.Args[2:])

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		processor := pipeline.NewProcessingService(db, cfg)
		if strings.TrimSpace(*messageID) != "" {
			res, err := processor.ProcessByProviderMessageID(*provider, *messageID)
			must(err)
			fmt.Printf("processed email id=%d outputs=%d\n", res.EmailID, res.Outputs)
			return
		}
		processedEmails, outputs, err := processor.ProcessPending(*batch, *provider)
		must(err)
		fmt.Printf("processed pending emails=%d outputs=%d\n", processedEmails, outputs)

	default:
		usage()
		os.Exit(1)
	}
}

func readInput(path string) ([]byte, internal.SourceFormat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return data, internal.FormatXLSX, nil
	case ".html", ".htm":
		return data, internal.FormatHTML, nil
	default:
		return data, internal.FormatCSV, nil
	}
}

func readFlatReport(path string) ([]internal.FlatRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return pipeline.ParseFlatReport(data)
}

// writeOutput picks the container from the output extension and writes the
// serialized table.
func writeOutput(path string, header []string, cells [][]string) error {
	container, err := pipeline.ContainerByName(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}
	payload, err := pipeline.WriteTable(header, cells, container)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, payload, 0o644)
}

func usage() {
	fmt.Println("usage: stockforge <command>")
	fmt.Println("commands:")
	fmt.Println("  convert --input=export.csv --output=report.csv [--sheet=...] [--sizes=v1|v2] [--product=...] [--sku-base=...] [--price=...] [--brand=...] [--gender=...] [--suppliers=a;b] [--extended]")
	fmt.Println("  erp --input=report.csv --output=products.csv [--category1=...] [--category2=...] [--category3=...]")
	fmt.Println("  stockcount --input=report.csv --output=counts.csv [--location=WH/Stock]")
	fmt.Println("  catalog --input=report.csv --output=items.csv")
	fmt.Println("  sheets --input=export.xlsx")
	fmt.Println("  info --input=export.csv [--sheet=...]")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=20")
	fmt.Println("  mail:process --provider=gmail|imap [--messageId=...] [--batch=20]")
}

func splitList(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	parts := strings.Split(input, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
