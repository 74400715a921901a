package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stockforge/internal"
	"stockforge/internal/config"
	"stockforge/internal/pipeline"
	"stockforge/internal/sizes"
)

type Server struct {
	cfg config.Config
	log *slog.Logger
}

func New(cfg config.Config, log *slog.Logger) *Server {
	return &Server{cfg: cfg, log: log}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/product-info", s.handleProductInfo)
		r.Post("/sheets", s.handleSheets)
		r.Post("/process", s.handleProcess)
		r.Post("/convert/{schema}", s.handleConvert)
	})

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.log.Error("request failed", "status", status, "err", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// readUpload pulls the uploaded table out of the multipart form and sniffs
// its source format from the filename extension.
func (s *Server) readUpload(r *http.Request) ([]byte, internal.SourceFormat, error) {
	if err := r.ParseMultipartForm(int64(s.cfg.HTTPMaxUploadMB) << 20); err != nil {
		return nil, "", fmt.Errorf("parse upload: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, formatFromName(header), nil
}

func formatFromName(header *multipart.FileHeader) internal.SourceFormat {
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx", ".xls":
		return internal.FormatXLSX
	case ".html", ".htm":
		return internal.FormatHTML
	default:
		return internal.FormatCSV
	}
}

func (s *Server) handleProductInfo(w http.ResponseWriter, r *http.Request) {
	data, format, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	productName, skuBase, err := pipeline.InitialProductInfo(data, format, r.FormValue("sheet"))
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.writeJSON(w, map[string]string{
		"product_name":     productName,
		"product_sku_base": skuBase,
	})
}

func (s *Server) handleSheets(w http.ResponseWriter, r *http.Request) {
	data, format, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if format != internal.FormatXLSX {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("sheet listing requires an xlsx upload"))
		return
	}

	names, err := pipeline.ListSheets(data)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeJSON(w, map[string][]string{"sheets": names})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	data, format, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	table, err := sizes.ByName(firstValue(r.FormValue("size_table"), s.cfg.SizeTable))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	container, err := pipeline.ContainerByName(r.FormValue("container"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	productName := r.FormValue("product_name")
	skuBase := r.FormValue("product_sku_base")
	if productName == "" || skuBase == "" {
		seedName, seedBase, err := pipeline.InitialProductInfo(data, format, r.FormValue("sheet"))
		if err != nil {
			s.writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		productName = firstValue(productName, seedName)
		skuBase = firstValue(skuBase, seedBase)
	}

	records, err := pipeline.ReadTable(data, format, r.FormValue("sheet"))
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	groups, err := pipeline.Normalize(records, pipeline.Options{
		ProductName:    productName,
		ProductSKUBase: skuBase,
		DefaultPrice:   firstValue(r.FormValue("default_price"), s.cfg.DefaultPrice),
		Attrs: internal.Attributes{
			Brand:            r.FormValue("brand"),
			Gender:           r.FormValue("gender"),
			Suppliers:        splitList(r.FormValue("suppliers")),
			WholesalePrice:   r.FormValue("wholesale_price"),
			ConsignmentPrice: r.FormValue("consignment_price"),
			Cost:             r.FormValue("cost"),
			Weight:           r.FormValue("weight"),
		},
		Sizes: table,
	})
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	extended := r.FormValue("extended") == "1" || strings.EqualFold(r.FormValue("extended"), "true")
	flat := pipeline.Flatten(groups)
	cells := make([][]string, 0, len(flat))
	for _, row := range flat {
		cells = append(cells, pipeline.FlatCells(row, extended))
	}

	payload, err := pipeline.WriteTable(pipeline.FlatHeader(extended), cells, container)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeFile(w, "report"+container.Ext(), container, payload)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	schema := chi.URLParam(r, "schema")

	data, _, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	flat, err := pipeline.ParseFlatReport(data)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	container, err := pipeline.ContainerByName(r.FormValue("container"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var header []string
	var cells [][]string
	switch schema {
	case "erp":
		rows := pipeline.ProjectERP(flat, r.FormValue("category_primary"), r.FormValue("category_secondary"), r.FormValue("category_tertiary"))
		header = pipeline.ERPHeader()
		for _, row := range rows {
			cells = append(cells, pipeline.ERPCells(row))
		}
	case "stockcount":
		rows := pipeline.ProjectStockCount(flat, firstValue(r.FormValue("location"), s.cfg.StockLocation))
		header = pipeline.StockCountHeader()
		for _, row := range rows {
			cells = append(cells, pipeline.StockCountCells(row))
		}
	case "catalog":
		rows := pipeline.ProjectItemCatalog(flat)
		header = pipeline.ItemCatalogHeader()
		for _, row := range rows {
			cells = append(cells, pipeline.ItemCatalogCells(row))
		}
	default:
		s.writeError(w, http.StatusNotFound, fmt.Errorf("unknown conversion schema: %s", schema))
		return
	}

	payload, err := pipeline.WriteTable(header, cells, container)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeFile(w, schema+container.Ext(), container, payload)
}

func (s *Server) writeFile(w http.ResponseWriter, name string, container pipeline.Container, payload []byte) {
	w.Header().Set("Content-Type", container.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(payload)
}

func firstValue(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
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
