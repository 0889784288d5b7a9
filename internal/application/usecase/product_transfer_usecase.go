package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/ports"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
	"github.com/jhoicas/pms-api/pkg/slug"
)

// Columnas de la exportación CSV (sin imágenes).
var exportHeaders = []string{
	"Name", "Description", "SKU", "Category", "Base Price", "Selling Price", "Stock Quantity",
	"Min Stock Level", "Status", "Is Active", "Is Featured", "Is Digital", "Track Inventory",
	"Requires Shipping", "Discount Percentage", "Tax Rate", "Weight", "Dimensions", "Barcode", "Tags",
}

var templateHeaders = []string{
	"Name*", "Description*", "SKU", "Category*", "Base Price*", "Selling Price*", "Stock Quantity*",
	"Min Stock Level", "Status", "Is Active", "Is Featured", "Is Digital", "Track Inventory",
	"Requires Shipping", "Discount Percentage", "Tax Rate", "Weight", "Dimensions", "Barcode", "Tags",
}

var templateSample = []string{
	"Sample Product Name",
	"This is a sample product description with features and benefits",
	"SAMP-001", "Electronics", "50.00", "75.00", "100", "10", "draft", "true", "false", "false",
	"true", "true", "0", "0", "1.5", "10x5x3 cm", "1234567890123", "electronics;gadget;sample",
}

var (
	headerSpaces = regexp.MustCompile(`\s+`)
	skuStrip     = regexp.MustCompile(`[^A-Z0-9]`)
)

// ProductTransferUseCase importación CSV y exportación CSV/XML del catálogo.
type ProductTransferUseCase struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	media      repository.MediaRepository
	storage    ports.FileStorage // nil = sin URLs de galería
	now        func() time.Time
}

// NewProductTransferUseCase construye el caso de uso. storage puede ser nil.
func NewProductTransferUseCase(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	media repository.MediaRepository,
	storage ports.FileStorage,
) *ProductTransferUseCase {
	return &ProductTransferUseCase{products: products, categories: categories, media: media, storage: storage, now: time.Now}
}

// Template CSV de importación con una fila de ejemplo.
func (uc *ProductTransferUseCase) Template() (*dto.ExportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll([][]string{templateHeaders, templateSample}); err != nil {
		return nil, fmt.Errorf("plantilla csv: %w", err)
	}
	return &dto.ExportFile{FileName: "product_import_template.csv", ContentType: "text/csv", Data: buf.Bytes()}, nil
}

// Export genera el archivo de exportación en CSV o XML.
func (uc *ProductTransferUseCase) Export(ctx context.Context, q dto.ExportQuery) (*dto.ExportFile, error) {
	format := strings.ToLower(q.Format)
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xml" {
		return nil, domain.Invalid("formato no soportado: use csv o xml")
	}
	list, err := uc.products.ListForExport(ctx, repository.ProductExportFilter{CategoryID: q.CategoryID, Status: q.Status})
	if err != nil {
		return nil, err
	}
	var gallery map[string][]string
	if q.IncludeImages {
		gallery = uc.galleries(ctx, list)
	}
	stamp := uc.now().Format("2006-01-02")
	if format == "xml" {
		data, err := productFeedXML(list, gallery, q.IncludeImages, uc.now())
		if err != nil {
			return nil, err
		}
		return &dto.ExportFile{FileName: "products_export_" + stamp + ".xml", ContentType: "application/xml", Data: data}, nil
	}
	data, err := productsCSV(list, gallery, q.IncludeImages)
	if err != nil {
		return nil, err
	}
	return &dto.ExportFile{FileName: "products_export_" + stamp + ".csv", ContentType: "text/csv", Data: data}, nil
}

func (uc *ProductTransferUseCase) galleries(ctx context.Context, list []*entity.Product) map[string][]string {
	out := make(map[string][]string, len(list))
	if uc.storage == nil || uc.media == nil {
		return out
	}
	for _, p := range list {
		media, _, err := uc.media.List(ctx, repository.MediaFilter{ProductID: p.ID})
		if err != nil {
			continue
		}
		for _, m := range media {
			out[p.ID] = append(out[p.ID], uc.storage.PublicURL(m.BucketName, m.FilePath))
		}
	}
	return out
}

func productsCSV(list []*entity.Product, gallery map[string][]string, includeImages bool) ([]byte, error) {
	headers := append([]string{}, exportHeaders...)
	if includeImages {
		headers = append(headers, "Primary Image URL", "Gallery Images")
	}
	headers = append(headers, "Created At", "Updated At")

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	for _, p := range list {
		row := []string{
			p.Name, p.Description, p.SKU, p.CategoryName,
			p.BasePrice.String(), p.SellingPrice.String(),
			strconv.Itoa(p.StockQuantity), strconv.Itoa(p.MinStockLevel), p.Status,
			strconv.FormatBool(p.IsActive), strconv.FormatBool(p.IsFeatured), strconv.FormatBool(p.IsDigital),
			strconv.FormatBool(p.TrackInventory), strconv.FormatBool(p.RequiresShipping),
			p.DiscountPercentage.String(), p.TaxRate.String(), decimalOrEmpty(p.Weight),
			p.Dimensions, p.Barcode, strings.Join(p.Tags, ";"),
		}
		if includeImages {
			row = append(row, p.FeaturedImageURL, strings.Join(gallery[p.ID], ";"))
		}
		row = append(row, p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("exportar csv: %w", err)
	}
	return buf.Bytes(), nil
}

// productFeedXML feed <products><product id="..">...</product></products>.
func productFeedXML(list []*entity.Product, gallery map[string][]string, includeImages bool, now time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("products")
	root.CreateAttr("generated_at", now.UTC().Format(time.RFC3339))
	root.CreateAttr("count", strconv.Itoa(len(list)))

	for _, p := range list {
		el := root.CreateElement("product")
		el.CreateAttr("id", p.ID)
		el.CreateElement("name").SetText(p.Name)
		el.CreateElement("slug").SetText(p.Slug)
		el.CreateElement("sku").SetText(p.SKU)
		el.CreateElement("barcode").SetText(p.Barcode)
		el.CreateElement("brand").SetText(p.Brand)
		el.CreateElement("description").SetText(p.Description)
		cat := el.CreateElement("category")
		cat.CreateAttr("id", p.CategoryID)
		cat.SetText(p.CategoryName)

		price := el.CreateElement("price")
		price.CreateAttr("base", p.BasePrice.StringFixed(2))
		price.CreateAttr("selling", p.SellingPrice.StringFixed(2))
		price.CreateAttr("discount_percentage", p.DiscountPercentage.String())
		price.CreateAttr("tax_rate", p.TaxRate.String())

		stock := el.CreateElement("stock")
		stock.CreateAttr("quantity", strconv.Itoa(p.StockQuantity))
		stock.CreateAttr("min_level", strconv.Itoa(p.MinStockLevel))
		stock.CreateAttr("tracked", strconv.FormatBool(p.TrackInventory))

		el.CreateElement("status").SetText(p.Status)
		el.CreateElement("active").SetText(strconv.FormatBool(p.IsActive))
		el.CreateElement("featured").SetText(strconv.FormatBool(p.IsFeatured))
		if p.Weight != nil {
			el.CreateElement("weight").SetText(p.Weight.String())
		}
		if p.Dimensions != "" {
			el.CreateElement("dimensions").SetText(p.Dimensions)
		}
		if len(p.Tags) > 0 {
			tags := el.CreateElement("tags")
			for _, t := range p.Tags {
				tags.CreateElement("tag").SetText(t)
			}
		}
		if includeImages {
			images := el.CreateElement("images")
			if p.FeaturedImageURL != "" {
				img := images.CreateElement("image")
				img.CreateAttr("primary", "true")
				img.SetText(p.FeaturedImageURL)
			}
			for _, u := range gallery[p.ID] {
				if u == p.FeaturedImageURL {
					continue
				}
				images.CreateElement("image").SetText(u)
			}
		}
		el.CreateElement("created_at").SetText(p.CreatedAt.UTC().Format(time.RFC3339))
		el.CreateElement("updated_at").SetText(p.UpdatedAt.UTC().Format(time.RFC3339))
	}
	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("exportar xml: %w", err)
	}
	return data, nil
}

// ErrImportValidation la importación se rechazó completa por errores de fila.
var ErrImportValidation = fmt.Errorf("%w: filas inválidas en el CSV", domain.ErrInvalidInput)

// Import valida todas las filas; si alguna falla no inserta nada y devuelve ErrImportValidation
// junto con el resultado. Si no, inserta fila por fila y reporta los fallos.
func (uc *ProductTransferUseCase) Import(ctx context.Context, fileName string, r io.Reader) (*dto.ImportResult, error) {
	if !strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		return nil, domain.Invalid("solo se admiten archivos CSV")
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, domain.Invalid("CSV mal formado: " + err.Error())
	}
	if len(records) < 2 {
		return nil, domain.Invalid("el CSV no contiene filas de datos")
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = normalizeHeader(h)
	}

	categoryIDs := map[string]string{}
	type parsedRow struct {
		line    int
		product *entity.Product
	}
	var (
		rows    []parsedRow
		rowErrs []dto.ImportError
	)
	now := uc.now()
	for i, rec := range records[1:] {
		line := i + 2
		if isBlankRecord(rec) {
			continue
		}
		data := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(rec) {
				data[h] = strings.TrimSpace(rec[j])
			}
		}
		p, errs := uc.parseImportRow(ctx, data, line, categoryIDs, now)
		if len(errs) > 0 {
			rowErrs = append(rowErrs, errs...)
			continue
		}
		rows = append(rows, parsedRow{line: line, product: p})
	}
	if len(rowErrs) > 0 {
		return &dto.ImportResult{
			Success:    false,
			ErrorCount: len(rowErrs),
			Errors:     rowErrs,
			Message:    "Validation failed",
		}, ErrImportValidation
	}

	res := &dto.ImportResult{TotalRows: len(rows), Errors: []dto.ImportError{}}
	for _, row := range rows {
		if err := uc.products.Create(ctx, row.product); err != nil {
			res.ErrorCount++
			res.Errors = append(res.Errors, dto.ImportError{Row: row.line, Message: "Database error: " + importErrorMessage(err)})
			continue
		}
		res.SuccessCount++
	}
	res.Success = res.ErrorCount == 0
	res.Message = fmt.Sprintf("Import completed: %d successful, %d failed", res.SuccessCount, res.ErrorCount)
	return res, nil
}

func (uc *ProductTransferUseCase) parseImportRow(ctx context.Context, d map[string]string, line int, categoryIDs map[string]string, now time.Time) (*entity.Product, []dto.ImportError) {
	var errs []dto.ImportError
	add := func(field, msg string) { errs = append(errs, dto.ImportError{Row: line, Field: field, Message: msg}) }

	if d["name"] == "" {
		add("name", "Product name is required")
	}
	if d["description"] == "" {
		add("description", "Description is required")
	}
	categoryID := ""
	if d["category"] == "" {
		add("category", "Category is required")
	} else {
		key := strings.ToLower(d["category"])
		id, ok := categoryIDs[key]
		if !ok {
			c, err := uc.categories.GetByName(ctx, d["category"])
			if err == nil && c != nil {
				id = c.ID
			}
			categoryIDs[key] = id
		}
		if id == "" {
			add("category", fmt.Sprintf("Category %q not found", d["category"]))
		}
		categoryID = id
	}
	basePrice, err := decimal.NewFromString(d["base_price"])
	if err != nil || !basePrice.IsPositive() {
		add("base_price", "Base price must be a positive number")
	}
	sellingPrice, err := decimal.NewFromString(d["selling_price"])
	if err != nil || !sellingPrice.IsPositive() {
		add("selling_price", "Selling price must be a positive number")
	}
	stock, err := strconv.Atoi(d["stock_quantity"])
	if err != nil || stock < 0 {
		add("stock_quantity", "Stock quantity must be a non-negative number")
	}
	if len(errs) > 0 {
		return nil, errs
	}

	status := d["status"]
	if !entity.ValidProductStatus(status) {
		status = entity.ProductStatusDraft
	}
	sku := d["sku"]
	if sku == "" {
		sku = generateSKU(d["name"])
	}
	minLevel, _ := strconv.Atoi(d["min_stock_level"])
	p := &entity.Product{
		ID:                 uuid.New().String(),
		Name:               d["name"],
		Slug:               slug.Make(d["name"]) + "-" + strings.ToLower(uuid.NewString()[:6]),
		Description:        d["description"],
		SKU:                sku,
		Barcode:            d["barcode"],
		CategoryID:         categoryID,
		BasePrice:          basePrice,
		SellingPrice:       sellingPrice,
		StockQuantity:      stock,
		MinStockLevel:      minLevel,
		Status:             status,
		IsActive:           parseBool(d["is_active"], true),
		IsFeatured:         parseBool(d["is_featured"], false),
		IsDigital:          parseBool(d["is_digital"], false),
		TrackInventory:     parseBool(d["track_inventory"], true),
		RequiresShipping:   parseBool(d["requires_shipping"], true),
		DiscountPercentage: decimalOrZero(d["discount_percentage"]),
		TaxRate:            decimalOrZero(d["tax_rate"]),
		Dimensions:         d["dimensions"],
		Tags:               splitTags(d["tags"]),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if w, err := decimal.NewFromString(d["weight"]); err == nil {
		p.Weight = &w
	}
	return p, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(h, "*", "")))
	return headerSpaces.ReplaceAllString(h, "_")
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// generateSKU primeros 6 alfanuméricos del nombre en mayúsculas + sufijo aleatorio.
func generateSKU(name string) string {
	base := skuStrip.ReplaceAllString(strings.ToUpper(name), "")
	if len(base) > 6 {
		base = base[:6]
	}
	return base + "-" + strings.ToUpper(uuid.NewString()[:3])
}

func parseBool(v string, def bool) bool {
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true") || v == "1"
}

func decimalOrZero(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalOrEmpty(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func splitTags(v string) []string {
	out := []string{}
	for _, t := range strings.Split(v, ";") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func importErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		return "duplicate SKU or slug"
	case errors.Is(err, domain.ErrInvalidReference):
		return "invalid reference"
	}
	return err.Error()
}
