package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP de productos (protegido).
type ProductHandler struct {
	uc       *usecase.ProductUseCase
	transfer *usecase.ProductTransferUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, transfer *usecase.ProductTransferUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, transfer: transfer}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search       query  string  false  "Nombre, SKU o descripción"
// @Param        category_id  query  string  false  "Categoría"
// @Param        status       query  string  false  "draft | published | archived"
// @Param        is_active    query  bool    false  "Activo"
// @Param        is_featured  query  bool    false  "Destacado"
// @Param        min_price    query  number  false  "Precio mínimo"
// @Param        max_price    query  number  false  "Precio máximo"
// @Param        in_stock     query  bool    false  "Con stock"
// @Param        sort_by      query  string  false  "name | created_at | selling_price | stock_quantity | updated_at"
// @Param        sort_order   query  string  false  "asc | desc"
// @Param        page         query  int     false  "Página"  default(1)
// @Param        limit        query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	minPrice, err := queryDecimal(c, "min_price")
	if err != nil {
		return writeError(c, err)
	}
	maxPrice, err := queryDecimal(c, "max_price")
	if err != nil {
		return writeError(c, err)
	}
	limit := c.QueryInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	offset := c.QueryInt("offset", (page-1)*limit)
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.List(c.UserContext(), dto.ProductListQuery{
		Search:     c.Query("search"),
		CategoryID: c.Query("category_id"),
		Status:     c.Query("status"),
		IsActive:   queryBool(c, "is_active"),
		IsFeatured: queryBool(c, "is_featured"),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		InStock:    queryBool(c, "in_stock"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Product deleted successfully"})
}

// Search godoc
// @Summary      Búsqueda rápida de productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        q   query  string  true  "Texto (mínimo 2 caracteres)"
// @Success      200  {array}  dto.ProductSearchResult
// @Router       /api/products/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar productos
// @Tags         products
// @Security     Bearer
// @Produce      text/csv
// @Produce      application/xml
// @Param        format         query  string  false  "csv | xml"  default(csv)
// @Param        category       query  string  false  "ID de categoría"
// @Param        status         query  string  false  "Estado"
// @Param        includeImages  query  bool    false  "Incluir URLs de imágenes"
// @Success      200
// @Router       /api/products/export [get]
func (h *ProductHandler) Export(c *fiber.Ctx) error {
	file, err := h.transfer.Export(c.UserContext(), dto.ExportQuery{
		Format:        c.Query("format", "csv"),
		CategoryID:    c.Query("category"),
		Status:        c.Query("status"),
		IncludeImages: c.QueryBool("includeImages", false),
	})
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file)
}

// ImportTemplate godoc
// @Summary      Plantilla CSV de importación
// @Tags         products
// @Security     Bearer
// @Produce      text/csv
// @Success      200
// @Router       /api/products/import/template [get]
func (h *ProductHandler) ImportTemplate(c *fiber.Ctx) error {
	file, err := h.transfer.Template()
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file)
}

// Import godoc
// @Summary      Importar productos desde CSV
// @Description  400 si alguna fila es inválida (no se inserta nada); 207 si fallan algunas inserciones.
// @Tags         products
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo .csv"
// @Success      200   {object}  dto.ImportResult
// @Success      207   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ImportResult
// @Router       /api/products/import [post]
func (h *ProductHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badQuery(c, "file es requerido")
	}
	f, err := fh.Open()
	if err != nil {
		return badQuery(c, "no se pudo leer el archivo")
	}
	defer f.Close()

	res, err := h.transfer.Import(c.UserContext(), fh.Filename, f)
	if err != nil {
		if errors.Is(err, usecase.ErrImportValidation) && res != nil {
			return c.Status(fiber.StatusBadRequest).JSON(res)
		}
		return writeError(c, err)
	}
	if res.ErrorCount > 0 {
		return c.Status(fiber.StatusMultiStatus).JSON(res)
	}
	return c.JSON(res)
}

func sendFile(c *fiber.Ctx, file *dto.ExportFile) error {
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.FileName+`"`)
	return c.Send(file.Data)
}
