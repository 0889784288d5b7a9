package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/usecase"
)

// SupplierHandler proveedores.
type SupplierHandler struct {
	uc *usecase.SupplierUseCase
}

// NewSupplierHandler construye el handler.
func NewSupplierHandler(uc *usecase.SupplierUseCase) *SupplierHandler {
	return &SupplierHandler{uc: uc}
}

// List godoc
// @Summary      Listar proveedores
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        search            query  string  false  "Nombre, código, email o contacto"
// @Param        status            query  string  false  "active | inactive | suspended | pending"
// @Param        supplier_type     query  string  false  "Tipo de proveedor"
// @Param        business_type     query  string  false  "Tipo de empresa"
// @Param        category          query  string  false  "Categoría"
// @Param        rating_min        query  number  false  "Rating mínimo"
// @Param        rating_max        query  number  false  "Rating máximo"
// @Param        credit_limit_min  query  number  false  "Crédito mínimo"
// @Param        credit_limit_max  query  number  false  "Crédito máximo"
// @Param        created_from      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        created_to        query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        sort_by           query  string  false  "name | created_at | rating | status"
// @Param        sort_order        query  string  false  "asc | desc"
// @Param        page              query  int     false  "Página"  default(1)
// @Param        limit             query  int     false  "Límite"  default(50)
// @Success      200  {object}  dto.SupplierListResponse
// @Router       /api/suppliers [get]
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	q := dto.SupplierListQuery{
		Search:       c.Query("search"),
		Status:       c.Query("status"),
		SupplierType: c.Query("supplier_type"),
		BusinessType: c.Query("business_type"),
		Category:     c.Query("category"),
		SortBy:       c.Query("sort_by"),
		SortOrder:    c.Query("sort_order"),
		Page:         c.QueryInt("page", 1),
		Limit:        c.QueryInt("limit", 50),
	}
	var err error
	if q.RatingMin, err = queryDecimal(c, "rating_min"); err != nil {
		return writeError(c, err)
	}
	if q.RatingMax, err = queryDecimal(c, "rating_max"); err != nil {
		return writeError(c, err)
	}
	if q.CreditLimitMin, err = queryDecimal(c, "credit_limit_min"); err != nil {
		return writeError(c, err)
	}
	if q.CreditLimitMax, err = queryDecimal(c, "credit_limit_max"); err != nil {
		return writeError(c, err)
	}
	if q.CreatedFrom, err = queryTime(c, "created_from"); err != nil {
		return writeError(c, err)
	}
	if q.CreatedTo, err = queryTime(c, "created_to"); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplierRequest  true  "Proveedor"
// @Success      201   {object}  dto.SupplierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/suppliers [post]
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var in dto.SupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener proveedor
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SupplierResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID"
// @Param        body  body  dto.SupplierRequest  true  "Proveedor"
// @Success      200   {object}  dto.SupplierResponse
// @Router       /api/suppliers/{id} [put]
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	var in dto.SupplierRequest
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
// @Summary      Eliminar proveedor
// @Tags         suppliers
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Supplier deleted successfully"})
}

// Summary godoc
// @Summary      Resumen de proveedores
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SupplierSummaryResponse
// @Router       /api/suppliers/summary [get]
func (h *SupplierHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
