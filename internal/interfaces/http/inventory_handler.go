package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/inventory"
)

// InventoryHandler ítems de inventario, niveles de stock, reposición y alertas.
type InventoryHandler struct {
	items   *inventory.ItemUseCase
	reorder *inventory.ReorderUseCase
	alerts  *inventory.AlertUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(items *inventory.ItemUseCase, reorder *inventory.ReorderUseCase, alerts *inventory.AlertUseCase) *InventoryHandler {
	return &InventoryHandler{items: items, reorder: reorder, alerts: alerts}
}

// List godoc
// @Summary      Listar ítems de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Bodega"
// @Param        product_id   query  string  false  "Producto"
// @Param        status       query  string  false  "active (por defecto) | inactive | discontinued | all"
// @Param        low_stock    query  bool    false  "Solo stock bajo"
// @Param        search       query  string  false  "Producto, SKU, lote"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.InventoryListResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	out, err := h.items.List(c.UserContext(), dto.InventoryListQuery{
		LocationID: c.Query("location_id"),
		ProductID:  c.Query("product_id"),
		Status:     c.Query("status"),
		LowStock:   c.QueryBool("low_stock", false),
		Search:     c.Query("search"),
		Limit:      c.QueryInt("limit", 50),
		Offset:     c.QueryInt("offset", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear ítem de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInventoryItemRequest  true  "Ítem"
// @Success      201   {object}  dto.InventoryItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.items.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.InventoryItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.items.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar ítem de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID"
// @Param        body  body  dto.UpdateInventoryItemRequest  true  "Cambios"
// @Success      200   {object}  dto.InventoryItemResponse
// @Router       /api/inventory/{id} [put]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInventoryItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.items.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ítem de inventario
// @Tags         inventory
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.items.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Inventory item deleted successfully"})
}

// BulkUpdate godoc
// @Summary      Actualización masiva de ítems
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkInventoryUpdateRequest  true  "updates[]"
// @Success      200   {object}  dto.BulkResult
// @Router       /api/inventory/bulk-update [patch]
func (h *InventoryHandler) BulkUpdate(c *fiber.Ctx) error {
	var in dto.BulkInventoryUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.items.BulkUpdate(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventorySummaryResponse
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	out, err := h.items.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de un ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.InventoryHistoryResponse
// @Router       /api/inventory/{id}/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	out, err := h.items.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetStockLevels godoc
// @Summary      Asignar niveles mínimo y máximo
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetStockLevelsRequest  false  "defaultMinLevel, defaultMaxLevel, updateOnlyZero"
// @Success      200   {object}  dto.SetStockLevelsResponse
// @Router       /api/inventory/set-stock-levels [post]
func (h *InventoryHandler) SetStockLevels(c *fiber.Ctx) error {
	var in dto.SetStockLevelsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.items.SetStockLevels(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockLevelsReport godoc
// @Summary      Ítems sin niveles de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockLevelsReport
// @Router       /api/inventory/set-stock-levels [get]
func (h *InventoryHandler) StockLevelsReport(c *fiber.Ctx) error {
	out, err := h.items.StockLevelsReport(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SyncCosts godoc
// @Summary      Sincronizar costos desde productos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncCostsResponse
// @Router       /api/inventory/sync-costs [post]
func (h *InventoryHandler) SyncCosts(c *fiber.Ctx) error {
	out, err := h.items.SyncCosts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SyncCostsReport godoc
// @Summary      Ítems cuyo costo cambiaría
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncCostsReport
// @Router       /api/inventory/sync-costs [get]
func (h *InventoryHandler) SyncCostsReport(c *fiber.Ctx) error {
	out, err := h.items.SyncCostsReport(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReorderSuggestions godoc
// @Summary      Sugerencias de reposición
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Bodega"
// @Success      200  {array}  dto.ReorderSuggestion
// @Router       /api/inventory/reorder-suggestions [get]
func (h *InventoryHandler) ReorderSuggestions(c *fiber.Ctx) error {
	out, err := h.reorder.Suggestions(c.UserContext(), c.Query("location_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Alertas de stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "active | resolved"
// @Success      200  {array}  dto.LowStockAlertResponse
// @Router       /api/inventory/alerts [get]
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.alerts.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ResolveAlert godoc
// @Summary      Resolver alerta
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.LowStockAlertResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts/{id}/resolve [post]
func (h *InventoryHandler) ResolveAlert(c *fiber.Ctx) error {
	out, err := h.alerts.Resolve(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
