package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/inventory"
	"github.com/jhoicas/pms-api/internal/domain"
)

// AdjustmentHandler ajustes de stock.
type AdjustmentHandler struct {
	uc *inventory.AdjustmentUseCase
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc *inventory.AdjustmentUseCase) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc}
}

// List godoc
// @Summary      Listar ajustes
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        type        query  string  false  "Tipo"
// @Param        reason      query  string  false  "Motivo"
// @Param        status      query  string  false  "pending | approved | rejected"
// @Param        location    query  string  false  "Ubicación"
// @Param        user_id     query  string  false  "Creador"
// @Param        search      query  string  false  "Texto"
// @Param        days        query  int     false  "Días hacia atrás"  default(30)
// @Param        limit       query  int     false  "Límite"            default(100)
// @Success      200  {array}  dto.AdjustmentResponse
// @Router       /api/adjustments [get]
func (h *AdjustmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), dto.AdjustmentListQuery{
		ProductID: c.Query("product_id"),
		Type:      c.Query("type"),
		Reason:    c.Query("reason"),
		Status:    c.Query("status"),
		Location:  c.Query("location"),
		UserID:    c.Query("user_id"),
		Search:    c.Query("search"),
		Days:      c.QueryInt("days", 30),
		Limit:     c.QueryInt("limit", 100),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear ajuste
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "Ajuste"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
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
// @Summary      Obtener ajuste
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [get]
func (h *AdjustmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar ajuste pendiente
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID"
// @Param        body  body  dto.UpdateAdjustmentRequest  true  "Cambios"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [put]
func (h *AdjustmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAdjustmentRequest
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
// @Summary      Eliminar ajuste pendiente
// @Tags         adjustments
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [delete]
func (h *AdjustmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Adjustment deleted successfully"})
}

// Approve godoc
// @Summary      Aprobar o rechazar ajustes
// @Description  Aprobar aplica quantity_after al ítem de inventario en la misma transacción.
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApproveAdjustmentsRequest  true  "adjustmentIds, approved, approvalNotes"
// @Success      200   {array}   dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/adjustments/approve [post]
func (h *AdjustmentHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveAdjustmentsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ApprovedBy == "" {
		in.ApprovedBy = GetUserID(c)
	}
	out, err := h.uc.Approve(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Bulk godoc
// @Summary      Crear ajustes en lote
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkAdjustmentsRequest  true  "adjustments[], batchReference, notes"
// @Success      201   {object}  dto.BulkAdjustmentsResponse
// @Failure      400   {object}  map[string]interface{}
// @Router       /api/adjustments/bulk [post]
func (h *AdjustmentHandler) Bulk(c *fiber.Ctx) error {
	var in dto.BulkAdjustmentsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Bulk(c.UserContext(), GetUserID(c), in)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "No adjustments were created",
				"details": verr.Errors,
			})
		}
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Summary godoc
// @Summary      Resumen de ajustes
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AdjustmentSummaryResponse
// @Router       /api/adjustments/summary [get]
func (h *AdjustmentHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByProduct godoc
// @Summary      Ajustes agrupados por producto
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AdjustmentsByProductRow
// @Router       /api/adjustments/by-product [get]
func (h *AdjustmentHandler) ByProduct(c *fiber.Ctx) error {
	out, err := h.uc.ByProduct(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByReason godoc
// @Summary      Ajustes agrupados por motivo
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AdjustmentsByReasonRow
// @Router       /api/adjustments/by-reason [get]
func (h *AdjustmentHandler) ByReason(c *fiber.Ctx) error {
	out, err := h.uc.ByReason(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
