package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/orders"
)

// FulfillmentHandler despacho, documentos de envío y rastreo.
type FulfillmentHandler struct {
	uc *orders.FulfillmentUseCase
}

// NewFulfillmentHandler construye el handler.
func NewFulfillmentHandler(uc *orders.FulfillmentUseCase) *FulfillmentHandler {
	return &FulfillmentHandler{uc: uc}
}

// Fulfill godoc
// @Summary      Avanzar el despacho de un pedido
// @Tags         fulfillment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del pedido"
// @Param        body  body  dto.FulfillOrderRequest  true  "status, shipmentInfo, notes"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/fulfill [put]
func (h *FulfillmentHandler) Fulfill(c *fiber.Ctx) error {
	var in dto.FulfillOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Fulfill(c.UserContext(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BulkFulfill godoc
// @Summary      Acción de despacho sobre varios pedidos
// @Tags         fulfillment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkFulfillRequest  true  "orderIds, action"
// @Success      200   {object}  dto.BulkFulfillResponse
// @Router       /api/orders/bulk-fulfill [put]
func (h *FulfillmentHandler) BulkFulfill(c *fiber.Ctx) error {
	var in dto.BulkFulfillRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.BulkFulfill(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Fulfillments godoc
// @Summary      Despachos registrados de un pedido
// @Tags         fulfillment
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {array}  dto.FulfillmentResponse
// @Router       /api/orders/{id}/fulfillments [get]
func (h *FulfillmentHandler) Fulfillments(c *fiber.Ctx) error {
	out, err := h.uc.Fulfillments(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ShippingLabel godoc
// @Summary      Etiqueta de envío (PDF)
// @Description  Asigna número de guía y transportadora si faltan.
// @Tags         fulfillment
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/shipping-label [post]
func (h *FulfillmentHandler) ShippingLabel(c *fiber.Ctx) error {
	pdf, name, err := h.uc.ShippingLabel(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, pdf, name)
}

// PackingSlip godoc
// @Summary      Lista de empaque (PDF)
// @Tags         fulfillment
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200
// @Router       /api/orders/{id}/packing-slip [get]
func (h *FulfillmentHandler) PackingSlip(c *fiber.Ctx) error {
	pdf, name, err := h.uc.PackingSlip(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, pdf, name)
}

// Tracked godoc
// @Summary      Pedidos en rastreo
// @Tags         tracking
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TrackingResponse
// @Router       /api/orders/tracking [get]
func (h *FulfillmentHandler) Tracked(c *fiber.Ctx) error {
	out, err := h.uc.Tracked(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PublicTracking godoc
// @Summary      Rastreo público por número de guía
// @Tags         tracking
// @Produce      json
// @Param        trackingNumber  path  string  true  "Número de guía"
// @Success      200  {object}  dto.TrackingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tracking/{trackingNumber} [get]
func (h *FulfillmentHandler) PublicTracking(c *fiber.Ctx) error {
	out, err := h.uc.PublicTracking(c.UserContext(), c.Params("trackingNumber"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddTrackingEvent godoc
// @Summary      Registrar evento de rastreo
// @Tags         tracking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del pedido"
// @Param        body  body  dto.TrackingEventRequest  true  "status, location, description"
// @Success      201   {object}  dto.TrackingEventResponse
// @Router       /api/orders/{id}/tracking-events [post]
func (h *FulfillmentHandler) AddTrackingEvent(c *fiber.Ctx) error {
	var in dto.TrackingEventRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddTrackingEvent(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
