package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/orders"
	"github.com/jhoicas/pms-api/internal/domain"
)

// OrderHandler pedidos: CRUD, búsquedas y estadísticas.
type OrderHandler struct {
	uc *orders.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// orderValidationFailed cuerpo 400 de validación de pedidos.
type orderValidationFailed struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        page            query  int     false  "Página"  default(1)
// @Param        limit           query  int     false  "Límite"  default(10)
// @Param        status          query  string  false  "Estados separados por coma"
// @Param        payment_status  query  string  false  "Estados de pago separados por coma"
// @Param        customer_id     query  string  false  "Cliente"
// @Param        date_from       query  string  false  "Desde"
// @Param        date_to         query  string  false  "Hasta"
// @Param        min_amount      query  number  false  "Total mínimo"
// @Param        max_amount      query  number  false  "Total máximo"
// @Param        search          query  string  false  "Número, nombre de envío o cliente"
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	q := dto.OrderListQuery{
		Page:            c.QueryInt("page", 1),
		Limit:           c.QueryInt("limit", 10),
		Statuses:        queryList(c, "status"),
		PaymentStatuses: queryList(c, "payment_status"),
		CustomerID:      c.Query("customer_id"),
		Search:          c.Query("search"),
	}
	var err error
	if q.DateFrom, err = queryTime(c, "date_from"); err != nil {
		return writeError(c, err)
	}
	if q.DateTo, err = queryTime(c, "date_to"); err != nil {
		return writeError(c, err)
	}
	if q.MinAmount, err = queryDecimal(c, "min_amount"); err != nil {
		return writeError(c, err)
	}
	if q.MaxAmount, err = queryDecimal(c, "max_amount"); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear pedido
// @Description  Todos los errores de validación se devuelven juntos en errors[].
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  orderValidationFailed
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(orderValidationFailed{Message: "Validation failed", Errors: verr.Errors})
		}
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID"
// @Param        body  body  dto.UpdateOrderRequest  true  "Cambios"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
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
// @Summary      Eliminar pedido
// @Description  Solo pedidos pending o cancelled.
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Order deleted successfully"})
}

// Search godoc
// @Summary      Buscar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  true   "Texto"
// @Param        limit   query  int     false  "Límite"  default(10)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.OrderSearchResponse
// @Router       /api/orders/search [get]
func (h *OrderHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), c.Query("q"), c.QueryInt("limit", 10), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByStatus godoc
// @Summary      Pedidos por estado
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  path   string  true   "Estado"
// @Param        page    query  int     false  "Página"  default(1)
// @Param        limit   query  int     false  "Límite"  default(10)
// @Success      200  {object}  dto.OrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders/status/{status} [get]
func (h *OrderHandler) ByStatus(c *fiber.Ctx) error {
	out, err := h.uc.ByStatus(c.UserContext(), c.Params("status"), c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByCustomer godoc
// @Summary      Pedidos de un cliente por email
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        email  path  string  true  "Email del cliente"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders/customer/{email} [get]
func (h *OrderHandler) ByCustomer(c *fiber.Ctx) error {
	out, err := h.uc.ByCustomerEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OrderStatsResponse
// @Router       /api/orders/stats [get]
func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Analytics godoc
// @Summary      Analítica de pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        date_from  query  string  false  "Desde"
// @Param        date_to    query  string  false  "Hasta"
// @Success      200  {object}  dto.OrderAnalyticsResponse
// @Router       /api/orders/analytics [get]
func (h *OrderHandler) Analytics(c *fiber.Ctx) error {
	from, err := queryTime(c, "date_from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := queryTime(c, "date_to")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Analytics(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
