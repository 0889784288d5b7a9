package orders

import (
	"context"
	"fmt"
	"math"
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/ports"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/order"
	"github.com/jhoicas/pms-api/internal/domain/repository"
	"github.com/jhoicas/pms-api/pkg/logger"
)

var (
	reProductID  = regexp.MustCompile(`^[a-zA-Z0-9-_]{1,50}$`)
	rePostalCode = regexp.MustCompile(`^[A-Za-z0-9\s-]{3,10}$`)

	allowedCountries      = []string{"USA", "Canada", "Mexico"}
	allowedPaymentMethods = []string{"credit_card", "debit_card", "paypal", "bank_transfer", "cash_on_delivery"}

	maxUnitPrice = decimal.NewFromInt(1000000)
)

// OrderUseCase alta, consulta y estadísticas de pedidos.
type OrderUseCase struct {
	tx       repository.TxRunner
	orders   repository.OrderRepository
	products repository.ProductRepository
	metrics  ports.Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	tx repository.TxRunner,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	metrics ports.Metrics,
	log *logger.Logger,
) *OrderUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUseCase{
		tx:       tx,
		orders:   orders,
		products: products,
		metrics:  metrics,
		log:      log.Named("orders"),
		now:      time.Now,
	}
}

// Create valida, sanea y guarda el pedido con sus líneas en una transacción.
// Los errores de validación se devuelven juntos en un *domain.ValidationError.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := domain.NewValidationError(validateOrder(in)); err != nil {
		return nil, err
	}
	now := uc.now()
	o := &entity.Order{
		ID:              uuid.New().String(),
		OrderNumber:     order.NewOrderNumber(now),
		CustomerID:      order.Sanitize(in.CustomerID),
		Status:          entity.OrderPending,
		PaymentStatus:   entity.PaymentPending,
		PaymentMethod:   in.PaymentMethod,
		TaxAmount:       decimalOr(in.TaxAmount),
		ShippingAmount:  decimalOr(in.ShippingAmount),
		DiscountAmount:  decimalOr(in.DiscountAmount),
		Currency:        strings.ToUpper(strings.TrimSpace(in.Currency)),
		ShippingAddress: sanitizeAddress(*in.ShippingAddress),
		Notes:           order.Sanitize(in.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if o.Currency == "" {
		o.Currency = "USD"
	}
	if in.BillingAddress != nil {
		b := sanitizeAddress(*in.BillingAddress)
		o.BillingAddress = &b
	}
	for _, it := range in.Items {
		line := entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			ProductID: it.ProductID,
			Quantity:  int(it.Quantity),
			UnitPrice: it.UnitPrice,
			Status:    entity.OrderItemPending,
			CreatedAt: now,
		}
		// Nombre y SKU informativos; el producto puede no existir en el catálogo.
		if p, err := uc.products.GetByID(ctx, it.ProductID); err == nil && p != nil {
			line.ProductName = p.Name
			line.SKU = p.SKU
		}
		o.Items = append(o.Items, line)
	}
	order.ComputeTotals(o)

	if err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		return r.Orders.Create(ctx, o)
	}); err != nil {
		return nil, err
	}
	uc.metrics.RecordOrderCreated()
	uc.log.Info().Str("order_id", o.ID).Str("order_number", o.OrderNumber).Msg("pedido creado")
	return ToOrderResponse(o), nil
}

func validateOrder(in dto.CreateOrderRequest) []string {
	var errs []string
	switch {
	case strings.TrimSpace(in.CustomerID) == "":
		errs = append(errs, "Customer ID is required")
	case len(in.CustomerID) > 50:
		errs = append(errs, "Customer ID too long")
	}

	switch {
	case len(in.Items) == 0:
		errs = append(errs, "At least one item is required")
	case len(in.Items) > 100:
		errs = append(errs, "Too many items (max 100)")
	default:
		for i, it := range in.Items {
			n := i + 1
			if it.ProductID == "" {
				errs = append(errs, fmt.Sprintf("Item %d: Product ID is required", n))
			} else if !reProductID.MatchString(it.ProductID) {
				errs = append(errs, fmt.Sprintf("Item %d: Invalid product ID format - received: %s", n, it.ProductID))
			}
			if it.Quantity <= 0 || it.Quantity != math.Trunc(it.Quantity) {
				errs = append(errs, fmt.Sprintf("Item %d: Valid quantity is required", n))
			} else if it.Quantity > 10000 {
				errs = append(errs, fmt.Sprintf("Item %d: Quantity too large", n))
			}
			if !it.UnitPrice.IsPositive() {
				errs = append(errs, fmt.Sprintf("Item %d: Valid unit price is required", n))
			} else if it.UnitPrice.GreaterThan(maxUnitPrice) {
				errs = append(errs, fmt.Sprintf("Item %d: Unit price too high", n))
			}
		}
	}

	if in.ShippingAddress == nil {
		errs = append(errs, "Shipping address is required")
	} else {
		a := in.ShippingAddress
		fields := []struct{ label, value string }{
			{"name", a.Name},
			{"address line_1", a.AddressLine1},
			{"city", a.City},
			{"state", a.State},
			{"postal code", a.PostalCode},
			{"country", a.Country},
		}
		for _, f := range fields {
			if strings.TrimSpace(f.value) == "" {
				errs = append(errs, "Shipping "+f.label+" is required")
			} else if len(f.value) > 100 {
				errs = append(errs, "Shipping "+f.label+" too long")
			}
		}
		if a.PostalCode != "" && !rePostalCode.MatchString(a.PostalCode) {
			errs = append(errs, "Invalid postal code format")
		}
		if !contains(allowedCountries, a.Country) {
			errs = append(errs, "Invalid country")
		}
	}

	if !contains(allowedPaymentMethods, in.PaymentMethod) {
		errs = append(errs, "Invalid payment method")
	}
	if len(in.Notes) > 1000 {
		errs = append(errs, "Notes too long (max 1000 characters)")
	}
	for _, v := range []*decimal.Decimal{in.TaxAmount, in.ShippingAmount, in.DiscountAmount} {
		if v != nil && v.IsNegative() {
			errs = append(errs, "Amounts cannot be negative")
			break
		}
	}
	return errs
}

// GetByID pedido con sus líneas.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// Update cambia estado, pago, guía, notas y direcciones.
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	o, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if in.Status != nil && *in.Status != o.Status {
		if !entity.ValidOrderStatus(*in.Status) {
			return nil, domain.Invalid("estado de pedido inválido: " + *in.Status)
		}
		order.ApplyStatus(o, *in.Status, nil, now)
	}
	if in.PaymentStatus != nil {
		if !entity.ValidPaymentStatus(*in.PaymentStatus) {
			return nil, domain.Invalid("estado de pago inválido: " + *in.PaymentStatus)
		}
		o.PaymentStatus = *in.PaymentStatus
	}
	if in.TrackingNumber != nil {
		o.TrackingNumber = strings.TrimSpace(*in.TrackingNumber)
	}
	if in.TrackingURL != nil {
		o.TrackingURL = strings.TrimSpace(*in.TrackingURL)
	}
	if in.ShippingCarrier != nil {
		o.ShippingCarrier = strings.TrimSpace(*in.ShippingCarrier)
	}
	if in.Notes != nil {
		if len(*in.Notes) > 1000 {
			return nil, domain.Invalid("Notes too long (max 1000 characters)")
		}
		o.Notes = order.Sanitize(*in.Notes)
	}
	if in.ShippingAddress != nil {
		o.ShippingAddress = sanitizeAddress(*in.ShippingAddress)
	}
	if in.BillingAddress != nil {
		b := sanitizeAddress(*in.BillingAddress)
		o.BillingAddress = &b
	}
	o.UpdatedAt = now
	if err := uc.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// Delete elimina pedidos pendientes o cancelados.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	o, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if !order.CanDelete(o) {
		return domain.Conflict("solo se pueden eliminar pedidos pendientes o cancelados")
	}
	return uc.orders.Delete(ctx, id)
}

// List listado paginado (page 1, limit 10).
func (uc *OrderUseCase) List(ctx context.Context, q dto.OrderListQuery) (*dto.OrderListResponse, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 10
	}
	for _, s := range q.Statuses {
		if !entity.ValidOrderStatus(s) {
			return nil, domain.Invalid("estado de pedido inválido: " + s)
		}
	}
	for _, s := range q.PaymentStatuses {
		if !entity.ValidPaymentStatus(s) {
			return nil, domain.Invalid("estado de pago inválido: " + s)
		}
	}
	list, total, err := uc.orders.List(ctx, repository.OrderFilter{
		Statuses:        q.Statuses,
		PaymentStatuses: q.PaymentStatuses,
		CustomerID:      q.CustomerID,
		DateFrom:        q.DateFrom,
		DateTo:          q.DateTo,
		MinAmount:       q.MinAmount,
		MaxAmount:       q.MaxAmount,
		Search:          strings.TrimSpace(q.Search),
		Limit:           q.Limit,
		Offset:          (q.Page - 1) * q.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &dto.OrderListResponse{
		Success:    true,
		Data:       toOrderResponses(list),
		Pagination: dto.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// Search busca por número de pedido, nombre de envío o cliente.
func (uc *OrderUseCase) Search(ctx context.Context, q string, limit, offset int) (*dto.OrderSearchResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, domain.Invalid("el parámetro q es requerido")
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	list, total, err := uc.orders.List(ctx, repository.OrderFilter{Search: q, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &dto.OrderSearchResponse{Data: toOrderResponses(list), Total: total, Limit: limit, Offset: offset}, nil
}

// ByStatus pedidos en un estado.
func (uc *OrderUseCase) ByStatus(ctx context.Context, status string, page, limit int) (*dto.OrderListResponse, error) {
	if !entity.ValidOrderStatus(status) {
		return nil, domain.Invalid("estado de pedido inválido: " + status)
	}
	return uc.List(ctx, dto.OrderListQuery{Page: page, Limit: limit, Statuses: []string{status}})
}

// ByCustomerEmail pedidos del cliente con ese email.
func (uc *OrderUseCase) ByCustomerEmail(ctx context.Context, email string) ([]dto.OrderResponse, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return nil, domain.Invalid("email inválido")
	}
	list, _, err := uc.orders.List(ctx, repository.OrderFilter{CustomerEmail: strings.ToLower(addr.Address), Limit: 100})
	if err != nil {
		return nil, err
	}
	return toOrderResponses(list), nil
}

// Stats contadores globales; los ingresos excluyen pedidos cancelados.
func (uc *OrderUseCase) Stats(ctx context.Context) (*dto.OrderStatsResponse, error) {
	all, err := uc.orders.ListBetween(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	s := &dto.OrderStatsResponse{
		TotalOrders:       len(all),
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		RevenueToday:      decimal.Zero,
	}
	revenueOrders := 0
	for _, o := range all {
		switch o.Status {
		case entity.OrderPending:
			s.PendingOrders++
		case entity.OrderProcessing, entity.OrderConfirmed, entity.OrderPacked:
			s.ProcessingOrders++
		case entity.OrderShipped:
			s.ShippedOrders++
		case entity.OrderDelivered:
			s.DeliveredOrders++
		case entity.OrderCancelled:
			s.CancelledOrders++
		}
		isToday := !o.CreatedAt.Before(today)
		if isToday {
			s.OrdersToday++
		}
		if o.Status == entity.OrderCancelled {
			continue
		}
		revenueOrders++
		s.TotalRevenue = s.TotalRevenue.Add(o.TotalAmount)
		if isToday {
			s.RevenueToday = s.RevenueToday.Add(o.TotalAmount)
		}
	}
	if revenueOrders > 0 {
		s.AverageOrderValue = s.TotalRevenue.Div(decimal.NewFromInt(int64(revenueOrders))).Round(2)
	}
	return s, nil
}

// Analytics agregados del rango [from, to); nil = sin límite.
func (uc *OrderUseCase) Analytics(ctx context.Context, from, to *time.Time) (*dto.OrderAnalyticsResponse, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.Invalid("date_to debe ser posterior a date_from")
	}
	list, err := uc.orders.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	res := &dto.OrderAnalyticsResponse{
		TotalOrders:       len(list),
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		OrdersByStatus:    map[string]int{},
		RevenueByMonth:    []dto.MonthRevenue{},
		TopCustomers:      []dto.TopCustomer{},
	}
	months := map[string]*dto.MonthRevenue{}
	customers := map[string]*dto.TopCustomer{}
	for _, o := range list {
		res.OrdersByStatus[o.Status]++
		if o.Status == entity.OrderCancelled {
			continue
		}
		res.TotalRevenue = res.TotalRevenue.Add(o.TotalAmount)

		key := o.CreatedAt.Format("2006-01")
		mr, ok := months[key]
		if !ok {
			mr = &dto.MonthRevenue{Month: key, Revenue: decimal.Zero}
			months[key] = mr
		}
		mr.Revenue = mr.Revenue.Add(o.TotalAmount)
		mr.Orders++

		tc, ok := customers[o.CustomerID]
		if !ok {
			tc = &dto.TopCustomer{CustomerID: o.CustomerID, Name: o.CustomerName, Revenue: decimal.Zero}
			customers[o.CustomerID] = tc
		}
		tc.Orders++
		tc.Revenue = tc.Revenue.Add(o.TotalAmount)
	}
	if len(list) > 0 {
		res.AverageOrderValue = res.TotalRevenue.Div(decimal.NewFromInt(int64(len(list)))).Round(2)
	}
	for _, mr := range months {
		res.RevenueByMonth = append(res.RevenueByMonth, *mr)
	}
	sort.Slice(res.RevenueByMonth, func(i, j int) bool { return res.RevenueByMonth[i].Month < res.RevenueByMonth[j].Month })
	for _, tc := range customers {
		res.TopCustomers = append(res.TopCustomers, *tc)
	}
	sort.Slice(res.TopCustomers, func(i, j int) bool {
		a, b := res.TopCustomers[i], res.TopCustomers[j]
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.CustomerID < b.CustomerID
	})
	if len(res.TopCustomers) > 5 {
		res.TopCustomers = res.TopCustomers[:5]
	}
	return res, nil
}

func (uc *OrderUseCase) get(ctx context.Context, id string) (*entity.Order, error) {
	return getOrder(ctx, uc.orders, id)
}

func getOrder(ctx context.Context, orders repository.OrderRepository, id string) (*entity.Order, error) {
	o, err := orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func sanitizeAddress(a dto.Address) entity.Address {
	return entity.Address{
		Name:         order.Sanitize(a.Name),
		AddressLine1: order.Sanitize(a.AddressLine1),
		AddressLine2: order.Sanitize(a.AddressLine2),
		City:         order.Sanitize(a.City),
		State:        order.Sanitize(a.State),
		PostalCode:   order.Sanitize(a.PostalCode),
		Country:      order.Sanitize(a.Country),
		Phone:        order.Sanitize(a.Phone),
	}
}

func toAddress(a entity.Address) dto.Address {
	return dto.Address{
		Name:         a.Name,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		PostalCode:   a.PostalCode,
		Country:      a.Country,
		Phone:        a.Phone,
	}
}

func decimalOr(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func toOrderResponses(list []*entity.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *ToOrderResponse(o))
	}
	return out
}

// ToOrderResponse convierte la entidad a la respuesta HTTP.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	res := &dto.OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		PaymentMethod:   o.PaymentMethod,
		Subtotal:        o.Subtotal,
		TaxAmount:       o.TaxAmount,
		ShippingAmount:  o.ShippingAmount,
		DiscountAmount:  o.DiscountAmount,
		TotalAmount:     o.TotalAmount,
		Currency:        o.Currency,
		ShippingAddress: toAddress(o.ShippingAddress),
		Notes:           o.Notes,
		TrackingNumber:  o.TrackingNumber,
		TrackingURL:     o.TrackingURL,
		ShippingCarrier: o.ShippingCarrier,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		Items:           make([]dto.OrderItemResponse, 0, len(o.Items)),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.BillingAddress != nil {
		b := toAddress(*o.BillingAddress)
		res.BillingAddress = &b
	}
	for _, it := range o.Items {
		res.Items = append(res.Items, dto.OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
			Status:      it.Status,
		})
	}
	return res
}
