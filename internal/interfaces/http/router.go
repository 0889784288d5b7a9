package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/pms-api/internal/application/analytics"
	"github.com/jhoicas/pms-api/internal/application/auth"
	"github.com/jhoicas/pms-api/internal/application/inventory"
	"github.com/jhoicas/pms-api/internal/application/orders"
	"github.com/jhoicas/pms-api/internal/application/usecase"
	"github.com/jhoicas/pms-api/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	DB          Pinger

	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	ProductUC     *usecase.ProductUseCase
	TransferUC    *usecase.ProductTransferUseCase
	CategoryUC    *usecase.CategoryUseCase
	WarehouseUC   *usecase.WarehouseUseCase
	SupplierUC    *usecase.SupplierUseCase
	CustomerUC    *usecase.CustomerUseCase
	MediaUC       *usecase.MediaUseCase
	ItemUC        *inventory.ItemUseCase
	ReorderUC     *inventory.ReorderUseCase
	AlertUC       *inventory.AlertUseCase
	AdjustmentUC  *inventory.AdjustmentUseCase
	MovementUC    *inventory.MovementUseCase
	OrderUC       *orders.OrderUseCase
	FulfillmentUC *orders.FulfillmentUseCase
	ReturnUC      *orders.ReturnUseCase
	DashboardUC   *appanalytics.DashboardUseCase

	JWTSecret string
}

// Router registra las rutas de la API.
// Las rutas estáticas de cada grupo se registran antes que las de parámetro (:id).
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", Health(deps.ServiceName, deps.DB))
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rastreo público por guía
	fulfillmentHandler := NewFulfillmentHandler(deps.FulfillmentUC)
	api.Get("/tracking/:trackingNumber", fulfillmentHandler.PublicTracking)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	staff := RequireRole(RoleAdmin, RoleBodeguero)
	sales := RequireRole(RoleAdmin, RoleBodeguero, RoleVendedor)
	adminOnly := RequireRole(RoleAdmin)

	// Users
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", adminOnly, userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", adminOnly, userHandler.Delete)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.TransferUC)
	mediaHandler := NewMediaHandler(deps.MediaUC)
	requireStorage := RequireStorage(deps.MediaUC)
	products.Get("/search", productHandler.Search)
	products.Get("/export", productHandler.Export)
	products.Get("/import/template", productHandler.ImportTemplate)
	products.Post("/import", staff, productHandler.Import)
	products.Get("/", productHandler.List)
	products.Post("/", staff, productHandler.Create)
	products.Get("/:id/media", mediaHandler.ListProductMedia)
	products.Post("/:id/media", staff, requireStorage, mediaHandler.UploadProductMedia)
	products.Put("/:id/media/order", staff, mediaHandler.ReorderProductMedia)
	products.Put("/:id/media/:mediaId/primary", staff, mediaHandler.SetPrimary)
	products.Delete("/:id/media", staff, mediaHandler.DeleteProductMedia)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", staff, productHandler.Update)
	products.Delete("/:id", staff, productHandler.Delete)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/tree", categoryHandler.Tree)
	categories.Get("/stats", categoryHandler.Stats)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", staff, categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", staff, categoryHandler.Update)
	categories.Delete("/:id", staff, categoryHandler.Delete)

	// Media
	media := protected.Group("/media")
	media.Get("/", mediaHandler.List)
	media.Post("/", staff, requireStorage, mediaHandler.Upload)
	media.Get("/:id", mediaHandler.GetByID)
	media.Put("/:id", staff, mediaHandler.Update)
	media.Delete("/:id", staff, mediaHandler.Delete)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Post("/", staff, warehouseHandler.Create)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", staff, warehouseHandler.Update)
	warehouses.Delete("/:id", staff, warehouseHandler.Delete)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/summary", supplierHandler.Summary)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", staff, supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", staff, supplierHandler.Update)
	suppliers.Delete("/:id", staff, supplierHandler.Delete)

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/search", customerHandler.Search)
	customers.Get("/", customerHandler.List)
	customers.Post("/", sales, customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", sales, customerHandler.Update)

	// Inventory
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.ItemUC, deps.ReorderUC, deps.AlertUC)
	inv.Get("/summary", inventoryHandler.Summary)
	inv.Patch("/bulk-update", staff, inventoryHandler.BulkUpdate)
	inv.Get("/set-stock-levels", inventoryHandler.StockLevelsReport)
	inv.Post("/set-stock-levels", staff, inventoryHandler.SetStockLevels)
	inv.Get("/sync-costs", inventoryHandler.SyncCostsReport)
	inv.Post("/sync-costs", staff, inventoryHandler.SyncCosts)
	inv.Get("/reorder-suggestions", inventoryHandler.ReorderSuggestions)
	inv.Get("/alerts", inventoryHandler.Alerts)
	inv.Post("/alerts/:id/resolve", staff, inventoryHandler.ResolveAlert)
	inv.Get("/", inventoryHandler.List)
	inv.Post("/", staff, inventoryHandler.Create)
	inv.Get("/:id/history", inventoryHandler.History)
	inv.Get("/:id", inventoryHandler.GetByID)
	inv.Put("/:id", staff, inventoryHandler.Update)
	inv.Delete("/:id", staff, inventoryHandler.Delete)

	// Adjustments
	adjustments := protected.Group("/adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC)
	adjustments.Get("/summary", adjustmentHandler.Summary)
	adjustments.Get("/by-product", adjustmentHandler.ByProduct)
	adjustments.Get("/by-reason", adjustmentHandler.ByReason)
	adjustments.Post("/approve", staff, adjustmentHandler.Approve)
	adjustments.Post("/bulk", staff, adjustmentHandler.Bulk)
	adjustments.Get("/", adjustmentHandler.List)
	adjustments.Post("/", staff, adjustmentHandler.Create)
	adjustments.Get("/:id", adjustmentHandler.GetByID)
	adjustments.Put("/:id", staff, adjustmentHandler.Update)
	adjustments.Delete("/:id", staff, adjustmentHandler.Delete)

	// Movements
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Get("/summary", movementHandler.Summary)
	movements.Get("/by-product", movementHandler.ByProduct)
	movements.Post("/bulk", staff, movementHandler.Bulk)
	movements.Get("/", movementHandler.List)
	movements.Post("/", staff, movementHandler.Create)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Post("/:id/process", staff, movementHandler.Process)
	movements.Post("/:id/cancel", staff, movementHandler.Cancel)

	// Orders, returns, fulfillment
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	returnHandler := NewReturnHandler(deps.ReturnUC)

	ordersGroup.Get("/returns/stats", returnHandler.Stats)
	ordersGroup.Get("/returns", returnHandler.List)
	ordersGroup.Post("/returns", sales, returnHandler.Create)
	ordersGroup.Get("/returns/:id", returnHandler.GetByID)
	ordersGroup.Put("/returns/:id/status", staff, returnHandler.UpdateStatus)
	ordersGroup.Delete("/returns/:id", staff, returnHandler.Delete)
	ordersGroup.Post("/returns/:id/refund", adminOnly, returnHandler.Refund)

	ordersGroup.Get("/search", orderHandler.Search)
	ordersGroup.Get("/stats", orderHandler.Stats)
	ordersGroup.Get("/analytics", orderHandler.Analytics)
	ordersGroup.Get("/tracking", fulfillmentHandler.Tracked)
	ordersGroup.Get("/status/:status", orderHandler.ByStatus)
	ordersGroup.Get("/customer/:email", orderHandler.ByCustomer)
	ordersGroup.Put("/bulk-fulfill", staff, fulfillmentHandler.BulkFulfill)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Post("/", sales, orderHandler.Create)
	ordersGroup.Put("/:id/fulfill", staff, fulfillmentHandler.Fulfill)
	ordersGroup.Get("/:id/fulfillments", fulfillmentHandler.Fulfillments)
	ordersGroup.Post("/:id/shipping-label", staff, fulfillmentHandler.ShippingLabel)
	ordersGroup.Get("/:id/packing-slip", fulfillmentHandler.PackingSlip)
	ordersGroup.Post("/:id/tracking-events", staff, fulfillmentHandler.AddTrackingEvent)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id", sales, orderHandler.Update)
	ordersGroup.Delete("/:id", staff, orderHandler.Delete)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/stats", dashboardHandler.Stats)
	dashboard.Get("/low-stock", dashboardHandler.LowStock)
}
