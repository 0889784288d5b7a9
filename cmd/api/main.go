package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/pms-api/docs"
	appanalytics "github.com/jhoicas/pms-api/internal/application/analytics"
	"github.com/jhoicas/pms-api/internal/application/auth"
	"github.com/jhoicas/pms-api/internal/application/inventory"
	"github.com/jhoicas/pms-api/internal/application/orders"
	"github.com/jhoicas/pms-api/internal/application/ports"
	"github.com/jhoicas/pms-api/internal/application/usecase"
	"github.com/jhoicas/pms-api/internal/domain/order"
	"github.com/jhoicas/pms-api/internal/infrastructure/cache"
	"github.com/jhoicas/pms-api/internal/infrastructure/imaging"
	"github.com/jhoicas/pms-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/pms-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pms-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pms-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/pms-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/pms-api/internal/interfaces/http"
	"github.com/jhoicas/pms-api/pkg/config"
	"github.com/jhoicas/pms-api/pkg/logger"
)

// @title           PMS API
// @version         1.0
// @description     Catálogo, inventario, pedidos y devoluciones.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Caché: Redis si hay URL; si no, sin caché
	var appCache ports.Cache = cache.Noop{}
	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.URL, cfg.App.Name+":")
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, se continúa sin caché")
		} else {
			defer rc.Close()
			appCache = rc
		}
	}

	// Storage: sin credenciales de Supabase la subida de media responde 503
	var fileStorage ports.FileStorage
	if cfg.Supabase.StorageEnabled() {
		st, err := storage.NewSupabaseStorage(storage.Config{URL: cfg.Supabase.URL, ServiceKey: cfg.Supabase.ServiceKey})
		if err != nil {
			log.Fatal().Err(err).Msg("configuración de storage")
		}
		fileStorage = st
	} else {
		log.Warn().Msg("SUPABASE_URL/SUPABASE_SERVICE_ROLE_KEY sin definir: subida de media deshabilitada")
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	mediaRepo := postgres.NewMediaRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	adjustmentRepo := postgres.NewAdjustmentRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	fulfillmentRepo := postgres.NewFulfillmentRepository(pool)
	trackingRepo := postgres.NewTrackingRepository(pool)
	returnRepo := postgres.NewReturnRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	recorder := metrics.Recorder{}
	shipFrom := order.Party{
		Name:       cfg.Company.Name,
		Address1:   cfg.Company.Address,
		City:       cfg.Company.City,
		State:      cfg.Company.State,
		PostalCode: cfg.Company.PostalCode,
		Country:    cfg.Company.Country,
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, mediaRepo, fileStorage, log)
	transferUC := usecase.NewProductTransferUseCase(productRepo, categoryRepo, mediaRepo, fileStorage)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, appCache, time.Duration(cfg.Redis.TTLSeconds)*time.Second, log)
	mediaUC := usecase.NewMediaUseCase(mediaRepo, productRepo, categoryRepo, fileStorage, imaging.NewProcessor(), cfg.Supabase.DefaultBucket, log)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, txRunner)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)

	itemUC := inventory.NewItemUseCase(inventoryRepo, productRepo, warehouseRepo, movementRepo, adjustmentRepo)
	reorderUC := inventory.NewReorderUseCase(inventoryRepo)
	alertUC := inventory.NewAlertUseCase(alertRepo, inventoryRepo, log)
	adjustmentUC := inventory.NewAdjustmentUseCase(txRunner, adjustmentRepo, productRepo, inventoryRepo, log)
	movementUC := inventory.NewMovementUseCase(txRunner, movementRepo, productRepo, recorder, log)

	orderUC := orders.NewOrderUseCase(txRunner, orderRepo, productRepo, recorder, log)
	fulfillmentUC := orders.NewFulfillmentUseCase(orderRepo, fulfillmentRepo, trackingRepo, infrapdf.NewMarotoPDFGenerator(), shipFrom, log)
	returnUC := orders.NewReturnUseCase(returnRepo, orderRepo, movementUC, log)

	dashboardUC := appanalytics.NewDashboardUseCase(dashboardRepo, appCache, log)

	// Tareas programadas
	var jobs *scheduler.Scheduler
	if cfg.Jobs.Enabled {
		jobs = scheduler.New(recorder, log, time.Minute)
		err := jobs.Add("low_stock_scan", cfg.Jobs.LowStockCron, func(ctx context.Context) error {
			res, err := alertUC.Scan(ctx)
			if err != nil {
				return err
			}
			if res.Opened > 0 || res.Resolved > 0 {
				dashboardUC.Invalidate(ctx)
			}
			return nil
		})
		if err != nil {
			log.Fatal().Err(err).Str("spec", cfg.Jobs.LowStockCron).Msg("programar escaneo de stock bajo")
		}
		jobs.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(httpRouter.Metrics())
	app.Use(httpRouter.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Handler())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PMS API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName:   cfg.App.Name,
		DB:            pool,
		AuthUC:        authUC,
		UserUC:        userUC,
		ProductUC:     productUC,
		TransferUC:    transferUC,
		CategoryUC:    categoryUC,
		WarehouseUC:   warehouseUC,
		SupplierUC:    supplierUC,
		CustomerUC:    customerUC,
		MediaUC:       mediaUC,
		ItemUC:        itemUC,
		ReorderUC:     reorderUC,
		AlertUC:       alertUC,
		AdjustmentUC:  adjustmentUC,
		MovementUC:    movementUC,
		OrderUC:       orderUC,
		FulfillmentUC: fulfillmentUC,
		ReturnUC:      returnUC,
		DashboardUC:   dashboardUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if jobs != nil {
		jobs.Stop(shutdownCtx)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
