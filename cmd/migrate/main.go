// migrate aplica el esquema embebido y siembra los datos mínimos.
//
// Uso: go run ./cmd/migrate [up|down|version|seed]
//
// seed crea la bodega por defecto (main_warehouse) si no existe y, si
// SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD están definidos, un usuario admin.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/pms-api/internal/application/auth"
	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/usecase"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pms-api/pkg/config"
	"github.com/jhoicas/pms-api/pkg/logger"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	if cmd == "seed" {
		if err := seed(cfg, log); err != nil {
			log.Fatal().Err(err).Msg("seed")
		}
		return
	}

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		var (
			v     uint
			dirty bool
		)
		v, dirty, err = m.Version()
		if err == nil {
			log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión del esquema")
			return
		}
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q (up|down|version|seed)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("migración fallida")
	}
	log.Info().Str("cmd", cmd).Msg("migración aplicada")
}

func seed(cfg *config.Config, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	warehouseRepo := postgres.NewWarehouseRepository(pool)
	def, err := warehouseRepo.GetDefault(ctx)
	if err != nil {
		return err
	}
	if def == nil {
		warehouses := usecase.NewWarehouseUseCase(warehouseRepo, postgres.NewTxRunner(pool))
		w, err := warehouses.Create(ctx, dto.CreateWarehouseRequest{
			Name:         "Main Warehouse",
			Code:         entity.DefaultLocationID,
			AddressLine1: cfg.Company.Address,
			City:         cfg.Company.City,
			State:        cfg.Company.State,
			PostalCode:   cfg.Company.PostalCode,
			Country:      cfg.Company.Country,
			IsDefault:    true,
		})
		if err != nil {
			return fmt.Errorf("crear bodega por defecto: %w", err)
		}
		log.Info().Str("id", w.ID).Msg("bodega por defecto creada")
	}

	email, password := os.Getenv("SEED_ADMIN_EMAIL"), os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	u, err := authUC.RegisterUser(ctx, dto.RegisterRequest{Email: email, Password: password, Name: "Administrator", Role: entity.RoleAdmin})
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		log.Info().Str("email", email).Msg("admin ya existe")
		return nil
	}
	if err != nil {
		return fmt.Errorf("crear admin: %w", err)
	}
	log.Info().Str("id", u.ID).Str("email", u.Email).Msg("admin creado")
	return nil
}
