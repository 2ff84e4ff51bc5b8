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

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/estoque-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/estoque-api/internal/interfaces/http"
	"github.com/jhoicas/estoque-api/internal/scheduler"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:        cfg.App.Env,
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Almacén transaccional: PostgreSQL o memoria (demo/local)
	var txRunner inventory.TxRunner
	switch cfg.App.StoreDriver {
	case "memory":
		log.Warn().Msg("usando almacén en memoria: los datos se pierden al reiniciar")
		txRunner = memory.NewStore()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.ApplySchema(ctx, pool, cfg.DB.SchemaPath); err != nil {
				log.Fatal().Err(err).Str("path", cfg.DB.SchemaPath).Msg("aplicar esquema")
			}
			log.Info().Str("path", cfg.DB.SchemaPath).Msg("esquema aplicado")
		}
		txRunner = postgres.NewTxRunner(pool)
	}

	// Caché de saldos (opcional)
	var cache inventory.StockCache = inventory.NoopStockCache{}
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, caché desactivada")
		} else {
			defer client.Close()
			cache = infraredis.NewStockCache(client, cfg.Redis.TTL)
			log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de stock en Redis")
		}
	}

	statusUC := inventory.NewStatusUseCase(txRunner, log)
	lotUC := inventory.NewLotUseCase(txRunner, cache, log)
	movementUC := inventory.NewMovementUseCase(txRunner, cache, statusUC, log)
	reconcileUC := inventory.NewReconcileUseCase(txRunner, log, cfg.Reconcile.PageSize)

	// Auditoría periódica de saldos
	var sched *scheduler.Scheduler
	if cfg.Reconcile.Enabled {
		sched = scheduler.New(reconcileUC, cfg.Reconcile.Cron, cfg.Reconcile.Timeout, log)
		if err := sched.Start(); err != nil {
			log.Fatal().Err(err).Str("cron", cfg.Reconcile.Cron).Msg("programar auditoría")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Estoque API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Lots:      lotUC,
		Movements: movementUC,
		Reconcile: reconcileUC,
		JWTSecret: cfg.JWT.Secret,
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

	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
