package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/auth"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/forecast"
	appinv "github.com/andyspruebas-jpg/Stock-Pro/internal/application/inventory"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/usecase"
	domaininv "github.com/andyspruebas-jpg/Stock-Pro/internal/domain/inventory"
	infraai "github.com/andyspruebas-jpg/Stock-Pro/internal/infrastructure/ai"
	infracache "github.com/andyspruebas-jpg/Stock-Pro/internal/infrastructure/cache"
	infrapdf "github.com/andyspruebas-jpg/Stock-Pro/internal/infrastructure/pdf"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/infrastructure/postgres"
	httpRouter "github.com/andyspruebas-jpg/Stock-Pro/internal/interfaces/http"
	"github.com/andyspruebas-jpg/Stock-Pro/pkg/config"
	"github.com/andyspruebas-jpg/Stock-Pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	params := domaininv.DefaultParams()
	params.WindowDays = cfg.Rebalance.WindowDays
	params.PredictionWeight = cfg.Rebalance.PredictionWeight
	params.ABC.GlobalForceAAUnits = cfg.Rebalance.GlobalForceAAUnits
	engine := domaininv.NewEngine(params)

	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	snapshotRepo := postgres.NewSnapshotRepository(pool, warehouseRepo, int(params.WindowDays))

	snapshotCache, err := infracache.NewSnapshotCache(ctx, cfg.Redis)
	if err != nil {
		// Sin Redis se sirve igual desde memoria y ERP.
		log.Warn().Err(err).Msg("cache Redis no disponible, se continúa sin cache")
		snapshotCache = infracache.NewNoopSnapshotCache()
	}

	snapshotUC := appinv.NewSnapshotUseCase(snapshotRepo, snapshotCache, params.ABC, cfg.Rebalance.RefreshInterval, log)
	rebalanceUC := appinv.NewRebalanceUseCase(
		engine, snapshotUC,
		forecast.NewHeuristicPredictor(params),
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name),
		log,
	)

	llm, err := infraai.NewLLMService(cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración del proveedor de IA")
	}
	if llm == nil {
		log.Warn().Str("provider", cfg.AI.Provider).Msg("narrativa IA deshabilitada: falta API key")
	}
	narrativeUC := usecase.NewNarrativeUseCase(llm, snapshotUC, params)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.HTTP.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "X-Last-Sync, X-Next-Sync, X-Run-ID, Content-Disposition",
	}))
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Stock Pro API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		WarehouseUC: usecase.NewWarehouseUseCase(warehouseRepo),
		SnapshotUC:  snapshotUC,
		RebalanceUC: rebalanceUC,
		NarrativeUC: narrativeUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	// Primera carga en segundo plano para no demorar el arranque.
	go func() {
		if _, err := snapshotUC.Refresh(ctx); err != nil {
			log.Error().Err(err).Msg("carga inicial del snapshot")
		}
	}()
	snapshotUC.StartAutoRefresh(ctx, cfg.Rebalance.RefreshInterval)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
