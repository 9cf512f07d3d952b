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
	"github.com/shopspring/decimal"

	appalloc "github.com/jhoicas/mrp-api/internal/application/allocation"
	appcosting "github.com/jhoicas/mrp-api/internal/application/costing"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	infrapdf "github.com/jhoicas/mrp-api/internal/infrastructure/pdf"
	"github.com/jhoicas/mrp-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/mrp-api/internal/interfaces/http"
	"github.com/jhoicas/mrp-api/pkg/cache"
	"github.com/jhoicas/mrp-api/pkg/config"
	"github.com/jhoicas/mrp-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("policy", cfg.Engine.DefaultPolicy).
		Msg("iniciando motor de asignación y costos")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	lotRepo := postgres.NewLotRepository(pool)
	resRepo := postgres.NewReservationRepository(pool)
	consRepo := postgres.NewConsumptionRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	locker := postgres.NewMaterialLocker(pool)

	allocateUC := appalloc.NewAllocateUseCase(lotRepo, resRepo, locker)
	issueUC := appalloc.NewIssueUseCase(lotRepo, resRepo, consRepo, locker)

	aggregator := appcosting.NewCostAggregator(taskRepo, resRepo, consRepo)
	cascade := appcosting.NewCascadePropagator(orderRepo)

	epsilon, err := decimal.NewFromString(cfg.Engine.PriceEpsilon)
	if err != nil {
		log.Fatal().Err(err).Str("epsilon", cfg.Engine.PriceEpsilon).Msg("epsilon de precios inválido")
	}
	lotCache := cache.New[string, entity.Lot](time.Duration(cfg.Engine.LotCacheTTLSeconds) * time.Second)
	reconciler := appcosting.NewPriceReconciler(lotRepo, resRepo, consRepo, aggregator, cascade, lotCache, epsilon)

	pdfGenerator := infrapdf.NewMarotoCostSheetGenerator()
	costSheetUC := appcosting.NewCostSheetUseCase(taskRepo, resRepo, consRepo, itemRepo, aggregator, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "MRP API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AllocateUC:    allocateUC,
		IssueUC:       issueUC,
		Aggregator:    aggregator,
		Reconciler:    reconciler,
		CostSheetUC:   costSheetUC,
		DefaultPolicy: cfg.Engine.DefaultPolicy,
		JWTSecret:     cfg.JWT.Secret,
	})

	httpLog := log.Component("http")
	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			httpLog.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
