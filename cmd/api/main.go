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
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	appanalytics "github.com/jhoicas/consignaciones-api/internal/application/analytics"
	"github.com/jhoicas/consignaciones-api/internal/application/consignment"
	"github.com/jhoicas/consignaciones-api/internal/application/intake"
	appinventory "github.com/jhoicas/consignaciones-api/internal/application/inventory"
	"github.com/jhoicas/consignaciones-api/internal/application/ports"
	"github.com/jhoicas/consignaciones-api/internal/application/settlement"
	"github.com/jhoicas/consignaciones-api/internal/application/units"
	"github.com/jhoicas/consignaciones-api/internal/application/usecase"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
	"github.com/jhoicas/consignaciones-api/internal/infrastructure/cache"
	"github.com/jhoicas/consignaciones-api/internal/infrastructure/memory"
	"github.com/jhoicas/consignaciones-api/internal/infrastructure/metrics"
	"github.com/jhoicas/consignaciones-api/internal/infrastructure/notify"
	"github.com/jhoicas/consignaciones-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/consignaciones-api/internal/interfaces/http"
	"github.com/jhoicas/consignaciones-api/pkg/config"
	"github.com/jhoicas/consignaciones-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
	zl := log.Zerolog()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Str("notify", cfg.Notify.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: PostgreSQL (SERIALIZABLE + reintentos) o memoria para desarrollo.
	var (
		txRunner      ports.TxRunner
		repos         repository.Repositories
		analyticsRepo repository.AnalyticsRepository
	)
	switch cfg.Storage.Driver {
	case "memory":
		store := memory.NewStore()
		txRunner, repos, analyticsRepo = store, store.Repositories(), store.Analytics()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		txRunner = postgres.NewTxRunner(pool, cfg.DB.MaxTxRetries, zl)
		repos = postgres.Repositories(pool)
		analyticsRepo = postgres.NewAnalyticsRepository(pool)
	}

	// Redis: caché del tablero. Si no responde se sigue sin caché.
	var dashboardCache ports.Cache
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewClient(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, tablero sin caché")
		} else {
			defer redisClient.Close()
			dashboardCache = cache.NewRedisCache(redisClient)
		}
	}

	m := metrics.New()

	// Alertas de stock bajo: siempre al log; con asynq además se encolan para el worker.
	notifiers := notify.Multi{notify.NewLogNotifier(zl)}
	if cfg.Notify.Driver == "asynq" {
		queue := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr})
		defer queue.Close()
		notifiers = append(notifiers, notify.NewAsynqNotifier(queue))
	}
	lowStock := m.CountingNotifier(notifiers)

	stockLedger := appinventory.NewLedger(txRunner, repos, lowStock, zl)
	registry := units.NewRegistry(txRunner, repos, stockLedger, units.Config{
		DefaultWarrantyMonths: cfg.Inventory.DefaultWarrantyMonths,
	}, zl)
	processor := intake.NewProcessor(txRunner, repos, stockLedger, cfg.Inventory.DefaultWarrantyMonths, zl)
	workflow := consignment.NewWorkflow(txRunner, repos, stockLedger, consignment.Config{
		AllowCreditBalance: cfg.Settlement.AllowCreditBalance,
	}, zl)
	settlementLedger := settlement.NewLedger(txRunner, repos, workflow, settlement.Config{
		DefaultCurrency:    cfg.Settlement.DefaultCurrency,
		AllowCreditBalance: cfg.Settlement.AllowCreditBalance,
	}, zl)
	balanceUC := appanalytics.NewBalanceUseCase(repos, analyticsRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, dashboardCache, cfg.Redis.CacheTTL, zl)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Consignaciones API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})
	app.Get("/metrics", m.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(repos.Products),
		ConsigneeUC: usecase.NewConsigneeUseCase(repos.Consignees),
		CustomerUC:  usecase.NewCustomerUseCase(repos.Customers),
		StockLedger: stockLedger,
		Units:       registry,
		Intake:      processor,
		Workflow:    workflow,
		Settlement:  settlementLedger,
		Balance:     balanceUC,
		Dashboard:   dashboardUC,
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

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
