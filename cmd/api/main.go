package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jhoicas/Requisiciones-api/docs"
	"github.com/jhoicas/Requisiciones-api/internal/application/auth"
	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/application/ports"
	"github.com/jhoicas/Requisiciones-api/internal/application/report"
	"github.com/jhoicas/Requisiciones-api/internal/application/requisition"
	"github.com/jhoicas/Requisiciones-api/internal/application/usecase"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/kafka"
	infrapdf "github.com/jhoicas/Requisiciones-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/store"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/xmlexport"
	httpRouter "github.com/jhoicas/Requisiciones-api/internal/interfaces/http"
	"github.com/jhoicas/Requisiciones-api/pkg/config"
	"github.com/jhoicas/Requisiciones-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	backend, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer backend.Close()

	var publisher ports.EventPublisher = ports.NopPublisher{}
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publicación de resoluciones en Kafka")
	}

	approvalsLog := log.Component("approvals")
	ledger := inventory.NewLedger()

	authUC := auth.NewAuthUseCase(backend.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	// En memoria no hay seed previo posible: el admin se crea al arrancar.
	if cfg.Admin.Password != "" {
		created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("administrador inicial")
		}
		log.Info().Str("email", cfg.Admin.Email).Bool("created", created).Msg("administrador inicial listo")
	}

	userUC := usecase.NewUserUseCase(backend.Users)
	itemUC := usecase.NewItemUseCase(backend.TxRunner, ledger, backend.Items)
	registerMovementUC := inventory.NewRegisterMovementUseCase(backend.TxRunner, ledger, backend.Movements)
	replenishmentUC := inventory.NewReplenishmentUseCase(backend.Items)
	packageUC := requisition.NewPackageUseCase(backend.TxRunner, ledger, backend.Packages, backend.Requisitions, publisher, approvalsLog)
	requisitionUC := requisition.NewRequisitionUseCase(backend.TxRunner, ledger, backend.Requisitions, publisher, approvalsLog)

	reports := report.NewService(report.Deps{
		TxRunner:     backend.TxRunner,
		Ledger:       ledger,
		Items:        backend.Items,
		Movements:    backend.Movements,
		Packages:     backend.Packages,
		Requisitions: backend.Requisitions,
		PDF:          infrapdf.NewStockReportGenerator(cfg.App.Name),
		Sheets:       spreadsheet.NewCodec(),
		XML:          xmlexport.NewEncoder(),
		Log:          log.Component("reports"),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    25 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Requisiciones API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": backend.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		UserUC:           userUC,
		ItemUC:           itemUC,
		RegisterMovement: registerMovementUC,
		Replenishment:    replenishmentUC,
		PackageUC:        packageUC,
		RequisitionUC:    requisitionUC,
		Reports:          reports,
		JWTSecret:        cfg.JWT.Secret,
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
