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

	"github.com/jhoicas/happyshop-api/internal/application/auth"
	"github.com/jhoicas/happyshop-api/internal/application/checkout"
	"github.com/jhoicas/happyshop-api/internal/infrastructure/cache"
	"github.com/jhoicas/happyshop-api/internal/infrastructure/metrics"
	"github.com/jhoicas/happyshop-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/happyshop-api/internal/infrastructure/pdf"
	"github.com/jhoicas/happyshop-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/happyshop-api/internal/interfaces/http"
	"github.com/jhoicas/happyshop-api/pkg/config"
	"github.com/jhoicas/happyshop-api/pkg/logger"
	"github.com/jhoicas/happyshop-api/pkg/password"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	accountRepo := postgres.NewAccountRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	m := metrics.New()

	sessionOpts := []auth.Option{auth.WithLoginObserver(m)}
	if cfg.Redis.Enabled() {
		redisClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis no disponible, el bloqueo de login queda inactivo hasta que responda")
		}
		throttle := cache.NewLoginThrottle(redisClient, cfg.Auth.MaxFailedLogins, time.Duration(cfg.Auth.LockoutMinutes)*time.Minute)
		sessionOpts = append(sessionOpts, auth.WithThrottle(throttle))
	}
	sessions := auth.NewSessionManager(accountRepo, hasher, log, sessionOpts...)

	authUC := auth.NewAuthUseCase(sessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	orchestrator := checkout.NewOrchestrator(
		transactionRepo, accountRepo, sessions, notify.NewLogNotifier(log), log,
		checkout.WithObserver(m),
		checkout.WithLoyaltyRate(cfg.Shop.LoyaltyPointsPerUnit),
	)
	paymentUC := checkout.NewPaymentUseCase(orchestrator, transactionRepo, infrapdf.NewMarotoReceiptGenerator(cfg.App.Name))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "HappyShop API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		PaymentUC:      paymentUC,
		Sessions:       sessions,
		MetricsHandler: m.Handler(),
		JWTSecret:      cfg.JWT.Secret,
		ServiceName:    cfg.App.Name,
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
