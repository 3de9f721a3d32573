package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/mobidic-dev/tripsettle/internal/auth"
	"github.com/mobidic-dev/tripsettle/internal/config"
	"github.com/mobidic-dev/tripsettle/internal/handler"
	"github.com/mobidic-dev/tripsettle/internal/middleware"
	"github.com/mobidic-dev/tripsettle/internal/service"
	"github.com/mobidic-dev/tripsettle/internal/storage/sqlite"
	"github.com/mobidic-dev/tripsettle/pkg/logging"
)

func main() {
	logging.Setup()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	authHandler := &handler.AuthHandler{Auth: service.NewAuthService(authenticator, jwtManager)}
	roomHandler := &handler.RoomHandler{Rooms: service.NewRoomService(store)}
	expenseHandler := &handler.ExpenseHandler{Expenses: service.NewExpenseService(store)}
	settlementHandler := &handler.SettlementHandler{Settlement: service.NewSettlementService(store)}
	receiptHandler := &handler.ReceiptHandler{}

	app := fiber.New(fiber.Config{AppName: "tripsettle"})
	app.Use(cors.New())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Metrics())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", middleware.MetricsHandler())

	api := app.Group("/api")
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Everything below the auth gate. Fiber matches routes in
	// registration order, so the public auth routes above stay open.
	authed := api.Group("/", middleware.RequireAuth(jwtManager))
	authed.Post("/rooms", roomHandler.Create)
	authed.Get("/rooms", roomHandler.List)
	authed.Post("/rooms/join", roomHandler.Join)
	authed.Get("/rooms/:id", roomHandler.Get)
	authed.Post("/rooms/:id/members", roomHandler.AddMembers)

	authed.Post("/rooms/:id/expenses", expenseHandler.Create)
	authed.Get("/rooms/:id/expenses", expenseHandler.List)
	authed.Delete("/rooms/:id/expenses/:expenseId", expenseHandler.Delete)

	authed.Get("/rooms/:id/settlement", settlementHandler.Get)
	authed.Post("/rooms/:id/settlement/request", settlementHandler.Request)
	authed.Post("/rooms/:id/settlement/resend", settlementHandler.Resend)
	authed.Post("/rooms/:id/settlement/done", settlementHandler.Done)
	authed.Post("/rooms/:id/settlement/request-all", settlementHandler.RequestAll)

	authed.Post("/receipts/parse", receiptHandler.Parse)

	// Shut down cleanly on SIGINT/SIGTERM so the sqlite file closes.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		slog.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	addr := ":" + cfg.Port
	slog.Info("Server starting", "address", addr, "env", cfg.Env)
	if err := app.Listen(addr); err != nil {
		slog.Error("Server failed", "error", err)
	}

	if err := store.Close(); err != nil {
		slog.Error("Failed to close storage", "error", err)
	}
}
