package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/seismowatch/faceauth/internal/api/docs"
	"github.com/seismowatch/faceauth/internal/api/handler"
	"github.com/seismowatch/faceauth/internal/api/middleware"
	"github.com/seismowatch/faceauth/internal/chat"
	"github.com/seismowatch/faceauth/internal/service"
	"github.com/seismowatch/faceauth/internal/stats"
	"github.com/seismowatch/faceauth/internal/token"
)

type Dependencies struct {
	AuthService    *service.AuthService
	TokenIssuer    *token.Issuer
	StatsRepo      *stats.Repository
	PredictService handler.PredictService
	DB             *pgxpool.Pool
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "SeismoWatch FaceAuth API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints (no auth required)
	var pinger handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		pinger = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(pinger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// API v1 group
	v1 := r.app.Group("/v1")

	// Only configure application routes if dependencies were provided
	if r.deps != nil {
		ttlSecs := int64(r.deps.TokenIssuer.TTL().Seconds())
		authHandler := handler.NewAuthHandler(r.deps.AuthService, r.deps.TokenIssuer, ttlSecs, r.logger)
		session := middleware.Session(r.deps.TokenIssuer)

		// Auth routes
		v1.Post("/auth/register", authHandler.Register)
		v1.Post("/auth/login", authHandler.Login)
		v1.Get("/auth/me", session, authHandler.Me)

		// User management routes (session required)
		v1.Get("/users", session, authHandler.ListUsers)
		v1.Delete("/users/:username", session, authHandler.DeleteUser)

		// Dashboard statistics
		statsHandler := handler.NewStatsHandler(r.deps.StatsRepo, r.logger)
		v1.Get("/stats/summary", statsHandler.Summary)
		v1.Get("/stats/yearly/:year", statsHandler.Yearly)
		v1.Get("/stats/countries/:code", statsHandler.Country)

		// Risk predictions; retrain is privileged
		if r.deps.PredictService != nil {
			predictHandler := handler.NewPredictHandler(r.deps.PredictService, r.logger)
			v1.Get("/predictions/:region", predictHandler.Predict)
			v1.Post("/predictions/:region/retrain", session, predictHandler.Retrain)
		}

		// Dashboard assistant with persisted history
		responder := chat.NewResponder(chat.DefaultRules(), "Sorry, I did not understand that. Ask about statistics, predictions, or logging in.")
		var history handler.ChatHistory
		if r.deps.DB != nil {
			history = chat.NewHistoryStore(r.deps.DB)
		}
		chatHandler := handler.NewChatHandler(responder, history, r.logger)
		v1.Post("/chat", chatHandler.Chat)
		if history != nil {
			v1.Get("/chat/history", chatHandler.History)
		}
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
