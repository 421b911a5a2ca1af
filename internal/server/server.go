package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"datarw/internal/config"
	"datarw/internal/middleware"
	"datarw/internal/model"
)

// Server represents the HTTP server
type Server struct {
	cfg      *config.Config
	router   *gin.Engine
	mongo    *mongo.Client
	services *Services
	log      zerolog.Logger
}

// New creates a new server instance
func New(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	mongoClient, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	db := mongoClient.Database(cfg.Mongo.Database)

	repos := InitRepositories(cfg, db)
	services := InitServices(cfg, repos, log)
	handlers := InitHandlers(cfg, services, mongoClient, log)

	if err := PopulateInitialData(cfg, repos, log); err != nil {
		return nil, fmt.Errorf("failed to populate initial data: %w", err)
	}

	router := setupRouter(cfg, handlers, services, log)

	return &Server{
		cfg:      cfg,
		router:   router,
		mongo:    mongoClient,
		services: services,
		log:      log,
	}, nil
}

func Connect(cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// Close disconnects MongoDB client
func (s *Server) Close() error {
	if s.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.mongo.Disconnect(ctx)
	}
	return nil
}

// Run starts the server
func (s *Server) Run() error {
	s.startUsageMonitor()
	s.log.Info().Str("address", s.cfg.Server.Address()).Msg("server listening")
	return s.router.Run(s.cfg.Server.Address())
}

// startUsageMonitor periodically reconciles each org's stored usage
// counters with live collection counts.
func (s *Server) startUsageMonitor() {
	if !s.cfg.UsageMonitor.Enabled {
		return
	}
	intervalSec := s.cfg.UsageMonitor.IntervalSec
	if intervalSec <= 0 {
		intervalSec = 300
	}
	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	go func() {
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			orgs, err := s.services.Org.All(ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("usage monitor: failed to list orgs")
				cancel()
				continue
			}
			for _, org := range orgs {
				if err := s.services.Org.RecountUsage(ctx, org.ID); err != nil {
					s.log.Error().Err(err).Str("org", org.ID.Hex()).Msg("usage monitor: recount failed")
				}
			}
			cancel()
		}
	}()
}

func setupRouter(cfg *config.Config, h *Handlers, s *Services, log zerolog.Logger) *gin.Engine {
	if !cfg.Server.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.SetTrustedProxies(nil)

	r.GET("/health", h.Health.Check)

	api := r.Group("/api")

	// Public routes (no auth)
	api.POST("/register", h.Auth.Register)
	api.POST("/payments/webhook", h.Payment.Webhook)

	// Everything below requires a valid org API key
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(s.APIKey, s.User))

	read := middleware.RequirePermission(model.PermReadRecords)
	write := middleware.RequirePermission(model.PermWriteRecords)

	// Organization
	org := protected.Group("/orgs")
	{
		org.GET("/me", read, h.Org.Me)
		org.PATCH("/me", middleware.RequirePermission(model.PermManageUsers), h.Org.Rename)
		org.GET("/me/usage", read, h.Org.Usage)
	}

	// API keys
	apiKeys := protected.Group("/apikeys")
	apiKeys.Use(middleware.RequirePermission(model.PermManageKeys))
	{
		apiKeys.GET("", h.APIKey.List)
		apiKeys.POST("", h.APIKey.Generate)
		apiKeys.DELETE("/:id", h.APIKey.Revoke)
		apiKeys.PATCH("/:id/active", h.APIKey.SetActive)
		apiKeys.PATCH("/:id/touch", h.APIKey.Touch)
	}

	// Users
	users := protected.Group("/users")
	{
		users.GET("", read, h.User.List)
		users.GET("/:id", read, h.User.Get)
		manage := middleware.RequirePermission(model.PermManageUsers)
		users.POST("", manage, h.User.Create)
		users.PATCH("/:id", manage, h.User.Update)
		users.PATCH("/:id/role", manage, h.User.UpdateRole)
		users.DELETE("/:id", manage, h.User.Deactivate)
	}

	// Projects and nested project-scoped resources
	projects := protected.Group("/projects")
	{
		projects.GET("", read, h.Project.List)
		projects.POST("", write, h.Project.Create)
		projects.GET("/:id", read, h.Project.Get)
		projects.PATCH("/:id", write, h.Project.Update)
		projects.DELETE("/:id", write, h.Project.Delete)
		projects.GET("/:id/dashboard", read, h.Project.Dashboard)

		projects.GET("/:id/activities", read, h.Activity.List)
		projects.POST("/:id/activities", write, h.Activity.Create)

		projects.GET("/:id/kpis", read, h.KPI.List)
		projects.POST("/:id/kpis", write, h.KPI.Create)
		projects.GET("/:id/kpis/summary", read, h.KPI.Summary)

		projects.GET("/:id/beneficiaries", read, h.Beneficiary.List)
		projects.POST("/:id/beneficiaries", write, h.Beneficiary.Create)
		projects.GET("/:id/beneficiaries/demographics", read, h.Beneficiary.Demographics)

		projects.GET("/:id/budget-items", read, h.Finance.ListBudgetItems)
		projects.POST("/:id/budget-items", write, h.Finance.CreateBudgetItem)
		projects.GET("/:id/expenses", read, h.Finance.ListExpenses)
		projects.GET("/:id/finance/summary", read, h.Finance.Summary)
		projects.GET("/:id/finance/forecast", read, h.Finance.Forecast)
	}

	// Activities
	activities := protected.Group("/activities")
	{
		activities.GET("/:id", read, h.Activity.Get)
		activities.PATCH("/:id", write, h.Activity.Update)
		activities.DELETE("/:id", write, h.Activity.Delete)
		activities.GET("/:id/variance", read, h.Activity.Variance)
	}

	// KPIs
	kpis := protected.Group("/kpis")
	{
		kpis.GET("/:id", read, h.KPI.Get)
		kpis.PATCH("/:id", write, h.KPI.Update)
		kpis.DELETE("/:id", write, h.KPI.Delete)
		kpis.POST("/:id/measurements", write, h.KPI.AddMeasurement)
	}

	// Beneficiaries
	beneficiaries := protected.Group("/beneficiaries")
	{
		beneficiaries.GET("/:id", read, h.Beneficiary.Get)
		beneficiaries.PUT("/:id", write, h.Beneficiary.Update)
		beneficiaries.DELETE("/:id", write, h.Beneficiary.Delete)
	}

	// Finance
	budgetItems := protected.Group("/budget-items")
	{
		budgetItems.DELETE("/:id", write, h.Finance.DeleteBudgetItem)
		budgetItems.POST("/:id/expenses", write, h.Finance.RecordExpense)
	}
	protected.DELETE("/expenses/:id", write, h.Finance.DeleteExpense)

	// Surveys
	surveys := protected.Group("/surveys")
	{
		surveys.GET("", read, h.Survey.List)
		surveys.POST("", write, h.Survey.Create)
		surveys.POST("/generate", write, h.Survey.Generate)
		surveys.GET("/:id", read, h.Survey.Get)
		surveys.PUT("/:id", write, h.Survey.Update)
		surveys.DELETE("/:id", write, h.Survey.Delete)
		surveys.POST("/:id/publish", write, h.Survey.Publish)
		surveys.POST("/:id/close", write, h.Survey.Close)
		surveys.POST("/:id/translate", write, h.Survey.Translate)
		surveys.POST("/:id/responses", write, h.Survey.SubmitResponse)
		surveys.GET("/:id/responses", read, h.Survey.ListResponses)
		surveys.GET("/:id/stats", read, h.Survey.Stats)
	}

	// Payments
	payments := protected.Group("/payments")
	payments.Use(middleware.RequirePermission(model.PermManageBilling))
	{
		payments.POST("/checkout", h.Payment.Checkout)
		payments.GET("", h.Payment.List)
		payments.GET("/:id", h.Payment.Get)
	}

	// Event stream
	protected.GET("/events/stream", read, h.Events.Stream)

	return r
}
