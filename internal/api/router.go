package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/boxwise/inventory/internal/api/handler"
	"github.com/boxwise/inventory/internal/api/middleware"
	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Auth       ports.AuthService
	Users      ports.UserService
	Groups     ports.GroupService
	Locations  ports.LocationService
	Categories ports.CategoryService
	Labels     ports.LabelService
	Items      ports.ItemService
	Transfer   ports.TransferService
	Reminders  ports.ReminderService
	Dashboard  ports.DashboardService
}

// RouterConfig carries everything NewRouter needs.
type RouterConfig struct {
	JWTSecret string
	Logger    zerolog.Logger
	Services  Services
	// Health lists the dependencies checked by /health/ready.
	Health []handler.NamedPinger
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(cfg.Logger))
	e.Use(echomiddleware.CORS())
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if cfg.Registry != nil {
		registerer, gatherer = cfg.Registry, cfg.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "boxwise",
		Registerer: registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(cfg.Health...)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	s := cfg.Services
	authHandler := handler.NewAuthHandler(s.Auth)
	userHandler := handler.NewUserHandler(s.Users)
	groupHandler := handler.NewGroupHandler(s.Groups)
	locationHandler := handler.NewLocationHandler(s.Locations)
	categoryHandler := handler.NewCategoryHandler(s.Categories)
	labelHandler := handler.NewLabelHandler(s.Labels)
	itemHandler := handler.NewItemHandler(s.Items, s.Transfer)
	reminderHandler := handler.NewReminderHandler(s.Reminders)
	dashboardHandler := handler.NewDashboardHandler(s.Dashboard)

	view := middleware.RequirePermission(domain.CanView)
	create := middleware.RequirePermission(domain.CanCreate)
	edit := middleware.RequirePermission(domain.CanEdit)
	remove := middleware.RequirePermission(domain.CanDelete)
	manageUsers := middleware.RequirePermission(domain.CanManageUsers)
	manageSubscription := middleware.RequirePermission(domain.CanManageSubscription)

	// --- Auth routes ---
	public := e.Group("/api/auth")
	public.POST("/register", authHandler.Register)
	public.POST("/join", authHandler.Join)
	public.POST("/login", authHandler.Login)

	api := e.Group("/api", middleware.Auth(cfg.JWTSecret))
	api.GET("/auth/me", authHandler.Me)
	api.PUT("/auth/preferences", authHandler.UpdatePreferences)
	api.PUT("/auth/password", authHandler.ChangePassword)

	// --- Members, group settings, subscription ---
	api.GET("/users", userHandler.List, manageUsers)
	api.POST("/users", userHandler.Create, manageUsers)
	api.PUT("/users/:id", userHandler.Update, manageUsers)
	api.DELETE("/users/:id", userHandler.Delete, manageUsers)

	api.GET("/admin/group", groupHandler.Get, view)
	api.PUT("/admin/group", groupHandler.Update, manageUsers)
	api.POST("/admin/group/invite", groupHandler.RegenerateInvite, manageUsers)

	api.GET("/subscriptions", groupHandler.Subscription, view)
	api.PUT("/subscriptions", groupHandler.ChangePlan, manageSubscription)

	// --- Locations ---
	api.GET("/locations", locationHandler.List, view)
	api.GET("/locations/tree", locationHandler.Tree, view)
	api.GET("/locations/:id", locationHandler.Get, view)
	api.POST("/locations", locationHandler.Create, create)
	api.PUT("/locations/:id", locationHandler.Update, edit)
	api.DELETE("/locations/:id", locationHandler.Delete, remove)

	// --- Categories & labels ---
	api.GET("/categories", categoryHandler.List, view)
	api.GET("/categories/:id", categoryHandler.Get, view)
	api.POST("/categories", categoryHandler.Create, create)
	api.PUT("/categories/:id", categoryHandler.Update, edit)
	api.DELETE("/categories/:id", categoryHandler.Delete, remove)

	api.GET("/labels", labelHandler.List, view)
	api.GET("/labels/:id", labelHandler.Get, view)
	api.POST("/labels", labelHandler.Create, create)
	api.PUT("/labels/:id", labelHandler.Update, edit)
	api.DELETE("/labels/:id", labelHandler.Delete, remove)

	// --- Items ---
	// echo matches static segments before :id.
	api.GET("/items/export", itemHandler.Export, view)
	api.POST("/items/import", itemHandler.Import, create, echomiddleware.BodyLimit(handler.ImportBodyLimit))
	api.POST("/items/move", itemHandler.Move, edit)
	api.GET("/items", itemHandler.List, view)
	api.POST("/items", itemHandler.Create, create)
	api.GET("/items/:id", itemHandler.Get, view)
	api.PUT("/items/:id", itemHandler.Update, edit)
	api.DELETE("/items/:id", itemHandler.Delete, remove)
	api.POST("/items/:id/archive", itemHandler.Archive, edit)
	api.POST("/items/:id/unarchive", itemHandler.Unarchive, edit)
	api.POST("/items/:id/loan", itemHandler.Lend, edit)
	api.POST("/items/:id/return", itemHandler.Return, edit)

	// --- Reminders ---
	api.GET("/reminders", reminderHandler.List, view)
	api.GET("/reminders/:id", reminderHandler.Get, view)
	api.POST("/reminders", reminderHandler.Create, create)
	api.PUT("/reminders/:id", reminderHandler.Update, edit)
	api.DELETE("/reminders/:id", reminderHandler.Delete, remove)
	api.POST("/reminders/:id/complete", reminderHandler.Complete, edit)
	api.POST("/reminders/:id/reopen", reminderHandler.Reopen, edit)

	// --- Dashboard ---
	api.GET("/dashboard", dashboardHandler.Summary, view)

	return e
}
