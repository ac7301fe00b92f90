package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopstack/commerce-api/internal/api/handler"
	"github.com/shopstack/commerce-api/internal/api/middleware"
	"github.com/shopstack/commerce-api/internal/core/domain"
	"github.com/shopstack/commerce-api/internal/core/ports"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	Logger    zerolog.Logger
	JWTSecret string

	Mongo *mongo.Database
	Redis *redis.Client

	Auth     ports.AuthService
	Resolver ports.IdentityResolver
	Users    ports.UserService
	Products ports.ProductService
	Orders   ports.OrderService
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("commerce"))

	requireAuth := middleware.Auth(deps.JWTSecret, deps.Resolver)
	optionalAuth := middleware.OptionalAuth(deps.JWTSecret, deps.Resolver)
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	productHandler := handler.NewProductHandler(deps.Products)
	orderHandler := handler.NewOrderHandler(deps.Orders)

	// --- Auth ---
	e.POST("/auth/login", authHandler.Login)

	// --- Users ---
	users := e.Group("/users")
	users.POST("", userHandler.Create, optionalAuth)
	users.GET("", userHandler.List, requireAuth, requireAdmin)
	users.PUT("/:id", userHandler.Update, requireAuth, requireAdmin)
	users.DELETE("/:id", userHandler.Delete, requireAuth, requireAdmin)

	// --- Products ---
	products := e.Group("/products", requireAuth)
	products.GET("", productHandler.List)
	products.POST("", productHandler.Create, requireAdmin)
	products.PUT("/:id", productHandler.Update, requireAdmin)
	products.DELETE("/:id", productHandler.Delete, requireAdmin)

	// --- Orders ---
	orders := e.Group("/orders", requireAuth)
	orders.POST("", orderHandler.Create)
	orders.GET("/my-orders", orderHandler.MyOrders)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
