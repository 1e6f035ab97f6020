package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"food-delivery-backend/handlers"
	"food-delivery-backend/middleware"
)

// Options configures authentication on the route table.
type Options struct {
	Tokens   *middleware.Tokens
	Sessions middleware.SessionChecker
	// AdminAuth puts /admin behind an admin session.
	AdminAuth bool
}

// NewRouter builds the engine with the standard middleware chain and all
// routes.
func NewRouter(lg *zap.Logger, h *handlers.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(lg),
		middleware.Recovery(lg),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:   []string{middleware.RequestIDHeader},
		}),
	)
	SetupRoutes(r, h, opts)
	return r
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	authRequired := middleware.AuthRequired(opts.Tokens, opts.Sessions)

	// ── Public routes ──────────────────────────────────────────────
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/test", h.TestDatabase)

	// Auth
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/me", authRequired, h.Me)

	// Restaurants & menus
	r.GET("/restaurants", h.ListRestaurants)
	r.GET("/restaurants/:id", h.GetRestaurant)
	r.GET("/restaurants/:id/menu", h.GetMenu)

	// ── Orders ─────────────────────────────────────────────────────
	orders := r.Group("/orders")
	{
		orders.POST("", h.PlaceOrder)
		orders.GET("/lifecycle", h.GetStateMachineInfo)
		orders.GET("/:id", h.GetOrderDetail)
		orders.GET("/:id/status", h.GetOrderStatus)
		orders.POST("/:id/advance", h.AdvanceOrder)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/admin")
	if opts.AdminAuth {
		admin.Use(authRequired, middleware.AdminRequired())
	}
	{
		admin.POST("/seed", h.Seed)
		admin.POST("/restaurants", h.CreateRestaurant)
		admin.POST("/menu", h.AddMenuItem)
		admin.PATCH("/menu/:id", h.UpdateMenuItem)
		admin.GET("/orders", h.AdminListOrders)
	}
}
