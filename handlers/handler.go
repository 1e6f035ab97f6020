package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"food-delivery-backend/apperrors"
	"food-delivery-backend/models"
	"food-delivery-backend/services"
)

// AuthService creates accounts and sessions.
type AuthService interface {
	Signup(ctx context.Context, in services.SignupInput) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
}

// CatalogService reads and writes restaurants and menus.
type CatalogService interface {
	ListRestaurants(ctx context.Context, q services.RestaurantQuery) ([]models.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	Menu(ctx context.Context, restaurantID string) ([]models.MenuItem, error)
	CreateRestaurant(ctx context.Context, r models.Restaurant) (*models.Restaurant, error)
	AddMenuItem(ctx context.Context, m models.MenuItem) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id string, p models.MenuItemPatch) error
	Seed(ctx context.Context) (services.SeedResult, error)
}

// OrderService places orders and advances their status.
type OrderService interface {
	Place(ctx context.Context, in services.PlaceOrderInput) (*models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	Status(ctx context.Context, id string) (models.OrderStatus, error)
	Advance(ctx context.Context, id string) (models.OrderStatus, error)
	List(ctx context.Context, restaurantID string) ([]models.Order, error)
}

// DiagnosticsService reports on the database connection.
type DiagnosticsService interface {
	Report(ctx context.Context) services.Report
}

// Handler serves the HTTP API.
type Handler struct {
	auth    AuthService
	catalog CatalogService
	orders  OrderService
	diag    DiagnosticsService
	log     *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(auth AuthService, catalog CatalogService, orders OrderService, diag DiagnosticsService, log *zap.Logger) *Handler {
	return &Handler{
		auth:    auth,
		catalog: catalog,
		orders:  orders,
		diag:    diag,
		log:     log,
	}
}

// respondError maps a service error to a status code and an error body.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": verr.Fields})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		h.log.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bindError rejects a malformed request payload.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
