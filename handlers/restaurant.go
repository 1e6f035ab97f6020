package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-delivery-backend/models"
)

type CreateRestaurantRequest struct {
	Name            string   `json:"name" binding:"required"`
	ImageURL        string   `json:"image_url"`
	Cuisine         []string `json:"cuisine"`
	Rating          *float64 `json:"rating"`
	DeliveryTimeMin *int     `json:"delivery_time_min"`
	DeliveryTimeMax *int     `json:"delivery_time_max"`
	Description     string   `json:"description"`
	Address         string   `json:"address"`
}

// CreateRestaurant adds a restaurant; omitted rating and delivery times get
// their defaults.
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	minTime := valueOr(req.DeliveryTimeMin, models.DefaultDeliveryTimeMin)
	// The default window never ends before a supplied start.
	maxTime := valueOr(req.DeliveryTimeMax, max(models.DefaultDeliveryTimeMax, minTime))

	r := models.Restaurant{
		Name:            req.Name,
		ImageURL:        req.ImageURL,
		Cuisine:         req.Cuisine,
		Rating:          valueOr(req.Rating, models.DefaultRating),
		DeliveryTimeMin: minTime,
		DeliveryTimeMax: maxTime,
		Description:     req.Description,
		Address:         req.Address,
	}
	created, err := h.catalog.CreateRestaurant(c.Request.Context(), r)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

type MenuItemRequest struct {
	RestaurantID string   `json:"restaurant_id" binding:"required"`
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Price        *float64 `json:"price" binding:"required"`
	ImageURL     string   `json:"image_url"`
	IsAvailable  *bool    `json:"is_available"`
	Tags         []string `json:"tags"`
}

// AddMenuItem creates a menu item. Items are available unless stated
// otherwise.
func (h *Handler) AddMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.catalog.AddMenuItem(c.Request.Context(), models.MenuItem{
		RestaurantID: models.RestaurantID(req.RestaurantID),
		Name:         req.Name,
		Description:  req.Description,
		Price:        *req.Price,
		ImageURL:     req.ImageURL,
		IsAvailable:  valueOr(req.IsAvailable, true),
		Tags:         req.Tags,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": item.ID})
}

type UpdateMenuItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
	IsAvailable *bool    `json:"is_available"`
}

// UpdateMenuItem changes only the fields present in the body.
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	err := h.catalog.UpdateMenuItem(c.Request.Context(), c.Param("id"), models.MenuItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
