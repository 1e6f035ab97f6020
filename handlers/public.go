package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-delivery-backend/services"
	"food-delivery-backend/statemachine"
)

// Root confirms the API is up.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Food Delivery API Running"})
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// TestDatabase reports on the database connection.
func (h *Handler) TestDatabase(c *gin.Context) {
	c.JSON(http.StatusOK, h.diag.Report(c.Request.Context()))
}

type RestaurantListQuery struct {
	Q         string  `form:"q"`
	Cuisine   string  `form:"cuisine"`
	MinRating float64 `form:"min_rating" binding:"gte=0,lte=5"`
}

// ListRestaurants supports ?q= (name search), ?cuisine= and ?min_rating=.
func (h *Handler) ListRestaurants(c *gin.Context) {
	var q RestaurantListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	restaurants, err := h.catalog.ListRestaurants(c.Request.Context(), services.RestaurantQuery{
		Q:         q.Q,
		Cuisine:   q.Cuisine,
		MinRating: q.MinRating,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

// GetRestaurant returns a single restaurant.
func (h *Handler) GetRestaurant(c *gin.Context) {
	r, err := h.catalog.GetRestaurant(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// GetMenu returns the available menu items of a restaurant.
func (h *Handler) GetMenu(c *gin.Context) {
	items, err := h.catalog.Menu(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetStateMachineInfo describes the order lifecycle.
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"initial":         statemachine.Initial,
		"flow":            statemachine.Flow(),
		"transitions":     statemachine.Transitions(),
		"terminal_states": statemachine.TerminalStates(),
	})
}
