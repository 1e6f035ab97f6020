package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminListOrders returns every order, optionally narrowed by ?restaurant_id=.
func (h *Handler) AdminListOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), c.Query("restaurant_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Seed loads the sample catalog. Safe to call repeatedly.
func (h *Handler) Seed(c *gin.Context) {
	res, err := h.catalog.Seed(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"restaurants": res.Restaurants,
		"menu_items":  res.MenuItems,
	})
}
