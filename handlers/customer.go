package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-delivery-backend/models"
	"food-delivery-backend/services"
)

type OrderItemRequest struct {
	ItemID   string  `json:"item_id" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price"`
	Quantity *int    `json:"quantity"`
}

// PlaceOrderRequest has no status fields: new orders always start confirmed
// and paid.
type PlaceOrderRequest struct {
	UserID          string             `json:"user_id" binding:"required"`
	RestaurantID    string             `json:"restaurant_id" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"dive"`
	DeliveryAddress string             `json:"delivery_address"`
	Notes           string             `json:"notes"`
	PaymentMethod   string             `json:"payment_method"`
}

type PlaceOrderResponse struct {
	OrderID models.OrderID     `json:"order_id"`
	Status  models.OrderStatus `json:"status"`
	Total   float64            `json:"total"`
}

// PlaceOrder prices and stores an order.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		qty := 1
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		items = append(items, models.OrderItem{
			ItemID:   models.MenuItemID(it.ItemID),
			Name:     it.Name,
			Price:    it.Price,
			Quantity: qty,
		})
	}

	o, err := h.orders.Place(c.Request.Context(), services.PlaceOrderInput{
		UserID:          req.UserID,
		RestaurantID:    req.RestaurantID,
		Items:           items,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PlaceOrderResponse{OrderID: o.ID, Status: o.Status, Total: o.Total})
}

// GetOrderDetail returns one order.
func (h *Handler) GetOrderDetail(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// GetOrderStatus returns only the status of an order.
func (h *Handler) GetOrderStatus(c *gin.Context) {
	st, err := h.orders.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": st})
}

// AdvanceOrder moves an order one step through its lifecycle.
func (h *Handler) AdvanceOrder(c *gin.Context) {
	st, err := h.orders.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": st})
}
