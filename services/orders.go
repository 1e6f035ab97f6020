package services

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"food-delivery-backend/apperrors"
	"food-delivery-backend/models"
	"food-delivery-backend/pricing"
	"food-delivery-backend/statemachine"
	"food-delivery-backend/store"
)

// advanceAttempts bounds the compare-and-set loop of Advance.
const advanceAttempts = 3

// Orders places orders and moves them through the lifecycle.
type Orders struct {
	gw  store.Gateway
	log *zap.Logger
}

// NewOrders creates an Orders service.
func NewOrders(gw store.Gateway, log *zap.Logger) *Orders {
	return &Orders{gw: gw, log: log}
}

// PlaceOrderInput is a checkout request. Status and payment status are not
// accepted from the caller.
type PlaceOrderInput struct {
	UserID          string
	RestaurantID    string
	Items           []models.OrderItem
	PaymentMethod   models.PaymentMethod
	DeliveryAddress string
	Notes           string
}

// Place prices and stores a new order. Every order starts confirmed and paid.
func (s *Orders) Place(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentCard
	}
	o := &models.Order{
		UserID:          models.UserID(in.UserID),
		RestaurantID:    models.RestaurantID(in.RestaurantID),
		Items:           in.Items,
		Status:          statemachine.Initial,
		PaymentMethod:   method,
		PaymentStatus:   models.PaymentPaid,
		DeliveryAddress: in.DeliveryAddress,
		Notes:           in.Notes,
	}
	pricing.Compute(o.Items).Apply(o)
	if err := o.Validate(); err != nil {
		return nil, err
	}

	id, err := s.gw.Create(ctx, models.OrderCollection, o)
	if err != nil {
		return nil, storeErr(err, "order")
	}
	o.ID = models.OrderID(id)

	s.log.Info("Order placed",
		zap.String("order_id", id),
		zap.String("restaurant_id", in.RestaurantID),
		zap.Float64("total", o.Total),
	)
	return o, nil
}

// Get returns one order.
func (s *Orders) Get(ctx context.Context, id string) (*models.Order, error) {
	oid, err := parseID[models.OrderID]("id", id)
	if err != nil {
		return nil, err
	}
	o, err := store.One[models.Order](ctx, s.gw, models.OrderCollection, store.ByID(string(oid)))
	if err != nil {
		return nil, storeErr(err, "order")
	}
	return o, nil
}

// Status returns the current status of an order.
func (s *Orders) Status(ctx context.Context, id string) (models.OrderStatus, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return current(o), nil
}

// Advance moves an order one step forward and returns the status written.
//
// The write only applies while the stored status is still the one read, so
// concurrent advances each move exactly one step. A call that loses the race
// re-reads and tries again.
func (s *Orders) Advance(ctx context.Context, id string) (models.OrderStatus, error) {
	for attempt := 1; attempt <= advanceAttempts; attempt++ {
		o, err := s.Get(ctx, id)
		if err != nil {
			return "", err
		}
		cur := current(o)
		next := statemachine.Next(cur)

		err = s.gw.UpdateIf(ctx, models.OrderCollection, string(o.ID),
			store.Where().Eq("status", o.Status),
			store.Fields{"status": next},
		)
		switch {
		case err == nil:
			s.log.Info("Order advanced",
				zap.String("order_id", id),
				zap.String("from", string(cur)),
				zap.String("to", string(next)),
			)
			return next, nil
		case errors.Is(err, store.ErrStale):
			s.log.Debug("Order advance lost race", zap.String("order_id", id), zap.Int("attempt", attempt))
			continue
		default:
			return "", storeErr(err, "order")
		}
	}
	return "", apperrors.Conflict("order status changed concurrently")
}

// List returns all orders, or those of one restaurant.
func (s *Orders) List(ctx context.Context, restaurantID string) ([]models.Order, error) {
	f := store.Where()
	if restaurantID != "" {
		f = f.Eq("restaurant_id", restaurantID)
	}
	out, err := store.Many[models.Order](ctx, s.gw, models.OrderCollection, f)
	if err != nil {
		return nil, storeErr(err, "orders")
	}
	return out, nil
}

func current(o *models.Order) models.OrderStatus {
	if o.Status == "" {
		return statemachine.Initial
	}
	return o.Status
}
