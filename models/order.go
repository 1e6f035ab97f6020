package models

// OrderStatus is the lifecycle position of an order.
type OrderStatus string

const (
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentPaypal PaymentMethod = "paypal"
)

// PaymentStatus is the outcome of payment. Payment always succeeds in this service.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// OrderItem is a snapshot of a menu item taken when the order is placed. It
// does not follow later catalog changes.
type OrderItem struct {
	ItemID   MenuItemID `json:"item_id" bson:"item_id" validate:"required"`
	Name     string     `json:"name" bson:"name" validate:"required"`
	Price    float64    `json:"price" bson:"price" validate:"finite,gte=0"`
	Quantity int        `json:"quantity" bson:"quantity" validate:"gte=1"`
}

// Order is a placed order. Subtotal, Tax and Total are computed by the pricing
// package; Status only changes through the lifecycle advance.
type Order struct {
	ID              OrderID       `json:"id" bson:"_id,omitempty"`
	UserID          UserID        `json:"user_id" bson:"user_id" validate:"required"`
	RestaurantID    RestaurantID  `json:"restaurant_id" bson:"restaurant_id" validate:"required"`
	Items           []OrderItem   `json:"items" bson:"items" validate:"dive"`
	Subtotal        float64       `json:"subtotal" bson:"subtotal" validate:"finite,gte=0"`
	Tax             float64       `json:"tax" bson:"tax" validate:"finite,gte=0"`
	Total           float64       `json:"total" bson:"total" validate:"finite,gte=0"`
	Status          OrderStatus   `json:"status" bson:"status" validate:"oneof=confirmed preparing out_for_delivery delivered cancelled"`
	PaymentMethod   PaymentMethod `json:"payment_method" bson:"payment_method" validate:"oneof=card paypal"`
	PaymentStatus   PaymentStatus `json:"payment_status" bson:"payment_status" validate:"oneof=pending paid failed"`
	DeliveryAddress string        `json:"delivery_address,omitempty" bson:"delivery_address,omitempty"`
	Notes           string        `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Validate checks every field constraint of the order, including its items.
func (o *Order) Validate() error {
	if o.Items == nil {
		o.Items = []OrderItem{}
	}
	return check(o)
}
