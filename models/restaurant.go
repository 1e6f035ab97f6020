package models

// Restaurant is a catalog record.
type Restaurant struct {
	ID              RestaurantID `json:"id" bson:"_id,omitempty"`
	Name            string       `json:"name" bson:"name" validate:"required"`
	ImageURL        string       `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Cuisine         []string     `json:"cuisine" bson:"cuisine"`
	Rating          float64      `json:"rating" bson:"rating" validate:"gte=0,lte=5"`
	DeliveryTimeMin int          `json:"delivery_time_min" bson:"delivery_time_min" validate:"gte=0"`
	DeliveryTimeMax int          `json:"delivery_time_max" bson:"delivery_time_max" validate:"gte=0,gtefield=DeliveryTimeMin"`
	Description     string       `json:"description,omitempty" bson:"description,omitempty"`
	Address         string       `json:"address,omitempty" bson:"address,omitempty"`
}

// Defaults applied to restaurants created without explicit values.
const (
	DefaultRating          = 4.5
	DefaultDeliveryTimeMin = 20
	DefaultDeliveryTimeMax = 40
)

// NewRestaurant validates r and returns a copy ready to be stored.
func NewRestaurant(r Restaurant) (*Restaurant, error) {
	if r.Cuisine == nil {
		r.Cuisine = []string{}
	}
	if err := check(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// MenuItem belongs to one restaurant through RestaurantID. The reference is
// not enforced by the store.
type MenuItem struct {
	ID           MenuItemID   `json:"id" bson:"_id,omitempty"`
	RestaurantID RestaurantID `json:"restaurant_id" bson:"restaurant_id" validate:"required"`
	Name         string       `json:"name" bson:"name" validate:"required"`
	Description  string       `json:"description,omitempty" bson:"description,omitempty"`
	Price        float64      `json:"price" bson:"price" validate:"finite,gte=0"`
	ImageURL     string       `json:"image_url,omitempty" bson:"image_url,omitempty"`
	IsAvailable  bool         `json:"is_available" bson:"is_available"`
	Tags         []string     `json:"tags" bson:"tags"`
}

// NewMenuItem validates m and returns a copy ready to be stored.
func NewMenuItem(m MenuItem) (*MenuItem, error) {
	if m.Tags == nil {
		m.Tags = []string{}
	}
	if err := check(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// MenuItemPatch carries the fields of a partial menu item update. Nil fields
// are left untouched.
type MenuItemPatch struct {
	Name        *string  `bson:"name,omitempty" validate:"omitnil,min=1"`
	Description *string  `bson:"description,omitempty"`
	Price       *float64 `bson:"price,omitempty" validate:"omitnil,finite,gte=0"`
	ImageURL    *string  `bson:"image_url,omitempty"`
	IsAvailable *bool    `bson:"is_available,omitempty"`
}

// Validate checks the supplied fields only.
func (p MenuItemPatch) Validate() error {
	return check(&p)
}

// Fields returns the supplied fields keyed by their stored name.
func (p MenuItemPatch) Fields() map[string]any {
	out := map[string]any{}
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	if p.Price != nil {
		out["price"] = *p.Price
	}
	if p.ImageURL != nil {
		out["image_url"] = *p.ImageURL
	}
	if p.IsAvailable != nil {
		out["is_available"] = *p.IsAvailable
	}
	return out
}
