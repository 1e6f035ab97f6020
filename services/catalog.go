package services

import (
	"context"

	"go.uber.org/zap"

	"food-delivery-backend/models"
	"food-delivery-backend/store"
)

// Catalog serves restaurants and menus.
type Catalog struct {
	gw  store.Gateway
	log *zap.Logger
}

// NewCatalog creates a Catalog service.
func NewCatalog(gw store.Gateway, log *zap.Logger) *Catalog {
	return &Catalog{gw: gw, log: log}
}

// RestaurantQuery narrows a restaurant listing. Zero values disable a filter.
type RestaurantQuery struct {
	// Q matches a case-insensitive substring of the name.
	Q string
	// Cuisine matches one tag of the cuisine list exactly.
	Cuisine string
	// MinRating is an inclusive lower bound on the rating.
	MinRating float64
}

// ListRestaurants returns the restaurants matching q in insertion order.
func (c *Catalog) ListRestaurants(ctx context.Context, q RestaurantQuery) ([]models.Restaurant, error) {
	f := store.Where()
	if q.Q != "" {
		f = f.ContainsFold("name", q.Q)
	}
	if q.Cuisine != "" {
		f = f.Has("cuisine", q.Cuisine)
	}
	if q.MinRating != 0 {
		f = f.Gte("rating", q.MinRating)
	}
	out, err := store.Many[models.Restaurant](ctx, c.gw, models.RestaurantCollection, f)
	if err != nil {
		return nil, storeErr(err, "restaurants")
	}
	return out, nil
}

// GetRestaurant returns one restaurant.
func (c *Catalog) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	rid, err := parseID[models.RestaurantID]("id", id)
	if err != nil {
		return nil, err
	}
	r, err := store.One[models.Restaurant](ctx, c.gw, models.RestaurantCollection, store.ByID(string(rid)))
	if err != nil {
		return nil, storeErr(err, "restaurant")
	}
	return r, nil
}

// Menu returns the available menu items of a restaurant. An unknown
// restaurant has an empty menu.
func (c *Catalog) Menu(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	rid, err := parseID[models.RestaurantID]("restaurant_id", restaurantID)
	if err != nil {
		return nil, err
	}
	f := store.Where().Eq("restaurant_id", rid).Eq("is_available", true)
	out, err := store.Many[models.MenuItem](ctx, c.gw, models.MenuItemCollection, f)
	if err != nil {
		return nil, storeErr(err, "menu")
	}
	return out, nil
}

// CreateRestaurant validates and stores a restaurant.
func (c *Catalog) CreateRestaurant(ctx context.Context, r models.Restaurant) (*models.Restaurant, error) {
	rec, err := models.NewRestaurant(r)
	if err != nil {
		return nil, err
	}
	id, err := c.gw.Create(ctx, models.RestaurantCollection, rec)
	if err != nil {
		return nil, storeErr(err, "restaurant")
	}
	rec.ID = models.RestaurantID(id)

	c.log.Info("Restaurant created", zap.String("restaurant_id", id))
	return rec, nil
}

// AddMenuItem validates and stores a menu item. The restaurant reference is
// format-checked but not resolved.
func (c *Catalog) AddMenuItem(ctx context.Context, m models.MenuItem) (*models.MenuItem, error) {
	if _, err := parseID[models.RestaurantID]("restaurant_id", string(m.RestaurantID)); err != nil {
		return nil, err
	}
	rec, err := models.NewMenuItem(m)
	if err != nil {
		return nil, err
	}
	id, err := c.gw.Create(ctx, models.MenuItemCollection, rec)
	if err != nil {
		return nil, storeErr(err, "menu item")
	}
	rec.ID = models.MenuItemID(id)

	c.log.Info("Menu item added",
		zap.String("item_id", id),
		zap.String("restaurant_id", string(rec.RestaurantID)),
	)
	return rec, nil
}

// UpdateMenuItem writes only the fields present in p.
func (c *Catalog) UpdateMenuItem(ctx context.Context, id string, p models.MenuItemPatch) error {
	iid, err := parseID[models.MenuItemID]("id", id)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := c.gw.Update(ctx, models.MenuItemCollection, string(iid), store.Fields(p.Fields())); err != nil {
		return storeErr(err, "menu item")
	}
	c.log.Info("Menu item updated", zap.String("item_id", id))
	return nil
}
