package services

import (
	"context"

	"go.uber.org/zap"

	"food-delivery-backend/models"
	"food-delivery-backend/store"
)

var sampleRestaurants = []models.Restaurant{
	{
		Name:            "Saffron Palace",
		ImageURL:        "https://images.unsplash.com/photo-1544025162-d76694265947",
		Cuisine:         []string{"Indian", "Curry"},
		Rating:          4.7,
		DeliveryTimeMin: 25,
		DeliveryTimeMax: 45,
		Description:     "Authentic Indian cuisine with rich flavors.",
	},
	{
		Name:            "Green Bowl",
		ImageURL:        "https://images.unsplash.com/photo-1556910103-1c02745aae4d",
		Cuisine:         []string{"Healthy", "Salads"},
		Rating:          4.6,
		DeliveryTimeMin: 15,
		DeliveryTimeMax: 30,
		Description:     "Fresh bowls and salads.",
	},
	{
		Name:            "Bella Pasta",
		ImageURL:        "https://images.unsplash.com/photo-1523986371872-9d3ba2e2b1a9",
		Cuisine:         []string{"Italian", "Pasta"},
		Rating:          4.8,
		DeliveryTimeMin: 30,
		DeliveryTimeMax: 50,
		Description:     "Classic Italian pasta and more.",
	},
}

func sampleMenu(rid models.RestaurantID) []models.MenuItem {
	return []models.MenuItem{
		{
			RestaurantID: rid,
			Name:         "Margherita Pizza",
			Description:  "Classic with fresh mozzarella and basil",
			Price:        12.99,
			ImageURL:     "https://images.unsplash.com/photo-1548365328-9f547fb0953d",
			IsAvailable:  true,
			Tags:         []string{"vegetarian"},
		},
		{
			RestaurantID: rid,
			Name:         "Spicy Paneer Bowl",
			Description:  "Paneer with spicy sauce and rice",
			Price:        10.5,
			ImageURL:     "https://images.unsplash.com/photo-1544025162-d76694265947",
			IsAvailable:  true,
			Tags:         []string{"spicy"},
		},
	}
}

// SeedResult counts the records a seed run inserted.
type SeedResult struct {
	Restaurants int `json:"restaurants"`
	MenuItems   int `json:"menu_items"`
}

// Seed fills an empty catalog with sample restaurants, then gives every
// restaurant without menu items two sample dishes. Running it again inserts
// nothing.
func (c *Catalog) Seed(ctx context.Context) (SeedResult, error) {
	var res SeedResult

	n, err := c.gw.Count(ctx, models.RestaurantCollection, store.Where())
	if err != nil {
		return res, storeErr(err, "restaurants")
	}
	if n == 0 {
		for _, r := range sampleRestaurants {
			r.Cuisine = append([]string(nil), r.Cuisine...)
			if _, err := c.CreateRestaurant(ctx, r); err != nil {
				return res, err
			}
			res.Restaurants++
		}
	}

	restaurants, err := store.Many[models.Restaurant](ctx, c.gw, models.RestaurantCollection, store.Where())
	if err != nil {
		return res, storeErr(err, "restaurants")
	}
	for _, r := range restaurants {
		items, err := c.gw.Count(ctx, models.MenuItemCollection, store.Where().Eq("restaurant_id", r.ID))
		if err != nil {
			return res, storeErr(err, "menu")
		}
		if items > 0 {
			continue
		}
		for _, m := range sampleMenu(r.ID) {
			if _, err := c.AddMenuItem(ctx, m); err != nil {
				return res, err
			}
			res.MenuItems++
		}
	}

	c.log.Info("Catalog seeded",
		zap.Int("restaurants", res.Restaurants),
		zap.Int("menu_items", res.MenuItems),
	)
	return res, nil
}
