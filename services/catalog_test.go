package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"food-delivery-backend/apperrors"
	"food-delivery-backend/models"
	"food-delivery-backend/store"
)

func newTestCatalog(t *testing.T) *Catalog {
	return NewCatalog(newGateway(t), zaptest.NewLogger(t))
}

func names(rs []models.Restaurant) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}

func TestCatalog_ListRestaurants(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	for _, r := range []models.Restaurant{
		{Name: "Saffron Palace", Cuisine: []string{"Indian", "Curry"}, Rating: 4.7},
		{Name: "Green Bowl", Cuisine: []string{"Healthy", "Salads"}, Rating: 4.69},
		{Name: "Bella Pasta", Cuisine: []string{"Italian", "Pasta"}, Rating: 4.8},
	} {
		_, err := c.CreateRestaurant(ctx, r)
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		query RestaurantQuery
		want  []string
	}{
		{name: "no filter", want: []string{"Saffron Palace", "Green Bowl", "Bella Pasta"}},
		{name: "name substring any case", query: RestaurantQuery{Q: "PASTA"}, want: []string{"Bella Pasta"}},
		{name: "cuisine element", query: RestaurantQuery{Cuisine: "Curry"}, want: []string{"Saffron Palace"}},
		{name: "cuisine is exact", query: RestaurantQuery{Cuisine: "curry"}, want: []string{}},
		{name: "min rating inclusive", query: RestaurantQuery{MinRating: 4.7}, want: []string{"Saffron Palace", "Bella Pasta"}},
		{name: "combined", query: RestaurantQuery{Q: "a", MinRating: 4.75}, want: []string{"Bella Pasta"}},
		{name: "no match", query: RestaurantQuery{Q: "sushi"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ListRestaurants(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestCatalog_CreateRestaurant(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	r, err := c.CreateRestaurant(ctx, models.Restaurant{
		Name:            "Plain",
		Rating:          models.DefaultRating,
		DeliveryTimeMin: models.DefaultDeliveryTimeMin,
		DeliveryTimeMax: models.DefaultDeliveryTimeMax,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{}, r.Cuisine)

	got, err := c.GetRestaurant(ctx, string(r.ID))
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestCatalog_CreateRestaurant_Invalid(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.CreateRestaurant(context.Background(), models.Restaurant{Name: "Too Good", Rating: 5.1})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = c.CreateRestaurant(context.Background(), models.Restaurant{Name: "Backwards", DeliveryTimeMin: 40, DeliveryTimeMax: 20})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCatalog_GetRestaurant_Errors(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	_, err := c.GetRestaurant(ctx, "not-an-id")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = c.GetRestaurant(ctx, store.NewID())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalog_Menu(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	r, err := c.CreateRestaurant(ctx, models.Restaurant{Name: "Bella Pasta"})
	require.NoError(t, err)
	other, err := c.CreateRestaurant(ctx, models.Restaurant{Name: "Green Bowl"})
	require.NoError(t, err)

	_, err = c.AddMenuItem(ctx, models.MenuItem{RestaurantID: r.ID, Name: "Carbonara", Price: 14, IsAvailable: true})
	require.NoError(t, err)
	_, err = c.AddMenuItem(ctx, models.MenuItem{RestaurantID: r.ID, Name: "Sold Out", Price: 9, IsAvailable: false})
	require.NoError(t, err)
	_, err = c.AddMenuItem(ctx, models.MenuItem{RestaurantID: other.ID, Name: "Kale", Price: 8, IsAvailable: true})
	require.NoError(t, err)

	menu, err := c.Menu(ctx, string(r.ID))
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "Carbonara", menu[0].Name)

	empty, err := c.Menu(ctx, store.NewID())
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = c.Menu(ctx, "nope")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCatalog_AddMenuItem_Invalid(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	_, err := c.AddMenuItem(ctx, models.MenuItem{RestaurantID: "bad", Name: "X", Price: 1})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = c.AddMenuItem(ctx, models.MenuItem{RestaurantID: models.RestaurantID(store.NewID()), Name: "X", Price: -1})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCatalog_UpdateMenuItem_PriceOnly(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	rid := models.RestaurantID(store.NewID())
	item, err := c.AddMenuItem(ctx, models.MenuItem{
		RestaurantID: rid,
		Name:         "Margherita Pizza",
		Description:  "Classic",
		Price:        12.99,
		IsAvailable:  true,
		Tags:         []string{"vegetarian"},
	})
	require.NoError(t, err)

	price := 13.5
	require.NoError(t, c.UpdateMenuItem(ctx, string(item.ID), models.MenuItemPatch{Price: &price}))

	menu, err := c.Menu(ctx, string(rid))
	require.NoError(t, err)
	require.Len(t, menu, 1)

	want := *item
	want.Price = 13.5
	assert.Equal(t, want, menu[0])
}

func TestCatalog_UpdateMenuItem_Errors(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	name := "x"
	err := c.UpdateMenuItem(ctx, store.NewID(), models.MenuItemPatch{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = c.UpdateMenuItem(ctx, "bad", models.MenuItemPatch{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	price := -2.0
	err = c.UpdateMenuItem(ctx, store.NewID(), models.MenuItemPatch{Price: &price})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCatalog_Seed(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	res, err := c.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Restaurants: 3, MenuItems: 6}, res)

	all, err := c.ListRestaurants(ctx, RestaurantQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Saffron Palace", "Green Bowl", "Bella Pasta"}, names(all))

	menu, err := c.Menu(ctx, string(all[0].ID))
	require.NoError(t, err)
	require.Len(t, menu, 2)
	assert.Equal(t, "Margherita Pizza", menu[0].Name)
	assert.Equal(t, 12.99, menu[0].Price)
	assert.Equal(t, "Spicy Paneer Bowl", menu[1].Name)

	again, err := c.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, again, "seeding twice inserts nothing")
}

func TestCatalog_Seed_ExistingCatalog(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	r, err := c.CreateRestaurant(ctx, models.Restaurant{Name: "Local Diner"})
	require.NoError(t, err)

	res, err := c.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{MenuItems: 2}, res)

	menu, err := c.Menu(ctx, string(r.ID))
	require.NoError(t, err)
	assert.Len(t, menu, 2)
}
