package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStatus string

type dish struct {
	ID        string     `bson:"_id,omitempty"`
	Name      string     `bson:"name"`
	Price     float64    `bson:"price"`
	Rating    float64    `bson:"rating"`
	Available bool       `bson:"available"`
	Tags      []string   `bson:"tags"`
	Status    testStatus `bson:"status"`
	Note      string     `bson:"note,omitempty"`
}

// runGatewaySuite checks the Gateway contract against any backend. newGW must
// return an empty store.
func runGatewaySuite(t *testing.T, newGW func(t *testing.T) Gateway) {
	ctx := context.Background()

	seed := func(t *testing.T, gw Gateway) map[string]string {
		t.Helper()
		ids := map[string]string{}
		for _, d := range []dish{
			{Name: "Margherita Pizza", Price: 12.99, Rating: 4.7, Available: true, Tags: []string{"vegetarian", "italian"}, Status: "new"},
			{Name: "Spicy Paneer Bowl", Price: 10.5, Rating: 4.69, Available: true, Tags: []string{"spicy"}, Status: "new"},
			{Name: "Pepperoni pizza", Price: 14, Rating: 4.8, Available: false, Tags: []string{"italian"}, Status: "old"},
		} {
			id, err := gw.Create(ctx, "dish", d)
			require.NoError(t, err)
			ids[d.Name] = id
		}
		return ids
	}

	t.Run("create assigns a valid id", func(t *testing.T) {
		gw := newGW(t)
		id, err := gw.Create(ctx, "dish", dish{ID: "ignored", Name: "Soup"})
		require.NoError(t, err)
		assert.True(t, ValidID(id))

		got, err := One[dish](ctx, gw, "dish", ByID(id))
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "Soup", got.Name)
	})

	t.Run("find one not found", func(t *testing.T) {
		gw := newGW(t)
		_, err := gw.FindOne(ctx, "dish", ByID(NewID()))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("find many in insertion order", func(t *testing.T) {
		gw := newGW(t)
		seed(t, gw)
		all, err := Many[dish](ctx, gw, "dish", Where())
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "Margherita Pizza", all[0].Name)
		assert.Equal(t, "Pepperoni pizza", all[2].Name)
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		gw := newGW(t)
		got, err := Many[dish](ctx, gw, "dish", Where().Eq("name", "nothing"))
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("filters", func(t *testing.T) {
		gw := newGW(t)
		seed(t, gw)

		tests := []struct {
			name string
			f    Filter
			want []string
		}{
			{"eq string", Where().Eq("name", "Spicy Paneer Bowl"), []string{"Spicy Paneer Bowl"}},
			{"eq named string", Where().Eq("status", testStatus("old")), []string{"Pepperoni pizza"}},
			{"eq bool", Where().Eq("available", true), []string{"Margherita Pizza", "Spicy Paneer Bowl"}},
			{"contains fold", Where().ContainsFold("name", "PIZZA"), []string{"Margherita Pizza", "Pepperoni pizza"}},
			{"contains is literal", Where().ContainsFold("name", "pi.za"), nil},
			{"gte inclusive", Where().Gte("rating", 4.7), []string{"Margherita Pizza", "Pepperoni pizza"}},
			{"has element", Where().Has("tags", "italian"), []string{"Margherita Pizza", "Pepperoni pizza"}},
			{"conjunction", Where().Has("tags", "italian").Eq("available", true), []string{"Margherita Pizza"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := Many[dish](ctx, gw, "dish", tt.f)
				require.NoError(t, err)
				var names []string
				for _, d := range got {
					names = append(names, d.Name)
				}
				assert.Equal(t, tt.want, names)
			})
		}
	})

	t.Run("contains fold beyond ASCII", func(t *testing.T) {
		gw := newGW(t)
		seed(t, gw)
		_, err := gw.Create(ctx, "dish", dish{Name: "CAFÉ ÉCLAIR", Tags: []string{"dessert"}})
		require.NoError(t, err)

		for _, q := range []string{"café", "CAFÉ", "éclair", "É ÉC"} {
			got, err := Many[dish](ctx, gw, "dish", Where().ContainsFold("name", q))
			require.NoError(t, err, q)
			require.Len(t, got, 1, q)
			assert.Equal(t, "CAFÉ ÉCLAIR", got[0].Name, q)
		}

		got, err := One[dish](ctx, gw, "dish", Where().ContainsFold("name", "éclair").Has("tags", "dessert"))
		require.NoError(t, err)
		assert.Equal(t, "CAFÉ ÉCLAIR", got.Name)

		_, err = gw.FindOne(ctx, "dish", Where().ContainsFold("name", "éclair").Has("tags", "italian"))
		assert.ErrorIs(t, err, ErrNotFound)

		n, err := gw.Count(ctx, "dish", Where().ContainsFold("name", "café"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = gw.Count(ctx, "dish", Where().ContainsFold("name", "pizza"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("update touches only supplied fields", func(t *testing.T) {
		gw := newGW(t)
		ids := seed(t, gw)
		id := ids["Margherita Pizza"]

		require.NoError(t, gw.Update(ctx, "dish", id, Fields{"price": 11.0}))

		got, err := One[dish](ctx, gw, "dish", ByID(id))
		require.NoError(t, err)
		assert.Equal(t, 11.0, got.Price)
		assert.Equal(t, "Margherita Pizza", got.Name)
		assert.True(t, got.Available)
		assert.Equal(t, []string{"vegetarian", "italian"}, got.Tags)
	})

	t.Run("update unknown id", func(t *testing.T) {
		gw := newGW(t)
		err := gw.Update(ctx, "dish", NewID(), Fields{"price": 1.0})
		assert.ErrorIs(t, err, ErrNotFound)

		err = gw.Update(ctx, "dish", NewID(), Fields{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update if", func(t *testing.T) {
		gw := newGW(t)
		ids := seed(t, gw)
		id := ids["Spicy Paneer Bowl"]

		err := gw.UpdateIf(ctx, "dish", id, Where().Eq("status", "old"), Fields{"status": testStatus("older")})
		assert.ErrorIs(t, err, ErrStale)

		err = gw.UpdateIf(ctx, "dish", id, Where().Eq("status", "new"), Fields{"status": testStatus("cooking")})
		require.NoError(t, err)

		got, err := One[dish](ctx, gw, "dish", ByID(id))
		require.NoError(t, err)
		assert.Equal(t, testStatus("cooking"), got.Status)

		err = gw.UpdateIf(ctx, "dish", NewID(), Where().Eq("status", "new"), Fields{"status": "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("push appends", func(t *testing.T) {
		gw := newGW(t)
		id, err := gw.Create(ctx, "dish", dish{Name: "Naan", Tags: []string{}})
		require.NoError(t, err)

		require.NoError(t, gw.Push(ctx, "dish", id, "tags", "bread"))
		require.NoError(t, gw.Push(ctx, "dish", id, "tags", "side"))

		got, err := One[dish](ctx, gw, "dish", ByID(id))
		require.NoError(t, err)
		assert.Equal(t, []string{"bread", "side"}, got.Tags)

		assert.ErrorIs(t, gw.Push(ctx, "dish", NewID(), "tags", "x"), ErrNotFound)
	})

	t.Run("count", func(t *testing.T) {
		gw := newGW(t)
		n, err := gw.Count(ctx, "dish", Where())
		require.NoError(t, err)
		assert.Zero(t, n)

		seed(t, gw)
		n, err = gw.Count(ctx, "dish", Where().Eq("available", false))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("unique index", func(t *testing.T) {
		gw := newGW(t)
		require.NoError(t, gw.EnsureUnique(ctx, "dish", "name"))
		require.NoError(t, gw.EnsureUnique(ctx, "dish", "name"))

		_, err := gw.Create(ctx, "dish", dish{Name: "Dal"})
		require.NoError(t, err)
		_, err = gw.Create(ctx, "dish", dish{Name: "Dal"})
		assert.ErrorIs(t, err, ErrDuplicate)

		// other collections are unaffected
		_, err = gw.Create(ctx, "side", dish{Name: "Dal"})
		assert.NoError(t, err)
	})

	t.Run("collections", func(t *testing.T) {
		gw := newGW(t)
		_, err := gw.Create(ctx, "order", dish{Name: "a"})
		require.NoError(t, err)
		_, err = gw.Create(ctx, "dish", dish{Name: "b"})
		require.NoError(t, err)

		names, err := gw.Collections(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"dish", "order"}, names)
		assert.NoError(t, gw.Ping(ctx))
	})
}
