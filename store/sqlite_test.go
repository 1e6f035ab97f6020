package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) Gateway {
	t.Helper()
	gw, err := OpenSQLite(":memory:")
	require.NoError(t, err, "failed to open in-memory sqlite")
	t.Cleanup(func() { _ = gw.Close(context.Background()) })
	return gw
}

func TestSQLite(t *testing.T) {
	runGatewaySuite(t, newSQLite)
}

func TestSQLite_RejectsBadNames(t *testing.T) {
	gw := newSQLite(t)
	ctx := context.Background()

	_, err := gw.Create(ctx, "dish; DROP TABLE documents", dish{Name: "x"})
	assert.Error(t, err)

	_, err = gw.FindMany(ctx, "dish", Where().Eq("name') OR 1=1 --", "x"))
	assert.Error(t, err)

	assert.Error(t, gw.EnsureUnique(ctx, "dish", "name'"))
	assert.Error(t, gw.Update(ctx, "dish", NewID(), Fields{"_id": "x"}))
}

func TestSQLite_ContainsIsLiteral(t *testing.T) {
	gw := newSQLite(t)
	ctx := context.Background()

	_, err := gw.Create(ctx, "dish", dish{Name: "100% beef"})
	require.NoError(t, err)
	_, err = gw.Create(ctx, "dish", dish{Name: "1000 beef"})
	require.NoError(t, err)

	got, err := Many[dish](ctx, gw, "dish", Where().ContainsFold("name", "0%"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100% beef", got[0].Name)
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	gw, err := Open(ctx, "sqlite://:memory:", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = gw.Close(ctx) })
	assert.IsType(t, &SQLite{}, gw)

	_, err = Open(ctx, "", "")
	assert.Error(t, err)
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID(NewID()))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("not-an-id"))
	assert.False(t, ValidID("zzzzzzzzzzzzzzzzzzzzzzzz"))
}

func TestSQLite_UpdateIfRejectsContainsFold(t *testing.T) {
	gw := newSQLite(t)
	ctx := context.Background()

	id, err := gw.Create(ctx, "dish", dish{Name: "Crème brûlée"})
	require.NoError(t, err)

	err = gw.UpdateIf(ctx, "dish", id, Where().ContainsFold("name", "CRÈME"), Fields{"price": 7.5})
	assert.Error(t, err)

	got, err := One[dish](ctx, gw, "dish", ByID(id))
	require.NoError(t, err)
	assert.Zero(t, got.Price)
}
