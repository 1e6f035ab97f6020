package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"food-delivery-backend/models"
	"food-delivery-backend/store"
)

func newGateway(t *testing.T) store.Gateway {
	t.Helper()
	gw, err := store.OpenSQLite(":memory:")
	require.NoError(t, err, "failed to open in-memory sqlite")
	require.NoError(t, gw.EnsureUnique(context.Background(), models.UserCollection, "email"))
	t.Cleanup(func() { _ = gw.Close(context.Background()) })
	return gw
}

// fakeIssuer hands out predictable tokens.
type fakeIssuer struct {
	IssueFunc func(userID models.UserID, email string) (string, error)
	n         int
}

func (f *fakeIssuer) Issue(userID models.UserID, email string) (string, error) {
	if f.IssueFunc != nil {
		return f.IssueFunc(userID, email)
	}
	f.n++
	return fmt.Sprintf("token-%s-%d", userID, f.n), nil
}

func newTestAuth(t *testing.T) (*Auth, store.Gateway) {
	gw := newGateway(t)
	return NewAuth(gw, &fakeIssuer{}, zaptest.NewLogger(t)), gw
}
