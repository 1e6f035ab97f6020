// Package services implements the API operations on top of the persistence
// gateway: accounts, catalog, orders and diagnostics.
package services

import (
	"github.com/go-faster/errors"

	"food-delivery-backend/apperrors"
	"food-delivery-backend/store"
)

// parseID checks the identifier format before any lookup.
func parseID[T ~string](field, s string) (T, error) {
	if !store.ValidID(s) {
		return "", apperrors.NewValidationError(field, "invalid id")
	}
	return T(s), nil
}

// storeErr maps gateway errors onto the API error kinds.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperrors.NotFound(what)
	case errors.Is(err, store.ErrDuplicate):
		return apperrors.Conflict(what + " already exists")
	default:
		return errors.Wrap(err, what)
	}
}
