// Package store is the persistence gateway: a small document-store contract
// with an embedded SQLite backend and a MongoDB backend.
package store

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// IDField is the stored name of every record's identifier.
const IDField = "_id"

var (
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate key")

	// ErrStale is returned by UpdateIf when the document exists but no longer
	// matches the expected state.
	ErrStale = errors.New("document changed concurrently")
)

// Fields is a set of top-level fields to write, keyed by stored name.
type Fields map[string]any

// Gateway is a document collection store. Records are encoded with their bson
// struct tags; identifiers are opaque strings assigned by Create.
//
// There are no transactions. Each call is atomic on its own document only.
type Gateway interface {
	// Create stores record under a freshly generated id and returns the id.
	// Any id already set on the record is replaced.
	Create(ctx context.Context, collection string, record any) (string, error)
	// FindOne returns the first document matching f, or ErrNotFound.
	FindOne(ctx context.Context, collection string, f Filter) (bson.Raw, error)
	// FindMany returns every document matching f in insertion order.
	FindMany(ctx context.Context, collection string, f Filter) ([]bson.Raw, error)
	// Update sets the given fields of one document, leaving all others untouched.
	Update(ctx context.Context, collection, id string, fields Fields) error
	// UpdateIf is Update guarded by expect. It returns ErrStale when the
	// document exists but does not match expect.
	UpdateIf(ctx context.Context, collection, id string, expect Filter, fields Fields) error
	// Push appends value to the array field of one document.
	Push(ctx context.Context, collection, id, field string, value any) error
	// Count returns the number of documents matching f.
	Count(ctx context.Context, collection string, f Filter) (int64, error)
	// EnsureUnique creates a unique index on a field if it does not exist yet.
	EnsureUnique(ctx context.Context, collection, field string) error
	// Collections lists the names of collections holding documents.
	Collections(ctx context.Context) ([]string, error)
	// Name identifies the underlying database.
	Name() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects to the store named by url: mongodb:// and mongodb+srv:// URLs
// select MongoDB, sqlite://path or a bare path selects SQLite. dbName is used
// by MongoDB only.
func Open(ctx context.Context, url, dbName string) (Gateway, error) {
	switch {
	case url == "":
		return nil, errors.New("empty database url")
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return OpenMongo(ctx, url, dbName)
	default:
		return OpenSQLite(strings.TrimPrefix(url, "sqlite://"))
	}
}

// NewID returns a new identifier: the hex form of a BSON ObjectID.
func NewID() string {
	return bson.NewObjectID().Hex()
}

// ValidID reports whether s has the identifier format produced by NewID.
func ValidID(s string) bool {
	_, err := bson.ObjectIDFromHex(s)
	return err == nil
}

// One decodes the first document matching f into a T.
func One[T any](ctx context.Context, gw Gateway, collection string, f Filter) (*T, error) {
	raw, err := gw.FindOne(ctx, collection, f)
	if err != nil {
		return nil, err
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrapf(err, "decode %s", collection)
	}
	return &out, nil
}

// Many decodes every document matching f into a slice of T. The result is
// never nil.
func Many[T any](ctx context.Context, gw Gateway, collection string, f Filter) ([]T, error) {
	raws, err := gw.FindMany(ctx, collection, f)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := bson.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrapf(err, "decode %s", collection)
		}
		out = append(out, v)
	}
	return out, nil
}

var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkName(kind, name string) error {
	if !nameRe.MatchString(name) {
		return errors.Errorf("invalid %s name %q", kind, name)
	}
	return nil
}

// encode turns record into a document whose first element is the id.
func encode(record any, id string) (bson.D, error) {
	raw, err := bson.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "encode record")
	}
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "encode record")
	}
	out := make(bson.D, 0, len(doc)+1)
	out = append(out, bson.E{Key: IDField, Value: id})
	for _, e := range doc {
		if e.Key != IDField {
			out = append(out, e)
		}
	}
	return out, nil
}
