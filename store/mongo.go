package store

import (
	"context"
	"regexp"
	"sort"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Mongo is a Gateway over a MongoDB database, one Mongo collection per
// record collection. Ids are stored as strings in _id.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ Gateway = (*Mongo)(nil)

// OpenMongo connects to uri and verifies the connection with a ping.
func OpenMongo(ctx context.Context, uri, dbName string) (*Mongo, error) {
	if dbName == "" {
		return nil, errors.New("mongo database name is required")
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "ping mongo")
	}
	return &Mongo{client: client, db: client.Database(dbName)}, nil
}

func (m *Mongo) Create(ctx context.Context, collection string, record any) (string, error) {
	id := NewID()
	doc, err := encode(record, id)
	if err != nil {
		return "", err
	}
	if _, err := m.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", errors.Wrapf(ErrDuplicate, "insert %s", collection)
		}
		return "", errors.Wrapf(err, "insert %s", collection)
	}
	return id, nil
}

func (m *Mongo) FindOne(ctx context.Context, collection string, f Filter) (bson.Raw, error) {
	raw, err := m.db.Collection(collection).FindOne(ctx, mongoFilter(f)).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "find %s", collection)
	}
	return raw, nil
}

func (m *Mongo) FindMany(ctx context.Context, collection string, f Filter) ([]bson.Raw, error) {
	cur, err := m.db.Collection(collection).Find(ctx, mongoFilter(f))
	if err != nil {
		return nil, errors.Wrapf(err, "find %s", collection)
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []bson.Raw
	for cur.Next(ctx) {
		// cur.Current is reused by the next iteration.
		out = append(out, append(bson.Raw(nil), cur.Current...))
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrapf(err, "iterate %s", collection)
	}
	return out, nil
}

func (m *Mongo) Update(ctx context.Context, collection, id string, fields Fields) error {
	return m.UpdateIf(ctx, collection, id, Where(), fields)
}

func (m *Mongo) UpdateIf(ctx context.Context, collection, id string, expect Filter, fields Fields) error {
	if len(fields) == 0 {
		return m.exists(ctx, collection, id)
	}
	set := make(bson.D, 0, len(fields))
	for k, v := range fields {
		if k == IDField {
			return errors.New("cannot update the id field")
		}
		set = append(set, bson.E{Key: k, Value: v})
	}
	sort.Slice(set, func(i, j int) bool { return set[i].Key < set[j].Key })
	return m.apply(ctx, collection, id, expect, bson.D{{Key: "$set", Value: set}})
}

func (m *Mongo) Push(ctx context.Context, collection, id, field string, value any) error {
	return m.apply(ctx, collection, id, Where(), bson.D{{Key: "$push", Value: bson.D{{Key: field, Value: value}}}})
}

func (m *Mongo) apply(ctx context.Context, collection, id string, expect Filter, update bson.D) error {
	res, err := m.db.Collection(collection).UpdateOne(ctx, mongoFilter(expect.Eq(IDField, id)), update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrapf(ErrDuplicate, "update %s", collection)
		}
		return errors.Wrapf(err, "update %s", collection)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if err := m.exists(ctx, collection, id); err != nil {
		return err
	}
	return ErrStale
}

func (m *Mongo) exists(ctx context.Context, collection, id string) error {
	n, err := m.Count(ctx, collection, ByID(id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Count(ctx context.Context, collection string, f Filter) (int64, error) {
	n, err := m.db.Collection(collection).CountDocuments(ctx, mongoFilter(f))
	if err != nil {
		return 0, errors.Wrapf(err, "count %s", collection)
	}
	return n, nil
}

func (m *Mongo) EnsureUnique(ctx context.Context, collection, field string) error {
	_, err := m.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrapf(err, "unique index %s.%s", collection, field)
	}
	return nil
}

func (m *Mongo) Collections(ctx context.Context) ([]string, error) {
	names, err := m.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "list collections")
	}
	sort.Strings(names)
	return names, nil
}

func (m *Mongo) Name() string { return m.db.Name() }

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func mongoFilter(f Filter) bson.D {
	conds := make(bson.A, 0, len(f.conds))
	for _, c := range f.conds {
		switch c.op {
		case opContainsFold:
			s, _ := c.Value.(string)
			conds = append(conds, bson.D{{Key: c.Field, Value: bson.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}}})
		case opGte:
			conds = append(conds, bson.D{{Key: c.Field, Value: bson.D{{Key: "$gte", Value: c.Value}}}})
		default:
			// Equality on an array field matches any element, which is
			// exactly what Has needs.
			conds = append(conds, bson.D{{Key: c.Field, Value: c.Value}})
		}
	}
	switch len(conds) {
	case 0:
		return bson.D{}
	case 1:
		return conds[0].(bson.D)
	default:
		return bson.D{{Key: "$and", Value: conds}}
	}
}
