package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// document is the single table backing every collection. Body holds the
// record as relaxed extended JSON so SQLite's JSON functions can query it.
type document struct {
	ID         string `gorm:"primaryKey;size:24"`
	Collection string `gorm:"index;not null"`
	Body       string `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (document) TableName() string { return "documents" }

// SQLite is a Gateway over an embedded SQLite database.
type SQLite struct {
	db   *gorm.DB
	name string
}

var _ Gateway = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at path. ":memory:"
// gives a private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "sqlite handle")
	}
	// SQLite serializes writers anyway, and a single connection keeps
	// ":memory:" databases from splitting across connections.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&document{}); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "migrate documents")
	}
	return &SQLite{db: db, name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}, nil
}

func (s *SQLite) Create(ctx context.Context, collection string, record any) (string, error) {
	if err := checkName("collection", collection); err != nil {
		return "", err
	}
	id := NewID()
	doc, err := encode(record, id)
	if err != nil {
		return "", err
	}
	body, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return "", errors.Wrap(err, "encode body")
	}
	row := document{ID: id, Collection: collection, Body: string(body)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return "", errors.Wrapf(ErrDuplicate, "insert %s", collection)
		}
		return "", errors.Wrapf(err, "insert %s", collection)
	}
	return id, nil
}

func (s *SQLite) FindOne(ctx context.Context, collection string, f Filter) (bson.Raw, error) {
	q, fold, err := s.scope(ctx, collection, f)
	if err != nil {
		return nil, err
	}
	if len(fold) > 0 {
		all, err := s.find(q, collection, fold)
		if err != nil {
			return nil, err
		}
		if len(all) == 0 {
			return nil, ErrNotFound
		}
		return all[0], nil
	}
	var row document
	if err := q.Order("created_at, id").Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "find %s", collection)
	}
	return decodeBody(row.Body)
}

func (s *SQLite) FindMany(ctx context.Context, collection string, f Filter) ([]bson.Raw, error) {
	q, fold, err := s.scope(ctx, collection, f)
	if err != nil {
		return nil, err
	}
	return s.find(q, collection, fold)
}

// find runs q and keeps the documents that also satisfy fold.
func (s *SQLite) find(q *gorm.DB, collection string, fold []Cond) ([]bson.Raw, error) {
	var rows []document
	if err := q.Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "find %s", collection)
	}
	out := make([]bson.Raw, 0, len(rows))
	for _, row := range rows {
		raw, err := decodeBody(row.Body)
		if err != nil {
			return nil, err
		}
		if matchFold(raw, fold) {
			out = append(out, raw)
		}
	}
	return out, nil
}

func (s *SQLite) Update(ctx context.Context, collection, id string, fields Fields) error {
	return s.UpdateIf(ctx, collection, id, Where(), fields)
}

func (s *SQLite) UpdateIf(ctx context.Context, collection, id string, expect Filter, fields Fields) error {
	if len(fields) == 0 {
		return s.exists(ctx, collection, id)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == IDField {
			return errors.New("cannot update the id field")
		}
		if err := checkName("field", k); err != nil {
			return err
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	expr := "json_set(body"
	args := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		v, err := jsonValue(fields[k])
		if err != nil {
			return err
		}
		expr += ", ?, json(?)"
		args = append(args, "$."+k, v)
	}
	expr += ")"

	return s.apply(ctx, collection, id, expect, gorm.Expr(expr, args...))
}

func (s *SQLite) Push(ctx context.Context, collection, id, field string, value any) error {
	if err := checkName("field", field); err != nil {
		return err
	}
	v, err := jsonValue(value)
	if err != nil {
		return err
	}
	path := "$." + field
	expr := gorm.Expr(
		`json_set(body, ?, json_insert(coalesce(json_extract(body, ?), '[]'), '$[#]', json(?)))`,
		path, path, v,
	)
	return s.apply(ctx, collection, id, Where(), expr)
}

func (s *SQLite) apply(ctx context.Context, collection, id string, expect Filter, body any) error {
	q, fold, err := s.scope(ctx, collection, expect.Eq(IDField, id))
	if err != nil {
		return err
	}
	if len(fold) > 0 {
		return errors.New("update conditions cannot use contains-fold")
	}
	res := q.Updates(map[string]any{"body": body, "updated_at": time.Now()})
	if res.Error != nil {
		if isDuplicate(res.Error) {
			return errors.Wrapf(ErrDuplicate, "update %s", collection)
		}
		return errors.Wrapf(res.Error, "update %s", collection)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if err := s.exists(ctx, collection, id); err != nil {
		return err
	}
	return ErrStale
}

func (s *SQLite) exists(ctx context.Context, collection, id string) error {
	n, err := s.Count(ctx, collection, ByID(id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Count(ctx context.Context, collection string, f Filter) (int64, error) {
	q, fold, err := s.scope(ctx, collection, f)
	if err != nil {
		return 0, err
	}
	if len(fold) > 0 {
		all, err := s.find(q, collection, fold)
		if err != nil {
			return 0, err
		}
		return int64(len(all)), nil
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, errors.Wrapf(err, "count %s", collection)
	}
	return n, nil
}

func (s *SQLite) EnsureUnique(ctx context.Context, collection, field string) error {
	if err := checkName("collection", collection); err != nil {
		return err
	}
	if err := checkName("field", field); err != nil {
		return err
	}
	// Names are checked above; SQLite cannot bind identifiers or index expressions.
	stmt := fmt.Sprintf(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_%[1]s_%[2]s ON documents (json_extract(body, '$.%[2]s')) WHERE collection = '%[1]s'`,
		collection, field,
	)
	if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return errors.Wrapf(err, "unique index %s.%s", collection, field)
	}
	return nil
}

func (s *SQLite) Collections(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&document{}).
		Distinct().
		Order("collection").
		Pluck("collection", &names).Error
	if err != nil {
		return nil, errors.Wrap(err, "list collections")
	}
	return names, nil
}

func (s *SQLite) Name() string { return s.name }

func (s *SQLite) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLite) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// scope narrows q to collection and the conditions SQLite evaluates itself.
// Contains-fold conditions come back separately: SQLite's lower() and LIKE
// fold ASCII only, so they are matched on the decoded documents instead.
func (s *SQLite) scope(ctx context.Context, collection string, f Filter) (*gorm.DB, []Cond, error) {
	if err := checkName("collection", collection); err != nil {
		return nil, nil, err
	}
	q := s.db.WithContext(ctx).Model(&document{}).Where("collection = ?", collection)
	var fold []Cond
	for _, c := range f.conds {
		if c.op == opContainsFold {
			if err := checkName("field", c.Field); err != nil {
				return nil, nil, err
			}
			fold = append(fold, c)
			continue
		}
		clause, args, err := sqliteCond(c)
		if err != nil {
			return nil, nil, err
		}
		q = q.Where(clause, args...)
	}
	return q, fold, nil
}

func sqliteCond(c Cond) (string, []any, error) {
	if err := checkName("field", c.Field); err != nil {
		return "", nil, err
	}
	if c.Field == IDField {
		if c.op != opEq {
			return "", nil, errors.New("id supports equality only")
		}
		return "id = ?", []any{c.Value}, nil
	}

	path := "$." + c.Field
	v := c.Value
	// json_extract yields 1/0 for JSON booleans.
	if b, ok := v.(bool); ok {
		v = 0
		if b {
			v = 1
		}
	}
	switch c.op {
	case opEq:
		return "json_extract(body, ?) = ?", []any{path, v}, nil
	case opGte:
		return "json_extract(body, ?) >= ?", []any{path, v}, nil
	case opHas:
		return "EXISTS (SELECT 1 FROM json_each(documents.body, ?) WHERE json_each.value = ?)", []any{path, v}, nil
	default:
		return "", nil, errors.Errorf("unknown filter op %d", c.op)
	}
}

func matchFold(raw bson.Raw, conds []Cond) bool {
	for _, c := range conds {
		v, ok := raw.Lookup(c.Field).StringValueOK()
		sub, _ := c.Value.(string)
		if !ok || !containsFold(v, sub) {
			return false
		}
	}
	return true
}

func decodeBody(body string) (bson.Raw, error) {
	var doc bson.D
	if err := bson.UnmarshalExtJSON([]byte(body), false, &doc); err != nil {
		return nil, errors.Wrap(err, "decode body")
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "decode body")
	}
	return raw, nil
}

// jsonValue renders v the way it appears inside a stored body.
func jsonValue(v any) (string, error) {
	b, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: v}}, false, false)
	if err != nil {
		return "", errors.Wrap(err, "encode value")
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(b, &wrapper); err != nil {
		return "", errors.Wrap(err, "encode value")
	}
	return string(wrapper["v"]), nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
