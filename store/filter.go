package store

import (
	"reflect"
	"strings"
)

type op int

const (
	opEq op = iota
	opContainsFold
	opGte
	opHas
)

// Cond is one condition of a Filter.
type Cond struct {
	Field string
	op    op
	Value any
}

// Filter is a conjunction of conditions. The zero Filter matches everything.
// Filters are immutable: every method returns a new Filter.
type Filter struct {
	conds []Cond
}

// Where starts an empty filter.
func Where() Filter { return Filter{} }

// ByID matches the document with the given id.
func ByID(id string) Filter { return Where().Eq(IDField, id) }

// Eq matches documents whose field equals v.
func (f Filter) Eq(field string, v any) Filter {
	return f.with(Cond{Field: field, op: opEq, Value: normalize(v)})
}

// ContainsFold matches documents whose string field contains s, ignoring case.
// s is taken literally.
func (f Filter) ContainsFold(field, s string) Filter {
	return f.with(Cond{Field: field, op: opContainsFold, Value: s})
}

// Gte matches documents whose numeric field is greater than or equal to n.
func (f Filter) Gte(field string, n float64) Filter {
	return f.with(Cond{Field: field, op: opGte, Value: n})
}

// Has matches documents whose array field contains an element equal to v.
func (f Filter) Has(field string, v any) Filter {
	return f.with(Cond{Field: field, op: opHas, Value: normalize(v)})
}

// Empty reports whether the filter has no conditions.
func (f Filter) Empty() bool { return len(f.conds) == 0 }

// containsFold reports whether substr is within s under Unicode lower-casing.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (f Filter) with(c Cond) Filter {
	conds := make([]Cond, len(f.conds), len(f.conds)+1)
	copy(conds, f.conds)
	return Filter{conds: append(conds, c)}
}

// normalize strips named types (models.OrderStatus and friends) down to their
// underlying kind so both backends bind them the same way.
func normalize(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	default:
		return v
	}
}
