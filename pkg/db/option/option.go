package option

import (
	"fmt"
	"strings"

	"worker-finder/pkg/db/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QueryOption mutates a query before it is executed. It has the shape of a
// gorm scope, so options can also be passed to db.Scopes.
type QueryOption func(*gorm.DB) *gorm.DB

type Operator string

const (
	EQ   Operator = "="
	NEQ  Operator = "<>"
	GT   Operator = ">"
	GTE  Operator = ">="
	LT   Operator = "<"
	LTE  Operator = "<="
	IN   Operator = "IN"
	NIN  Operator = "NOT IN"
	NULL Operator = "IS NULL"
)

type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

type QuerySortBy struct {
	SortBy  string
	OrderBy string
	Allow   map[string]bool
}

// LockingUpdate adds FOR UPDATE to the statement.
func LockingUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}

func WithLockingUpdate() QueryOption {
	return LockingUpdate
}

// WithSortBy orders by SortBy when it is allowed, falling back to "id".
func WithSortBy(s QuerySortBy) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		column := "id"
		if s.SortBy != "" && s.Allow[s.SortBy] {
			column = s.SortBy
		}

		desc := strings.EqualFold(s.OrderBy, "desc")
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	}
}

func ApplyOperator(c Condition) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		col := clause.Column{Name: c.Field}
		switch c.Operator {
		case IN:
			return db.Where(clause.IN{Column: col, Values: toValues(c.Value)})
		case NIN:
			return db.Not(clause.IN{Column: col, Values: toValues(c.Value)})
		case NULL:
			return db.Where(fmt.Sprintf("%s IS NULL", quote(db, c.Field)))
		case "":
			return db.Where(clause.Eq{Column: col, Value: c.Value})
		default:
			return db.Where(fmt.Sprintf("%s %s ?", quote(db, c.Field), c.Operator), c.Value)
		}
	}
}

func ApplyPagination(p pagination.Pagination) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		if p.Limit > 0 {
			db = db.Limit(p.Limit)
		}
		if offset := p.Offset(); offset > 0 {
			db = db.Offset(offset)
		}
		return db
	}
}

func toValues(v any) []any {
	switch vs := v.(type) {
	case []any:
		return vs
	case []string:
		out := make([]any, 0, len(vs))
		for _, s := range vs {
			out = append(out, s)
		}
		return out
	case []int64:
		out := make([]any, 0, len(vs))
		for _, n := range vs {
			out = append(out, n)
		}
		return out
	default:
		return []any{v}
	}
}

func quote(db *gorm.DB, field string) string {
	return db.Statement.Quote(field)
}
