// Package query builds the parameterized SQL used by the repositories.
//
// Values are always bound as parameters and never interpolated into the
// statement text. Identifiers (tables, columns) come from code, are checked
// against a strict pattern, and are never taken from request input. Reads and
// writes against user-owned tables cannot be compiled without an owner filter.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
)

// ErrMissingOwner is returned when a statement touching a user-owned table
// has no owner filter.
var ErrMissingOwner = errors.New("query: owner filter required")

// ownedTables lists tables whose rows belong to exactly one user.
var ownedTables = map[string]struct{}{
	"tasks": {},
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func checkIdent(kind, name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("query: invalid %s identifier %q", kind, name)
	}
	return nil
}

// Builder starts statements for a single SQL dialect.
type Builder struct {
	dialect dbx.Dialect
}

// New returns a Builder emitting placeholders for d.
func New(d dbx.Dialect) *Builder {
	return &Builder{dialect: d}
}

// binder appends v to the argument list and returns its placeholder.
type binder func(v any) string

type owner struct {
	column string
	id     int64
}

func (b *Builder) compile(fn func(bind binder) string) (string, []any) {
	var args []any
	bind := func(v any) string {
		args = append(args, v)
		return b.dialect.Placeholder(len(args))
	}
	return fn(bind), args
}

// Select is a SELECT statement under construction. Errors are collected and
// reported by Build.
type Select struct {
	b       *Builder
	table   string
	columns []string
	owner   *owner
	where   []func(bind binder) string
	order   []string
	err     error
}

// Owned starts a SELECT on table restricted to rows whose ownerColumn equals
// ownerID. The owner condition is always the first WHERE term.
func (b *Builder) Owned(table, ownerColumn string, ownerID int64) *Select {
	s := &Select{b: b, table: table}
	s.setErr(checkIdent("table", table))
	s.setErr(checkIdent("column", ownerColumn))
	if ownerID <= 0 {
		s.setErr(ErrMissingOwner)
	}
	s.owner = &owner{column: ownerColumn, id: ownerID}
	return s
}

// From starts a SELECT on a table without an owner filter. Build fails for
// user-owned tables.
func (b *Builder) From(table string) *Select {
	s := &Select{b: b, table: table}
	s.setErr(checkIdent("table", table))
	return s
}

func (s *Select) setErr(err error) {
	if s.err == nil && err != nil {
		s.err = err
	}
}

// Columns sets the selected columns. Without it Build fails.
func (s *Select) Columns(cols ...string) *Select {
	for _, c := range cols {
		s.setErr(checkIdent("column", c))
	}
	s.columns = append(s.columns, cols...)
	return s
}

// Eq adds "column = value".
func (s *Select) Eq(column string, v any) *Select {
	s.setErr(checkIdent("column", column))
	s.where = append(s.where, func(bind binder) string {
		return column + " = " + bind(v)
	})
	return s
}

// Contains adds a case-insensitive substring match of term against column.
// LIKE wildcards in term are escaped so it matches literally.
func (s *Select) Contains(column, term string) *Select {
	s.setErr(checkIdent("column", column))
	op := "LIKE"
	if s.b.dialect == dbx.Postgres {
		op = "ILIKE"
	}
	pattern := "%" + EscapeLike(term) + "%"
	s.where = append(s.where, func(bind binder) string {
		return column + " " + op + " " + bind(pattern) + ` ESCAPE '\'`
	})
	return s
}

// In adds "column IN (...)" with one bound parameter per id. An empty list
// matches nothing.
func (s *Select) In(column string, ids []int64) *Select {
	s.setErr(checkIdent("column", column))
	s.where = append(s.where, func(bind binder) string {
		return InInt64(column, ids, bind)
	})
	return s
}

// OrderBy appends an ORDER BY term. Only selected columns may be used.
func (s *Select) OrderBy(column string, desc bool) *Select {
	found := false
	for _, c := range s.columns {
		if c == column {
			found = true
			break
		}
	}
	if !found {
		s.setErr(fmt.Errorf("query: cannot order by unselected column %q", column))
	}
	if desc {
		s.order = append(s.order, column+" DESC")
	} else {
		s.order = append(s.order, column+" ASC")
	}
	return s
}

// Build returns the statement text and its arguments in placeholder order.
func (s *Select) Build() (string, []any, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	if _, ok := ownedTables[s.table]; ok && s.owner == nil {
		return "", nil, ErrMissingOwner
	}
	if len(s.columns) == 0 {
		return "", nil, errors.New("query: no columns selected")
	}

	sql, args := s.b.compile(func(bind binder) string {
		var sb strings.Builder
		sb.WriteString("SELECT ")
		sb.WriteString(strings.Join(s.columns, ", "))
		sb.WriteString(" FROM ")
		sb.WriteString(s.table)

		var conds []string
		if s.owner != nil {
			conds = append(conds, s.owner.column+" = "+bind(s.owner.id))
		}
		for _, w := range s.where {
			conds = append(conds, w(bind))
		}
		if len(conds) > 0 {
			sb.WriteString(" WHERE ")
			sb.WriteString(strings.Join(conds, " AND "))
		}
		if len(s.order) > 0 {
			sb.WriteString(" ORDER BY ")
			sb.WriteString(strings.Join(s.order, ", "))
		}
		return sb.String()
	})

	return sql, args, nil
}

// InInt64 renders "column IN (p1, p2, ...)" binding every id through bind.
// An empty list renders the false predicate "1 = 0".
func InInt64(column string, ids []int64, bind func(v any) string) string {
	if len(ids) == 0 {
		return "1 = 0"
	}
	ph := make([]string, len(ids))
	for i, id := range ids {
		ph[i] = bind(id)
	}
	return column + " IN (" + strings.Join(ph, ", ") + ")"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters using backslash as the escape
// character.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}
