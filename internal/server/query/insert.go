package query

import (
	"errors"
	"strings"
)

// Insert is an INSERT statement under construction.
type Insert struct {
	b         *Builder
	table     string
	owner     *owner
	columns   []string
	values    []any
	returning []string
	err       error
}

// Insert starts an INSERT into table.
func (b *Builder) Insert(table string) *Insert {
	i := &Insert{b: b, table: table}
	i.setErr(checkIdent("table", table))
	return i
}

func (i *Insert) setErr(err error) {
	if i.err == nil && err != nil {
		i.err = err
	}
}

// Owned sets the owner column to ownerID. Required for user-owned tables.
func (i *Insert) Owned(ownerColumn string, ownerID int64) *Insert {
	i.setErr(checkIdent("column", ownerColumn))
	if ownerID <= 0 {
		i.setErr(ErrMissingOwner)
	}
	i.owner = &owner{column: ownerColumn, id: ownerID}
	return i
}

// Set adds a column value.
func (i *Insert) Set(column string, v any) *Insert {
	i.setErr(checkIdent("column", column))
	i.columns = append(i.columns, column)
	i.values = append(i.values, v)
	return i
}

// Returning adds a RETURNING clause.
func (i *Insert) Returning(cols ...string) *Insert {
	for _, c := range cols {
		i.setErr(checkIdent("column", c))
	}
	i.returning = append(i.returning, cols...)
	return i
}

// Build returns the statement text and its arguments. The owner column, when
// set, is the last inserted column.
func (i *Insert) Build() (string, []any, error) {
	if i.err != nil {
		return "", nil, i.err
	}
	if _, ok := ownedTables[i.table]; ok && i.owner == nil {
		return "", nil, ErrMissingOwner
	}

	cols := append([]string(nil), i.columns...)
	vals := append([]any(nil), i.values...)
	if i.owner != nil {
		cols = append(cols, i.owner.column)
		vals = append(vals, i.owner.id)
	}
	if len(cols) == 0 {
		return "", nil, errors.New("query: no columns to insert")
	}

	sql, args := i.b.compile(func(bind binder) string {
		ph := make([]string, len(vals))
		for n, v := range vals {
			ph[n] = bind(v)
		}

		var sb strings.Builder
		sb.WriteString("INSERT INTO ")
		sb.WriteString(i.table)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(cols, ", "))
		sb.WriteString(") VALUES (")
		sb.WriteString(strings.Join(ph, ", "))
		sb.WriteString(")")
		if len(i.returning) > 0 {
			sb.WriteString(" RETURNING ")
			sb.WriteString(strings.Join(i.returning, ", "))
		}
		return sb.String()
	})

	return sql, args, nil
}
