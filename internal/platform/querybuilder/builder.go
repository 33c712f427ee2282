// Package querybuilder renders PostgreSQL statements with numbered
// placeholders for the sqlx repositories.
package querybuilder

import (
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// statement accumulates SQL text and its bind arguments. Placeholders are
// numbered in the order values are bound.
type statement struct {
	sql  strings.Builder
	args []any
}

func (s *statement) write(parts ...string) {
	for _, p := range parts {
		s.sql.WriteString(p)
	}
}

func (s *statement) bind(value any) {
	s.args = append(s.args, value)
	s.sql.WriteString("$")
	s.sql.WriteString(strconv.Itoa(len(s.args)))
}

// writeExpr copies expr, binding one value for each "?". Extra "?" with no
// value left are written literally.
func (s *statement) writeExpr(expr string, values []any) {
	for {
		idx := strings.IndexByte(expr, '?')
		if idx < 0 || len(values) == 0 {
			s.sql.WriteString(expr)
			return
		}
		s.sql.WriteString(expr[:idx])
		s.bind(values[0])
		values = values[1:]
		expr = expr[idx+1:]
	}
}

func (s *statement) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			s.write(" WHERE ")
		} else {
			s.write(" AND ")
		}
		c.render(s)
	}
}

func (s *statement) result() (string, []any, error) {
	return s.sql.String(), s.args, nil
}

// Condition is one predicate of a WHERE clause; predicates are ANDed.
type Condition interface {
	render(s *statement)
}

type comparison struct {
	column string
	op     string
	value  any
}

func (c comparison) render(s *statement) {
	s.write(c.column, " ", c.op, " ")
	s.bind(c.value)
}

func Eq(column string, value any) Condition  { return comparison{column, "=", value} }
func Gte(column string, value any) Condition { return comparison{column, ">=", value} }
func Lt(column string, value any) Condition  { return comparison{column, "<", value} }

type membership struct {
	column string
	values []any
}

// In matches any of values. An empty list matches nothing.
func In(column string, values []any) Condition {
	return membership{column: column, values: values}
}

func (c membership) render(s *statement) {
	if len(c.values) == 0 {
		s.write("1=0")
		return
	}
	s.write(c.column, " IN (")
	for i, v := range c.values {
		if i > 0 {
			s.write(", ")
		}
		s.bind(v)
	}
	s.write(")")
}

type rawExpr struct {
	expr string
	args []any
}

// Expr is a free-form predicate using "?" for its arguments.
func Expr(expr string, args ...any) Condition {
	return rawExpr{expr: expr, args: args}
}

func (c rawExpr) render(s *statement) {
	s.writeExpr(c.expr, c.args)
}

type notNull string

func IsNotNull(column string) Condition { return notNull(column) }

func (c notNull) render(s *statement) {
	s.write(string(c), " IS NOT NULL")
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

// Limit caps the row count; zero or less means no limit.
func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, crerr.New("select: no columns")
	case strings.TrimSpace(b.table) == "":
		return "", nil, crerr.New("select: no table")
	}

	var s statement
	s.write("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	s.where(b.where)
	if len(b.orderBy) > 0 {
		s.write(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		s.write(" LIMIT ", strconv.Itoa(b.limit))
	}
	return s.result()
}

type InsertBuilder struct {
	table      string
	columns    []string
	rows       [][]any
	suffix     string
	suffixArgs []any
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

// Values adds one row; call it again for a multi-row insert.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix appends trailing SQL such as ON CONFLICT. Any "?" in sql is bound to
// args after the inserted values.
func (b *InsertBuilder) Suffix(sql string, args ...any) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	b.suffixArgs = args
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, crerr.New("insert: no table")
	case len(b.columns) == 0:
		return "", nil, crerr.New("insert: no columns")
	case len(b.rows) == 0:
		return "", nil, crerr.New("insert: no rows")
	}

	var s statement
	s.write("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, crerr.Newf("insert: row %d has %d values for %d columns", i, len(row), len(b.columns))
		}
		if i > 0 {
			s.write(", ")
		}
		s.write("(")
		for j, value := range row {
			if j > 0 {
				s.write(", ")
			}
			s.bind(value)
		}
		s.write(")")
	}
	if b.suffix != "" {
		s.write(" ")
		s.writeExpr(b.suffix, b.suffixArgs)
	}
	return s.result()
}

type assignment struct {
	column string
	value  any
	expr   string
	args   []any
	raw    bool
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

// SetExpr assigns a SQL expression, e.g. NOW() or GREATEST(used - 1, 0).
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, expr: expr, args: args, raw: true})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, crerr.New("update: no table")
	case len(b.sets) == 0:
		return "", nil, crerr.New("update: no assignments")
	}

	var s statement
	s.write("UPDATE ", b.table, " SET ")
	for i, a := range b.sets {
		if i > 0 {
			s.write(", ")
		}
		s.write(a.column, " = ")
		if a.raw {
			s.writeExpr(a.expr, a.args)
		} else {
			s.bind(a.value)
		}
	}
	s.where(b.where)
	return s.result()
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses to build an unconditional delete.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, crerr.New("delete: no table")
	case len(b.where) == 0:
		return "", nil, crerr.New("delete: refusing to delete without conditions")
	}

	var s statement
	s.write("DELETE FROM ", b.table)
	s.where(b.where)
	return s.result()
}
