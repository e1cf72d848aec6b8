// Package querybuilder assembles PostgreSQL statements with $N placeholders.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// binder hands out sequential placeholders and records bound values.
type binder struct {
	args []any
}

func (b *binder) bind(value any) string {
	b.args = append(b.args, value)
	return "$" + strconv.Itoa(len(b.args))
}

type Condition interface {
	write(buf *strings.Builder, b *binder)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) write(buf *strings.Builder, b *binder) {
	buf.WriteString(c.column)
	buf.WriteString(" = ")
	buf.WriteString(b.bind(c.value))
}

type inCondition struct {
	column string
	values []any
}

// In renders "column IN (...)"; an empty list matches nothing.
func In[T any](column string, values []T) Condition {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return inCondition{column: column, values: out}
}

func (c inCondition) write(buf *strings.Builder, b *binder) {
	if len(c.values) == 0 {
		buf.WriteString("1=0")
		return
	}
	buf.WriteString(c.column)
	buf.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(b.bind(v))
	}
	buf.WriteString(")")
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

func (s *SelectBuilder) From(table string) *SelectBuilder {
	s.table = table
	return s
}

func (s *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	s.where = append(s.where, conditions...)
	return s
}

func (s *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	s.orderBy = append(s.orderBy, parts...)
	return s
}

func (s *SelectBuilder) Limit(limit int) *SelectBuilder {
	s.limit = limit
	return s
}

func (s *SelectBuilder) ToSQL() (string, []any, error) {
	if len(s.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(s.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var (
		buf strings.Builder
		b   binder
	)
	buf.WriteString("SELECT ")
	buf.WriteString(strings.Join(s.columns, ", "))
	buf.WriteString(" FROM ")
	buf.WriteString(s.table)
	writeWhere(&buf, &b, s.where)
	if len(s.orderBy) > 0 {
		buf.WriteString(" ORDER BY ")
		buf.WriteString(strings.Join(s.orderBy, ", "))
	}
	if s.limit > 0 {
		buf.WriteString(" LIMIT ")
		buf.WriteString(strconv.Itoa(s.limit))
	}
	return buf.String(), b.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (i *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	i.columns = append([]string(nil), columns...)
	return i
}

// Values adds one row; call repeatedly for multi-row inserts.
func (i *InsertBuilder) Values(values ...any) *InsertBuilder {
	i.rows = append(i.rows, append([]any(nil), values...))
	return i
}

// Suffix is appended verbatim, e.g. "ON CONFLICT (id) DO NOTHING".
func (i *InsertBuilder) Suffix(sql string) *InsertBuilder {
	i.suffix = strings.TrimSpace(sql)
	return i
}

func (i *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(i.table) == "":
		return "", nil, fmt.Errorf("insert table is required")
	case len(i.columns) == 0:
		return "", nil, fmt.Errorf("insert columns are required")
	case len(i.rows) == 0:
		return "", nil, fmt.Errorf("insert values are required")
	}

	var (
		buf strings.Builder
		b   binder
	)
	buf.WriteString("INSERT INTO ")
	buf.WriteString(i.table)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(i.columns, ", "))
	buf.WriteString(") VALUES ")
	for rowIdx, row := range i.rows {
		if len(row) != len(i.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(i.columns))
		}
		if rowIdx > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(b.bind(value))
		}
		buf.WriteString(")")
	}
	if i.suffix != "" {
		buf.WriteString(" ")
		buf.WriteString(i.suffix)
	}
	return buf.String(), b.args, nil
}

type assignment struct {
	column string
	value  any
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (u *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	u.sets = append(u.sets, assignment{column: column, value: value})
	return u
}

func (u *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	u.where = append(u.where, conditions...)
	return u
}

func (u *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(u.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(u.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var (
		buf strings.Builder
		b   binder
	)
	buf.WriteString("UPDATE ")
	buf.WriteString(u.table)
	buf.WriteString(" SET ")
	for i, set := range u.sets {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(set.column)
		buf.WriteString(" = ")
		buf.WriteString(b.bind(set.value))
	}
	writeWhere(&buf, &b, u.where)
	return buf.String(), b.args, nil
}

func writeWhere(buf *strings.Builder, b *binder, conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			buf.WriteString(" WHERE ")
		} else {
			buf.WriteString(" AND ")
		}
		c.write(buf, b)
	}
}
