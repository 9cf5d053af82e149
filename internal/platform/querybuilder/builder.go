package querybuilder

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Placeholder selects the bind-parameter syntax of the target driver.
type Placeholder int

const (
	// Dollar emits $1, $2 for lib/pq.
	Dollar Placeholder = iota
	// Question emits ? for sqlite.
	Question
)

func (p Placeholder) format(i int) string {
	if p == Question {
		return "?"
	}
	return "$" + strconv.Itoa(i)
}

type Condition interface {
	appendSQL(w *writer)
}

type writer struct {
	buf         strings.Builder
	args        []any
	placeholder Placeholder
}

func (w *writer) bind(value any) {
	w.args = append(w.args, value)
	w.buf.WriteString(w.placeholder.format(len(w.args)))
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) appendSQL(w *writer) {
	w.buf.WriteString(c.column)
	w.buf.WriteString(" = ")
	w.bind(c.value)
}

type inCondition struct {
	column string
	values []any
}

func In(column string, values []any) Condition {
	return inCondition{column: column, values: values}
}

func (c inCondition) appendSQL(w *writer) {
	if len(c.values) == 0 {
		w.buf.WriteString("1=0")
		return
	}
	w.buf.WriteString(c.column)
	w.buf.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			w.buf.WriteString(", ")
		}
		w.bind(v)
	}
	w.buf.WriteString(")")
}

func appendWhere(w *writer, conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	w.buf.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			w.buf.WriteString(" AND ")
		}
		c.appendSQL(w)
	}
}

type SelectBuilder struct {
	columns     []string
	table       string
	where       []Condition
	orderBy     []string
	placeholder Placeholder
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

func (b *SelectBuilder) PlaceholderFormat(p Placeholder) *SelectBuilder {
	b.placeholder = p
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, errors.New("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("select table is required")
	}

	w := &writer{placeholder: b.placeholder}
	w.buf.WriteString("SELECT ")
	w.buf.WriteString(strings.Join(b.columns, ", "))
	w.buf.WriteString(" FROM ")
	w.buf.WriteString(b.table)
	appendWhere(w, b.where)
	if len(b.orderBy) > 0 {
		w.buf.WriteString(" ORDER BY ")
		w.buf.WriteString(strings.Join(b.orderBy, ", "))
	}
	return w.buf.String(), w.args, nil
}

type DeleteBuilder struct {
	table       string
	where       []Condition
	placeholder Placeholder
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *DeleteBuilder) PlaceholderFormat(p Placeholder) *DeleteBuilder {
	b.placeholder = p
	return b
}

func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("delete table is required")
	}
	w := &writer{placeholder: b.placeholder}
	w.buf.WriteString("DELETE FROM ")
	w.buf.WriteString(b.table)
	appendWhere(w, b.where)
	return w.buf.String(), w.args, nil
}

type InsertBuilder struct {
	table       string
	columns     []string
	rows        [][]any
	conflict    []string
	update      []string
	placeholder Placeholder
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

// Values appends one row. Call it repeatedly for a multi-row insert.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// OnConflict names the conflict target. With no update columns the row is skipped.
func (b *InsertBuilder) OnConflict(columns ...string) *InsertBuilder {
	b.conflict = append([]string(nil), columns...)
	return b
}

// DoUpdate overwrites the given columns from the excluded row on conflict.
func (b *InsertBuilder) DoUpdate(columns ...string) *InsertBuilder {
	b.update = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) PlaceholderFormat(p Placeholder) *InsertBuilder {
	b.placeholder = p
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, errors.New("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, errors.New("insert values are required")
	}

	w := &writer{placeholder: b.placeholder, args: make([]any, 0, len(b.rows)*len(b.columns))}
	w.buf.WriteString("INSERT INTO ")
	w.buf.WriteString(b.table)
	w.buf.WriteString(" (")
	w.buf.WriteString(strings.Join(b.columns, ", "))
	w.buf.WriteString(") VALUES ")

	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, errors.Newf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			w.buf.WriteString(", ")
		}
		w.buf.WriteString("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				w.buf.WriteString(", ")
			}
			w.bind(value)
		}
		w.buf.WriteString(")")
	}

	if len(b.conflict) > 0 {
		w.buf.WriteString(" ON CONFLICT (")
		w.buf.WriteString(strings.Join(b.conflict, ", "))
		w.buf.WriteString(")")
		if len(b.update) == 0 {
			w.buf.WriteString(" DO NOTHING")
		} else {
			w.buf.WriteString(" DO UPDATE SET ")
			for i, column := range b.update {
				if i > 0 {
					w.buf.WriteString(", ")
				}
				w.buf.WriteString(column)
				w.buf.WriteString(" = EXCLUDED.")
				w.buf.WriteString(column)
			}
		}
	}

	return w.buf.String(), w.args, nil
}
