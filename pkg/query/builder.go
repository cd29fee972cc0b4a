package query

import (
	"reflect"
	"strconv"
	"strings"
)

// SortField is one ORDER BY term. Field names a projected property or column.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields reads "title,-created_at"; a leading "-" sorts descending.
// Blank terms are skipped and empty input yields nil.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// binder hands out positional placeholders as arguments are bound.
type binder struct {
	args []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// condition renders one WHERE term, binding its arguments as it goes.
type condition func(b *binder) string

// Builder assembles SELECT statements over a ProjectionMap. Where* methods
// skip nil or empty values so optional filters chain without branching.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder starts a query; defaultSort applies when no usable sort is set.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{projection: projection, defaultSort: defaultSort}
}

// OrderByFields replaces the requested sort.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

func (b *Builder) where(c condition) *Builder {
	b.conditions = append(b.conditions, c)
	return b
}

// WhereEquals matches field = value.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	return b.where(func(p *binder) string {
		return col + " = " + p.bind(value)
	})
}

// WhereNullable matches field = value, or field IS NULL when value is nil.
func (b *Builder) WhereNullable(field string, value any) *Builder {
	col := b.projection.Column(field)
	if isNil(value) {
		return b.where(func(*binder) string { return col + " IS NULL" })
	}
	return b.where(func(p *binder) string {
		return col + " = " + p.bind(value)
	})
}

// WhereContains matches field case-insensitively against *value as a substring.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	col := b.projection.Column(field)
	pattern := containsPattern(*value)
	return b.where(func(p *binder) string {
		return col + " ILIKE " + p.bind(pattern)
	})
}

// WhereSearch matches when any of fields contains *search.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = b.projection.Column(f)
	}
	pattern := containsPattern(*search)
	return b.where(func(p *binder) string {
		terms := make([]string, len(cols))
		for i, col := range cols {
			terms[i] = col + " ILIKE " + p.bind(pattern)
		}
		return "(" + strings.Join(terms, " OR ") + ")"
	})
}

// WhereIn matches field against any of values.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	if len(values) == 0 {
		return b
	}
	col := b.projection.Column(field)
	return b.where(func(p *binder) string {
		marks := make([]string, len(values))
		for i, v := range values {
			marks[i] = p.bind(v)
		}
		return col + " IN (" + strings.Join(marks, ", ") + ")"
	})
}

// WhereRange bounds field to [from, to). A nil bound is open.
func (b *Builder) WhereRange(field string, from, to any) *Builder {
	col := b.projection.Column(field)
	if !isNil(from) {
		b.where(func(p *binder) string { return col + " >= " + p.bind(from) })
	}
	if !isNil(to) {
		b.where(func(p *binder) string { return col + " < " + p.bind(to) })
	}
	return b
}

// Build selects every matching row.
func (b *Builder) Build() (string, []any) {
	var p binder
	sql := b.selectFrom() + b.renderWhere(&p) + b.orderBy()
	return sql, p.args
}

// BuildPage selects one page of matching rows; page is 1-based.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	var p binder
	sql := b.selectFrom() + b.renderWhere(&p) + b.orderBy() +
		" LIMIT " + strconv.Itoa(pageSize) +
		" OFFSET " + strconv.Itoa((page-1)*pageSize)
	return sql, p.args
}

// BuildCount counts matching rows.
func (b *Builder) BuildCount() (string, []any) {
	var p binder
	sql := "SELECT COUNT(*) FROM " + b.projection.Table() + b.renderWhere(&p)
	return sql, p.args
}

// BuildGroupCount counts matching rows per distinct value of field.
func (b *Builder) BuildGroupCount(field string) (string, []any) {
	var p binder
	col := b.projection.Column(field)
	sql := "SELECT " + col + ", COUNT(*) FROM " + b.projection.Table() + b.renderWhere(&p) +
		" GROUP BY " + col + " ORDER BY " + col
	return sql, p.args
}

// BuildSingle selects the row whose idField equals id. Conditions are ignored.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	return b.selectFrom() + " WHERE " + b.projection.Column(idField) + " = $1", []any{id}
}

// BuildSingleOrNull selects at most one matching row.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	var p binder
	return b.selectFrom() + b.renderWhere(&p) + " LIMIT 1", p.args
}

func (b *Builder) selectFrom() string {
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.Table()
}

func (b *Builder) renderWhere(p *binder) string {
	if len(b.conditions) == 0 {
		return ""
	}
	terms := make([]string, len(b.conditions))
	for i, c := range b.conditions {
		terms[i] = c(p)
	}
	return " WHERE " + strings.Join(terms, " AND ")
}

func (b *Builder) orderBy() string {
	terms := b.sortTerms(b.sort)
	if len(terms) == 0 {
		terms = b.sortTerms(b.defaultSort)
	}
	if len(terms) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

// sortTerms keeps only fields the projection knows. Sort input arrives from
// query strings and is never interpolated unchecked.
func (b *Builder) sortTerms(fields []SortField) []string {
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		col, ok := b.projection.Lookup(f.Field)
		if !ok {
			continue
		}
		if f.Descending {
			terms = append(terms, col+" DESC")
		} else {
			terms = append(terms, col+" ASC")
		}
	}
	return terms
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern wraps s for ILIKE with its wildcards escaped.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// isNil also treats typed nil pointers, maps and slices as absent.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
