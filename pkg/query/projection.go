// Package query builds parameterized PostgreSQL statements over a projection
// of JSON property names onto table columns.
package query

import "strings"

type column struct {
	property  string
	qualified string
}

// ProjectionMap maps JSON property names onto alias-qualified columns of
// one table. Column order follows Project calls and fixes SELECT order.
type ProjectionMap struct {
	table    string
	alias    string
	columns  []column
	index    map[string]int
	byColumn map[string]int
}

// NewProjectionMap starts a projection over schema.table referenced as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		table:    schema + "." + table,
		alias:    alias,
		index:    make(map[string]int),
		byColumn: make(map[string]int),
	}
}

// Project maps column onto property. Projecting a property twice replaces
// its column in place.
func (p *ProjectionMap) Project(col, property string) *ProjectionMap {
	c := column{property: property, qualified: p.alias + "." + col}
	i, ok := p.index[property]
	if ok {
		p.columns[i] = c
	} else {
		i = len(p.columns)
		p.index[property] = i
		p.columns = append(p.columns, c)
	}
	p.byColumn[col] = i
	return p
}

func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the FROM target, "schema.table alias".
func (p *ProjectionMap) Table() string {
	return p.table + " " + p.alias
}

// Lookup returns the qualified column for a projected property, also
// accepting the bare column name (so both "CreatedAt" and "created_at" resolve).
func (p *ProjectionMap) Lookup(name string) (string, bool) {
	i, ok := p.index[name]
	if !ok {
		i, ok = p.byColumn[name]
	}
	if !ok {
		return "", false
	}
	return p.columns[i].qualified, true
}

// Column is Lookup for trusted, code-supplied names: an unprojected name is
// returned unchanged so callers can reference raw expressions.
func (p *ProjectionMap) Column(property string) string {
	if col, ok := p.Lookup(property); ok {
		return col
	}
	return property
}

// Columns renders the SELECT list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ColumnList(), ", ")
}

func (p *ProjectionMap) ColumnList() []string {
	list := make([]string, len(p.columns))
	for i, c := range p.columns {
		list[i] = c.qualified
	}
	return list
}
