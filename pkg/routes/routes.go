// Package routes declares HTTP endpoints as data so they can be mounted on a
// ServeMux and described in the OpenAPI document from the same source.
package routes

import (
	"fmt"
	"net/http"
	"strings"
)

// Route binds a method and pattern, relative to its group, to a handler.
type Route struct {
	Method  string
	Pattern string
	Summary string
	Handler http.HandlerFunc
}

// Group nests routes under Prefix. Tag defaults to the first segment of
// the resolved prefix.
type Group struct {
	Prefix   string
	Tag      string
	Routes   []Route
	Children []Group
}

// Endpoint is a route resolved against its enclosing groups.
type Endpoint struct {
	Method  string
	Path    string
	Tag     string
	Summary string
	Handler http.HandlerFunc
}

// Pattern returns the ServeMux pattern for the endpoint.
func (e Endpoint) Pattern() string {
	return e.Method + " " + e.Path
}

// Walk resolves every route in groups, children included, in declaration order.
func Walk(groups []Group, fn func(Endpoint)) {
	for _, g := range groups {
		walk("", "", g, fn)
	}
}

func walk(prefix, tag string, g Group, fn func(Endpoint)) {
	prefix += g.Prefix
	switch {
	case g.Tag != "":
		tag = g.Tag
	case tag == "":
		tag, _, _ = strings.Cut(strings.TrimPrefix(prefix, "/"), "/")
	}

	for _, r := range g.Routes {
		path := prefix + r.Pattern
		if path == "" {
			path = "/"
		}
		summary := r.Summary
		if summary == "" {
			summary = r.Method + " " + path
		}
		fn(Endpoint{
			Method:  r.Method,
			Path:    path,
			Tag:     tag,
			Summary: summary,
			Handler: r.Handler,
		})
	}

	for _, child := range g.Children {
		walk(prefix, tag, child, fn)
	}
}

// Register mounts every endpoint on mux. A pattern declared twice is an
// error rather than a ServeMux panic.
func Register(mux *http.ServeMux, groups ...Group) error {
	seen := make(map[string]bool)
	var err error

	Walk(groups, func(e Endpoint) {
		if err != nil {
			return
		}
		p := e.Pattern()
		if seen[p] {
			err = fmt.Errorf("duplicate route %s", p)
			return
		}
		seen[p] = true
		mux.HandleFunc(p, e.Handler)
	})

	return err
}
