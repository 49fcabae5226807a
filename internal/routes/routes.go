// SPDX-License-Identifier: MIT

// Package routes resolves the set of routes a documentation site will serve,
// so navigation and footer targets can be checked before the site is built.
package routes

import (
	"path"
	"sort"
	"strings"
)

// Doc is a single content page and the route it is published under.
type Doc struct {
	ID     string `json:"id" yaml:"id"`
	Route  string `json:"route" yaml:"route"`
	Title  string `json:"title" yaml:"title"`
	Source string `json:"source" yaml:"source"`
	Preset string `json:"preset" yaml:"preset"`
}

// Set is an immutable lookup of known routes, doc IDs and sidebar IDs.
type Set struct {
	routes   map[string]Doc
	docs     map[string]Doc
	sidebars map[string]struct{}
}

// NewSet builds a Set from docs. A nil sidebars slice means the sidebar
// definitions are unknown, so sidebar lookups cannot be answered.
func NewSet(docs []Doc, sidebars []string) *Set {
	s := &Set{
		routes: make(map[string]Doc, len(docs)),
		docs:   make(map[string]Doc, len(docs)),
	}
	for _, d := range docs {
		d.Route = Normalize(d.Route)
		s.routes[d.Route] = d
		if d.ID != "" {
			s.docs[d.ID] = d
		}
	}
	if sidebars != nil {
		s.sidebars = make(map[string]struct{}, len(sidebars))
		for _, id := range sidebars {
			s.sidebars[id] = struct{}{}
		}
	}
	return s
}

// HasRoute reports whether target (a site-relative path, optionally with a
// query or fragment) resolves to a known route.
func (s *Set) HasRoute(target string) bool {
	if s == nil {
		return false
	}
	_, ok := s.routes[Normalize(target)]
	return ok
}

// HasDoc reports whether a doc with the given ID exists.
func (s *Set) HasDoc(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.docs[id]
	return ok
}

// HasSidebar reports whether id names a known sidebar. known is false when the
// sidebar definitions could not be read, in which case ok carries no meaning.
func (s *Set) HasSidebar(id string) (ok, known bool) {
	if s == nil || s.sidebars == nil {
		return false, false
	}
	_, ok = s.sidebars[id]
	return ok, true
}

// Len returns the number of routes.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.routes)
}

// Docs returns every doc ordered by route.
func (s *Set) Docs() []Doc {
	if s == nil {
		return nil
	}
	out := make([]Doc, 0, len(s.routes))
	for _, d := range s.routes {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Route < out[j].Route })
	return out
}

// Routes returns every known route in lexical order.
func (s *Set) Routes() []string {
	docs := s.Docs()
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Route
	}
	return out
}

// Normalize reduces a link target to the canonical route form used for lookups:
// leading slash, no trailing slash (except the root), no query or fragment.
func Normalize(target string) string {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	return path.Clean(target)
}

// Join builds the route for slug under a route base path.
func Join(routeBasePath, slug string) string {
	return Normalize(path.Join(strings.Trim(routeBasePath, "/"), strings.Trim(slug, "/")))
}
