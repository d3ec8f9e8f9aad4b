// Package router holds the routing table of the spark server and the
// dispatcher that runs handlers and renders their results.
//
// Routes are registered on a Builder at startup. Build returns an immutable
// Table that connection handlers share without locking.
package router

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// Registration errors. Handle panics with these, as registration happens at
// startup and a bad route is a programming error.
var (
	ErrEmptyMethod  = errors.New("router: empty method")
	ErrInvalidPath  = errors.New("router: path must start with '/'")
	ErrNilHandler   = errors.New("router: nil handler")
	ErrBuilderBuilt = errors.New("router: cannot add routes after Build")
)

// Route identifies a handler by exact method and path.
type Route struct {
	Method string
	Path   string
}

// String returns "METHOD /path".
func (r Route) String() string {
	return r.Method + " " + r.Path
}

// Builder collects routes before the server starts.
//
// Registering the same (method, path) twice replaces the earlier handler
// without notice.
type Builder struct {
	mu     sync.Mutex
	routes map[Route]Handler
	built  bool
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{routes: make(map[Route]Handler)}
}

// Handle registers h for method and path. Method and path are matched
// exactly as given: no case folding, no trailing-slash or query handling.
func (b *Builder) Handle(method, path string, h Handler) *Builder {
	switch {
	case method == "":
		panic(ErrEmptyMethod)
	case !strings.HasPrefix(path, "/"):
		panic(ErrInvalidPath)
	case h == nil:
		panic(ErrNilHandler)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built {
		panic(ErrBuilderBuilt)
	}
	b.routes[Route{Method: method, Path: path}] = h
	return b
}

// Get registers a GET route.
func (b *Builder) Get(path string, h Handler) *Builder {
	return b.Handle("GET", path, h)
}

// Post registers a POST route.
func (b *Builder) Post(path string, h Handler) *Builder {
	return b.Handle("POST", path, h)
}

// Put registers a PUT route.
func (b *Builder) Put(path string, h Handler) *Builder {
	return b.Handle("PUT", path, h)
}

// Delete registers a DELETE route.
func (b *Builder) Delete(path string, h Handler) *Builder {
	return b.Handle("DELETE", path, h)
}

// Build freezes the builder and returns the routing table. Later calls to
// Handle panic; later calls to Build return an equal table.
func (b *Builder) Build() *Table {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.built = true

	routes := make(map[Route]Handler, len(b.routes))
	for k, v := range b.routes {
		routes[k] = v
	}
	return &Table{routes: routes}
}

// Table is an immutable routing table. It has no mutating methods and is
// safe for concurrent use.
type Table struct {
	routes map[Route]Handler
}

// Lookup returns the handler registered for exactly (method, path).
func (t *Table) Lookup(method, path string) (Handler, bool) {
	if t == nil {
		return nil, false
	}
	h, ok := t.routes[Route{Method: method, Path: path}]
	return h, ok
}

// Len returns the number of routes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.routes)
}

// Routes returns the registered routes sorted by path, then method.
func (t *Table) Routes() []Route {
	if t == nil {
		return nil
	}
	out := make([]Route, 0, len(t.routes))
	for r := range t.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}
