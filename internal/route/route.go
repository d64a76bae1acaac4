package route

import (
	"tinyweb/internal/assets"
	"tinyweb/internal/request"
)

// Handler fills c.Response for a matched route. Leaving the response
// unready means nothing is sent.
type Handler interface {
	Handle(c *Context, rt *Route)
}

type HandlerFunc func(c *Context, rt *Route)

func (f HandlerFunc) Handle(c *Context, rt *Route) { f(c, rt) }

// Route binds an exact path to optional content and per-method handlers.
type Route struct {
	Path string
	File *assets.File
	Get  Handler
	Post Handler
}

// handler returns the route's handler for m, or nil.
func (rt *Route) handler(m request.Method) Handler {
	switch m {
	case request.MethodGet:
		return rt.Get
	case request.MethodPost:
		return rt.Post
	}
	return nil
}

type Outcome int

const (
	Answered  Outcome = iota + 1
	NoRoute           // no path matched
	NoHandler         // path matched but the method has no handler
	Declined          // the handler produced no response
)

var OutcomeName = map[Outcome]string{
	Answered:  "answered",
	NoRoute:   "no-route",
	NoHandler: "no-handler",
	Declined:  "declined",
}

func (o Outcome) String() string { return OutcomeName[o] }

// Table is an ordered, immutable list of routes. It is safe for concurrent
// reads.
type Table struct {
	routes []Route
}

// NewTable copies routes in declaration order. Duplicate paths are allowed
// but only the first one can ever match.
func NewTable(routes ...Route) *Table {
	return &Table{routes: append([]Route(nil), routes...)}
}

func (t *Table) Len() int { return len(t.routes) }

// Lookup returns the first route whose path equals path exactly.
func (t *Table) Lookup(path []byte) *Route {
	for i := range t.routes {
		if string(path) == t.routes[i].Path {
			return &t.routes[i]
		}
	}
	return nil
}

// Dispatch matches c.Path against the table and runs the handler bound to
// the request method.
func (t *Table) Dispatch(c *Context) (*Route, Outcome) {
	rt := t.Lookup(c.Path.Bytes())
	if rt == nil {
		return nil, NoRoute
	}
	h := rt.handler(c.Request.Method)
	if h == nil {
		return rt, NoHandler
	}
	h.Handle(c, rt)
	if !c.Response.Ready() {
		return rt, Declined
	}
	return rt, Answered
}
