package handlers

import (
	"tinyweb/internal/response"
	"tinyweb/internal/route"
)

// Static serves the route's file. The body borrows the file bytes, nothing
// is copied.
type Static struct{}

func (Static) Handle(c *route.Context, rt *route.Route) {
	if rt.File == nil {
		return
	}
	c.Response.WriteHead(response.StatusOK, rt.File.Type)
	c.Response.Borrow(rt.File.Bytes())
}
