package route

import (
	"tinyweb/internal/fixed"
	"tinyweb/internal/request"
	"tinyweb/internal/response"
)

// Context owns every buffer needed to serve one connection. It is handed
// by exclusive reference from the parser to the handler to the writer and
// must not be shared between goroutines; concurrent workers each need their
// own Context.
type Context struct {
	Request  *request.Request
	Response *response.Response

	// Path is the sanitized request target used for route matching.
	Path *fixed.Buffer

	// Scratch space for handlers that read JSON bodies.
	JSON  *fixed.Buffer
	Value *fixed.Buffer
}

func NewContext() *Context {
	return &Context{
		Request:  request.New(),
		Response: response.New(),
		Path:     fixed.NewBuffer(fixed.RequestURLSize),
		JSON:     fixed.NewBuffer(fixed.JSONSize),
		Value:    fixed.NewBuffer(fixed.JSONValueSize),
	}
}

// Reset clears the previous exchange. The request is reset by its own Parse.
func (c *Context) Reset() {
	c.Response.Reset()
	c.Path.Reset()
	c.JSON.Reset()
	c.Value.Reset()
}
