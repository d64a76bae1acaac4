package handlers

import (
	"errors"
	"fmt"
	"strings"

	"tinyweb/internal/assets"
	"tinyweb/internal/response"
	"tinyweb/internal/route"
)

var ErrPlaceholderCount = errors.New("handlers: placeholder count does not match arguments")

const placeholder = "%s"

// Arg produces the text substituted into one template slot.
type Arg func(c *route.Context) string

// Literal substitutes a constant.
func Literal(s string) Arg {
	return func(*route.Context) string { return s }
}

// Protocol substitutes the protocol of the request being answered.
func Protocol(c *route.Context) string {
	return c.Request.Protocol.String()
}

// Template answers with a file whose %s slots are filled at request time.
// The body is built in the response scratch buffer and truncated to it.
type Template struct {
	file     *assets.File
	segments []string
	args     []Arg
}

// NewTemplate checks that file has exactly one slot per argument.
func NewTemplate(file *assets.File, args ...Arg) (*Template, error) {
	segments := strings.Split(file.String(), placeholder)
	if slots := len(segments) - 1; slots != len(args) {
		return nil, fmt.Errorf("%w: %s has %d, got %d", ErrPlaceholderCount, file.Name, slots, len(args))
	}
	return &Template{file: file, segments: segments, args: args}, nil
}

func (t *Template) Handle(c *route.Context, _ *route.Route) {
	c.Response.WriteHead(response.StatusOK, t.file.Type)
	body := c.Response.BodyBuffer()
	for i, seg := range t.segments {
		body.WriteString(seg)
		if i < len(t.args) {
			body.WriteString(t.args[i](c))
		}
	}
}

// NewStatus answers with the status document: the request protocol and
// the status text.
func NewStatus() (*Template, error) {
	return NewTemplate(assets.StatusJSON, Protocol, Literal(response.StatusOK.Text()))
}

// NewProfileGet answers with the profile document: the profile field name
// and the request protocol.
func NewProfileGet(field string) (*Template, error) {
	return NewTemplate(assets.ProfileJSON, Literal(field), Protocol)
}
