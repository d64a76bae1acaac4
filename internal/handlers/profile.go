package handlers

import (
	"bytes"
	"errors"

	"github.com/buger/jsonparser"

	"tinyweb/internal/fixed"
	"tinyweb/internal/response"
	"tinyweb/internal/route"
)

// ProfilePost echoes one field of the JSON object posted in the body as
// {"<field>": "<value>"}. Only the first occurrence of the field counts, a
// missing field echoes an empty value and a long value is cut to the value
// buffer.
type ProfilePost struct {
	Field string
}

func (h ProfilePost) Handle(c *route.Context, _ *route.Route) {
	c.Response.WriteHead(response.StatusOK, "application/json")

	js := extractObject(c.JSON, c.Request.Body())
	lookup(c.Value, js, h.Field)

	body := c.Response.BodyBuffer()
	body.WriteString(`{"`)
	body.WriteString(h.Field)
	body.WriteString(`": "`)
	body.Write(c.Value.Bytes())
	body.WriteString(`"}`)
}

// extractObject copies body from the first '{' through the first '}' into
// dst.
func extractObject(dst *fixed.Buffer, body []byte) []byte {
	dst.Reset()
	start := bytes.IndexByte(body, '{')
	if start < 0 {
		return nil
	}
	obj := body[start:]
	if end := bytes.IndexByte(obj, '}'); end >= 0 {
		obj = obj[:end+1]
	}
	dst.Set(obj)
	return dst.Bytes()
}

// errFound ends the walk once the value has been copied.
var errFound = errors.New("handlers: value found")

// lookup copies into dst the value that follows the first string equal to
// field, visiting keys, values and nested containers in document order.
// Pairs read before a syntax error still count, so a cut object yields the
// fields that precede the cut. A string value equal to field matches too,
// in which case the next key is copied.
func lookup(dst *fixed.Buffer, js []byte, field string) {
	dst.Reset()
	w := walker{dst: dst, field: field}
	w.object(js)
}

type walker struct {
	dst     *fixed.Buffer
	field   string
	matched bool
	done    bool
}

// visit handles one token and reports whether the walk is over.
func (w *walker) visit(tok []byte, kind jsonparser.ValueType) bool {
	if w.done {
		return true
	}
	if w.matched {
		if w.dst.Set(tok) {
			trimDanglingEscape(w.dst)
		}
		w.done = true
		return true
	}
	if kind == jsonparser.String && string(tok) == w.field {
		w.matched = true
	}
	return false
}

func (w *walker) object(js []byte) {
	_ = jsonparser.ObjectEach(js, func(key, value []byte, kind jsonparser.ValueType, _ int) error {
		if w.visit(key, jsonparser.String) || w.value(value, kind) {
			return errFound
		}
		return nil
	})
}

func (w *walker) value(v []byte, kind jsonparser.ValueType) bool {
	if w.visit(v, kind) {
		return true
	}
	switch kind {
	case jsonparser.Object:
		w.object(v)
	case jsonparser.Array:
		_, _ = jsonparser.ArrayEach(v, func(elem []byte, kind jsonparser.ValueType, _ int, _ error) {
			w.value(elem, kind)
		})
	}
	return w.done
}

// trimDanglingEscape drops a backslash left unpaired by truncation so the
// echoed string stays valid JSON.
func trimDanglingEscape(dst *fixed.Buffer) {
	b := dst.Bytes()
	n := 0
	for i := len(b) - 1; i >= 0 && b[i] == '\\'; i-- {
		n++
	}
	if n%2 == 1 {
		dst.Truncate(len(b) - 1)
	}
}
