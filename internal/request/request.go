package request

import (
	"bytes"
	"strings"

	"tinyweb/internal/fixed"
	"tinyweb/internal/headers"
)

type Method int

const (
	MethodNone Method = iota
	MethodGet
	MethodPost
)

var MethodName = map[Method]string{
	MethodNone: "NONE",
	MethodGet:  "GET",
	MethodPost: "POST",
}

func (m Method) String() string { return MethodName[m] }

type Protocol int

const (
	ProtocolNone Protocol = iota
	ProtocolHTTP10
	ProtocolHTTP11
	ProtocolHTTP20
)

var ProtocolName = map[Protocol]string{
	ProtocolNone:   "NONE",
	ProtocolHTTP10: "HTTP/1.0",
	ProtocolHTTP11: "HTTP/1.1",
	ProtocolHTTP20: "HTTP/2.0",
}

func (p Protocol) String() string { return ProtocolName[p] }

// Overflow records which fields lost input to their fixed capacity.
type Overflow uint8

const (
	OverflowMethod Overflow = 1 << iota
	OverflowURL
	OverflowHeaderCount // header lines past the table capacity were discarded
	OverflowHeaderField // a header name or value was cut to its slot size
	OverflowBody
)

var overflowNames = []struct {
	flag Overflow
	name string
}{
	{OverflowMethod, "method"},
	{OverflowURL, "url"},
	{OverflowHeaderCount, "header-count"},
	{OverflowHeaderField, "header-field"},
	{OverflowBody, "body"},
}

func (o Overflow) Has(flag Overflow) bool { return o&flag != 0 }

// Names lists the overflowed fields in a fixed order.
func (o Overflow) Names() []string {
	var names []string
	for _, n := range overflowNames {
		if o.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return names
}

func (o Overflow) String() string {
	if o == 0 {
		return "none"
	}
	return strings.Join(o.Names(), "|")
}

// Request holds the parsed state of one HTTP request. All fields live in
// storage allocated by New and are overwritten by every Parse.
type Request struct {
	Method   Method
	Protocol Protocol
	Headers  *headers.Table

	method   *fixed.Buffer // raw method token, kept for logging
	url      *fixed.Buffer
	body     *fixed.Buffer
	overflow Overflow
	complete bool
}

func New() *Request {
	return &Request{
		Headers: headers.NewTable(),
		method:  fixed.NewBuffer(fixed.RequestMethodSize),
		url:     fixed.NewBuffer(fixed.RequestURLSize),
		body:    fixed.NewBuffer(fixed.RequestBodySize),
	}
}

func (r *Request) Reset() {
	r.Method = MethodNone
	r.Protocol = ProtocolNone
	r.Headers.Reset()
	r.method.Reset()
	r.url.Reset()
	r.body.Reset()
	r.overflow = 0
	r.complete = false
}

// MethodToken is the method as it appeared on the wire, cut to capacity.
func (r *Request) MethodToken() []byte { return r.method.Bytes() }

// URL is the raw request target, cut to capacity. It is not decoded.
func (r *Request) URL() []byte { return r.url.Bytes() }

func (r *Request) Body() []byte { return r.body.Bytes() }

func (r *Request) Overflow() Overflow { return r.overflow }

// Complete reports whether the header block was closed by a blank line.
func (r *Request) Complete() bool { return r.complete }

// Parse overwrites r with the request held in raw. The whole request must be
// in raw, nothing is carried over between calls. Unknown tokens become
// MethodNone/ProtocolNone and oversized fields are truncated, the returned
// flags tell which ones.
func (r *Request) Parse(raw []byte) Overflow {
	r.Reset()

	rest := r.parseRequestLine(raw)

	n, done := r.Headers.Parse(rest)
	rest = rest[n:]
	r.complete = done
	if r.Headers.Dropped() > 0 {
		r.overflow |= OverflowHeaderCount
	}
	if r.Headers.Truncated() {
		r.overflow |= OverflowHeaderField
	}

	if r.body.Set(rest) {
		r.overflow |= OverflowBody
	}
	return r.overflow
}

// parseRequestLine reads
//
//	<method> SP <request-target> SP <HTTP-version> CRLF
//
// and returns what follows the line terminator.
func (r *Request) parseRequestLine(data []byte) []byte {
	tok, rest := token(data)
	if r.method.Set(tok) {
		r.overflow |= OverflowMethod
	}
	r.Method = parseMethod(tok)

	tok, rest = token(rest)
	if r.url.Set(tok) {
		r.overflow |= OverflowURL
	}

	lineLen, termLen := lineEnd(rest)
	r.Protocol = parseProtocol(rest[:lineLen])
	return rest[lineLen+termLen:]
}

func parseMethod(tok []byte) Method {
	switch string(tok) {
	case "GET":
		return MethodGet
	case "POST":
		return MethodPost
	}
	return MethodNone
}

func parseProtocol(tok []byte) Protocol {
	switch string(tok) {
	case "HTTP/1.0":
		return ProtocolHTTP10
	case "HTTP/1.1":
		return ProtocolHTTP11
	case "HTTP/2.0":
		return ProtocolHTTP20
	}
	return ProtocolNone
}

// token splits data at the first space. A line terminator also ends the
// token but is left in rest so the request line can still be closed.
func token(data []byte) (tok, rest []byte) {
	i := bytes.IndexAny(data, " \r\n")
	if i == -1 {
		return data, nil
	}
	if data[i] == ' ' {
		return data[:i], data[i+1:]
	}
	return data[:i], data[i:]
}

func lineEnd(data []byte) (lineLen, termLen int) {
	idx := bytes.IndexByte(data, '\n')
	if idx == -1 {
		return len(data), 0
	}
	if idx > 0 && data[idx-1] == '\r' {
		return idx - 1, 2
	}
	return idx, 1
}
