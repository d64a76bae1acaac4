package response

import (
	"io"
	"strconv"

	"tinyweb/internal/fixed"
	"tinyweb/internal/request"
)

type StatusCode int

const (
	StatusOK       StatusCode = 200
	StatusNotFound StatusCode = 404
)

var StatusCodeName = map[StatusCode]string{
	StatusOK:       "OK",
	StatusNotFound: "Not Found",
}

// Text is the status as it appears on the status line, e.g. "200 OK".
func (s StatusCode) Text() string {
	reason, ok := StatusCodeName[s]
	if !ok {
		reason = "Unknown"
	}
	return strconv.Itoa(int(s)) + " " + reason
}

const httpVersion = request.ProtocolHTTP11

// Response is the head and body produced by a handler. The body is either
// the response's own scratch buffer or borrowed bytes owned by someone else,
// a static file for instance. Borrowed bytes are never written to.
type Response struct {
	head    *fixed.Buffer
	scratch *fixed.Buffer

	borrowed    []byte
	useBorrowed bool
	status      StatusCode
	ready       bool
}

func New() *Response {
	return &Response{
		head:    fixed.NewBuffer(fixed.HeadSize),
		scratch: fixed.NewBuffer(fixed.BodySize),
	}
}

func (r *Response) Reset() {
	r.head.Reset()
	r.scratch.Reset()
	r.borrowed = nil
	r.useBorrowed = false
	r.status = 0
	r.ready = false
}

// WriteHead fills the head buffer with the status line and the fixed header
// set, and marks the response as ready to send. It reports whether the head
// was cut to fit its buffer, which happens only for oversized content types.
func (r *Response) WriteHead(status StatusCode, contentType string) bool {
	h := r.head
	h.Reset()
	h.WriteString(httpVersion.String())
	h.WriteString(" ")
	h.WriteString(status.Text())
	h.WriteString("\r\nContent-Type: ")
	h.WriteString(contentType)
	h.WriteString("\r\nConnection: close\r\n\r\n")
	r.status = status
	r.ready = true
	return h.Truncated()
}

// Borrow makes p the body without copying it.
func (r *Response) Borrow(p []byte) {
	r.borrowed = p
	r.useBorrowed = true
}

// BodyBuffer returns the emptied scratch buffer and makes it the body.
func (r *Response) BodyBuffer() *fixed.Buffer {
	r.scratch.Reset()
	r.borrowed = nil
	r.useBorrowed = false
	return r.scratch
}

func (r *Response) Head() []byte { return r.head.Bytes() }

func (r *Response) Body() []byte {
	if r.useBorrowed {
		return r.borrowed
	}
	return r.scratch.Bytes()
}

func (r *Response) Status() StatusCode { return r.status }

// Ready reports whether a handler produced this response.
func (r *Response) Ready() bool { return r.ready }

// Truncated reports whether the head or the scratch body lost bytes.
func (r *Response) Truncated() bool {
	return r.head.Truncated() || (!r.useBorrowed && r.scratch.Truncated())
}

// Writer hands a response to the transport as two writes, head then body,
// passing the buffers through unmodified.
type Writer struct {
	writer io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{writer: w}
}

func (w *Writer) WriteHead(r *Response) (int, error) {
	return w.writer.Write(r.Head())
}

func (w *Writer) WriteBody(r *Response) (int, error) {
	body := r.Body()
	if len(body) == 0 {
		return 0, nil
	}
	return w.writer.Write(body)
}

// WriteResponse sends r. Nothing is written for a response no handler
// produced.
func (w *Writer) WriteResponse(r *Response) (int64, error) {
	if !r.Ready() {
		return 0, nil
	}
	n, err := w.WriteHead(r)
	if err != nil {
		return int64(n), err
	}
	m, err := w.WriteBody(r)
	return int64(n + m), err
}
