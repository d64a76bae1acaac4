package response

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinyweb/internal/fixed"
)

type recorder struct {
	writes [][]byte
	err    error
}

func (r *recorder) Write(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.writes = append(r.writes, p)
	return len(p), nil
}

func TestWriteHead(t *testing.T) {
	r := New()
	cut := r.WriteHead(StatusOK, "text/html")
	assert.False(t, cut)
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\nConnection: close\r\n\r\n", string(r.Head()))
	assert.True(t, r.Ready())
	assert.Equal(t, StatusOK, r.Status())
}

func TestWriteHeadTruncatesLongContentType(t *testing.T) {
	r := New()
	cut := r.WriteHead(StatusOK, strings.Repeat("x", 2*fixed.HeadSize))
	assert.True(t, cut)
	assert.True(t, r.Truncated())
	assert.Len(t, r.Head(), fixed.HeadSize-1)
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "200 OK", StatusOK.Text())
	assert.Equal(t, "404 Not Found", StatusNotFound.Text())
	assert.Equal(t, "599 Unknown", StatusCode(599).Text())
}

func TestBorrowDoesNotCopy(t *testing.T) {
	r := New()
	file := []byte("<html></html>")
	r.WriteHead(StatusOK, "text/html")
	r.Borrow(file)
	assert.Same(t, &file[0], &r.Body()[0])

	body := r.BodyBuffer()
	body.WriteString("{}")
	assert.Equal(t, "{}", string(r.Body()))
	assert.Equal(t, "<html></html>", string(file))
}

func TestWriterSendsHeadThenBody(t *testing.T) {
	r := New()
	r.WriteHead(StatusOK, "application/json")
	r.BodyBuffer().WriteString(`{"ok": "yes"}`)

	rec := &recorder{}
	n, err := NewWriter(rec).WriteResponse(r)
	require.NoError(t, err)
	require.Len(t, rec.writes, 2)
	assert.Equal(t, r.Head(), rec.writes[0])
	assert.Equal(t, `{"ok": "yes"}`, string(rec.writes[1]))
	assert.Equal(t, int64(len(r.Head())+len(r.Body())), n)
}

func TestWriterSkipsUnreadyResponse(t *testing.T) {
	rec := &recorder{}
	n, err := NewWriter(rec).WriteResponse(New())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, rec.writes)
}

func TestWriterEmptyBody(t *testing.T) {
	r := New()
	r.WriteHead(StatusOK, "text/plain")
	var buf bytes.Buffer
	_, err := NewWriter(&buf).WriteResponse(r)
	require.NoError(t, err)
	assert.Equal(t, string(r.Head()), buf.String())
}

func TestWriterStopsOnHeadError(t *testing.T) {
	r := New()
	r.WriteHead(StatusOK, "text/plain")
	r.BodyBuffer().WriteString("body")
	boom := errors.New("broken pipe")
	rec := &recorder{err: boom}
	_, err := NewWriter(rec).WriteResponse(r)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, rec.writes)
}

func TestReset(t *testing.T) {
	r := New()
	r.WriteHead(StatusOK, "text/plain")
	r.Borrow([]byte("x"))
	r.Reset()
	assert.False(t, r.Ready())
	assert.Empty(t, r.Head())
	assert.Empty(t, r.Body())
}
