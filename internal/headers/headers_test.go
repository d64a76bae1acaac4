package headers

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinyweb/internal/fixed"
)

func TestRequestHeadersParsing(t *testing.T) {
	// Test: Valid single header
	headers := NewTable()
	data := []byte("Host: localhost:42069\r\n\r\n")
	n, done := headers.Parse(data)
	v, ok := headers.Get("Host")
	require.True(t, ok)
	assert.Equal(t, "localhost:42069", string(v))
	assert.Equal(t, len(data), n)
	assert.True(t, done)

	// Test: Lookup is case-sensitive
	_, ok = headers.Get("host")
	assert.False(t, ok)

	// Test: Lookup matches on name prefix
	v, ok = headers.Get("Ho")
	require.True(t, ok)
	assert.Equal(t, "localhost:42069", string(v))

	// Test: Repeated headers keep their order, first one wins on lookup
	headers = NewTable()
	data = []byte("X-Person: some1\r\nX-Person: some2\r\nX-Person: some3\r\n\r\nbody")
	n, done = headers.Parse(data)
	assert.True(t, done)
	assert.Equal(t, len(data)-len("body"), n)
	assert.Equal(t, 3, headers.Len())
	v, _ = headers.Get("X-Person")
	assert.Equal(t, "some1", string(v))

	// Test: Leading spaces in values are skipped, trailing ones kept
	headers = NewTable()
	headers.Parse([]byte("Accept:    text/css \r\n\r\n"))
	v, _ = headers.Get("Accept")
	assert.Equal(t, "text/css ", string(v))
}

func TestParseChainsSlotsByIndex(t *testing.T) {
	h := NewTable()
	h.Parse([]byte("A: 1\r\nB: 2\r\nC: 3\r\n\r\n"))

	var names []string
	for i := h.First(); i != none; i = h.Next(i) {
		names = append(names, string(h.At(i).Name()))
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
	assert.Equal(t, none, h.Next(2))
	assert.Nil(t, h.At(3))
}

func TestParseWithoutBlankLine(t *testing.T) {
	h := NewTable()
	data := []byte("Host: x\r\nAccept: */*")
	n, done := h.Parse(data)
	assert.False(t, done)
	assert.Equal(t, len(data), n)
	assert.Equal(t, 2, h.Len())
	v, _ := h.Get("Accept")
	assert.Equal(t, "*/*", string(v))
}

func TestParseBareLineFeeds(t *testing.T) {
	h := NewTable()
	n, done := h.Parse([]byte("Host: x\n\nrest"))
	assert.True(t, done)
	assert.Equal(t, len("Host: x\n\n"), n)
	v, _ := h.Get("Host")
	assert.Equal(t, "x", string(v))
}

func TestLineWithoutColonBecomesName(t *testing.T) {
	h := NewTable()
	h.Parse([]byte("garbage\r\n\r\n"))
	require.Equal(t, 1, h.Len())
	assert.Equal(t, "garbage", string(h.At(0).Name()))
	assert.Empty(t, h.At(0).Value())
}

func TestTableCapacity(t *testing.T) {
	var sb strings.Builder
	for i := 0; i <= fixed.HeaderCount; i++ {
		fmt.Fprintf(&sb, "X-H%02d: v%02d\r\n", i, i)
	}
	sb.WriteString("\r\n")

	h := NewTable()
	n, done := h.Parse([]byte(sb.String()))
	require.True(t, done)
	assert.Equal(t, sb.Len(), n)
	assert.Equal(t, fixed.HeaderCount, h.Len())
	assert.Equal(t, 1, h.Dropped())

	i := 0
	for name, value := range h.All() {
		assert.Equal(t, fmt.Sprintf("X-H%02d", i), string(name))
		assert.Equal(t, fmt.Sprintf("v%02d", i), string(value))
		i++
	}
	assert.Equal(t, fixed.HeaderCount, i)

	_, ok := h.Get(fmt.Sprintf("X-H%02d", fixed.HeaderCount))
	assert.False(t, ok)
}

func TestLongFieldsAreTruncated(t *testing.T) {
	h := NewTable()
	long := bytes.Repeat([]byte("v"), 2*fixed.HeaderValueSize)
	h.Parse(append(append([]byte("Cookie: "), long...), "\r\n\r\n"...))
	require.Equal(t, 1, h.Len())
	assert.True(t, h.Truncated())
	assert.Len(t, h.At(0).Value(), fixed.HeaderValueSize-1)
}

func TestReset(t *testing.T) {
	h := NewTable()
	h.Parse([]byte("Host: x\r\n\r\n"))
	h.Reset()
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, none, h.First())
	_, ok := h.Get("Host")
	assert.False(t, ok)
}
