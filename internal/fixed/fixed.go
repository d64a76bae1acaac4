package fixed

// Capacities of the engine's fixed storage. Every capacity includes the
// trailing NUL, so a field of size N holds at most N-1 bytes of data.
const (
	RequestMethodSize = 8
	RequestURLSize    = 128
	RequestBodySize   = 1024

	HeaderCount     = 16
	HeaderNameSize  = 32
	HeaderValueSize = 128

	HeadSize = 256 // response status line + headers
	BodySize = 256 // response body scratch

	JSONSize      = 256
	JSONValueSize = 16
)

// Buffer is a bounded byte buffer backed by storage allocated once.
// Writes past capacity are dropped and remembered, the stored bytes are
// always followed by a NUL inside the backing array.
type Buffer struct {
	data      []byte
	n         int
	truncated bool
}

func NewBuffer(size int) *Buffer {
	if size < 1 {
		size = 1
	}
	return &Buffer{data: make([]byte, size)}
}

// Reset empties the buffer without releasing its storage.
func (b *Buffer) Reset() {
	b.n = 0
	b.truncated = false
	b.data[0] = 0
}

// Set replaces the contents with p. It reports whether p was cut short.
func (b *Buffer) Set(p []byte) bool {
	b.Reset()
	return b.Append(p)
}

// Append adds p after the current contents. It reports whether p was cut short.
func (b *Buffer) Append(p []byte) bool {
	room := len(b.data) - 1 - b.n
	cut := false
	if len(p) > room {
		p = p[:room]
		cut = true
	}
	b.n += copy(b.data[b.n:], p)
	b.data[b.n] = 0
	if cut {
		b.truncated = true
	}
	return cut
}

func (b *Buffer) AppendString(s string) bool {
	room := len(b.data) - 1 - b.n
	cut := false
	if len(s) > room {
		s = s[:room]
		cut = true
	}
	b.n += copy(b.data[b.n:], s)
	b.data[b.n] = 0
	if cut {
		b.truncated = true
	}
	return cut
}

// Truncate keeps the first n bytes.
func (b *Buffer) Truncate(n int) {
	if n >= 0 && n < b.n {
		b.n = n
		b.data[n] = 0
	}
}

// SetLen adopts the first n bytes of Storage as the contents, for callers
// that fill the storage directly. n is clamped to Cap.
func (b *Buffer) SetLen(n int) {
	b.truncated = false
	if n < 0 {
		n = 0
	}
	if n > b.Cap() {
		n = b.Cap()
		b.truncated = true
	}
	b.n = n
	b.data[n] = 0
}

// Write implements io.Writer the way snprintf fills a buffer: the overflow is
// discarded and only recorded in Truncated.
func (b *Buffer) Write(p []byte) (int, error) {
	b.Append(p)
	return len(p), nil
}

func (b *Buffer) WriteString(s string) (int, error) {
	b.AppendString(s)
	return len(s), nil
}

// Bytes returns the stored bytes. The slice aliases the buffer's storage
// and is only valid until the next mutation.
func (b *Buffer) Bytes() []byte { return b.data[:b.n] }

func (b *Buffer) String() string { return string(b.data[:b.n]) }

func (b *Buffer) Len() int { return b.n }

// Cap returns the number of data bytes the buffer can hold.
func (b *Buffer) Cap() int { return len(b.data) - 1 }

// Truncated reports whether any write since the last Reset was cut short.
func (b *Buffer) Truncated() bool { return b.truncated }

// Storage exposes the whole backing array, terminator included.
func (b *Buffer) Storage() []byte { return b.data }
