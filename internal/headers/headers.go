package headers

import (
	"bytes"
	"iter"

	"tinyweb/internal/fixed"
)

// none marks the end of the header chain.
const none = -1

// Header is one slot of the table. Slots are linked by index, the link of
// slot i is written only after slot i+1 has been filled.
type Header struct {
	name  *fixed.Buffer
	value *fixed.Buffer
	next  int
}

func (h *Header) Name() []byte  { return h.name.Bytes() }
func (h *Header) Value() []byte { return h.value.Bytes() }

// Table is a fixed arena of header slots filled in arrival order.
type Table struct {
	slots     [fixed.HeaderCount]Header
	count     int
	dropped   int
	truncated bool
}

func NewTable() *Table {
	t := &Table{}
	for i := range t.slots {
		t.slots[i] = Header{
			name:  fixed.NewBuffer(fixed.HeaderNameSize),
			value: fixed.NewBuffer(fixed.HeaderValueSize),
			next:  none,
		}
	}
	return t
}

func (t *Table) Reset() {
	for i := 0; i < t.count; i++ {
		t.slots[i].name.Reset()
		t.slots[i].value.Reset()
		t.slots[i].next = none
	}
	t.count = 0
	t.dropped = 0
	t.truncated = false
}

// Len is the number of stored headers.
func (t *Table) Len() int { return t.count }

// Dropped counts header lines read after the table was full.
func (t *Table) Dropped() int { return t.dropped }

// Truncated reports whether a stored name or value was cut to its slot size.
func (t *Table) Truncated() bool { return t.truncated }

func (t *Table) At(i int) *Header {
	if i < 0 || i >= t.count {
		return nil
	}
	return &t.slots[i]
}

// First returns the index of the head of the chain, or -1 when empty.
func (t *Table) First() int {
	if t.count == 0 {
		return none
	}
	return 0
}

// Next follows the link of slot i.
func (t *Table) Next(i int) int {
	if i < 0 || i >= t.count {
		return none
	}
	return t.slots[i].next
}

// All walks the chain in arrival order.
func (t *Table) All() iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		for i := t.First(); i != none; i = t.slots[i].next {
			if !yield(t.slots[i].Name(), t.slots[i].Value()) {
				return
			}
		}
	}
}

// Get returns the value of the first header whose name starts with name.
// The comparison is case-sensitive.
func (t *Table) Get(name string) ([]byte, bool) {
	for i := t.First(); i != none; i = t.slots[i].next {
		if bytes.HasPrefix(t.slots[i].Name(), []byte(name)) {
			return t.slots[i].Value(), true
		}
	}
	return nil, false
}

// Add stores a header in the next free slot. It returns false when the
// table is full and the header was discarded.
func (t *Table) Add(name, value []byte) bool {
	if t.count == len(t.slots) {
		t.dropped++
		return false
	}
	h := &t.slots[t.count]
	if h.name.Set(name) {
		t.truncated = true
	}
	if h.value.Set(value) {
		t.truncated = true
	}
	h.next = none
	if t.count > 0 {
		t.slots[t.count-1].next = t.count
	}
	t.count++
	return true
}

// Parse consumes "Name: value" lines until the blank line that ends the
// header block. It returns the number of bytes consumed, terminator
// included, and whether the blank line was seen. Input that ends without a
// blank line is consumed entirely.
func (t *Table) Parse(data []byte) (n int, done bool) {
	off := 0
	for off < len(data) {
		lineLen, termLen := lineEnd(data[off:])
		line := data[off : off+lineLen]
		off += lineLen + termLen

		if lineLen == 0 && termLen > 0 {
			return off, true
		}

		var name, value []byte
		if colon := bytes.IndexByte(line, ':'); colon >= 0 {
			name = line[:colon]
			value = bytes.TrimLeft(line[colon+1:], " ")
		} else {
			name = line
		}
		t.Add(name, value)

		if termLen == 0 {
			break
		}
	}
	return off, false
}

// lineEnd finds the end of the first line of data. A line ends at CRLF or
// a bare LF; termLen is 0 when no terminator is present.
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
