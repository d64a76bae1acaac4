// Package urlpath sanitizes request targets before they are matched against
// the route table.
package urlpath

import "errors"

var (
	ErrTraversal   = errors.New("urlpath: path traversal")
	ErrBadEscape   = errors.New("urlpath: malformed percent escape")
	ErrIllegalChar = errors.New("urlpath: illegal character")
	ErrOverflow    = errors.New("urlpath: output buffer exhausted")
)

// Decode percent-decodes raw into dst and returns the number of bytes
// written. dst[n] is set to NUL, so at most len(dst)-1 bytes are produced.
//
// Decoding stops successfully at NUL, CR, LF, tab, space, '?' or the end of
// raw. Any ".." sequence, a malformed escape, a character outside
// [A-Za-z0-9_+/.-] or running out of room in dst is an error. Decoded
// escapes are checked too: control bytes and escaped dots that would form
// ".." are rejected.
func Decode(dst, raw []byte) (int, error) {
	if len(dst) == 0 {
		return 0, ErrOverflow
	}
	n := 0
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if isTerminator(c) {
			break
		}

		switch {
		case c == '.':
			if i+1 < len(raw) && raw[i+1] == '.' {
				return fail(dst, ErrTraversal)
			}
		case c == '%':
			if i+2 >= len(raw) {
				return fail(dst, ErrBadEscape)
			}
			hi, lo := unhex(raw[i+1]), unhex(raw[i+2])
			if hi > 0xf || lo > 0xf {
				return fail(dst, ErrBadEscape)
			}
			c = hi<<4 | lo
			i += 2
			if c < 0x20 || c == 0x7f {
				return fail(dst, ErrIllegalChar)
			}
		case !isAllowed(c):
			return fail(dst, ErrIllegalChar)
		}

		if c == '.' && n > 0 && dst[n-1] == '.' {
			return fail(dst, ErrTraversal)
		}
		if n+1 >= len(dst) {
			return fail(dst, ErrOverflow)
		}
		dst[n] = c
		n++
	}
	dst[n] = 0
	return n, nil
}

func fail(dst []byte, err error) (int, error) {
	dst[0] = 0
	return 0, err
}

func isTerminator(c byte) bool {
	switch c {
	case 0, '\r', '\n', '\t', ' ', '?':
		return true
	}
	return false
}

func isAllowed(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '_', '-', '+', '/', '.':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 255
}
