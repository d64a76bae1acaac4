package server

import (
	"errors"
	"io"
	"net"
	"time"
)

// Transport is one accepted connection. Receive returns a whole request in a
// single call; the engine never reads twice.
type Transport interface {
	Receive(buf []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// TransportError is a receive or write failure on a Transport.
type TransportError struct {
	Op  string // "receive" or "write"
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "transport " + e.Op
	}
	return "transport " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// connTransport serves one request over a net.Conn.
type connTransport struct {
	conn    net.Conn
	timeout time.Duration
}

// NewConnTransport wraps conn. A non-zero timeout bounds each Receive and
// Write.
func NewConnTransport(conn net.Conn, timeout time.Duration) Transport {
	return &connTransport{conn: conn, timeout: timeout}
}

func (t *connTransport) deadline() {
	if t.timeout > 0 {
		_ = t.conn.SetDeadline(time.Now().Add(t.timeout))
	}
}

func (t *connTransport) Receive(buf []byte) (int, error) {
	t.deadline()
	n, err := t.conn.Read(buf)
	if n > 0 {
		// Data that arrived with io.EOF is still a request.
		return n, nil
	}
	if err == nil {
		err = io.ErrNoProgress
	}
	return 0, &TransportError{Op: "receive", Err: err}
}

func (t *connTransport) Write(p []byte) (int, error) {
	t.deadline()
	n, err := t.conn.Write(p)
	if err != nil {
		return n, &TransportError{Op: "write", Err: err}
	}
	return n, nil
}

func (t *connTransport) Close() error { return t.conn.Close() }

func (t *connTransport) RemoteAddr() net.Addr { return t.conn.RemoteAddr() }

// remoteHost is the peer host of t when it knows one, "-" otherwise.
func remoteHost(t Transport) string {
	ra, ok := t.(interface{ RemoteAddr() net.Addr })
	if !ok || ra.RemoteAddr() == nil {
		return "-"
	}
	addr := ra.RemoteAddr().String()
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func isClosed(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
