package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tinyweb/internal/response"
	"tinyweb/internal/route"
	"tinyweb/internal/telemetry"
	"tinyweb/internal/urlpath"
)

var ErrServerClosed = errors.New("server: closed")

// Outcomes the engine adds to the ones route.Dispatch reports.
const (
	OutcomeRejected     = "rejected"
	OutcomeReceiveError = "receive-error"
	OutcomeWriteError   = "write-error"
)

type Server struct {
	mu       sync.Mutex // guards listener
	listener net.Listener
	closed   atomic.Bool
	wg       sync.WaitGroup

	routes   *route.Table
	logger   *slog.Logger
	metrics  *telemetry.Metrics
	tracer   trace.Tracer
	workers  int
	recvSize int
	strict   bool
	timeout  time.Duration
}

type Option func(*Server)

func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.logger = l } }

func WithMetrics(m *telemetry.Metrics) Option { return func(s *Server) { s.metrics = m } }

func WithTracer(t trace.Tracer) Option { return func(s *Server) { s.tracer = t } }

// WithWorkers sets how many connections are served at once. Each worker owns
// a private route.Context.
func WithWorkers(n int) Option { return func(s *Server) { s.workers = max(n, 1) } }

// WithRecvBufferSize sets the size of the single read that makes up a
// request.
func WithRecvBufferSize(n int) Option { return func(s *Server) { s.recvSize = n } }

// WithStrictURL controls whether the target is decoded and sanitized before
// routing. Without it the raw target is matched as received.
func WithStrictURL(strict bool) Option { return func(s *Server) { s.strict = strict } }

func WithIOTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// New returns a server for routes that is not listening yet.
func New(routes *route.Table, opts ...Option) *Server {
	s := &Server{
		routes:   routes,
		logger:   slog.Default(),
		tracer:   otel.Tracer(telemetry.ScopeName),
		workers:  1,
		recvSize: 1536,
		strict:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve listens on addr and serves routes until Close.
func Serve(addr string, routes *route.Table, opts ...Option) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := New(routes, opts...)
	if err := s.Start(l); err != nil {
		_ = l.Close()
		return nil, err
	}
	return s, nil
}

// Start serves connections accepted from l in the background.
func (s *Server) Start(l net.Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrServerClosed
	}
	if s.listener != nil {
		return fmt.Errorf("server: already listening on %s", s.listener.Addr())
	}
	s.listener = l
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.listen(l, i)
	}
	return nil
}

func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Close() error {
	// Make Close idempotent.
	if s.closed.Swap(true) {
		return nil
	}
	// Start checks closed under mu, so a listener it installs is seen here.
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l == nil {
		return nil
	}
	return l.Close()
}

// Wait blocks until every worker has returned after Close.
func (s *Server) Wait() { s.wg.Wait() }

// listen is one worker: accept, serve to completion, repeat.
func (s *Server) listen(l net.Listener, id int) {
	defer s.wg.Done()

	c := route.NewContext()
	buf := make([]byte, s.recvSize)
	for {
		conn, err := l.Accept()
		if err != nil {
			if s.closed.Load() || isClosed(err) {
				return
			}
			// transient accept error; keep going
			s.logger.Warn("accept", "worker", id, "err", err)
			time.Sleep(10 * time.Millisecond)
			continue
		}
		s.ServeTransport(c, buf, NewConnTransport(conn, s.timeout))
	}
}

// helper: format duration compactly
func fmtDur(d time.Duration) string {
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

// ServeTransport runs one exchange on t with the buffers in c: a single
// receive into buf, parse, route, write, close. It returns the outcome that
// was logged. c and buf must not be used concurrently.
func (s *Server) ServeTransport(c *route.Context, buf []byte, t Transport) string {
	start := time.Now()
	ctx, span := s.tracer.Start(context.Background(), "tinyweb.serve",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	defer t.Close()

	c.Reset()
	n, err := t.Receive(buf)
	if err != nil {
		c.Request.Reset()
		s.finish(ctx, span, c, t, OutcomeReceiveError, start, err)
		return OutcomeReceiveError
	}

	c.Request.Parse(buf[:n])

	if err := s.routePath(c); err != nil {
		s.finish(ctx, span, c, t, OutcomeRejected, start, err)
		return OutcomeRejected
	}

	_, out := s.routes.Dispatch(c)
	outcome := out.String()
	if out == route.Answered {
		if _, err := response.NewWriter(t).WriteResponse(c.Response); err != nil {
			s.finish(ctx, span, c, t, OutcomeWriteError, start, err)
			return OutcomeWriteError
		}
	}
	s.finish(ctx, span, c, t, outcome, start, nil)
	return outcome
}

// routePath fills c.Path with the target used for matching.
func (s *Server) routePath(c *route.Context) error {
	if !s.strict {
		c.Path.Set(c.Request.URL())
		return nil
	}
	n, err := urlpath.Decode(c.Path.Storage(), c.Request.URL())
	c.Path.SetLen(n)
	return err
}

func (s *Server) finish(ctx context.Context, span trace.Span, c *route.Context, t Transport,
	outcome string, start time.Time, err error) {
	d := time.Since(start)
	req := c.Request
	method := req.Method.String()
	overflow := req.Overflow()

	s.metrics.Served(ctx, method, outcome, d)
	for _, field := range overflow.Names() {
		s.metrics.Truncated(ctx, field)
	}
	if c.Value.Truncated() {
		s.metrics.Truncated(ctx, "json-value")
	}
	if c.Response.Truncated() {
		s.metrics.Truncated(ctx, "response")
	}

	status := "-"
	if c.Response.Ready() {
		code := int(c.Response.Status())
		status = strconv.Itoa(code)
		span.SetAttributes(attribute.Int("http.status_code", code))
	}
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("url.path", string(req.URL())),
		attribute.String("tinyweb.outcome", outcome),
	)

	host, _ := req.Headers.Get("Host")
	agent, _ := req.Headers.Get("User-Agent")
	attrs := []slog.Attr{
		slog.String("remote", remoteHost(t)),
		slog.String("method", string(req.MethodToken())),
		slog.String("url", string(req.URL())),
		slog.String("host", string(host)),
		slog.String("agent", string(agent)),
		slog.String("status", status),
		slog.String("outcome", outcome),
		slog.String("dur", fmtDur(d)),
		slog.String("overflow", overflow.String()),
	}
	level := slog.LevelInfo
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		attrs = append(attrs, slog.Any("err", err))
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, "served", attrs...)
}
