package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

var (
	ErrWorkers    = errors.New("config: workers must be at least 1")
	ErrBufferSize = errors.New("config: receive buffer must be at least 64 bytes")
)

type Config struct {
	Addr           string
	Workers        int
	RecvBufferSize int
	StrictURL      bool
	IOTimeout      time.Duration
	LogLevel       slog.Level
	ServiceName    string
	OTLPEndpoint   string
}

func Default() Config {
	return Config{
		Addr:           ":80",
		Workers:        1,
		RecvBufferSize: 1536,
		StrictURL:      true,
		LogLevel:       slog.LevelInfo,
		ServiceName:    "tinyweb",
	}
}

// Load builds a Config from defaults, then the environment, then args.
// getenv is os.Getenv in production.
func Load(name string, args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if err := fromEnv(&cfg, getenv); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "connections served in parallel, each with its own buffers")
	fs.IntVar(&cfg.RecvBufferSize, "recv-buffer", cfg.RecvBufferSize, "bytes read from a connection as one request")
	fs.BoolVar(&cfg.StrictURL, "strict-url", cfg.StrictURL, "decode and sanitize the URL before routing")
	fs.DurationVar(&cfg.IOTimeout, "io-timeout", cfg.IOTimeout, "per-connection read/write deadline, 0 for none")
	fs.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.ServiceName, "service-name", cfg.ServiceName, "service.name reported to OpenTelemetry")
	fs.StringVar(&cfg.OTLPEndpoint, "otlp-endpoint", cfg.OTLPEndpoint, "OTLP/gRPC collector URL, empty to disable")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Workers < 1 {
		return ErrWorkers
	}
	if c.RecvBufferSize < 64 {
		return ErrBufferSize
	}
	return nil
}

func fromEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("TINYWEB_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("TINYWEB_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: TINYWEB_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if v := getenv("TINYWEB_RECV_BUFFER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: TINYWEB_RECV_BUFFER: %w", err)
		}
		cfg.RecvBufferSize = n
	}
	if v := getenv("TINYWEB_STRICT_URL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: TINYWEB_STRICT_URL: %w", err)
		}
		cfg.StrictURL = b
	}
	if v := getenv("TINYWEB_IO_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: TINYWEB_IO_TIMEOUT: %w", err)
		}
		cfg.IOTimeout = d
	}
	if v := getenv("TINYWEB_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("config: TINYWEB_LOG_LEVEL: %w", err)
		}
	}
	if v := getenv("OTEL_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}
	return nil
}
