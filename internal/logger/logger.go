package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Options selects the local handler and the optional OTLP export.
type Options struct {
	Level        string
	Format       string
	ServiceName  string
	OTLPEndpoint string
	Output       io.Writer
}

// ShutdownFunc flushes buffered records.
type ShutdownFunc func(context.Context) error

// New builds the service logger. With an OTLP endpoint, records go to both the
// local handler and the OpenTelemetry log pipeline.
func New(ctx context.Context, opts Options) (*slog.Logger, ShutdownFunc, error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	level := ParseLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{Level: level}

	var local slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		local = slog.NewJSONHandler(out, handlerOpts)
	} else {
		local = slog.NewTextHandler(out, handlerOpts)
	}

	if opts.OTLPEndpoint == "" {
		return slog.New(local), func(context.Context) error { return nil }, nil
	}

	exporter, err := otlploghttp.New(ctx, otlploghttp.WithEndpointURL(opts.OTLPEndpoint))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(resource.NewSchemaless(attribute.String("service.name", opts.ServiceName))),
	)

	remote := otelslog.NewHandler(opts.ServiceName, otelslog.WithLoggerProvider(provider))
	logger := slog.New(&teeHandler{level: level, handlers: []slog.Handler{local, remote}})

	return logger, provider.Shutdown, nil
}

// ParseLevel maps LOG_LEVEL to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// teeHandler sends each record at or above level to every handler.
type teeHandler struct {
	level    slog.Leveler
	handlers []slog.Handler
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &teeHandler{level: h.level, handlers: next}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &teeHandler{level: h.level, handlers: next}
}
