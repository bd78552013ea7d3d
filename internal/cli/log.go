package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/evdash/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Loaded 412 stations (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks forwards library events to a logger. Events that fire on every
// click or request are logged at debug level.
type logHooks struct {
	logger *log.Logger
}

func registerHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetDashboardHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnLoadStart(ctx context.Context, source string) {
	h.logger.Info("loading stations", "source", source)
}

func (h logHooks) OnLoadComplete(ctx context.Context, source string, n int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("loading stations failed", "source", source, "err", err)
		return
	}
	h.logger.Info("loaded stations", "count", n, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnTreeRender(ctx context.Context, source, entering, updating, exiting int) {
	h.logger.Debug("tree frame", "source", source, "enter", entering, "update", updating, "exit", exiting)
}

func (h logHooks) OnFilterChange(ctx context.Context, key string, active bool, visible int) {
	h.logger.Debug("filter", "key", key, "active", active, "visible", visible)
}

func (h logHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(ctx context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnError(ctx context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "host", host, "path", path, "err", err)
}
