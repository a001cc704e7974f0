package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level events to
// a charmbracelet logger. Failures are logged at error level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnExportStart(_ context.Context, title string, components int) {
	h.logger.Debug("export started", "title", title, "components", components)
}

func (h *LogHooks) OnExportComplete(_ context.Context, title string, statements, skipped int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("export failed", "title", title, "err", err, "duration", d)
		return
	}
	h.logger.Debug("export complete", "title", title, "statements", statements, "skipped", skipped, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, format string) {
	h.logger.Debug("cache hit", "format", format)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, format string) {
	h.logger.Debug("cache miss", "format", format)
}

func (h *LogHooks) OnCacheSet(_ context.Context, format string, size int) {
	h.logger.Debug("cache set", "format", format, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.logger.Error("request failed", "method", method, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
