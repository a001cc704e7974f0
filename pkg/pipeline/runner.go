package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cdspice/pkg/cache"
	"github.com/matzehuels/cdspice/pkg/circuit"
	"github.com/matzehuels/cdspice/pkg/errors"
	cdio "github.com/matzehuels/cdspice/pkg/io"
	"github.com/matzehuels/cdspice/pkg/observability"
	"github.com/matzehuels/cdspice/pkg/spice"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options. Its Registry must not be modified while
// runs are in progress.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Registry *spice.Registry
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Registry: spice.DefaultRegistry(),
	}
}

// Exporter returns an exporter configured for opts.
func (r *Runner) Exporter(opts Options) *spice.Exporter {
	return spice.New(
		spice.WithRegistry(r.Registry),
		spice.WithNewline(opts.LineEnding()),
		spice.WithPolicy(opts.Policy()),
		spice.WithLogger(r.Logger),
	)
}

// Execute exports doc and renders every requested format.
func (r *Runner) Execute(ctx context.Context, doc *circuit.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document is required")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte, len(opts.Formats))}
	result.Stats.Components = len(doc.Components)

	// Stage 1: Export
	exportStart := time.Now()
	n, err := r.Export(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Netlist = n
	result.Stats.Statements = len(n.Statements)
	result.Stats.Skipped = len(n.Skipped)
	result.Stats.ExportTime = time.Since(exportStart)

	r.Logger.Info("exported netlist",
		"statements", len(n.Statements),
		"skipped", len(n.Skipped),
		"duration", result.Stats.ExportTime)

	// Stage 2: Render
	result.DocumentHash, err = DocumentHash(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash document")
	}

	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	for _, format := range opts.Formats {
		data, hit, err := r.renderCached(ctx, doc, n, result.DocumentHash, format, opts)
		if err != nil {
			observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		if hit {
			result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
		}
		result.Artifacts[format] = data
	}
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = len(result.CacheInfo.Hits) == len(opts.Formats)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, nil)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(result.CacheInfo.Hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// DocumentHash identifies doc for artifact caching. Property values are
// hashed in their rendered text, so int 1000000 and float64 1e6 hash
// differently even though both encode as the same JSON number.
func DocumentHash(doc *circuit.Document) (string, error) {
	keyed := *doc
	keyed.Components = make([]circuit.Component, len(doc.Components))
	for i, c := range doc.Components {
		if c.Properties != nil {
			props := make(map[string]any, len(c.Properties))
			for k, v := range c.Properties {
				props[k] = spice.FormatValue(v)
			}
			c.Properties = props
		}
		keyed.Components[i] = c
	}
	data, err := cdio.MarshalJSON(&keyed)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// Export runs the export stage. A missing required field surfaces as
// MISSING_FIELD; the underlying *spice.MissingFieldError stays reachable
// through errors.As.
func (r *Runner) Export(ctx context.Context, doc *circuit.Document, opts Options) (*spice.Netlist, error) {
	title := doc.Metadata.Title
	observability.Pipeline().OnExportStart(ctx, title, len(doc.Components))

	start := time.Now()
	n, err := r.Exporter(opts).Export(doc)
	d := time.Since(start)
	if err != nil {
		observability.Pipeline().OnExportComplete(ctx, title, 0, 0, d, err)
		return nil, exportError(err)
	}
	observability.Pipeline().OnExportComplete(ctx, title, len(n.Statements), len(n.Skipped), d, nil)
	return n, nil
}

func exportError(err error) error {
	var mf *spice.MissingFieldError
	if stderrors.As(err, &mf) {
		return errors.Wrap(errors.ErrCodeMissingField, err, "export")
	}
	if stderrors.Is(err, spice.ErrNilDocument) {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "export")
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "export")
}

// renderCached returns a cached artifact or renders and stores it.
// Cache failures are logged and never fail the run.
func (r *Runner) renderCached(ctx context.Context, doc *circuit.Document, n *spice.Netlist, docHash, format string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))

	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "format", format, "err", err)
	}
	if err == nil && hit {
		observability.Cache().OnCacheHit(ctx, format)
		r.Logger.Debug("cache hit", "format", format)
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, format)

	data, err = Render(doc, n, r.Registry, format, opts)
	if err != nil {
		return nil, false, err
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, cache.DefaultTTL)
	})
	if err != nil {
		r.Logger.Warn("cache store failed", "format", format, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
