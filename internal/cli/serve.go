package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cdspice/internal/server"
	"github.com/matzehuels/cdspice/pkg/cache"
	"github.com/matzehuels/cdspice/pkg/observability"
	"github.com/matzehuels/cdspice/pkg/pipeline"
)

// serveOpts holds the serve command flags.
type serveOpts struct {
	addr        string
	cacheURL    string
	cachePrefix string
}

// serveCommand runs the HTTP API until the context is cancelled.
func (c *CLI) serveCommand() *cobra.Command {
	opts := &serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

The artifact cache is chosen by URL: redis://, rediss://, mongodb://,
mongodb+srv:// or file://. Without --cache, caching is disabled.

Flags fall back to the environment variables ` + envAddr + `, ` + envCacheURL + `
and ` + envCachePrefix + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", envOr(envAddr, server.DefaultAddr), "listen address")
	cmd.Flags().StringVar(&opts.cacheURL, "cache", envOr(envCacheURL, ""), "cache URL")
	cmd.Flags().StringVar(&opts.cachePrefix, "cache-prefix", envOr(envCachePrefix, ""), "prefix for cache keys in a shared backend")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	ch, err := cache.Open(ctx, opts.cacheURL)
	if err != nil {
		return err
	}

	var keyer cache.Keyer
	if opts.cachePrefix != "" {
		keyer = cache.NewScopedKeyer(nil, opts.cachePrefix)
	}
	runner := pipeline.NewRunner(ch, keyer, logger)
	defer runner.Close()

	hooks := observability.NewLogHooks(logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)

	logger.Info("starting server", "addr", opts.addr, "cache", cacheKind(opts.cacheURL))
	return server.New(runner, logger).ListenAndServe(ctx, opts.addr)
}

// cacheKind names the backend without leaking credentials from the URL.
func cacheKind(url string) string {
	scheme, _, ok := strings.Cut(url, "://")
	if !ok {
		return "none"
	}
	return scheme
}
