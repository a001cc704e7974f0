package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/cdspice/internal/cli"
	cderrors "github.com/matzehuels/cdspice/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}

// exitCode distinguishes bad input (2) from other failures (1).
func exitCode(err error) int {
	switch cderrors.GetCode(err) {
	case cderrors.ErrCodeInvalidInput, cderrors.ErrCodeInvalidFormat, cderrors.ErrCodeInvalidDocument,
		cderrors.ErrCodeInvalidPath, cderrors.ErrCodeInvalidCacheURL, cderrors.ErrCodeMissingField, cderrors.ErrCodeFileNotFound, cderrors.ErrCodeUnsupported:
		return 2
	}
	return 1
}
