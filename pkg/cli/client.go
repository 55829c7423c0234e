package cli

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/sesuite-go/sesuite/pkg/config"
	"github.com/sesuite-go/sesuite/pkg/sesuite"
)

// errNoToken is returned when no token was configured.
var errNoToken = errors.New("no token: pass --token or set SESUITE_TOKEN")

// clientOptions returns the sesuite options for the merged configuration.
func clientOptions() []sesuite.Option {
	return []sesuite.Option{
		sesuite.WithBaseURL(cfg.BaseURL),
		sesuite.WithTimeout(cfg.Timeout),
		sesuite.WithLogger(logger),
	}
}

// withClient runs fn with an open client and closes it afterwards.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *sesuite.Client) error) error {
	if cfg.Token == "" {
		return errNoToken
	}
	if exp, ok := config.TokenExpiry(cfg.Token); ok && time.Now().After(exp) {
		logger.Warn("token has expired", slog.Time("expiredAt", exp))
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return sesuite.With(cfg.Token, func(c *sesuite.Client) error {
		return fn(ctx, c)
	}, clientOptions()...)
}

