package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/testpulse/testpulse-go/config"
	"github.com/testpulse/testpulse-go/transport"
)

// ping probes the collection service and exits non-zero when unreachable.
func (a *App) ping(ctx *cli.Context) error {
	cfg := config.Resolve(config.Options{BaseURL: ctx.String("base-url")})

	client := transport.New(a.logger, transport.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Version: a.version,
	})

	if !client.Ping(ctx.Context) {
		return fmt.Errorf("collection service at %s is not healthy", cfg.BaseURL)
	}
	a.logger.Info().Str("base_url", cfg.BaseURL).Msg("Collection service is healthy")
	return nil
}
