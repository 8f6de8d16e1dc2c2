package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/metalagman/flowdebug/internal/cases"
	"github.com/metalagman/flowdebug/internal/config"
	"github.com/metalagman/flowdebug/internal/env"
	"github.com/metalagman/flowdebug/internal/mcpserver"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	var maxAttempts int
	var seed int64
	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Serve the environment as MCP tools over stdio",
		Long:         "Serve reset and step as MCP tools over stdio so an external agent can play episodes.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyEnvFlags(cmd, &cfg, maxAttempts, seed)
			return serveMCP(cmd.Context(), cfg)
		},
	}
	addEnvFlags(cmd, &maxAttempts, &seed)
	return cmd
}

func serveMCP(ctx context.Context, cfg config.Config) error {
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(
			func(cfg config.Config) (*cases.Store, error) {
				return openStore(ctx, cfg)
			},
			newEngine,
			func(engine *env.Engine) *mcpserver.Server {
				return mcpserver.New(engine, version)
			},
		),
		fx.Invoke(registerStdioServer),
	)
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("start mcp server: %w", err)
	}
	sig := <-app.Wait()
	if err := app.Stop(context.Background()); err != nil {
		return fmt.Errorf("stop mcp server: %w", err)
	}
	if sig.ExitCode != 0 {
		return fmt.Errorf("mcp server exited with code %d", sig.ExitCode)
	}
	return nil
}

// registerStdioServer runs the MCP server for the lifetime of the app and
// shuts the app down when the client disconnects.
func registerStdioServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, srv *mcpserver.Server) {
	var cancel context.CancelFunc
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var runCtx context.Context
			runCtx, cancel = context.WithCancel(context.Background())
			go func() {
				defer close(done)
				code := 0
				log.Info().Msg("mcp server listening on stdio")
				if err := srv.Run(runCtx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
					log.Error().Err(err).Msg("mcp server stopped")
					code = 1
				}
				_ = shutdowner.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
			}
			return nil
		},
	})
}
