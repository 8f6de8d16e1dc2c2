package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/metalagman/flowdebug/internal/web"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func httpCmd() *cobra.Command {
	var port int
	var maxAttempts int
	var seed int64
	cmd := &cobra.Command{
		Use:          "http",
		Short:        "Serve the environment over HTTP",
		Long:         "Serve POST /reset and POST /step as JSON endpoints, plus a corpus overview at /.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyEnvFlags(cmd, &cfg, maxAttempts, seed)

			store, engine, err := openEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", port),
				Handler:           web.NewServer(store, engine).Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			ctx := cmd.Context()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			log.Info().Str("addr", srv.Addr).Int("cases", store.Len()).Msg("http server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on")
	addEnvFlags(cmd, &maxAttempts, &seed)
	return cmd
}
