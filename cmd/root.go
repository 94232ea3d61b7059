package cmd

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/stephenafamo/orchestra"
	"github.com/stephenafamo/sentryscope/internal"
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context, settings internal.Settings) error {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use:   "sentryscope [players...]",
		Short: "Serve HTTP with the user and route attached to sentry events",
		Long: `Serve HTTP with the user and route attached to sentry events.

Players: http-server, token-watcher. All players are started if none are given.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Validate(); err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}

			hub, err := getMonitor(settings)
			if err != nil {
				return fmt.Errorf("could not get monitor: %w", err)
			}
			defer hub.Flush(time.Second * 5)

			backend, err := getBackend(cmd.Context(), settings)
			if err != nil {
				return fmt.Errorf("could not get token backend: %w", err)
			}
			defer backend.Close()

			conductor := &orchestra.Conductor{
				Timeout: 15 * time.Second,
				Players: make(map[string]orchestra.Player),
			}

			allPlayers := setPlayers(settings, hub, backend)

			// Start all if no args were given
			if len(args) == 0 {
				conductor.Players = allPlayers
			}

			for _, pl := range args {
				player, ok := allPlayers[pl]
				if !ok {
					return fmt.Errorf("unknown player %q", pl)
				}
				conductor.Players[pl] = player
			}

			return orchestra.PlayUntilSignal(
				conductor,
				os.Interrupt, syscall.SIGTERM,
			)
		},
	}

	rootCmd.AddCommand(resolveCmd(settings))

	return rootCmd.ExecuteContext(ctx)
}
