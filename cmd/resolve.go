package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/stephenafamo/sentryscope/identity"
	"github.com/stephenafamo/sentryscope/internal"
	"github.com/volatiletech/null/v8"
)

func resolveCmd(settings internal.Settings) *cobra.Command {
	var ip string

	cmd := &cobra.Command{
		Use:   "resolve [token]",
		Short: "Print the sentry user a bearer token resolves to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Validate(); err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}

			backend, err := getBackend(cmd.Context(), settings)
			if err != nil {
				return fmt.Errorf("could not get token backend: %w", err)
			}
			defer backend.Close()

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, "/", nil)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				req.Header.Set("Authorization", "Bearer "+args[0])
			}

			token, err := backend.auth.Authenticate(req)
			if err != nil {
				return fmt.Errorf("could not authenticate: %w", err)
			}

			user, err := identity.Resolve(token, ip)
			if err != nil {
				return fmt.Errorf("could not resolve user: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatUser(user))
			return nil
		},
	}

	cmd.Flags().StringVar(&ip, "ip", "127.0.0.1", "client address of the request")

	return cmd
}

func formatUser(user identity.UserIdentity) string {
	return fmt.Sprintf("id=%s email=%s ip_address=%s username=%s",
		show(user.ID), show(user.Email), show(user.IPAddress), show(user.Username))
}

func show(s null.String) string {
	if !s.Valid {
		return "<null>"
	}

	return fmt.Sprintf("%q", s.String)
}
