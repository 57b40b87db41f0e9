package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaeyeom/ticktick-mcp/internal/config"
	"github.com/jaeyeom/ticktick-mcp/internal/ticktick"
)

func newAuthCmd() *cobra.Command {
	var (
		configDir string
		authCode  string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Run the one-time TickTick OAuth flow",
		Long: `Obtain an OAuth token for the TickTick Open API and cache it for the
serve command.

Prints the authorization URL, waits for the code from the redirect, then
exchanges it and writes the token to the cache file in the config directory.
The cached token is refreshed automatically afterwards, so this command
normally needs to run only once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}
			if err := cfg.ValidateCredentials(); err != nil {
				return err
			}

			creds := ticktick.Credentials{
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
				RedirectURI:  cfg.RedirectURI,
				Username:     cfg.Username,
				Password:     cfg.Password,
			}

			code := authCode
			if code == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Open this URL in your browser and authorize the application:\n\n  %s\n\n", ticktick.AuthCodeURL(creds))
				fmt.Fprint(cmd.OutOrStdout(), "Paste the 'code' parameter from the redirect URL: ")

				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read authorization code: %w", err)
				}
				code = strings.TrimSpace(line)
			}
			if code == "" {
				return fmt.Errorf("authorization code is required")
			}

			cachePath := cfg.TokenCachePath()
			if err := ticktick.SaveToken(cmd.Context(), creds, code, cachePath); err != nil {
				return fmt.Errorf("failed to exchange authorization code: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", cachePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&configDir, "config-dir", "", "Directory containing the .env file and token cache (default: ~/.config/ticktick-mcp)")
	cmd.Flags().StringVar(&authCode, "code", "", "Authorization code from the redirect URL (skips the interactive prompt)")

	return cmd
}
