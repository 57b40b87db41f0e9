package cmd

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// healthcheckTimeout bounds the probe so a wedged server fails the check
// instead of hanging the container runtime.
const healthcheckTimeout = 5 * time.Second

func newHealthcheckCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe a running server's health endpoint",
		Long: `Probe the /health endpoint of a running ticktick-mcp server and exit 0
if it responds with HTTP 200, non-zero otherwise.

Intended for container HEALTHCHECK directives and CI smoke tests. The target
defaults to localhost with the port from SERVER_PORT (or 8150).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = defaultHealthURL()
			}

			client := &http.Client{Timeout: healthcheckTimeout}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
			if err != nil {
				return fmt.Errorf("invalid health URL %s: %w", url, err)
			}

			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("health probe failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("health probe returned status %d", resp.StatusCode)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "healthy")
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Health endpoint URL to probe (default: http://localhost:<SERVER_PORT>/health)")

	return cmd
}

func defaultHealthURL() string {
	port := 8150
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			port = p
		}
	}
	return fmt.Sprintf("http://localhost:%d/health", port)
}
