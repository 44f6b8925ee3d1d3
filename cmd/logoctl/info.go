package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tickerlogos/tickerlogos/internal/api"
)

func infoCmd() *cobra.Command {
	var (
		server  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show service info and health of a running logo server",
		Long: `Query GET / and GET /health on a running logo server.

Examples:
  # Local server
  logoctl info

  # Remote server as JSON
  logoctl info --server https://logos.example.com -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := context.WithTimeout(parent, timeout)
			defer cancel()
			return runInfo(ctx, cmd, server)
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8000", "Base URL of the logo server")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	return cmd
}

func runInfo(ctx context.Context, cmd *cobra.Command, server string) error {
	base := strings.TrimSuffix(server, "/")

	var info api.InfoResponse
	if err := getJSON(ctx, base+"/", &info); err != nil {
		return err
	}

	// An unhealthy server answers 503 with a body, so the status code is
	// not treated as an error here.
	var health api.HealthResponse
	if err := getJSON(ctx, base+"/health", &health); err != nil {
		return err
	}

	result := InfoResult{
		Server:    base,
		Name:      info.Name,
		Version:   info.Version,
		Endpoints: info.Endpoints,
		Health:    health.Status,
		Keys:      health.Keys,
	}
	return outputResult(cmd.OutOrStdout(), result, outputFmt)
}

func getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return fmt.Errorf("unexpected status from %s: %s", url, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}
