package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// HealthResult is the server's health response
type HealthResult struct {
	Status string `json:"status"`
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			httpClient := &http.Client{Timeout: 10 * time.Second}
			url := strings.TrimSuffix(cfg.ServerURL, "/") + "/healthz"
			resp, err := httpClient.Get(url)
			if err != nil {
				return err
			}
			defer func() { _ = resp.Body.Close() }()

			var result HealthResult
			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				return fmt.Errorf("parsing health response: %w", err)
			}

			out.PrintMessage("Status: " + result.Status)
			return nil
		},
	}
}
