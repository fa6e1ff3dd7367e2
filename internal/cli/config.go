package cli

import "os"

// Config holds CLI configuration
type Config struct {
	// ServerURL is the base URL of the server (http or https)
	ServerURL string
	// Output format: text or json
	Output string
}

// DefaultConfig returns CLI defaults, honoring environment variables
func DefaultConfig() *Config {
	cfg := &Config{
		ServerURL: "http://localhost:8080",
		Output:    "text",
	}
	if v := os.Getenv("DROPFOUR_SERVER"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("DROPFOUR_OUTPUT"); v != "" {
		cfg.Output = v
	}
	return cfg
}
