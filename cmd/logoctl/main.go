// logoctl is a CLI tool for inspecting a ticker logos directory and a
// running logo server.
//
// Installation:
//
//	go build -o logoctl ./cmd/logoctl
//	mv logoctl /usr/local/bin/
//
// Usage:
//
//	logoctl index --root ./logos
//	logoctl resolve AAPL
//	logoctl inspect btc eth -o json
//	logoctl info --server http://localhost:8000
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tickerlogos/tickerlogos/internal/config"
)

var (
	version   = "dev"
	outputFmt string
	logosRoot string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logoctl",
		Short: "Inspect ticker logos and the logo server",
		Long: `logoctl is a CLI tool for working with a ticker logos directory.

It builds the same index the server builds at startup, so it can show which
file a ticker resolves to without running the server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultRoot := config.Default().LogosRoot
	if env := os.Getenv(config.RootEnvVar); env != "" {
		defaultRoot = env
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&logosRoot, "root", defaultRoot, "Logos root directory (default from "+config.RootEnvVar+")")

	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(infoCmd())

	return rootCmd
}
