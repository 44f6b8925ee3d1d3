package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tickerlogos/tickerlogos/internal/api"
	"github.com/tickerlogos/tickerlogos/internal/classify"
	"github.com/tickerlogos/tickerlogos/internal/indexer"
	"github.com/tickerlogos/tickerlogos/internal/lookup"
	"github.com/tickerlogos/tickerlogos/internal/types"
)

// openRoot is the function used to open the logos root. It can be
// overridden in tests.
var openRoot = func(root string) billy.Filesystem {
	return osfs.New(root)
}

func indexCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "List the logo selected for every ticker",
		Long: `Scan the logos root and print the file chosen for each ticker, using the
same preference order as the server (subdirectory, then extension, then path).

Examples:
  # List every ticker
  logoctl index --root ./logos

  # Only crypto logos, as YAML
  logoctl index --category crypto_icons -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, category)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list logos from this subdirectory (e.g., ticker_icons)")

	return cmd
}

func runIndex(cmd *cobra.Command, category string) error {
	entries, stats, err := indexer.Build(openRoot(logosRoot), zap.NewNop())
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	result := IndexResult{
		Root:       logosRoot,
		Keys:       stats.Keys,
		Candidates: stats.Candidates,
		Entries:    make([]IndexEntry, 0, len(entries)),
	}
	for key, p := range entries {
		c := classify.CategoryOf(p)
		if category != "" && string(c) != category {
			continue
		}
		result.Entries = append(result.Entries, IndexEntry{
			Ticker:   string(key),
			Path:     p,
			Category: string(c),
		})
	}
	slices.SortFunc(result.Entries, func(a, b IndexEntry) int {
		return cmp.Compare(a.Ticker, b.Ticker)
	})

	return outputResult(cmd.OutOrStdout(), result, outputFmt)
}

func resolveCmd() *cobra.Command {
	var fallbackMode string

	cmd := &cobra.Command{
		Use:   "resolve [ticker]",
		Short: "Show which file a ticker resolves to",
		Long: `Resolve a ticker the way GET /logo/{ticker} does and print the result.

Examples:
  # Resolve a ticker
  logoctl resolve AAPL

  # Output as JSON
  logoctl resolve btc -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args[0], lookup.FallbackMode(fallbackMode))
		},
	}

	cmd.Flags().StringVar(&fallbackMode, "fallback-mode", string(lookup.FallbackFirstMatch), "Fallback scan selection: first or deterministic")

	return cmd
}

func runResolve(cmd *cobra.Command, ticker string, mode lookup.FallbackMode) error {
	if mode != lookup.FallbackFirstMatch && mode != lookup.FallbackDeterministic {
		return fmt.Errorf("unknown fallback mode %q", mode)
	}

	fsys := openRoot(logosRoot)
	idx := indexer.New(nil)
	if _, err := indexer.Load(idx, fsys, zap.NewNop()); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}
	svc := lookup.NewService(fsys, idx, lookup.Options{FallbackMode: mode})

	res, err := svc.Resolve(context.Background(), ticker)
	result := ResolveResult{
		Ticker:   ticker,
		Key:      string(types.NormalizeTicker(ticker)),
		Path:     res.Path,
		Status:   string(res.Status),
		Fallback: res.Fallback,
	}
	if res.Path != "" {
		result.ContentType = api.ContentType(res.Path)
	}
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			return err
		}
		result.Error = types.ErrNotFound.Error()
	}

	if err := outputResult(cmd.OutOrStdout(), result, outputFmt); err != nil {
		return err
	}
	if result.Error != "" {
		return fmt.Errorf("no logo for ticker %q", ticker)
	}
	return nil
}
