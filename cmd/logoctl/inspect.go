package main

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/go-git/go-billy/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tickerlogos/tickerlogos/internal/imageinfo"
	"github.com/tickerlogos/tickerlogos/internal/indexer"
	"github.com/tickerlogos/tickerlogos/internal/types"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [ticker...]",
		Short: "Show format and dimensions of selected logos",
		Long: `Read the header of each selected logo and print its format and size in
pixels. With no arguments every indexed ticker is inspected.

Examples:
  # Inspect two tickers
  logoctl inspect aapl btc

  # Inspect everything as JSON
  logoctl inspect -o json`,
		RunE: runInspect,
	}

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	fsys := openRoot(logosRoot)
	entries, _, err := indexer.Build(fsys, zap.NewNop())
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	keys := make([]types.TickerKey, 0, len(args))
	if len(args) == 0 {
		for key := range entries {
			keys = append(keys, key)
		}
		slices.SortFunc(keys, func(a, b types.TickerKey) int { return cmp.Compare(a, b) })
	} else {
		for _, arg := range args {
			key := types.NormalizeTicker(arg)
			if key == "" {
				return types.ErrInvalidInput
			}
			keys = append(keys, key)
		}
	}

	result := InspectResult{Images: make([]ImageDetails, 0, len(keys))}
	var missing int
	for _, key := range keys {
		p, ok := entries[key]
		if !ok {
			missing++
			result.Images = append(result.Images, ImageDetails{
				Ticker: string(key),
				Error:  types.ErrNotFound.Error(),
			})
			continue
		}
		result.Images = append(result.Images, inspectFile(fsys, key, p))
	}

	if err := outputResult(cmd.OutOrStdout(), result, outputFmt); err != nil {
		return err
	}
	if missing > 0 {
		return fmt.Errorf("%d of %d tickers have no logo", missing, len(keys))
	}
	return nil
}

func inspectFile(fsys billy.Filesystem, key types.TickerKey, p string) ImageDetails {
	details := ImageDetails{Ticker: string(key), Path: p}

	fi, err := fsys.Stat(p)
	if err != nil {
		details.Error = err.Error()
		return details
	}
	details.Size = fi.Size()

	f, err := fsys.Open(p)
	if err != nil {
		details.Error = err.Error()
		return details
	}
	defer f.Close()

	info, err := imageinfo.Inspect(f, p)
	if err != nil {
		details.Error = err.Error()
		return details
	}
	details.Format = info.Format
	details.Width = info.Width
	details.Height = info.Height
	return details
}
