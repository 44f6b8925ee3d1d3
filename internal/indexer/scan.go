package indexer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/tickerlogos/tickerlogos/internal/classify"
	"github.com/tickerlogos/tickerlogos/internal/types"
)

// walkRoot is the logos root as seen through a billy filesystem rooted there.
const walkRoot = "."

// ErrStopScan may be returned by a CandidateFunc to end a scan early.
// Scan itself then returns nil.
var ErrStopScan = errors.New("stop scan")

// CandidateFunc receives every eligible image found by Scan, in filesystem
// enumeration order.
type CandidateFunc func(c types.Candidate) error

// RootExists reports whether the logos root is present and is a directory.
func RootExists(fsys billy.Filesystem) bool {
	info, err := fsys.Stat(walkRoot)
	return err == nil && info.IsDir()
}

// Scan walks fsys recursively and calls fn for each eligible image.
// A missing root yields no candidates and no error. Entries that cannot be
// read are logged and skipped. Symlinked files are followed, symlinked
// directories are not descended into.
func Scan(fsys billy.Filesystem, logger *zap.Logger, fn CandidateFunc) error {
	if !RootExists(fsys) {
		return nil
	}

	err := util.Walk(fsys, walkRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.Warn("Skipping unreadable entry", zap.String("path", path), zap.Error(err))
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			resolved, statErr := fsys.Stat(path)
			if statErr != nil {
				logger.Debug("Skipping dangling symlink", zap.String("path", path), zap.Error(statErr))
				return nil
			}
			info = resolved
		}
		if !classify.IsImageInfo(path, info) {
			return nil
		}
		c := classify.NewCandidate(path)
		if c.Key == "" {
			return nil
		}
		return fn(c)
	})
	if errors.Is(err, ErrStopScan) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("scanning logos root: %w", err)
	}
	return nil
}
