package indexer

import (
	"time"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"github.com/tickerlogos/tickerlogos/internal/classify"
	"github.com/tickerlogos/tickerlogos/internal/types"
)

// BuildStats summarizes one Build.
type BuildStats struct {
	Candidates int
	Keys       int
	Duration   time.Duration
}

// Build scans fsys and selects one logo per TickerKey using classify.Best.
// A missing root yields an empty map and no error.
func Build(fsys billy.Filesystem, logger *zap.Logger) (map[types.TickerKey]string, BuildStats, error) {
	start := time.Now()

	grouped := make(map[types.TickerKey][]types.Candidate)
	var stats BuildStats
	err := Scan(fsys, logger, func(c types.Candidate) error {
		grouped[c.Key] = append(grouped[c.Key], c)
		stats.Candidates++
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	entries := make(map[types.TickerKey]string, len(grouped))
	for key, cands := range grouped {
		entries[key] = classify.Best(cands).Path
	}

	stats.Keys = len(entries)
	stats.Duration = time.Since(start)
	buildDuration.Observe(stats.Duration.Seconds())
	return entries, stats, nil
}

// Load builds the index from fsys and installs it into idx.
func Load(idx *Index, fsys billy.Filesystem, logger *zap.Logger) (BuildStats, error) {
	if !RootExists(fsys) {
		logger.Warn("Logos root does not exist, starting with an empty index")
	}
	entries, stats, err := Build(fsys, logger)
	if err != nil {
		return stats, err
	}
	idx.Reset(entries)
	logger.Info("Logo index built",
		zap.Int("keys", stats.Keys),
		zap.Int("candidates", stats.Candidates),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}
