package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tickerlogos/tickerlogos/internal/classify"
	"github.com/tickerlogos/tickerlogos/internal/indexer"
	"github.com/tickerlogos/tickerlogos/internal/types"
)

// FallbackMode selects how a fallback scan picks among several matches.
type FallbackMode string

const (
	// FallbackFirstMatch takes the first matching file in filesystem
	// enumeration order and stops walking. This can differ from the file a
	// full rebuild would select.
	FallbackFirstMatch FallbackMode = "first"

	// FallbackDeterministic walks the whole root and applies classify.Best
	// to every match, the same selection Build makes.
	FallbackDeterministic FallbackMode = "deterministic"
)

// Status distinguishes how a lookup ended.
type Status string

const (
	StatusFound             Status = "found"
	StatusNotIndexed        Status = "not_indexed"
	StatusIndexedButMissing Status = "indexed_but_missing"
)

// Result describes the outcome of Resolve. Path is relative to the logos root.
type Result struct {
	Ticker   string
	Key      types.TickerKey
	Path     string
	Status   Status
	Fallback bool // Path was discovered by a fallback scan
}

// Options configures a Service.
type Options struct {
	// FallbackMode defaults to FallbackFirstMatch.
	FallbackMode FallbackMode

	// FallbackLimiter throttles fallback scans. Nil means unlimited. When the
	// limiter refuses, the lookup reports not found without scanning.
	FallbackLimiter *rate.Limiter

	// Logger for lookup operations. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Service resolves tickers to logo files.
type Service struct {
	fsys    billy.Filesystem
	index   *indexer.Index
	mode    FallbackMode
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewService creates a Service over an already loaded index.
func NewService(fsys billy.Filesystem, idx *indexer.Index, opts Options) *Service {
	if opts.FallbackMode == "" {
		opts.FallbackMode = FallbackFirstMatch
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		fsys:    fsys,
		index:   idx,
		mode:    opts.FallbackMode,
		limiter: opts.FallbackLimiter,
		logger:  opts.Logger.Named("lookup"),
	}
}

// Filesystem returns the logos root the service reads from.
func (s *Service) Filesystem() billy.Filesystem {
	return s.fsys
}

// Index returns the index the service consults and updates.
func (s *Service) Index() *indexer.Index {
	return s.index
}

// Resolve maps ticker to a logo file.
//
// It returns types.ErrInvalidInput when ticker is blank and an error
// wrapping types.ErrNotFound when no file matches; the Result still tells
// NotIndexed apart from IndexedButMissing in that case.
func (s *Service) Resolve(ctx context.Context, ticker string) (Result, error) {
	res := Result{Ticker: ticker, Key: types.NormalizeTicker(ticker)}
	if res.Key == "" {
		lookupsTotal.WithLabelValues("invalid").Inc()
		return res, types.ErrInvalidInput
	}

	res.Status = StatusNotIndexed
	stored, ok := s.index.Get(res.Key)
	if ok {
		if s.exists(stored) {
			res.Path = stored
			res.Status = StatusFound
			lookupsTotal.WithLabelValues("index").Inc()
			return res, nil
		}
		res.Status = StatusIndexedButMissing
		s.logger.Info("Indexed logo vanished",
			zap.String("key", string(res.Key)),
			zap.String("path", stored),
		)
	}

	if s.limiter != nil && !s.limiter.Allow() {
		lookupsTotal.WithLabelValues("throttled").Inc()
		s.logger.Debug("Fallback scan throttled", zap.String("key", string(res.Key)))
		return res, fmt.Errorf("ticker %q: %w", ticker, types.ErrNotFound)
	}

	found, err := s.fallback(ctx, res.Key)
	if err != nil {
		return res, fmt.Errorf("fallback scan for %q: %w", ticker, err)
	}
	if found == "" {
		lookupsTotal.WithLabelValues("not_found").Inc()
		return res, fmt.Errorf("ticker %q: %w", ticker, types.ErrNotFound)
	}

	var staleHint string
	if res.Status == StatusIndexedButMissing {
		staleHint = stored
	}
	s.index.Offer(res.Key, found, staleHint)

	res.Path = found
	res.Status = StatusFound
	res.Fallback = true
	lookupsTotal.WithLabelValues("fallback").Inc()
	return res, nil
}

// fallback walks the root for key and returns the matching path, or "".
func (s *Service) fallback(ctx context.Context, key types.TickerKey) (string, error) {
	start := time.Now()
	var matches []types.Candidate
	err := indexer.Scan(s.fsys, s.logger, func(c types.Candidate) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.Key != key {
			return nil
		}
		matches = append(matches, c)
		if s.mode == FallbackFirstMatch {
			return indexer.ErrStopScan
		}
		return nil
	})
	fallbackDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		fallbackScansTotal.WithLabelValues("error").Inc()
		return "", err
	}
	if len(matches) == 0 {
		fallbackScansTotal.WithLabelValues("miss").Inc()
		s.logger.Debug("Fallback scan found nothing", zap.String("key", string(key)))
		return "", nil
	}

	fallbackScansTotal.WithLabelValues("hit").Inc()
	best := classify.Best(matches)
	s.logger.Info("Fallback scan found logo",
		zap.String("key", string(key)),
		zap.String("path", best.Path),
		zap.String("mode", string(s.mode)),
		zap.Int("matches", len(matches)),
	)
	return best.Path, nil
}

// exists reports whether path still holds an eligible image. A path that
// vanished or was replaced by a directory does not.
func (s *Service) exists(path string) bool {
	return classify.IsEligibleImage(s.fsys, path)
}
