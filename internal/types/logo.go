package types

import (
	"errors"
	"strings"
)

// TickerKey is the normalized lookup key for a logo: the trimmed, lowercased
// filename stem of an image file.
type TickerKey string

// NormalizeTicker turns caller input or a filename stem into a TickerKey.
func NormalizeTicker(raw string) TickerKey {
	return TickerKey(strings.ToLower(strings.TrimSpace(raw)))
}

// Category is the first path segment of a logo below the logos root.
type Category string

const (
	CategoryTicker   Category = "ticker_icons"   // default stock tickers
	CategoryCrypto   Category = "crypto_icons"   // crypto symbols
	CategoryForex    Category = "forex_icons"    // forex pairs
	CategoryExchange Category = "exchange_icons" // exchanges
	CategoryOther    Category = ""               // root-level or unknown subdirectory
)

// Candidate is an eligible image file associated with a TickerKey before
// best-match selection.
type Candidate struct {
	Key TickerKey

	// Path is slash-separated and relative to the logos root.
	Path string

	Category   Category
	SubdirRank int
	ExtRank    int
}

var (
	// ErrInvalidInput is returned when a ticker normalizes to the empty string.
	ErrInvalidInput = errors.New("ticker must not be empty")

	// ErrNotFound is returned when neither the index nor a fallback scan
	// produced a logo for the ticker.
	ErrNotFound = errors.New("logo not found")
)
