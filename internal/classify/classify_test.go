package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickerlogos/tickerlogos/internal/types"
)

func TestExtensionRank(t *testing.T) {
	tests := []struct {
		ext  string
		want int
	}{
		{".png", 0},
		{".svg", 1},
		{".webp", 2},
		{".jpg", 3},
		{".jpeg", 4},
		{".ico", 5},
		{".PNG", 0},
		{"svg", 1},
		{"JPEG", 4},
		{".gif", 6},
		{"", 6},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtensionRank(tt.ext))
		})
	}
}

func TestSubdirectoryRank(t *testing.T) {
	tests := []struct {
		name string
		rel  string
		want int
	}{
		{"ticker icons", "ticker_icons/aapl.png", 0},
		{"crypto icons", "crypto_icons/btc.svg", 1},
		{"forex icons", "forex_icons/eurusd.png", 2},
		{"exchange icons", "exchange_icons/nyse.ico", 3},
		{"nested below known category", "crypto_icons/large/btc.png", 1},
		{"unknown subdirectory", "misc/aapl.png", 4},
		{"root level file", "aapl.png", 4},
		{"category names are case sensitive", "Ticker_Icons/aapl.png", 4},
		{"escapes root", "../ticker_icons/aapl.png", 4},
		{"absolute path", "/ticker_icons/aapl.png", 4},
		{"empty", "", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubdirectoryRank(tt.rel))
		})
	}
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, types.CategoryTicker, CategoryOf("ticker_icons/aapl.png"))
	assert.Equal(t, types.CategoryExchange, CategoryOf("exchange_icons/nyse.ico"))
	assert.Equal(t, types.CategoryOther, CategoryOf("misc/aapl.png"))
	assert.Equal(t, types.CategoryOther, CategoryOf("aapl.png"))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "AAPL", Stem("ticker_icons/AAPL.png"))
	assert.Equal(t, "brk.b", Stem("ticker_icons/brk.b.svg"))
	assert.Equal(t, "", Stem(".png"))
}

func TestIsEligibleImage(t *testing.T) {
	root := t.TempDir()
	write := func(rel string) {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
	write("ticker_icons/aapl.png")
	write("ticker_icons/msft.JPEG")
	write("ticker_icons/notes.txt")
	write("ticker_icons/.png")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.png"), 0o755))
	require.NoError(t, os.Symlink(
		filepath.Join(root, "ticker_icons", "aapl.png"),
		filepath.Join(root, "ticker_icons", "apple.png"),
	))

	fsys := osfs.New(root)

	assert.True(t, IsEligibleImage(fsys, "ticker_icons/aapl.png"))
	assert.True(t, IsEligibleImage(fsys, "ticker_icons/msft.JPEG"))
	assert.True(t, IsEligibleImage(fsys, "ticker_icons/apple.png"), "symlinks to images are followed")
	assert.False(t, IsEligibleImage(fsys, "ticker_icons/notes.txt"))
	assert.False(t, IsEligibleImage(fsys, "ticker_icons/.png"))
	assert.False(t, IsEligibleImage(fsys, "dir.png"), "directories are never eligible")
	assert.False(t, IsEligibleImage(fsys, "ticker_icons/missing.png"))
}

func TestNewCandidate(t *testing.T) {
	c := NewCandidate("crypto_icons/AAPL.SVG")
	assert.Equal(t, types.TickerKey("aapl"), c.Key)
	assert.Equal(t, "crypto_icons/AAPL.SVG", c.Path)
	assert.Equal(t, types.CategoryCrypto, c.Category)
	assert.Equal(t, 1, c.SubdirRank)
	assert.Equal(t, 1, c.ExtRank)
}

func TestBest_SubdirectoryWins(t *testing.T) {
	got := Best([]types.Candidate{
		NewCandidate("crypto_icons/aapl.png"),
		NewCandidate("exchange_icons/aapl.png"),
		NewCandidate("ticker_icons/aapl.ico"),
		NewCandidate("aapl.png"),
	})
	assert.Equal(t, "ticker_icons/aapl.ico", got.Path)
}

func TestBest_ExtensionOrder(t *testing.T) {
	exts := []string{".png", ".svg", ".webp", ".jpg", ".jpeg", ".ico"}
	for i := range exts {
		var cands []types.Candidate
		// Least preferred first so enumeration order cannot decide.
		for j := len(exts) - 1; j >= i; j-- {
			cands = append(cands, NewCandidate("forex_icons/eurusd"+exts[j]))
		}
		assert.Equal(t, "forex_icons/eurusd"+exts[i], Best(cands).Path)
	}

	got := Best([]types.Candidate{
		NewCandidate("exchange_icons/nyse.ico"),
		NewCandidate("exchange_icons/nyse.jpeg"),
	})
	assert.Equal(t, "exchange_icons/nyse.jpeg", got.Path)
}

func TestBest_LexicalTieBreak(t *testing.T) {
	got := Best([]types.Candidate{
		NewCandidate("misc_b/ETSY.png"),
		NewCandidate("Misc_A/etsy.png"),
		NewCandidate("misc_c/etsy.png"),
	})
	assert.Equal(t, "Misc_A/etsy.png", got.Path)
}

func TestBest_OrderIndependent(t *testing.T) {
	a := NewCandidate("crypto_icons/sol.svg")
	b := NewCandidate("crypto_icons/sol.png")
	c := NewCandidate("other/sol.png")

	assert.Equal(t, b, Best([]types.Candidate{a, b, c}))
	assert.Equal(t, b, Best([]types.Candidate{c, b, a}))
	assert.Equal(t, b, Best([]types.Candidate{b, c, a}))
}

func TestCompare(t *testing.T) {
	a := NewCandidate("ticker_icons/x.svg")
	b := NewCandidate("ticker_icons/x.png")
	assert.Positive(t, Compare(a, b))
	assert.Negative(t, Compare(b, a))
	assert.Zero(t, Compare(a, a))
}
