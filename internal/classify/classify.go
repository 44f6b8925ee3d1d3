package classify

import (
	"cmp"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/tickerlogos/tickerlogos/internal/types"
)

// ExtensionPreference lists the supported image extensions, most preferred first.
var ExtensionPreference = []string{".png", ".svg", ".webp", ".jpg", ".jpeg", ".ico"}

// SubdirPreference lists the known logo categories, most preferred first.
var SubdirPreference = []types.Category{
	types.CategoryTicker,
	types.CategoryCrypto,
	types.CategoryForex,
	types.CategoryExchange,
}

// ExtensionRank returns the position of ext in ExtensionPreference.
// The leading dot is optional and case is ignored. Unsupported extensions
// rank last with len(ExtensionPreference).
func ExtensionRank(ext string) int {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if i := slices.Index(ExtensionPreference, ext); i >= 0 {
		return i
	}
	return len(ExtensionPreference)
}

// IsSupportedExtension reports whether ext is one of ExtensionPreference.
func IsSupportedExtension(ext string) bool {
	return ext != "" && ExtensionRank(ext) < len(ExtensionPreference)
}

// SubdirectoryRank ranks rel, a path relative to the logos root, by its first
// segment. Files directly at the root, unknown subdirectories and paths that
// leave the root rank last with len(SubdirPreference).
func SubdirectoryRank(rel string) int {
	category, ok := categoryOf(rel)
	if !ok {
		return len(SubdirPreference)
	}
	if i := slices.Index(SubdirPreference, category); i >= 0 {
		return i
	}
	return len(SubdirPreference)
}

// CategoryOf returns the known category rel lives in, or CategoryOther.
func CategoryOf(rel string) types.Category {
	if SubdirectoryRank(rel) == len(SubdirPreference) {
		return types.CategoryOther
	}
	category, _ := categoryOf(rel)
	return category
}

func categoryOf(rel string) (types.Category, bool) {
	clean := path.Clean(filepath.ToSlash(rel))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
		return "", false
	}
	first, _, nested := strings.Cut(clean, "/")
	if !nested {
		return "", false
	}
	return types.Category(first), true
}

// Stem returns the base name of p without its final extension.
func Stem(p string) string {
	base := path.Base(filepath.ToSlash(p))
	return strings.TrimSuffix(base, path.Ext(base))
}

// IsImageInfo reports whether info describes a regular file whose name
// carries a supported extension. A dot-file such as ".png" has no stem and
// does not qualify.
func IsImageInfo(name string, info os.FileInfo) bool {
	if info == nil || !info.Mode().IsRegular() {
		return false
	}
	if Stem(name) == "" {
		return false
	}
	return IsSupportedExtension(path.Ext(filepath.ToSlash(name)))
}

// IsEligibleImage stats p on fsys, following symlinks, and applies IsImageInfo.
func IsEligibleImage(fsys billy.Basic, p string) bool {
	info, err := fsys.Stat(p)
	if err != nil {
		return false
	}
	return IsImageInfo(p, info)
}

// NewCandidate annotates rel with its key and ranks.
func NewCandidate(rel string) types.Candidate {
	rel = filepath.ToSlash(rel)
	return types.Candidate{
		Key:        types.NormalizeTicker(Stem(rel)),
		Path:       rel,
		Category:   CategoryOf(rel),
		SubdirRank: SubdirectoryRank(rel),
		ExtRank:    ExtensionRank(path.Ext(rel)),
	}
}

// Compare orders candidates by subdirectory rank, then extension rank, then
// case-insensitive path.
func Compare(a, b types.Candidate) int {
	if c := cmp.Compare(a.SubdirRank, b.SubdirRank); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ExtRank, b.ExtRank); c != 0 {
		return c
	}
	return cmp.Compare(strings.ToLower(a.Path), strings.ToLower(b.Path))
}

// Best returns the minimum of candidates under Compare. Among candidates
// that compare equal the earliest one wins. It panics on an empty slice.
func Best(candidates []types.Candidate) types.Candidate {
	return slices.MinFunc(candidates, Compare)
}
