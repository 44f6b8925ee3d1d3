package util

import (
	"slices"
	"strings"
)

// SplitCSV splits a comma-separated flag value into trimmed, non-empty items.
// Repeated items are kept once, in order of first appearance.
func SplitCSV(s string) []string {
	var result []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" && !slices.Contains(result, item) {
			result = append(result, item)
		}
	}
	return result
}
