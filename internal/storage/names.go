package storage

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldName normalizes a member name for case-insensitive comparison.
// Full Unicode case folding keeps "ĐỨC" and "đức" equal.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// NameContains reports whether name contains query under case folding.
func NameContains(name, query string) bool {
	return strings.Contains(FoldName(name), FoldName(query))
}
