// Package util holds small helpers shared by the library and the CLI.
package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MatchesAny reports whether the slash-relative path matches any of the
// glob patterns. A pattern matches the full relative path or any of its
// trailing segment subpaths, so "thumbs" excludes every directory of that
// name at any depth. Invalid patterns never match.
func MatchesAny(patterns []string, relPath string) bool {
	for _, p := range patterns {
		if Matches(p, relPath) {
			return true
		}
	}
	return false
}

// Matches reports whether one gitignore-style pattern matches relPath.
// This is a simplified matcher built on filepath.Match; it does not cover
// every .gitignore edge case (notably "**" interactions).
func Matches(pattern, relPath string) bool {
	pattern = strings.TrimSuffix(filepath.ToSlash(strings.TrimSpace(pattern)), "/")
	relPath = filepath.ToSlash(relPath)
	if pattern == "" || relPath == "" || relPath == "." {
		return false
	}

	rooted := strings.HasPrefix(pattern, "/")
	pattern = strings.TrimPrefix(pattern, "/")

	if ok, _ := filepath.Match(pattern, relPath); ok {
		return true
	}
	if rooted {
		return false
	}
	parts := strings.Split(relPath, "/")
	for i := 1; i < len(parts); i++ {
		if ok, _ := filepath.Match(pattern, strings.Join(parts[i:], "/")); ok {
			return true
		}
	}
	return false
}

// FormatBytes renders a byte count in human units for summary output.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
