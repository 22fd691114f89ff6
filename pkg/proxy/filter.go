package proxy

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FilterConfig defines include/exclude glob patterns deciding which proxied
// traffic enters the capture log at all. This is orthogonal to the
// recorder's per-session target filter, which runs at stop time.
type FilterConfig struct {
	IncludePaths []string `json:"includePaths,omitempty"` // Capture only if path matches (empty = all)
	ExcludePaths []string `json:"excludePaths,omitempty"` // Never capture if path matches
	IncludeHosts []string `json:"includeHosts,omitempty"` // Capture only from these hosts (empty = all)
	ExcludeHosts []string `json:"excludeHosts,omitempty"` // Never capture from these hosts
}

// NewFilterConfig creates an empty filter config (captures everything).
func NewFilterConfig() *FilterConfig {
	return &FilterConfig{}
}

// ShouldCapture determines whether an exchange enters the log.
// Precedence:
//  1. If matches ANY exclude pattern -> not captured
//  2. If include patterns exist AND matches NONE -> not captured
//  3. Otherwise -> captured
//
// Host matching is case-insensitive; path matching is case-sensitive.
func (f *FilterConfig) ShouldCapture(host, path string) bool {
	host = strings.ToLower(host)

	for _, pattern := range f.ExcludeHosts {
		if matchGlob(strings.ToLower(pattern), host) {
			return false
		}
	}
	for _, pattern := range f.ExcludePaths {
		if matchGlob(pattern, path) {
			return false
		}
	}

	if len(f.IncludeHosts) > 0 {
		matched := false
		for _, pattern := range f.IncludeHosts {
			if matchGlob(strings.ToLower(pattern), host) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.IncludePaths) > 0 {
		for _, pattern := range f.IncludePaths {
			if matchGlob(pattern, path) {
				return true
			}
		}
		return false
	}

	return true
}

// matchGlob matches a doublestar glob against a string. Invalid patterns
// match nothing.
func matchGlob(pattern, s string) bool {
	ok, err := doublestar.Match(pattern, s)
	return err == nil && ok
}
