package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterEmptyCapturesEverything(t *testing.T) {
	f := NewFilterConfig()
	assert.True(t, f.ShouldCapture("example.com", "/anything"))
}

func TestFilterExcludeWins(t *testing.T) {
	f := &FilterConfig{
		IncludePaths: []string{"/api/**"},
		ExcludePaths: []string{"/api/internal/**"},
	}

	assert.True(t, f.ShouldCapture("example.com", "/api/users"))
	assert.False(t, f.ShouldCapture("example.com", "/api/internal/debug"))
	assert.False(t, f.ShouldCapture("example.com", "/metrics"))
}

func TestFilterHosts(t *testing.T) {
	f := &FilterConfig{
		IncludeHosts: []string{"api.example.com", "*.staging.example.com"},
		ExcludeHosts: []string{"telemetry.example.com"},
	}

	assert.True(t, f.ShouldCapture("api.example.com", "/x"))
	assert.True(t, f.ShouldCapture("API.Example.COM", "/x"))
	assert.True(t, f.ShouldCapture("web.staging.example.com", "/x"))
	assert.False(t, f.ShouldCapture("other.example.com", "/x"))
	assert.False(t, f.ShouldCapture("telemetry.example.com", "/x"))
}

func TestFilterGlobPatterns(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/api/*", "/api/users", true},
		{"/api/*", "/api/users/42", false}, // single star stops at separators
		{"/api/**", "/api/users/42", true},
		{"/health", "/health", true},
		{"/health", "/healthz", false},
	}

	for _, tt := range tests {
		f := &FilterConfig{IncludePaths: []string{tt.pattern}}
		assert.Equal(t, tt.want, f.ShouldCapture("example.com", tt.path),
			"pattern %q against %q", tt.pattern, tt.path)
	}
}

func TestFilterInvalidPatternMatchesNothing(t *testing.T) {
	f := &FilterConfig{ExcludePaths: []string{"[broken"}}
	assert.True(t, f.ShouldCapture("example.com", "/path"))
}
