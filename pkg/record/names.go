package record

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultStubName is used when a URL path reduces to nothing (the root path).
const DefaultStubName = "root"

// Hyphens are kept: they are already identifier-safe and preserving them
// keeps path segments like "record-this" recognizable in stub names.
var nonAlnumRuns = regexp.MustCompile(`[^A-Za-z0-9-]+`)

// markStripper decomposes characters and removes combining marks, so that
// accented letters fold to their base letter before the identifier filter
// runs (ŃaMe -> NaMe).
var markStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NameGenerator derives unique, filesystem-safe stub names from request URL
// paths. The same path always yields the same base name; collisions within
// one session get numeric suffixes in first-seen order.
type NameGenerator struct {
	seen map[string]int
}

// NewNameGenerator creates a generator with an empty collision table.
func NewNameGenerator() *NameGenerator {
	return &NameGenerator{seen: make(map[string]int)}
}

// BaseName derives the deterministic name for a URL path, ignoring any
// query string and without collision handling.
func BaseName(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimPrefix(path, "/")

	if folded, _, err := transform.String(markStripper, path); err == nil {
		path = folded
	}

	name := nonAlnumRuns.ReplaceAllString(path, "_")
	name = strings.Trim(name, "_")
	name = strings.ToLower(name)

	if name == "" {
		return DefaultStubName
	}
	return name
}

// Generate returns the stub name for a URL path, resolving collisions with
// this generator's earlier results. The first occurrence keeps the base
// name; later ones get -2, -3, ... suffixes.
func (g *NameGenerator) Generate(path string) string {
	base := BaseName(path)
	g.seen[base]++
	if n := g.seen[base]; n > 1 {
		return base + "-" + strconv.Itoa(n)
	}
	return base
}
