package namespace

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// NoMatchError reports a glob pattern that matched nothing. It is
// carried as data in the expansion result, one per failed pattern,
// never thrown.
type NoMatchError struct {
	Pattern string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no match: %s", e.Pattern)
}

// Expansion is one element of a pattern expansion: either a matched
// path or the error for a pattern that produced nothing (a
// *NoMatchError, or a remote error surfaced while listing).
type Expansion struct {
	Path string
	Err  error
}

// Expand expands shell-glob patterns (*, ?, [...]; no recursive **)
// into concrete matching paths, resolving each pattern against pwd and
// forcing cache population as needed. Results keep the input pattern
// order, successes and failures interleaved; each pattern is handled
// independently so one failure does not block the rest.
//
// With preserveRoot, output paths echo the original pattern's
// directory prefix text instead of the canonical one: a pattern that
// names a directory yields its original text, and a glob match yields
// the original prefix plus the matched basename.
func (c *Cache) Expand(ctx context.Context, patterns []string, pwd string, preserveRoot bool) []Expansion {
	var out []Expansion
	for _, pat := range patterns {
		out = append(out, c.expandOne(ctx, pat, pwd, preserveRoot)...)
	}
	return out
}

func (c *Cache) expandOne(ctx context.Context, pat, pwd string, preserveRoot bool) []Expansion {
	canon := Resolve(pat, pwd)

	// A pattern that names an existing directory denotes that
	// directory; no globbing.
	isDir, err := c.IsDir(ctx, canon)
	if err != nil {
		return []Expansion{{Err: err}}
	}
	if isDir {
		p := canon
		if preserveRoot {
			p = pat
		}
		return []Expansion{{Path: p}}
	}

	// Otherwise the parent directory is the listing source.
	children, err := c.List(ctx, parentPath(canon))
	if err != nil {
		return []Expansion{{Err: err}}
	}

	var matches []string
	for _, child := range children {
		if ok, _ := path.Match(canon, child); ok {
			matches = append(matches, child)
		}
	}
	if len(matches) == 0 {
		return []Expansion{{Err: &NoMatchError{Pattern: pat}}}
	}

	if preserveRoot {
		prefix := ""
		if i := strings.LastIndex(pat, "/"); i >= 0 {
			prefix = pat[:i+1]
		}
		for i, m := range matches {
			matches[i] = prefix + path.Base(m)
		}
	}

	out := make([]Expansion, len(matches))
	for i, m := range matches {
		out[i] = Expansion{Path: m}
	}
	return out
}
