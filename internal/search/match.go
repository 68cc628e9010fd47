// Package search implements literal find and replace over note content,
// plus the session object that drives an interactive find/replace panel.
package search

import (
	"regexp"
	"strings"
)

// Options control how a query is matched.
type Options struct {
	CaseSensitive bool `json:"case_sensitive"`
	WholeWord     bool `json:"whole_word"`
}

// Match is one occurrence of a query. Start is a byte offset into the
// content, Length the byte length of the matched text.
type Match struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// End returns the exclusive end offset of the match.
func (m Match) End() int { return m.Start + m.Length }

// pattern compiles a query into a literal matcher. The query is quoted, so
// regex metacharacters in it match themselves.
func pattern(query string, opts Options) *regexp.Regexp {
	expr := regexp.QuoteMeta(query)
	if opts.WholeWord {
		expr = `\b` + expr + `\b`
	}
	if !opts.CaseSensitive {
		expr = `(?i)` + expr
	}
	return regexp.MustCompile(expr)
}

// Find returns every non-overlapping occurrence of query in content, left
// to right. An empty or whitespace-only query yields no matches.
func Find(content, query string, opts Options) []Match {
	if content == "" || strings.TrimSpace(query) == "" {
		return nil
	}
	locs := pattern(query, opts).FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return nil
	}
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, Match{Start: loc[0], Length: loc[1] - loc[0]})
	}
	return matches
}

// ReplaceAll substitutes every occurrence of query with replacement in a
// single pass and reports how many were replaced. The replacement string is
// taken literally. When nothing matches, content comes back unchanged.
func ReplaceAll(content, query string, opts Options, replacement string) (string, int) {
	if content == "" || strings.TrimSpace(query) == "" {
		return content, 0
	}
	re := pattern(query, opts)
	n := len(re.FindAllStringIndex(content, -1))
	if n == 0 {
		return content, 0
	}
	return re.ReplaceAllLiteralString(content, replacement), n
}
