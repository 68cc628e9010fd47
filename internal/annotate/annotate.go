// Package annotate scans note content for inline annotations: wiki-style
// [[Title]] links and bare URLs. Spans are byte offsets into the original
// content, sorted and non-overlapping, so renderers can slice the string
// directly without re-scanning it.
package annotate

import (
	"regexp"
	"sort"
	"strings"
)

// Kind discriminates what a span points at.
type Kind string

const (
	// KindLink is a [[Title]] wiki link. Payload holds the title between
	// the brackets, pipe alias included.
	KindLink Kind = "link"
	// KindURL is a bare http(s):// or www. URL. Payload holds the URL as
	// written, without the https:// prefix a www. link gains on click.
	KindURL Kind = "url"
)

// Span is one annotated region of content. Start is inclusive, End
// exclusive, both byte offsets.
type Span struct {
	Kind    Kind   `json:"kind"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Payload string `json:"payload"`
}

var (
	linkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)

	// URLs stop at whitespace and square brackets, so a URL can never
	// straddle a [[...]] boundary: it is either fully inside or fully
	// outside a link span.
	urlRe = regexp.MustCompile(`\b(?:https?://|www\.)[^\s\[\]]+`)
)

// Extract returns every link and URL span in content, sorted by start
// offset. A URL that sits inside a [[...]] link is dropped; the link wins.
// An unclosed [[ never matches. Empty content yields no spans.
func Extract(content string) []Span {
	if content == "" {
		return nil
	}

	var spans []Span
	links := linkRe.FindAllStringSubmatchIndex(content, -1)
	for _, m := range links {
		spans = append(spans, Span{
			Kind:    KindLink,
			Start:   m[0],
			End:     m[1],
			Payload: content[m[2]:m[3]],
		})
	}
	nlinks := len(spans)

	for _, m := range urlRe.FindAllStringIndex(content, -1) {
		url := trimTrailing(content[m[0]:m[1]])
		if url == "" {
			continue
		}
		start, end := m[0], m[0]+len(url)
		if insideLink(spans[:nlinks], start, end) {
			continue
		}
		spans = append(spans, Span{Kind: KindURL, Start: start, End: end, Payload: url})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

func insideLink(links []Span, start, end int) bool {
	for _, l := range links {
		if start >= l.Start && end <= l.End {
			return true
		}
	}
	return false
}

// trimTrailing strips punctuation that belongs to the surrounding prose
// rather than the URL. Sentence punctuation always comes off the end; a
// closing bracket only when the URL has no matching opener, so wiki URLs
// like .../Go_(language) stay whole.
func trimTrailing(url string) string {
	for len(url) > 0 {
		last := url[len(url)-1]
		switch last {
		case '.', ',', ';', ':', '!', '?', '\'', '"', '`':
			url = url[:len(url)-1]
		case ')', '}':
			open := byte('(')
			if last == '}' {
				open = '{'
			}
			if strings.Count(url, string(open)) >= strings.Count(url, string(last)) {
				return url
			}
			url = url[:len(url)-1]
		default:
			return url
		}
	}
	return url
}
