// Package segment turns note content plus a span list into an ordered list
// of typed text segments. Renderers consume segments directly: plain text
// is printed as-is, the rest gets link, URL or match styling. Concatenating
// the Text fields always reconstructs the original content byte for byte.
package segment

import (
	"github.com/starford/ansuz/internal/annotate"
	"github.com/starford/ansuz/internal/search"
)

// Tag classifies a segment for rendering.
type Tag string

const (
	TagPlain        Tag = "plain"
	TagLink         Tag = "link"
	TagURL          Tag = "url"
	TagMatch        Tag = "match"
	TagCurrentMatch Tag = "current_match"
)

// Segment is one run of content. Payload carries the link title or URL for
// link and URL segments and is empty otherwise.
type Segment struct {
	Text    string `json:"text"`
	Tag     Tag    `json:"tag"`
	Payload string `json:"payload,omitempty"`
}

// Annotate splits content along annotation spans. Spans must be sorted and
// non-overlapping, the way annotate.Extract produces them; a span that
// falls outside the content or behind the previous one is skipped rather
// than corrupting the output.
func Annotate(content string, spans []annotate.Span) []Segment {
	b := builder{content: content}
	for _, sp := range spans {
		tag := TagLink
		if sp.Kind == annotate.KindURL {
			tag = TagURL
		}
		b.add(sp.Start, sp.End, tag, sp.Payload)
	}
	return b.finish()
}

// Matches splits content along search matches. current is the 1-based
// index of the active match, 0 for none; the active match is tagged
// TagCurrentMatch, the rest TagMatch.
func Matches(content string, matches []search.Match, current int) []Segment {
	b := builder{content: content}
	for i, m := range matches {
		tag := TagMatch
		if i == current-1 {
			tag = TagCurrentMatch
		}
		b.add(m.Start, m.End(), tag, "")
	}
	return b.finish()
}

// builder walks the content once, emitting a plain segment for each gap
// between spans. Invalid spans are dropped.
type builder struct {
	content string
	pos     int
	segs    []Segment
}

func (b *builder) add(start, end int, tag Tag, payload string) {
	if start < b.pos || end > len(b.content) || end < start {
		return
	}
	if start > b.pos {
		b.segs = append(b.segs, Segment{Text: b.content[b.pos:start], Tag: TagPlain})
	}
	b.segs = append(b.segs, Segment{Text: b.content[start:end], Tag: tag, Payload: payload})
	b.pos = end
}

func (b *builder) finish() []Segment {
	if b.pos < len(b.content) {
		b.segs = append(b.segs, Segment{Text: b.content[b.pos:], Tag: TagPlain})
	}
	return b.segs
}
