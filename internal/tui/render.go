package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/ansuz/internal/segment"
)

// renderSegments styles a segment list into terminal text. selected is the
// 0-based ordinal of the tagged (non-plain) segment to highlight as the
// active selection, -1 for none. Concatenating the unstyled text of the
// result reproduces the original content.
func renderSegments(segs []segment.Segment, selected int) string {
	var b strings.Builder
	tagged := 0
	for _, seg := range segs {
		if seg.Tag == segment.TagPlain {
			b.WriteString(seg.Text)
			continue
		}
		style := styleForTag(seg.Tag)
		if tagged == selected {
			style = SelectedSpanStyle
		}
		b.WriteString(style.Render(seg.Text))
		tagged++
	}
	return b.String()
}

func styleForTag(tag segment.Tag) lipgloss.Style {
	switch tag {
	case segment.TagLink:
		return LinkStyle
	case segment.TagURL:
		return URLStyle
	case segment.TagMatch:
		return MatchStyle
	case segment.TagCurrentMatch:
		return CurrentMatchStyle
	}
	return lipgloss.NewStyle()
}

// lineOfOffset returns the 0-based display line a byte offset falls on.
func lineOfOffset(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	if offset < 0 {
		offset = 0
	}
	return strings.Count(content[:offset], "\n")
}

// externalURL prepares a url annotation payload for handing to the outside
// world: bare www. addresses get an https:// scheme at activation time, the
// stored note text stays untouched.
func externalURL(payload string) string {
	if strings.HasPrefix(payload, "www.") {
		return "https://" + payload
	}
	return payload
}
