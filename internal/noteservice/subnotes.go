package noteservice

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/starford/ansuz/internal/apperr"
)

// SubnoteInfo is one descendant in a zettelkasten hierarchy. Depth is
// relative to the parent: a direct child is 1.
type SubnoteInfo struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Depth int    `json:"depth"`
}

// Subnotes returns the notes whose zettel prefix nests under the given
// note's, in zettel order. Titles follow the "1a2-topic" convention: the
// part before the first dash is the prefix, alternating number and letter
// runs encode the hierarchy.
func (s *Service) Subnotes(_ context.Context, path string) ([]SubnoteInfo, error) {
	parent, err := s.db.GetNote(path)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, apperr.ErrNotFound
	}

	prefix := zettelPrefix(parent.Title)
	if prefix == "" {
		return []SubnoteInfo{}, nil
	}

	rows, _, err := s.db.ListNotes(0, 0, "", "title", "asc")
	if err != nil {
		return nil, err
	}

	out := []SubnoteInfo{}
	for _, r := range rows {
		if r.Path == path {
			continue
		}
		depth, ok := subnoteDepth(r.Title, prefix)
		if !ok {
			continue
		}
		out = append(out, SubnoteInfo{Path: r.Path, Title: r.Title, Depth: depth})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return zettelLess(zettelPrefix(out[i].Title), zettelPrefix(out[j].Title))
	})
	return out, nil
}

// zettelPrefix returns the hierarchy part of a title: everything before
// the first dash, or the whole title when there is none.
func zettelPrefix(title string) string {
	if i := strings.IndexByte(title, '-'); i >= 0 {
		return title[:i]
	}
	return title
}

// subnoteDepth reports how many zettel levels below parentPrefix a title
// sits. A title nests when its prefix extends the parent's; when the
// parent prefix ends in a digit the extension must start with a letter, so
// "12" does not nest under "1" but "1a" and "12b" do. Each letter and each
// digit run in the extension adds one level.
func subnoteDepth(title, parentPrefix string) (int, bool) {
	first := zettelPrefix(title)
	if len(first) <= len(parentPrefix) || !strings.HasPrefix(first, parentPrefix) {
		return 0, false
	}
	suffix := []rune(first[len(parentPrefix):])
	last, _ := utf8.DecodeLastRuneInString(parentPrefix)
	if unicode.IsDigit(last) && !unicode.IsLetter(suffix[0]) {
		return 0, false
	}

	depth := 0
	for i := 0; i < len(suffix); {
		switch {
		case unicode.IsLetter(suffix[i]):
			depth++
			i++
		case unicode.IsDigit(suffix[i]):
			depth++
			for i < len(suffix) && unicode.IsDigit(suffix[i]) {
				i++
			}
		default:
			i++
		}
	}
	return depth, true
}

// zettelPart is one component of a prefix: a number run or a single letter.
type zettelPart struct {
	num    uint64
	letter rune
	isNum  bool
}

func zettelParts(prefix string) []zettelPart {
	var parts []zettelPart
	rs := []rune(prefix)
	for i := 0; i < len(rs); {
		switch {
		case unicode.IsDigit(rs[i]):
			j := i
			for j < len(rs) && unicode.IsDigit(rs[j]) {
				j++
			}
			n, _ := strconv.ParseUint(string(rs[i:j]), 10, 64)
			parts = append(parts, zettelPart{num: n, isNum: true})
			i = j
		case unicode.IsLetter(rs[i]):
			parts = append(parts, zettelPart{letter: unicode.ToLower(rs[i])})
			i++
		default:
			i++
		}
	}
	return parts
}

// zettelLess orders prefixes component-wise: numbers numerically, letters
// alphabetically, a number before a letter at the same position, shorter
// prefixes first. This puts "1a10" after "1a2" where a plain string sort
// would not.
func zettelLess(a, b string) bool {
	pa, pb := zettelParts(a), zettelParts(b)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		x, y := pa[i], pb[i]
		if x.isNum != y.isNum {
			return x.isNum
		}
		if x.isNum {
			if x.num != y.num {
				return x.num < y.num
			}
			continue
		}
		if x.letter != y.letter {
			return x.letter < y.letter
		}
	}
	return len(pa) < len(pb)
}
