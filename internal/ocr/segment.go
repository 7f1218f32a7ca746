package ocr

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultSectionItems caps how many tokens go into one extraction chunk.
const DefaultSectionItems = 60

var (
	headerExclusion = regexp.MustCompile(`\$|\d+\.\d{2}|HALF|WHOLE|SMALL|LARGE`)
	categoryKeyword = regexp.MustCompile(`(?i)^(starters|appetizers|main course|desserts|beverages|drinks|sides|salads|soups|specials|breakfast|lunch|dinner)s?$`)
)

// Section is a run of tokens under one inferred header.
type Section struct {
	Title  string  `json:"section_title"`
	Tokens []Token `json:"items"`
}

// isUpper mirrors "all cased letters are upper-case, and there is at least one".
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// IsLayoutHeader is the bare layout rule: a short all-caps line.
func IsLayoutHeader(text string) bool {
	return isUpper(text) && len(text) > 2 && len(strings.Fields(text)) < 6
}

// IsSectionHeader reports whether a token opens a new section for chunking:
// a short all-caps line that is not a price or size label, or a known
// category keyword.
func IsSectionHeader(text string) bool {
	text = strings.TrimSpace(text)
	if IsLayoutHeader(text) && !headerExclusion.MatchString(text) {
		return true
	}
	return categoryKeyword.MatchString(text)
}

// SegmentSections partitions tokens into titled sections. When the first
// token is not a header it still opens the first section so nothing is
// orphaned. A header with nothing under it yields no section. Sections with
// more than maxItems tokens are split into fixed-size pieces that keep the
// section title.
func SegmentSections(tokens []Token, maxItems int) []Section {
	if len(tokens) == 0 {
		return nil
	}
	if maxItems <= 0 {
		maxItems = DefaultSectionItems
	}

	bounds := sectionBounds(tokens, IsSectionHeader)

	var sections []Section
	for b := 0; b < len(bounds)-1; b++ {
		header := tokens[bounds[b]]
		body := tokens[bounds[b]+1 : bounds[b+1]]
		title := strings.TrimSpace(header.Text)

		for i := 0; i < len(body); i += maxItems {
			end := min(i+maxItems, len(body))
			sections = append(sections, Section{Title: title, Tokens: body[i:end]})
		}
	}
	return sections
}

// sectionBounds returns header indices followed by len(tokens), with a
// synthetic boundary at 0 when the first token is not a header.
func sectionBounds(tokens []Token, isHeader func(string) bool) []int {
	var bounds []int
	for i, t := range tokens {
		if isHeader(strings.TrimSpace(t.Text)) {
			bounds = append(bounds, i)
		}
	}
	if len(bounds) == 0 || bounds[0] != 0 {
		bounds = append([]int{0}, bounds...)
	}
	return append(bounds, len(tokens))
}
