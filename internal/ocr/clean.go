package ocr

import (
	"regexp"
	"strings"
)

var (
	inlineSpace = regexp.MustCompile(`[ \t]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
)

// OCR garbage that never carries menu content.
var artifacts = []string{"\uFFFD", "\u000C", "\u00A0"}

// PageBreak is the marker some OCR exports put between pages.
const PageBreak = "---PAGE BREAK---"

// CleanText normalizes a single token: artifacts removed, runs of blanks
// collapsed, surrounding space trimmed.
func CleanText(s string) string {
	for _, a := range artifacts {
		s = strings.ReplaceAll(s, a, " ")
	}
	s = inlineSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanPageText prepares raw OCR page text for chunking. Line structure is
// kept because the chunker splits on newlines; prices on their own line are
// left alone.
func CleanPageText(raw string) string {
	if raw == "" {
		return raw
	}
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, PageBreak, "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = CleanText(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
