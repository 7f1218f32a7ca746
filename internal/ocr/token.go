package ocr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Token is one recognized text run from an OCR engine. Only Text drives the
// layout heuristics; the engine's object is kept so it can be handed to the
// model unchanged.
type Token struct {
	Text string
	raw  map[string]any
}

func NewToken(text string) Token {
	return Token{Text: text}
}

// Tokens builds tokens from plain strings.
func Tokens(texts ...string) []Token {
	out := make([]Token, len(texts))
	for i, t := range texts {
		out[i] = NewToken(t)
	}
	return out
}

func (t Token) MarshalJSON() ([]byte, error) {
	if t.raw != nil {
		return json.Marshal(t.raw)
	}
	return json.Marshal(map[string]string{"text": t.Text})
}

func (t *Token) UnmarshalJSON(b []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(b, &obj); err != nil {
		var s string
		if serr := json.Unmarshal(b, &s); serr != nil {
			return fmt.Errorf("ocr token must be an object or string: %w", err)
		}
		t.Text = CleanText(s)
		t.raw = nil
		return nil
	}
	text, _ := obj["text"].(string)
	t.Text = CleanText(text)
	t.raw = obj
	return nil
}

var ErrNoTokens = errors.New("ocr data contains no tokens")

// DecodeTokens parses a flat JSON array of OCR tokens.
func DecodeTokens(data []byte) ([]Token, error) {
	var tokens []Token
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("invalid ocr data: %w", err)
	}
	return tokens, nil
}

// DecodePages parses OCR data that is either one token list per page or a
// single flat token list (returned as one page).
func DecodePages(data []byte) ([][]Token, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, ErrNoTokens
	}

	var pages [][]Token
	if err := json.Unmarshal([]byte(trimmed), &pages); err == nil && len(pages) > 0 {
		return pages, nil
	}

	tokens, err := DecodeTokens([]byte(trimmed))
	if err != nil {
		return nil, err
	}
	return [][]Token{tokens}, nil
}

// Flatten joins per-page token lists in page order.
func Flatten(pages [][]Token) []Token {
	var out []Token
	for _, p := range pages {
		out = append(out, p...)
	}
	return out
}
