package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"menuparser/internal/ocr"
)

// Input is what the text pipeline reads. It is resolved once at the entry
// point; the pipeline only needs its serialized form.
type Input interface {
	Serialize() (string, error)
}

// TextInput is free-form menu text.
type TextInput struct {
	Text string
}

// TokenInput is structured OCR output.
type TokenInput struct {
	Tokens []ocr.Token
}

// RowsInput is spreadsheet records keyed by column header.
type RowsInput struct {
	Rows []map[string]string
}

func (in TextInput) Serialize() (string, error) {
	return in.Text, nil
}

func (in TokenInput) Serialize() (string, error) {
	return indentJSON(in.Tokens)
}

func (in RowsInput) Serialize() (string, error) {
	return indentJSON(in.Rows)
}

// ResolveInput classifies a raw request string: a JSON array of OCR tokens
// becomes TokenInput, anything else is plain text.
func ResolveInput(raw string) Input {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") {
		if tokens, err := ocr.DecodeTokens([]byte(trimmed)); err == nil {
			return TokenInput{Tokens: tokens}
		}
	}
	return TextInput{Text: raw}
}

// indentJSON encodes v the way it is shown to the model: two-space indent,
// non-ASCII and HTML characters left as is.
func indentJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to serialize input: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to serialize input: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
