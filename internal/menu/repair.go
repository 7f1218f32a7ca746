package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

// Result is the outcome of turning untrusted model text into a JSON value.
type Result struct {
	Value any
	Err   error
}

func (r Result) OK() bool { return r.Err == nil }

// StripFences removes markdown code fences around a model response.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseJSON decodes a fenced or bare JSON response without any repair.
func ParseJSON(raw string) Result {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return Result{Err: ErrEmptyResponse}
	}
	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return Result{Err: fmt.Errorf("could not parse model output as JSON: %w", err)}
	}
	return Result{Value: v}
}

// Repair tries to turn malformed model JSON into a value: fences and
// trailing commas are stripped first, then unbalanced closers are fixed.
// It never panics; the caller's validation decides whether the value is usable.
func Repair(raw string) Result {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return Result{Err: ErrEmptyResponse}
	}
	cleaned = trailingComma.ReplaceAllString(cleaned, "$1")

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err == nil {
		return Result{Value: v}
	}

	balanced := balanceClosers(cleaned)
	if err := json.Unmarshal([]byte(balanced), &v); err != nil {
		return Result{Err: fmt.Errorf("json repair failed: %w", err)}
	}
	return Result{Value: v}
}

// balanceClosers appends the closers of any still-open objects/arrays, or
// trims surplus trailing '}' when there are more closing than opening braces.
// String literals are skipped while scanning.
func balanceClosers(s string) string {
	var stack []byte
	surplus := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			} else if c == '}' {
				surplus++
			}
		}
	}

	if surplus > 0 {
		out := strings.TrimRight(s, " \t\r\n")
		for surplus > 0 && strings.HasSuffix(out, "}") {
			out = strings.TrimRight(out[:len(out)-1], " \t\r\n")
			surplus--
		}
		return out
	}

	var b strings.Builder
	b.WriteString(s)
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}

// ParseOrRepair is the parse -> validate -> repair -> validate combinator.
// The strict parse is tried first; the repair path runs only when that
// fails either to parse or to validate.
func ParseOrRepair(raw string, validate func(any) error) Result {
	first := ParseJSON(raw)
	if first.OK() {
		err := validate(first.Value)
		if err == nil {
			return first
		}
		first.Err = err
	}

	repaired := Repair(raw)
	if !repaired.OK() {
		return Result{Err: errors.Join(first.Err, repaired.Err)}
	}
	if err := validate(repaired.Value); err != nil {
		return Result{Err: errors.Join(first.Err, err)}
	}
	return repaired
}

// DecodeDocument converts a validated JSON value into a Document.
func DecodeDocument(v any) (*Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode menu value: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode menu document: %w", err)
	}
	return &doc, nil
}
