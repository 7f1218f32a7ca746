package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrEmptyCompletion is returned when the model answers with no text.
var ErrEmptyCompletion = errors.New("empty model completion")

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Request is one model call: an optional system prompt, the user text and
// an optional page image.
type Request struct {
	System string
	Text   string
	Image  []byte

	// Temperature overrides the client default when set.
	Temperature *float64
}

// Client is the model collaborator used by the pipelines. Implementations
// return the raw completion text; parsing is the caller's job.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	BaseURL     string
}

// NewClient builds the client for cfg.Provider. It is called once per
// process and the result is shared.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		return NewOpenAIClient(cfg)
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// Float is a helper for Request.Temperature.
func Float(f float64) *float64 { return &f }

// imageMIME sniffs the image type, defaulting to PNG for rendered pages.
func imageMIME(b []byte) string {
	mime := http.DetectContentType(b)
	if strings.HasPrefix(mime, "image/") {
		return mime
	}
	return "image/png"
}
