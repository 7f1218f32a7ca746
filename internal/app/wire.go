// Package app assembles the pipelines from configuration. Both binaries
// share it so the wiring order lives in one place.
package app

import (
	"context"
	"fmt"

	"menuparser/internal/config"
	"menuparser/internal/llm"
	"menuparser/internal/menu"
	"menuparser/internal/ocr"
	"menuparser/internal/pipeline"
	"menuparser/internal/sheet"
)

type Pipelines struct {
	Text   *pipeline.TextPipeline
	Vision *pipeline.VisionPipeline
	Files  *pipeline.FileParser
}

// LLMConfig picks the provider settings out of cfg.
func LLMConfig(cfg *config.Config) llm.Config {
	c := llm.Config{
		Provider:    cfg.LLMProvider,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	}
	switch cfg.LLMProvider {
	case llm.ProviderGemini:
		c.APIKey = cfg.GeminiAPIKey
		c.Model = cfg.GeminiModel
	default:
		c.APIKey = cfg.OpenAIAPIKey
		c.Model = cfg.OpenAIModel
		c.BaseURL = cfg.OpenAIBaseURL
	}
	return c
}

// Build wires the pipelines around one model client and one fetcher.
func Build(cfg *config.Config, client llm.Client, fetcher pipeline.Fetcher) (*Pipelines, error) {
	prompts, err := llm.LoadPrompts(cfg.PromptDir)
	if err != nil {
		return nil, err
	}
	validator, err := menu.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("schema validator: %w", err)
	}
	canon := menu.NewCanonicalizer()
	merger := menu.NewMerger(canon)

	text := pipeline.NewTextPipeline(client, prompts, merger, validator, cfg.ChunkMaxLength)
	vision := pipeline.NewVisionPipeline(text, client, prompts, merger, validator, canon, cfg.SectionMaxItems)
	files := pipeline.NewFileParser(
		fetcher,
		sheet.NewReader(),
		ocr.NewRasterizer(cfg.RasterDPI),
		text,
		vision,
		pipeline.VisionStrategy(cfg.VisionStrategy),
	)
	return &Pipelines{Text: text, Vision: vision, Files: files}, nil
}

// NewLLMClient builds the configured model client.
func NewLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	return llm.NewClient(ctx, LLMConfig(cfg))
}
