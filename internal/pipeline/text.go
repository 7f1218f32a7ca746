// Package pipeline drives the model calls and the deterministic menu passes
// that turn raw menu input into a canonical document.
package pipeline

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"menuparser/internal/llm"
	"menuparser/internal/menu"
)

// TextPipeline chunks serialized input, extracts each chunk with the text
// prompt and merges the results.
type TextPipeline struct {
	client    llm.Client
	prompts   llm.Prompts
	merger    *menu.Merger
	validator *menu.Validator
	chunkLen  int
}

func NewTextPipeline(client llm.Client, prompts llm.Prompts, merger *menu.Merger, validator *menu.Validator, chunkLen int) *TextPipeline {
	if chunkLen <= 0 {
		chunkLen = menu.DefaultChunkLength
	}
	return &TextPipeline{
		client:    client,
		prompts:   prompts,
		merger:    merger,
		validator: validator,
		chunkLen:  chunkLen,
	}
}

// Parse runs the text pipeline. Model calls are made one chunk at a time in
// order; the first failing chunk aborts the parse.
func (p *TextPipeline) Parse(ctx context.Context, in Input) (*menu.Document, error) {
	start := time.Now()

	text, err := in.Serialize()
	if err != nil {
		return nil, err
	}
	chunks := menu.ChunkText(text, p.chunkLen)

	results := make([]any, 0, len(chunks))
	for i, chunk := range chunks {
		logger := log.WithFields(log.Fields{"stage": "text_extract", "chunk": i, "chunks": len(chunks)})
		logger.Debug("extracting chunk")

		raw, err := p.client.Complete(ctx, p.prompts.ChunkRequest(chunk))
		if err != nil {
			logger.WithError(err).Error("model call failed")
			return nil, &ChunkError{Index: i, Err: err}
		}
		res := menu.ParseJSON(raw)
		if !res.OK() {
			logger.WithError(res.Err).Error("chunk response is not JSON")
			return nil, &ChunkError{Index: i, Err: res.Err}
		}
		results = append(results, res.Value)
	}

	doc, err := p.merger.Merge(results)
	if err != nil {
		log.WithFields(log.Fields{"stage": "merge", "chunks": len(results)}).WithError(err).Error("chunk merge failed")
		return nil, err
	}
	doc = menu.EnforceInvariants(doc)
	if err := p.validator.ValidateDocument(doc); err != nil {
		log.WithFields(log.Fields{"stage": "validate"}).WithError(err).Error("merged menu failed validation")
		return nil, err
	}

	out := menu.Reindex(doc)
	log.WithFields(log.Fields{
		"stage":    "text_parse",
		"chunks":   len(chunks),
		"items":    len(out.Data.Items),
		"duration": time.Since(start).String(),
	}).Info("text parse done")
	return out, nil
}
