package pipeline

import (
	"context"

	log "github.com/sirupsen/logrus"

	"menuparser/internal/llm"
	"menuparser/internal/menu"
	"menuparser/internal/ocr"
)

// DessertsTitle is the subcategory single-item subcategories are folded into.
const DessertsTitle = "DESSERTS"

// VisionPipeline combines OCR tokens with the page image.
type VisionPipeline struct {
	text         *TextPipeline
	client       llm.Client
	prompts      llm.Prompts
	merger       *menu.Merger
	validator    *menu.Validator
	canon        *menu.Canonicalizer
	post         *ocr.Postprocessor
	sectionItems int
}

func NewVisionPipeline(text *TextPipeline, client llm.Client, prompts llm.Prompts, merger *menu.Merger, validator *menu.Validator, canon *menu.Canonicalizer, sectionItems int) *VisionPipeline {
	if sectionItems <= 0 {
		sectionItems = ocr.DefaultSectionItems
	}
	return &VisionPipeline{
		text:         text,
		client:       client,
		prompts:      prompts,
		merger:       merger,
		validator:    validator,
		canon:        canon,
		post:         ocr.NewPostprocessor(canon),
		sectionItems: sectionItems,
	}
}

// Parse is the two-step parse: a text extraction of the tokens, then a
// refinement of that document against the image. Refinement failures of
// any kind fall back to the reindexed initial document; only a failing
// initial parse is returned as an error.
func (v *VisionPipeline) Parse(ctx context.Context, tokens []ocr.Token, image []byte) (*menu.Document, error) {
	initial, err := v.text.Parse(ctx, TokenInput{Tokens: tokens})
	if err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{"stage": "vision_refine"})

	body, err := compactJSON(initial)
	if err != nil {
		return nil, err
	}
	raw, err := v.client.Complete(ctx, llm.Request{
		System:      v.prompts.VisionRefine,
		Text:        body,
		Image:       image,
		Temperature: llm.Float(0),
	})
	if err != nil {
		logger.WithError(err).Warn("refinement call failed, keeping initial parse")
		return initial, nil
	}

	res := menu.ParseOrRepair(raw, v.validator.ValidateValue)
	if !res.OK() {
		logger.WithError(res.Err).Warn("refined menu rejected, keeping initial parse")
		return initial, nil
	}
	refined, err := menu.DecodeDocument(res.Value)
	if err != nil {
		logger.WithError(err).Warn("refined menu could not be decoded, keeping initial parse")
		return initial, nil
	}

	out := menu.Reindex(menu.EnforceInvariants(refined))
	logger.WithField("items", len(out.Data.Items)).Info("refined menu accepted")
	return out, nil
}

// ParseSections extracts each OCR section together with the image, merges
// the section results and repairs the layout the model tends to lose.
// Unparseable section responses are skipped.
func (v *VisionPipeline) ParseSections(ctx context.Context, tokens []ocr.Token, image []byte) (*menu.Document, error) {
	sections := ocr.SegmentSections(tokens, v.sectionItems)

	results := make([]any, 0, len(sections))
	for i, s := range sections {
		logger := log.WithFields(log.Fields{"stage": "vision_extract", "chunk": i, "section": s.Title})

		body, err := compactJSON(s)
		if err != nil {
			return nil, err
		}
		raw, err := v.client.Complete(ctx, llm.Request{
			System:      v.prompts.Vision,
			Text:        body,
			Image:       image,
			Temperature: llm.Float(0),
		})
		if err != nil {
			logger.WithError(err).Error("model call failed")
			return nil, &ChunkError{Index: i, Err: err}
		}
		res := menu.ParseJSON(raw)
		if !res.OK() {
			logger.WithError(res.Err).Warn("skipping unparseable section response")
			continue
		}
		results = append(results, res.Value)
	}

	doc, err := v.merger.Merge(results)
	if err != nil {
		log.WithFields(log.Fields{"stage": "merge", "sections": len(sections), "parsed": len(results)}).WithError(err).Error("section merge failed")
		return nil, err
	}
	doc = menu.FilterHallucinatedSubcategories(doc)
	doc = menu.MergeSingleItemSubcategories(doc, DessertsTitle, v.canon)
	doc = v.post.Process(doc, tokens)
	doc = menu.ExtractDescriptionVariants(doc)
	doc = menu.PropagateSharedVariants(doc)
	doc = menu.EnforceInvariants(doc)

	if err := v.validator.ValidateDocument(doc); err != nil {
		log.WithFields(log.Fields{"stage": "validate", "sections": len(sections)}).WithError(err).Error("section menu failed validation")
		return nil, err
	}
	out := menu.Reindex(doc)
	log.WithFields(log.Fields{
		"stage":    "vision_sections",
		"sections": len(sections),
		"parsed":   len(results),
		"items":    len(out.Data.Items),
	}).Info("section parse done")
	return out, nil
}
