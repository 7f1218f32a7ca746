package llm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ChunkPlaceholder marks where a text chunk goes in the user prompt.
const ChunkPlaceholder = "{chunk}"

const (
	systemPromptFile       = "system_prompts.txt"
	userPromptFile         = "user_prompts.txt"
	visionPromptFile       = "system_prompts_vision.txt"
	visionRefinePromptFile = "system_prompts_vision_refine.txt"
)

// Prompts holds the instruction texts for every model call the pipelines make.
type Prompts struct {
	System       string
	User         string
	Vision       string
	VisionRefine string
}

// DefaultPrompts returns the built-in prompts.
func DefaultPrompts() Prompts {
	return Prompts{
		System:       defaultSystemPrompt,
		User:         defaultUserPrompt,
		Vision:       defaultVisionPrompt,
		VisionRefine: defaultVisionRefinePrompt,
	}
}

// LoadPrompts reads prompt files from dir. Missing files keep the built-in
// prompt; an empty dir means all defaults.
func LoadPrompts(dir string) (Prompts, error) {
	p := DefaultPrompts()
	if dir == "" {
		return p, nil
	}

	files := []struct {
		name string
		dst  *string
	}{
		{systemPromptFile, &p.System},
		{userPromptFile, &p.User},
		{visionPromptFile, &p.Vision},
		{visionRefinePromptFile, &p.VisionRefine},
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(dir, f.name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return p, fmt.Errorf("failed to read prompt %s: %w", f.name, err)
		}
		if s := strings.TrimSpace(string(b)); s != "" {
			*f.dst = s
		}
	}
	return p, nil
}

// ChunkRequest builds the text-extraction request for one chunk.
func (p Prompts) ChunkRequest(chunk string) Request {
	text := p.User
	if strings.Contains(text, ChunkPlaceholder) {
		text = strings.ReplaceAll(text, ChunkPlaceholder, chunk)
	} else {
		text = text + "\n\n" + chunk
	}
	return Request{System: p.System, Text: text}
}

const schemaBlock = `{
  "data": {
    "category": [{"id": 1, "title": "string", "description": "string"}],
    "sub_category": [{"id": 1, "catId": 1, "title": "string", "description": "string"}],
    "items": [{
      "itemId": 1, "subCatId": 1, "title": "string", "description": "string", "price": 0,
      "variantAvailable": 0,
      "variants": [{"variantTitle": "string", "price": 0, "description": "string"}],
      "optionsAvailable": 0,
      "options": [{
        "optTitle": "string", "commonChoicePriceAvailable": 0, "price": 0,
        "choices": [{"title": "string", "description": "string", "allergenInfo": "string", "dietary": "string", "price": 0}]
      }]
    }]
  }
}`

const outputRules = `
Rules:
- Output MUST be valid JSON and contain ONLY JSON.
- Output MUST start with { and end with }.
- NO explanations.
- NO markdown.
- NO comments.
- Every field in the schema is required; use "" or 0 or [] when unknown.
- When an item has size variants, set variantAvailable to 1, put the prices in variants and set price to 0.
- When an item has choices, set optionsAvailable to 1 and list them in options.
`

var defaultSystemPrompt = `You are a data extraction engine for restaurant menus.

Convert the menu text you are given into STRICT JSON matching this schema:
` + schemaBlock + outputRules

var defaultUserPrompt = `If you cannot extract data, return {"data": {"category": [], "sub_category": [], "items": []}}.

MENU TEXT:
` + ChunkPlaceholder

var defaultVisionPrompt = `You are a data extraction engine for restaurant menus.

You receive one section of OCR output as JSON ("section_title" and its "items") together with
an image of the menu page. Use the image to fix OCR mistakes and to tell which prices belong to
which item. Extract only what is in this section.

Return STRICT JSON matching this schema:
` + schemaBlock + outputRules

var defaultVisionRefinePrompt = `You are reviewing a restaurant menu that was already converted to JSON.

You receive the JSON and an image of the menu. Correct titles, prices, variants and options
only where the image shows they are wrong or missing. Do not start from scratch and do not
drop entries that are visible in the image. Keep ids consistent.

Return the corrected menu as STRICT JSON matching this schema:
` + schemaBlock + outputRules
