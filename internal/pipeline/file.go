package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"menuparser/internal/menu"
	"menuparser/internal/ocr"
)

// Fetcher downloads a source file from object storage.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// SheetReader turns a spreadsheet into records.
type SheetReader interface {
	Rows(data []byte) ([]map[string]string, error)
}

// Rasterizer renders PDF pages to images.
type Rasterizer interface {
	Pages(ctx context.Context, pdf []byte) ([][]byte, error)
}

// VisionStrategy selects how an image plus OCR tokens is parsed.
type VisionStrategy string

const (
	// StrategyTwoStep runs a text parse and refines it against the image.
	StrategyTwoStep VisionStrategy = "two_step"
	// StrategySections extracts section by section with the image.
	StrategySections VisionStrategy = "sections"
)

// FileParser dispatches a source file to the right pipeline by extension.
type FileParser struct {
	fetcher  Fetcher
	sheets   SheetReader
	raster   Rasterizer
	text     *TextPipeline
	vision   *VisionPipeline
	strategy VisionStrategy
}

func NewFileParser(fetcher Fetcher, sheets SheetReader, raster Rasterizer, text *TextPipeline, vision *VisionPipeline, strategy VisionStrategy) *FileParser {
	if strategy == "" {
		strategy = StrategyTwoStep
	}
	return &FileParser{
		fetcher:  fetcher,
		sheets:   sheets,
		raster:   raster,
		text:     text,
		vision:   vision,
		strategy: strategy,
	}
}

func fileKind(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func isImage(ext string) bool {
	return ext == ".png" || ext == ".jpg" || ext == ".jpeg"
}

// Parse handles one source file. Images and PDFs need OCR data; OCR data
// without an image is parsed as text; spreadsheets are read as records.
func (f *FileParser) Parse(ctx context.Context, sourceFilePath, ocrData string) (*menu.Document, error) {
	ext := fileKind(sourceFilePath)
	hasOCR := strings.TrimSpace(ocrData) != ""
	logger := log.WithFields(log.Fields{"stage": "file_dispatch", "source": sourceFilePath, "kind": ext})

	switch {
	case (isImage(ext) || ext == ".pdf") && hasOCR:
		data, err := f.fetcher.Fetch(ctx, sourceFilePath)
		if err != nil {
			return nil, err
		}
		pages, err := ocr.DecodePages([]byte(ocrData))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if len(ocr.Flatten(pages)) == 0 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, ocr.ErrNoTokens)
		}
		if ext == ".pdf" {
			logger.Info("parsing pdf with ocr data")
			return f.parsePDF(ctx, data, pages)
		}
		logger.Info("parsing image with ocr data")
		return f.runVision(ctx, ocr.Flatten(pages), data)

	case hasOCR:
		logger.Info("parsing ocr data as text")
		return f.text.Parse(ctx, ResolveInput(ocrData))

	case ext == ".xls" || ext == ".xlsx":
		data, err := f.fetcher.Fetch(ctx, sourceFilePath)
		if err != nil {
			return nil, err
		}
		rows, err := f.sheets.Rows(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		logger.WithField("rows", len(rows)).Info("parsing spreadsheet")
		return f.text.Parse(ctx, RowsInput{Rows: rows})

	case isImage(ext) || ext == ".pdf":
		return nil, ErrOCRRequired

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
}

// parsePDF parses page by page when the OCR data has one token list per
// page, otherwise it parses all tokens against the first page.
func (f *FileParser) parsePDF(ctx context.Context, pdf []byte, pages [][]ocr.Token) (*menu.Document, error) {
	images, err := f.raster.Pages(ctx, pdf)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: pdf has no pages", ErrInvalidInput)
	}

	if len(pages) != len(images) {
		return f.runVision(ctx, ocr.Flatten(pages), images[0])
	}

	docs := make([]*menu.Document, 0, len(pages))
	for i := range pages {
		log.WithFields(log.Fields{"stage": "pdf_page", "page": i + 1, "pages": len(pages)}).Debug("parsing page")
		doc, err := f.runVision(ctx, pages[i], images[i])
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		docs = append(docs, doc)
	}
	return menu.Reindex(menu.Concat(docs...)), nil
}

func (f *FileParser) runVision(ctx context.Context, tokens []ocr.Token, image []byte) (*menu.Document, error) {
	if f.strategy == StrategySections {
		return f.vision.ParseSections(ctx, tokens, image)
	}
	return f.vision.Parse(ctx, tokens, image)
}
