// Package parsing exposes the menu pipelines as a service: it runs a parse,
// keeps the raw input for debugging and stores the resulting record.
package parsing

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"menuparser/internal/menu"
	"menuparser/internal/pipeline"
)

// Uploader stores debug artifacts in object storage.
type Uploader interface {
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) error
}

type Service struct {
	repo     Repository
	text     *pipeline.TextPipeline
	files    *pipeline.FileParser
	uploader Uploader
	now      func() time.Time
}

func NewService(repo Repository, text *pipeline.TextPipeline, files *pipeline.FileParser, uploader Uploader) *Service {
	return &Service{
		repo:     repo,
		text:     text,
		files:    files,
		uploader: uploader,
		now:      time.Now,
	}
}

type TextRequest struct {
	MenuText       string
	DocID          string
	SourceFilePath *string
}

type FileRequest struct {
	SourceFilePath string
	DocID          string
	OCRData        string
}

// ParseText parses free text or serialized OCR tokens and, when a document
// id is given, stores the result in the text collection.
func (s *Service) ParseText(ctx context.Context, req TextRequest) (*menu.Document, error) {
	doc, err := s.text.Parse(ctx, pipeline.ResolveInput(req.MenuText))
	if err != nil {
		return nil, err
	}
	if req.DocID == "" {
		return doc, nil
	}
	return doc, s.store(ctx, CollectionText, debugPrefixText, req.DocID, req.SourceFilePath, req.MenuText, doc)
}

// ParseFile parses a stored source file and, when a document id is given,
// stores the result in the vision collection.
func (s *Service) ParseFile(ctx context.Context, req FileRequest) (*menu.Document, error) {
	doc, err := s.files.Parse(ctx, req.SourceFilePath, req.OCRData)
	if err != nil {
		return nil, err
	}
	if req.DocID == "" {
		return doc, nil
	}
	source := req.SourceFilePath
	return doc, s.store(ctx, CollectionVision, debugPrefixVision, req.DocID, &source, req.OCRData, doc)
}

func (s *Service) Get(ctx context.Context, collection, docID string) (*Record, error) {
	if !KnownCollection(collection) {
		return nil, ErrRecordNotFound
	}
	return s.repo.Get(ctx, collection, StorageID(docID))
}

func (s *Service) store(ctx context.Context, collection, debugPrefix, docID string, sourceFilePath *string, raw string, doc *menu.Document) error {
	id := StorageID(docID)
	rawPath := debugPath(debugPrefix, id)
	logger := log.WithFields(log.Fields{"stage": "persist", "collection": collection, "docId": id})

	if s.uploader != nil && raw != "" {
		if err := s.uploader.UploadBytes(ctx, rawPath, []byte(raw), "text/plain; charset=utf-8"); err != nil {
			logger.WithError(err).Warn("debug raw text upload failed")
		}
	}

	rec := &Record{
		Menu:             []*menu.Document{doc},
		SourceFilePath:   sourceFilePath,
		Source:           SourceLangchain,
		CreatedAt:        s.now().UTC(),
		DebugRawTextPath: rawPath,
	}
	if err := s.repo.Save(ctx, collection, id, rec); err != nil {
		logger.WithError(err).Error("failed to store menu record")
		return err
	}
	logger.WithField("items", len(doc.Data.Items)).Info("menu record stored")
	return nil
}
