package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	log "github.com/sirupsen/logrus"
)

// DefaultDPI is the resolution pages are rendered at for the vision model.
const DefaultDPI = 200

// Rasterizer renders PDF pages to PNG with pdftoppm (poppler-utils).
type Rasterizer struct {
	DPI     int
	Workers int
	Binary  string
}

func NewRasterizer(dpi int) *Rasterizer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Rasterizer{DPI: dpi, Workers: runtime.NumCPU(), Binary: "pdftoppm"}
}

// PageCount reads the number of pages in a PDF.
func PageCount(pdf []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(pdf), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return n, nil
}

// Pages renders every page of pdf and returns the PNG bytes in page order.
func (r *Rasterizer) Pages(ctx context.Context, pdf []byte) ([][]byte, error) {
	count, err := PageCount(pdf)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	tmpDir, err := os.MkdirTemp("", "menu-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "menu.pdf")
	if err := os.WriteFile(pdfPath, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	type result struct {
		page int
		png  []byte
		err  error
	}
	results := make(chan result, count)
	sem := make(chan struct{}, workers)

	for page := 1; page <= count; page++ {
		sem <- struct{}{}
		go func(page int) {
			defer func() { <-sem }()
			png, err := r.renderPage(ctx, pdfPath, tmpDir, page)
			results <- result{page: page, png: png, err: err}
		}(page)
	}

	pages := make([][]byte, count)
	var firstErr error
	for i := 0; i < count; i++ {
		res := <-results
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to render page %d: %w", res.page, res.err)
		}
		pages[res.page-1] = res.png
	}
	if firstErr != nil {
		return nil, firstErr
	}

	log.WithFields(log.Fields{"pages": count, "dpi": r.DPI}).Debug("pdf rasterized")
	return pages, nil
}

func (r *Rasterizer) renderPage(ctx context.Context, pdfPath, dir string, page int) ([]byte, error) {
	prefix := filepath.Join(dir, fmt.Sprintf("page_%04d", page))
	pageStr := strconv.Itoa(page)

	cmd := exec.CommandContext(ctx, r.Binary,
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", strconv.Itoa(r.DPI),
		"-singlefile",
		pdfPath,
		prefix,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(output))
	}

	// -singlefile writes <prefix>.png
	data, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm did not create expected output: %w", err)
	}
	return data, nil
}
