package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"menuparser/internal/app"
	"menuparser/internal/config"
	"menuparser/internal/menu"
	"menuparser/internal/pipeline"
	"menuparser/internal/storage"
)

var (
	ocrPath  string
	textPath string
	outPath  string
	rootDir  string
)

var rootCmd = &cobra.Command{
	Use:   "parse-file [source-file]",
	Short: "Parse a local menu file into the canonical menu JSON",
	Long: `parse-file runs the menu pipelines without the HTTP service or the database.

Examples:
  parse-file menu.png --ocr menu.ocr.json      # image + OCR tokens
  parse-file menu.pdf --ocr pages.ocr.json     # per-page OCR for a PDF
  parse-file menu.xlsx                         # spreadsheet
  parse-file --text menu.txt                   # free text`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&ocrPath, "ocr", "", "OCR JSON file (token list or one list per page)")
	rootCmd.Flags().StringVar(&textPath, "text", "", "plain text or OCR JSON to parse with the text pipeline")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the menu JSON here instead of stdout")
	rootCmd.Flags().StringVar(&rootDir, "root", "", "directory source paths are resolved against")
}

func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.ConfigureLogging()

	client, err := app.NewLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	pipelines, err := app.Build(cfg, client, storage.LocalStore{Root: rootDir})
	if err != nil {
		return err
	}

	var doc *menu.Document
	switch {
	case textPath != "":
		text, err := readOptional(textPath)
		if err != nil {
			return err
		}
		doc, err = pipelines.Text.Parse(ctx, pipeline.ResolveInput(text))
		if err != nil {
			return err
		}
	case len(args) == 1:
		ocrData, err := readOptional(ocrPath)
		if err != nil {
			return err
		}
		doc, err = pipelines.Files.Parse(ctx, args[0], ocrData)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("a source file or --text is required")
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if outPath == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	}
	log.WithFields(log.Fields{"out": outPath, "items": len(doc.Data.Items)}).Info("menu written")
	return os.WriteFile(outPath, out, 0o644)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
