package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default
}

// Client reads invoice text with external poppler/tesseract tools.
// TextLayer reads the embedded text layer; Recognize rasterizes and runs
// OCR over the page images. Recognize is the single fallback the
// extraction gate takes when the text layer is too thin.
type Client struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Client{cfg: cfg, runner: newExecRunner(logger), logger: logger}
}

// TextLayer returns the PDF's embedded text and its page count. Pages are
// separated by form feeds, matching pdftotext's default.
func (c *Client) TextLayer(ctx context.Context, path string) (string, int, error) {
	out, errb, err := c.runner.Run(ctx, c.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, fmt.Errorf("pdftotext: %w (%s)", err, truncate(string(errb), 512))
	}
	text := string(out)
	pages := 1 + strings.Count(text, "\f")
	return text, pages, nil
}

// Recognize rasterizes every page and runs tesseract over the images,
// returning the recovered text joined with page breaks.
func (c *Client) Recognize(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "bgv-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			c.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", rerr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	_, errb, err := c.runner.Run(ctx, c.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", c.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	// pdftoppm writes page-1.png, page-2.png, ...
	images, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(images)
	if c.cfg.MaxPages > 0 && len(images) > c.cfg.MaxPages {
		images = images[:c.cfg.MaxPages]
	}
	if len(images) == 0 {
		return "", fmt.Errorf("pdftoppm produced no page images for %s", path)
	}

	var b strings.Builder
	for _, img := range images {
		txt, err := c.tesseract(ctx, img)
		if err != nil {
			c.logger.Warn("tesseract page failed", "image", img, "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\f")
		}
		b.WriteString(txt)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("ocr recovered no text from %s", path)
	}
	return b.String(), nil
}

func (c *Client) tesseract(ctx context.Context, imgPath string) (string, error) {
	args := []string{imgPath, "stdout", "-l", c.cfg.TesseractLang}
	if c.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", c.cfg.PSM))
	}
	if c.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", c.cfg.OEM))
	}
	out, errb, err := c.runner.Run(ctx, c.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
