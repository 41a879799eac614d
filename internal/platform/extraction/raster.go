package extraction

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
)

// Rasterizer converts PDF pages to PNG images with poppler's pdftoppm.
// 300 DPI balances OCR accuracy against processing time.
type Rasterizer struct {
	binary string
	dpi    int
}

func NewRasterizer(binary string, dpi int) *Rasterizer {
	if dpi <= 0 {
		dpi = 300
	}
	return &Rasterizer{binary: binary, dpi: dpi}
}

// Render writes the PDF to a scratch directory, rasterizes every page, and
// returns the page image paths in page order plus a cleanup func. The caller
// must invoke cleanup regardless of error handling on its side.
func (r *Rasterizer) Render(ctx context.Context, pdfBytes []byte) ([]string, func(), error) {
	dir, err := os.MkdirTemp("", "labsight-raster-*")
	if err != nil {
		return nil, func() {}, fmt.Errorf("raster: scratch dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	src := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(src, pdfBytes, 0o600); err != nil {
		return nil, cleanup, fmt.Errorf("raster: write input: %w", err)
	}

	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, r.binary, "-png", "-r", strconv.Itoa(r.dpi), src, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return nil, cleanup, fmt.Errorf("raster: %w", ctx.Err())
		}
		return nil, cleanup, fmt.Errorf("raster: pdftoppm failed: %s", string(out))
	}

	// pdftoppm zero-pads page numbers to a uniform width, so a lexical
	// sort of the produced filenames is page order.
	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil || len(pages) == 0 {
		return nil, cleanup, fmt.Errorf("raster: no page images produced")
	}
	sort.Strings(pages)
	return pages, cleanup, nil
}
