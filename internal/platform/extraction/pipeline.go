package extraction

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultMinTextLength is the smallest trimmed output a strategy must
// produce to be accepted. Embedded-text extraction from a scanned PDF often
// returns a handful of stray characters (headers, page numbers) instead of
// failing outright; length is what separates real text from that noise.
const DefaultMinTextLength = 50

const installHint = "OCR engine (tesseract) is not installed; install it to process scanned documents " +
	"(macOS: brew install tesseract, Debian/Ubuntu: apt-get install tesseract-ocr)"

// strategy is one technique for turning document bytes into text.
type strategy struct {
	method    Method
	available bool
	// skipNote explains an unavailable strategy in failure details.
	skipNote string
	run      func(ctx context.Context, data []byte) (string, error)
}

// Pipeline turns an opaque document into plain text by trying a fixed
// sequence of strategies, cheapest first. Strategies are never raced: OCR
// only runs when the direct text attempts came up short.
type Pipeline struct {
	minTextLength int
	logger        zerolog.Logger

	pdfChain   []strategy
	imageChain []strategy
}

// Options tune a Pipeline; zero values select defaults.
type Options struct {
	MinTextLength int
	Logger        zerolog.Logger
}

// NewPipeline assembles the strategy chains for the detected capabilities.
// Missing capabilities disable strategies; they never fail construction.
func NewPipeline(caps Capabilities, ocr *OCREngine, raster *Rasterizer, opts Options) *Pipeline {
	p := &Pipeline{
		minTextLength: opts.MinTextLength,
		logger:        opts.Logger,
	}
	if p.minTextLength == 0 {
		p.minTextLength = DefaultMinTextLength
	}

	ocrRaster := strategy{
		method:    MethodOCR,
		available: caps.HasOCR() && caps.HasRasterizer(),
		skipNote:  installHint,
		run: func(ctx context.Context, data []byte) (string, error) {
			return rasterizeAndOCR(ctx, raster, ocr, data)
		},
	}
	if caps.HasOCR() && !caps.HasRasterizer() {
		ocrRaster.skipNote = "PDF rasterizer (poppler pdftoppm) is not installed; install poppler-utils to OCR scanned PDFs"
	}

	imageOCR := strategy{
		method:    MethodImageOCR,
		available: caps.HasOCR(),
		skipNote:  installHint,
		run: func(ctx context.Context, data []byte) (string, error) {
			return ocr.ImageBytesToText(ctx, data)
		},
	}

	p.pdfChain = []strategy{
		{method: MethodPDFText, available: true, run: extractPDFText},
		ocrRaster,
		{method: MethodPDFTextAlt, available: true, run: extractPDFTextAlt},
		imageOCR,
	}
	p.imageChain = []strategy{imageOCR}
	return p
}

// Extract runs the strategy chain for the declared media type. It always
// returns a Result; document-level failure is data, not an error.
func (p *Pipeline) Extract(ctx context.Context, data []byte, mediaType string) Result {
	chain := p.chainFor(data, mediaType)

	var (
		ran       bool
		lastErr   error
		skipNotes []string
	)
	for _, s := range chain {
		if !s.available {
			if s.skipNote != "" && !slices.Contains(skipNotes, s.skipNote) {
				skipNotes = append(skipNotes, s.skipNote)
			}
			p.logger.Debug().Str("strategy", string(s.method)).Msg("strategy unavailable, skipping")
			continue
		}
		ran = true

		start := time.Now()
		text, err := p.runStrategy(ctx, s, data)
		if err != nil {
			lastErr = err
			p.logger.Warn().Str("strategy", string(s.method)).Err(err).Msg("strategy failed")
			continue
		}
		if len(strings.TrimSpace(text)) <= p.minTextLength {
			p.logger.Debug().
				Str("strategy", string(s.method)).
				Int("chars", len(strings.TrimSpace(text))).
				Msg("strategy output below threshold")
			continue
		}
		p.logger.Info().
			Str("strategy", string(s.method)).
			Int("chars", len(text)).
			Dur("elapsed", time.Since(start)).
			Msg("text extracted")
		return Result{Text: text, Method: s.method}
	}

	return Result{Failure: p.failure(ran, lastErr, strings.Join(skipNotes, "; "))}
}

// runStrategy isolates a strategy: internal errors and panics from
// third-party parsers are converted to a per-strategy error so the chain
// can move on.
func (p *Pipeline) runStrategy(ctx context.Context, s strategy, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: parser panic: %v", s.method, r)
		}
	}()
	return s.run(ctx, data)
}

func (p *Pipeline) chainFor(data []byte, mediaType string) []strategy {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	switch {
	case strings.Contains(mt, "pdf"):
		return p.pdfChain
	case strings.HasPrefix(mt, "image/"):
		return p.imageChain
	}
	// No usable hint: sniff the bytes.
	if strings.Contains(http.DetectContentType(data), "pdf") {
		return p.pdfChain
	}
	return p.imageChain
}

// failure builds the terminal Failure. If nothing could even run, the
// missing capability is the reason; otherwise every applicable strategy was
// exhausted and the detail says whether the document was unreadable or the
// last strategy died unexpectedly.
func (p *Pipeline) failure(ran bool, lastErr error, skipNotes string) *Failure {
	if !ran {
		detail := skipNotes
		if detail == "" {
			detail = "no extraction strategy is available for this document type"
		}
		return &Failure{Reason: ReasonUnavailable, Detail: detail}
	}

	detail := "no readable text could be extracted from the document; it may be empty, corrupted, or password-protected"
	if lastErr != nil {
		detail = fmt.Sprintf("unexpected extraction error: %v", lastErr)
	}
	if skipNotes != "" {
		detail += "; " + skipNotes
	}
	return &Failure{Reason: ReasonExhausted, Detail: detail}
}

// rasterizeAndOCR renders each PDF page to an image and runs OCR over the
// pages in order, concatenating the per-page output.
func rasterizeAndOCR(ctx context.Context, raster *Rasterizer, ocr *OCREngine, data []byte) (string, error) {
	pages, cleanup, err := raster.Render(ctx, data)
	defer cleanup()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, page := range pages {
		text, err := ocr.ImageFileToText(ctx, page)
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
