package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

const longText = "Patient Name: John Doe\nHemoglobin: 14.2 g/dL\nWBC Count: 8500 cells/uL\n"

func fixedStrategy(method Method, text string, err error) strategy {
	return strategy{
		method:    method,
		available: true,
		run: func(ctx context.Context, data []byte) (string, error) {
			return text, err
		},
	}
}

func testPipeline(chain ...strategy) *Pipeline {
	return &Pipeline{
		minTextLength: DefaultMinTextLength,
		logger:        zerolog.Nop(),
		pdfChain:      chain,
	}
}

func TestPipeline_FirstSufficientStrategyWins(t *testing.T) {
	p := testPipeline(
		fixedStrategy(MethodPDFText, longText, nil),
		fixedStrategy(MethodOCR, "should never run", errors.New("boom")),
	)

	res := p.Extract(context.Background(), []byte("x"), "application/pdf")
	if !res.OK() {
		t.Fatalf("expected success, got failure %+v", res.Failure)
	}
	if res.Method != MethodPDFText {
		t.Errorf("expected method pdf_text, got %v", res.Method)
	}
	if res.Text != longText {
		t.Errorf("unexpected text %q", res.Text)
	}
}

func TestPipeline_ShortOutputFallsThrough(t *testing.T) {
	p := testPipeline(
		fixedStrategy(MethodPDFText, "Page 1", nil), // noise, below threshold
		fixedStrategy(MethodOCR, longText, nil),
	)

	res := p.Extract(context.Background(), []byte("x"), "application/pdf")
	if !res.OK() {
		t.Fatalf("expected success, got failure %+v", res.Failure)
	}
	if res.Method != MethodOCR {
		t.Errorf("expected fallback to ocr, got %v", res.Method)
	}
}

func TestPipeline_ErrorFallsThrough(t *testing.T) {
	p := testPipeline(
		fixedStrategy(MethodPDFText, "", errors.New("malformed xref")),
		fixedStrategy(MethodPDFTextAlt, longText, nil),
	)

	res := p.Extract(context.Background(), []byte("x"), "application/pdf")
	if !res.OK() {
		t.Fatalf("expected success, got failure %+v", res.Failure)
	}
	if res.Method != MethodPDFTextAlt {
		t.Errorf("expected pdf_text_alt, got %v", res.Method)
	}
}

func TestPipeline_PanicIsContainedToOneStrategy(t *testing.T) {
	panicking := strategy{
		method:    MethodPDFText,
		available: true,
		run: func(ctx context.Context, data []byte) (string, error) {
			panic("index out of range")
		},
	}
	p := testPipeline(panicking, fixedStrategy(MethodOCR, longText, nil))

	res := p.Extract(context.Background(), []byte("x"), "application/pdf")
	if !res.OK() {
		t.Fatalf("expected the chain to survive the panic, got %+v", res.Failure)
	}
	if res.Method != MethodOCR {
		t.Errorf("expected ocr, got %v", res.Method)
	}
}

func TestPipeline_AllStrategiesExhausted(t *testing.T) {
	p := testPipeline(
		fixedStrategy(MethodPDFText, "", nil),
		fixedStrategy(MethodPDFTextAlt, "   \n  ", nil),
	)

	res := p.Extract(context.Background(), []byte("x"), "application/pdf")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Failure.Reason != ReasonExhausted {
		t.Errorf("expected reason %q, got %q", ReasonExhausted, res.Failure.Reason)
	}
	if !strings.Contains(res.Failure.Detail, "no readable text") {
		t.Errorf("expected unreadable-document detail, got %q", res.Failure.Detail)
	}
}

func TestPipeline_LastErrorSurfacesInDetail(t *testing.T) {
	p := testPipeline(
		fixedStrategy(MethodPDFText, "", nil),
		fixedStrategy(MethodPDFTextAlt, "", errors.New("corrupt object stream")),
	)

	res := p.Extract(context.Background(), []byte("x"), "application/pdf")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Failure.Detail, "corrupt object stream") {
		t.Errorf("expected last error in detail, got %q", res.Failure.Detail)
	}
}

func TestPipeline_NothingAvailableReportsUnavailable(t *testing.T) {
	unavailable := strategy{
		method:   MethodImageOCR,
		skipNote: installHint,
	}
	p := &Pipeline{
		minTextLength: DefaultMinTextLength,
		logger:        zerolog.Nop(),
		imageChain:    []strategy{unavailable},
	}

	res := p.Extract(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Failure.Reason != ReasonUnavailable {
		t.Errorf("expected reason %q, got %q", ReasonUnavailable, res.Failure.Reason)
	}
	if !strings.Contains(res.Failure.Detail, "tesseract") {
		t.Errorf("expected install guidance in detail, got %q", res.Failure.Detail)
	}
}

func TestPipeline_SkipNoteAppendedToExhaustedDetail(t *testing.T) {
	p := testPipeline(
		fixedStrategy(MethodPDFText, "", nil),
		strategy{method: MethodOCR, skipNote: installHint},
	)

	res := p.Extract(context.Background(), []byte("x"), "application/pdf")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Failure.Reason != ReasonExhausted {
		t.Errorf("expected reason %q, got %q", ReasonExhausted, res.Failure.Reason)
	}
	if !strings.Contains(res.Failure.Detail, "tesseract") {
		t.Errorf("expected skipped-strategy note in detail, got %q", res.Failure.Detail)
	}
}

// Every distinct skipped-strategy note must surface in the failure detail,
// once each, so the operator sees all the missing tools at one go.
func TestPipeline_CollectsAllSkipNotes(t *testing.T) {
	popplerNote := "PDF rasterizer (poppler pdftoppm) is not installed; install poppler-utils to OCR scanned PDFs"
	p := testPipeline(
		fixedStrategy(MethodPDFText, "", nil),
		strategy{method: MethodOCR, skipNote: popplerNote},
		strategy{method: MethodImageOCR, skipNote: installHint},
		strategy{method: MethodImageOCR, skipNote: installHint},
	)

	res := p.Extract(context.Background(), []byte("x"), "application/pdf")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Failure.Detail, "poppler") {
		t.Errorf("expected poppler note in detail, got %q", res.Failure.Detail)
	}
	if !strings.Contains(res.Failure.Detail, "tesseract") {
		t.Errorf("expected tesseract note in detail, got %q", res.Failure.Detail)
	}
	if strings.Count(res.Failure.Detail, installHint) != 1 {
		t.Errorf("expected the repeated note deduplicated, got %q", res.Failure.Detail)
	}
}

// An assembled pipeline with no external tools still runs the embedded-text
// strategies against a PDF and exhausts them on garbage input.
func TestNewPipeline_NoCapabilities(t *testing.T) {
	p := NewPipeline(Capabilities{}, nil, nil, Options{Logger: zerolog.Nop()})

	res := p.Extract(context.Background(), []byte{}, "application/pdf")
	if res.OK() {
		t.Fatal("expected failure for empty document")
	}
	if res.Failure.Reason != ReasonExhausted {
		t.Errorf("expected reason %q, got %q", ReasonExhausted, res.Failure.Reason)
	}
}

func TestNewPipeline_ImageWithoutOCRIsUnavailable(t *testing.T) {
	p := NewPipeline(Capabilities{}, nil, nil, Options{Logger: zerolog.Nop()})

	res := p.Extract(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png")
	if res.OK() {
		t.Fatal("expected failure for image input without OCR")
	}
	if res.Failure.Reason != ReasonUnavailable {
		t.Errorf("expected reason %q, got %q", ReasonUnavailable, res.Failure.Reason)
	}
}

func TestPipeline_ChainSelection(t *testing.T) {
	pdfDone := fixedStrategy(MethodPDFText, longText, nil)
	imageDone := fixedStrategy(MethodImageOCR, longText, nil)
	p := &Pipeline{
		minTextLength: DefaultMinTextLength,
		logger:        zerolog.Nop(),
		pdfChain:      []strategy{pdfDone},
		imageChain:    []strategy{imageDone},
	}

	tests := []struct {
		name      string
		data      []byte
		mediaType string
		want      Method
	}{
		{"declared pdf", []byte("x"), "application/pdf", MethodPDFText},
		{"declared pdf with params", []byte("x"), "Application/PDF; charset=binary", MethodPDFText},
		{"declared image", []byte("x"), "image/jpeg", MethodImageOCR},
		{"sniffed pdf", []byte("%PDF-1.7 ........"), "", MethodPDFText},
		{"sniffed non-pdf", []byte{0x89, 'P', 'N', 'G', '\r', '\n'}, "", MethodImageOCR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Extract(context.Background(), tt.data, tt.mediaType)
			if !res.OK() {
				t.Fatalf("expected success, got %+v", res.Failure)
			}
			if res.Method != tt.want {
				t.Errorf("got method %v, want %v", res.Method, tt.want)
			}
		})
	}
}
