package extraction

// Method identifies which extraction strategy produced the text.
type Method string

const (
	// MethodPDFText is direct extraction from the PDF's embedded text layer.
	MethodPDFText Method = "pdf_text"
	// MethodOCR is per-page rasterization followed by OCR.
	MethodOCR Method = "ocr"
	// MethodPDFTextAlt is the alternate text-layer parser, for PDFs the
	// primary parser mishandles.
	MethodPDFTextAlt Method = "pdf_text_alt"
	// MethodImageOCR feeds the raw byte stream to the OCR engine as a
	// single image (scans saved with a .pdf extension, raster uploads).
	MethodImageOCR Method = "image_ocr"
)

// FailureReason classifies a document-level extraction failure.
type FailureReason string

const (
	// ReasonUnavailable means every applicable strategy needed a capability
	// that is not installed on this host. Detail carries install guidance.
	ReasonUnavailable FailureReason = "extraction_unavailable"
	// ReasonExhausted means at least one strategy ran but none produced
	// enough text.
	ReasonExhausted FailureReason = "extraction_exhausted"
)

// Failure describes why no text could be extracted from a document. It is
// returned as data, never as a Go error: callers render it directly.
type Failure struct {
	Reason FailureReason `json:"reason"`
	Detail string        `json:"detail"`
}

// Result is the outcome of running the pipeline on one document: either
// extracted text plus the method that produced it, or a Failure.
type Result struct {
	Text    string   `json:"text,omitempty"`
	Method  Method   `json:"method,omitempty"`
	Failure *Failure `json:"failure,omitempty"`
}

// OK reports whether extraction succeeded.
func (r Result) OK() bool { return r.Failure == nil }
