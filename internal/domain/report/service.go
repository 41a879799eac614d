package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/labsight/labsight/internal/platform/extraction"
)

// Extractor turns document bytes into text. Implemented by
// extraction.Pipeline; narrowed to an interface so tests can substitute
// canned results.
type Extractor interface {
	Extract(ctx context.Context, data []byte, mediaType string) extraction.Result
}

// Service runs the full per-document flow: extraction, metadata, analysis.
// It holds no per-request state.
type Service struct {
	extractor Extractor
	analyzer  *Analyzer
	logger    zerolog.Logger
}

func NewService(extractor Extractor, analyzer *Analyzer, logger zerolog.Logger) *Service {
	return &Service{extractor: extractor, analyzer: analyzer, logger: logger}
}

// AnalyzeDocument extracts text from the uploaded bytes and analyzes it.
// An extraction failure comes back as the Failure (nil analysis), never as
// a Go error: the caller renders what happened either way.
func (s *Service) AnalyzeDocument(ctx context.Context, data []byte, mediaType string, override Gender) (*ReportAnalysis, *extraction.Failure) {
	res := s.extractor.Extract(ctx, data, mediaType)
	if !res.OK() {
		s.logger.Info().
			Str("reason", string(res.Failure.Reason)).
			Str("detail", res.Failure.Detail).
			Msg("extraction failed")
		return nil, res.Failure
	}

	ra := s.analyzeText(ctx, res.Text, override)
	ra.Method = res.Method
	return ra, nil
}

// AnalyzeText analyzes caller-supplied text directly, skipping extraction.
func (s *Service) AnalyzeText(ctx context.Context, text string, override Gender) *ReportAnalysis {
	return s.analyzeText(ctx, text, override)
}

func (s *Service) analyzeText(ctx context.Context, text string, override Gender) *ReportAnalysis {
	ra := &ReportAnalysis{
		ID:       uuid.New(),
		Text:     text,
		Metadata: ExtractMetadata(text),
		Analysis: s.analyzer.Analyze(ctx, text, override),
	}
	s.logger.Info().
		Str("analysis_id", ra.ID.String()).
		Str("gender_used", string(ra.Analysis.Gender)).
		Int("findings", len(ra.Analysis.Findings)).
		Msg("report analyzed")
	return ra
}
