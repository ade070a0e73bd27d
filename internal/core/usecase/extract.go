package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codevibe-de/offer-assistant/internal/core/domain"
	"github.com/codevibe-de/offer-assistant/internal/core/ports"
)

// Monitor receives pipeline observations. Implemented by the metrics package;
// a no-op is used when nothing is wired.
type Monitor interface {
	ExtractionCompleted(status string, elapsed time.Duration)
	TaxonomyFallback()
	ModelCall(elapsed time.Duration, failed bool)
}

type nopMonitor struct{}

func (nopMonitor) ExtractionCompleted(string, time.Duration) {}
func (nopMonitor) TaxonomyFallback()                         {}
func (nopMonitor) ModelCall(time.Duration, bool)             {}

// ExtractInquiryUseCase runs the inquiry extraction pipeline: parse the
// uploaded mail, fetch the risk-type taxonomy (degrading to empty), build the
// prompt, call the model once and validate its output. Each request is
// independent; the use case holds no per-request state.
type ExtractInquiryUseCase struct {
	parser  ports.MessageParser
	catalog ports.RiskTypeCatalog
	model   ports.CompletionClient
	logger  *slog.Logger
	monitor Monitor
}

func NewExtractInquiryUseCase(
	parser ports.MessageParser,
	catalog ports.RiskTypeCatalog,
	model ports.CompletionClient,
	logger *slog.Logger,
	monitor Monitor,
) *ExtractInquiryUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	if monitor == nil {
		monitor = nopMonitor{}
	}
	return &ExtractInquiryUseCase{
		parser:  parser,
		catalog: catalog,
		model:   model,
		logger:  logger,
		monitor: monitor,
	}
}

func (uc *ExtractInquiryUseCase) ExtractFromUpload(ctx context.Context, filename string, data []byte) (*domain.ExtractionResult, error) {
	start := time.Now()
	result, err := uc.run(ctx, filename, data)
	uc.monitor.ExtractionCompleted(outcomeLabel(err), time.Since(start))
	return result, err
}

func (uc *ExtractInquiryUseCase) run(ctx context.Context, filename string, data []byte) (*domain.ExtractionResult, error) {
	if !supportedExtension(filename) {
		return nil, domain.WrapError(domain.ErrUnsupportedFormat, "check upload", fmt.Errorf("filename %q", filename))
	}

	msg, err := uc.parse(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	// Guard before the paid model call: an empty prompt body is never sent.
	if strings.TrimSpace(msg.Body) == "" {
		return nil, domain.WrapError(domain.ErrEmptyBody, "check body", fmt.Errorf("no plain text content in %q", filename))
	}

	taxonomy := uc.fetchRiskTypes(ctx)
	prompt := BuildExtractionPrompt(msg.Sender, msg.Subject, msg.Body, taxonomy)

	raw, err := uc.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, err := ValidateModelOutput(raw, taxonomy, msg)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *ExtractInquiryUseCase) parse(ctx context.Context, filename string, data []byte) (domain.ParsedMessage, error) {
	msg, err := uc.parser.Parse(ctx, filename, data)
	if err != nil {
		return domain.ParsedMessage{}, fmt.Errorf("parse upload: %w", err)
	}
	return msg, nil
}

// fetchRiskTypes never fails: taxonomy enrichment is optional and any store
// error degrades to an empty taxonomy with a warning.
func (uc *ExtractInquiryUseCase) fetchRiskTypes(ctx context.Context) []domain.RiskType {
	if uc.catalog == nil {
		uc.monitor.TaxonomyFallback()
		return []domain.RiskType{}
	}
	riskTypes, err := uc.catalog.ListActive(ctx)
	if err != nil {
		uc.logger.Warn("risk type fetch failed, proceeding without taxonomy", "error", err)
		uc.monitor.TaxonomyFallback()
		return []domain.RiskType{}
	}
	if riskTypes == nil {
		riskTypes = []domain.RiskType{}
	}
	return riskTypes
}

func (uc *ExtractInquiryUseCase) complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	raw, err := uc.model.Complete(ctx, prompt)
	uc.monitor.ModelCall(time.Since(start), err != nil)
	if err != nil {
		return "", fmt.Errorf("model completion: %w", err)
	}
	return raw, nil
}

func supportedExtension(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".eml") || strings.HasSuffix(lower, ".msg")
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		return "unsupported_format"
	case domain.IsKind(err, domain.ErrEmptyBody):
		return "empty_body"
	case domain.IsKind(err, domain.ErrMalformedContainer):
		return "malformed_container"
	case domain.IsKind(err, domain.ErrDecoderUnavailable):
		return "decoder_unavailable"
	case domain.IsKind(err, domain.ErrModelOutputInvalid):
		return "invalid_model_output"
	case domain.IsKind(err, domain.ErrExtractionService):
		return "model_error"
	default:
		return "error"
	}
}
