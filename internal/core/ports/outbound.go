package ports

import (
	"context"

	"github.com/codevibe-de/offer-assistant/internal/core/domain"
)

// MessageParser normalizes raw upload bytes into a ParsedMessage. The format
// is selected from the filename extension before any bytes are touched.
type MessageParser interface {
	Parse(ctx context.Context, filename string, data []byte) (domain.ParsedMessage, error)
}

// RiskTypeCatalog reads the active risk-type taxonomy. Implementations may
// fail; the pipeline converts every failure into an empty taxonomy.
type RiskTypeCatalog interface {
	ListActive(ctx context.Context) ([]domain.RiskType, error)
}

// CompletionClient performs a single non-streaming generative-model call and
// returns the raw response text.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
