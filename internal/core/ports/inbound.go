package ports

import (
	"context"

	"github.com/codevibe-de/offer-assistant/internal/core/domain"
)

// InquiryExtractor is the inbound contract for the extraction pipeline: one
// uploaded email file in, one validated result out.
type InquiryExtractor interface {
	ExtractFromUpload(ctx context.Context, filename string, data []byte) (*domain.ExtractionResult, error)
}
