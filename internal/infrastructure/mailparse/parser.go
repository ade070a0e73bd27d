// Package mailparse normalizes uploaded email files into a ParsedMessage.
// Two container formats are supported: RFC 5322 text mail (.eml) and the
// Outlook compound-file container (.msg). Format selection is by filename
// extension only; the bytes are never sniffed.
package mailparse

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/codevibe-de/offer-assistant/internal/core/domain"
)

var errNoDecoder = errors.New("no container decoder configured")

func errUnknownExtension(filename string) error {
	return fmt.Errorf("extension %q is not supported", filepath.Ext(filename))
}

// Format is the tagged variant over the supported mail containers.
type Format int

const (
	FormatUnknown Format = iota
	FormatEML
	FormatMSG
)

// FormatFromFilename resolves the container format from the extension,
// case-insensitively. Unknown extensions yield FormatUnknown.
func FormatFromFilename(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".eml":
		return FormatEML
	case ".msg":
		return FormatMSG
	default:
		return FormatUnknown
	}
}

// ContainerDecoder decodes the proprietary .msg container. It is injected so
// that deployments without the capability fail with a distinct error instead
// of a parse error.
type ContainerDecoder interface {
	Decode(ctx context.Context, data []byte) (domain.ParsedMessage, error)
}

// Parser implements ports.MessageParser. The zero decoder is valid: .msg
// uploads then fail with ErrDecoderUnavailable.
type Parser struct {
	decoder ContainerDecoder
}

func New(decoder ContainerDecoder) *Parser {
	return &Parser{decoder: decoder}
}

func (p *Parser) Parse(ctx context.Context, filename string, data []byte) (domain.ParsedMessage, error) {
	switch FormatFromFilename(filename) {
	case FormatEML:
		return parseEML(data)
	case FormatMSG:
		if p.decoder == nil {
			return domain.ParsedMessage{}, domain.WrapError(domain.ErrDecoderUnavailable, "parse msg", errNoDecoder)
		}
		return p.decoder.Decode(ctx, data)
	default:
		return domain.ParsedMessage{}, domain.WrapError(domain.ErrUnsupportedFormat, "parse upload", errUnknownExtension(filename))
	}
}
