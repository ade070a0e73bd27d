package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed requests (missing multipart field,
	// oversized upload).
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat marks an upload whose filename extension is
	// neither .eml nor .msg. Raised before any parsing attempt.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrMalformedContainer marks an upload that matched a supported
	// extension but could not be decoded.
	ErrMalformedContainer = errors.New("malformed mail container")

	// ErrDecoderUnavailable marks a .msg upload arriving while no container
	// decoder is wired in. Deliberately distinct from ErrMalformedContainer:
	// the input may be fine, the deployment is not.
	ErrDecoderUnavailable = errors.New("msg decoder unavailable")

	// ErrEmptyBody marks a parsed message with no plain-text content left
	// after trimming. Checked before the model is called.
	ErrEmptyBody = errors.New("empty message body")

	// ErrExtractionService marks transport, auth or rate-limit failures of
	// the generative-model provider.
	ErrExtractionService = errors.New("extraction service failure")

	// ErrModelOutputInvalid marks model output that is not a single valid
	// JSON object, i.e. the provider violated the prompt contract.
	ErrModelOutputInvalid = errors.New("invalid model output")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
