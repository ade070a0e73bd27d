package mailparse

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/codevibe-de/offer-assistant/internal/core/domain"
)

// parseEML reads an RFC 5322 message. Sender and subject fall back to empty
// strings; the body is the first text/plain part of a multipart message (or
// the whole body for plain messages), decoded per its transfer encoding.
// A multipart message without a text/plain part yields an empty body.
func parseEML(data []byte) (domain.ParsedMessage, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return domain.ParsedMessage{}, domain.WrapError(domain.ErrMalformedContainer, "parse eml", err)
	}

	dec := new(mime.WordDecoder)
	parsed := domain.ParsedMessage{
		Sender:  decodeHeader(dec, msg.Header.Get("From")),
		Subject: decodeHeader(dec, msg.Header.Get("Subject")),
	}

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		// No or unparseable Content-Type: treat the body as plain text.
		mediaType = "text/plain"
	}

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		body, err := findPlainPart(msg.Body, params["boundary"])
		if err != nil {
			return domain.ParsedMessage{}, domain.WrapError(domain.ErrMalformedContainer, "parse eml multipart", err)
		}
		parsed.Body = body
	case mediaType == "text/plain":
		body, err := decodeTransfer(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
		if err != nil {
			return domain.ParsedMessage{}, domain.WrapError(domain.ErrMalformedContainer, "decode eml body", err)
		}
		parsed.Body = body
	default:
		// Single-part non-text message: nothing plain-text-renderable.
		parsed.Body = ""
	}

	return parsed, nil
}

// findPlainPart walks a multipart body depth-first and returns the content of
// the first text/plain part. Nested multiparts (alternative, mixed, related)
// are descended into. Absence of a plain part is not an error.
func findPlainPart(r io.Reader, boundary string) (string, error) {
	if boundary == "" {
		return "", nil
	}

	mr := multipart.NewReader(r, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", err
		}

		mediaType, params, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil {
			mediaType = "text/plain"
		}

		switch {
		case strings.HasPrefix(mediaType, "multipart/"):
			body, err := findPlainPart(part, params["boundary"])
			if err != nil {
				return "", err
			}
			if body != "" {
				return body, nil
			}
		case mediaType == "text/plain":
			return decodeTransfer(part, part.Header.Get("Content-Transfer-Encoding"))
		}
	}
}

func decodeTransfer(r io.Reader, encoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeHeader resolves RFC 2047 encoded words; undecodable headers are kept
// verbatim rather than dropped.
func decodeHeader(dec *mime.WordDecoder, raw string) string {
	if raw == "" {
		return ""
	}
	decoded, err := dec.DecodeHeader(raw)
	if err != nil {
		return raw
	}
	return decoded
}
