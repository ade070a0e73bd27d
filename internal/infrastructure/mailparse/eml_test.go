package mailparse

import (
	"testing"

	"github.com/codevibe-de/offer-assistant/internal/core/domain"
)

func TestParseEMLSimpleMessage(t *testing.T) {
	raw := "From: Jane Broker <jane@example.com>\r\n" +
		"Subject: Liability inquiry\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"We need coverage for a carpentry business.\r\n"

	msg, err := parseEML([]byte(raw))
	if err != nil {
		t.Fatalf("parseEML() error = %v", err)
	}
	if msg.Sender != "Jane Broker <jane@example.com>" {
		t.Fatalf("unexpected sender %q", msg.Sender)
	}
	if msg.Subject != "Liability inquiry" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if msg.Body != "We need coverage for a carpentry business.\r\n" {
		t.Fatalf("unexpected body %q", msg.Body)
	}
}

func TestParseEMLMissingHeadersYieldEmptyStrings(t *testing.T) {
	raw := "MIME-Version: 1.0\r\n\r\nbody only\r\n"

	msg, err := parseEML([]byte(raw))
	if err != nil {
		t.Fatalf("parseEML() error = %v", err)
	}
	if msg.Sender != "" || msg.Subject != "" {
		t.Fatalf("expected empty envelope, got sender=%q subject=%q", msg.Sender, msg.Subject)
	}
	if msg.Body != "body only\r\n" {
		t.Fatalf("unexpected body %q", msg.Body)
	}
}

func TestParseEMLDecodesEncodedWordHeaders(t *testing.T) {
	raw := "From: =?utf-8?q?J=C3=BCrgen?= <j@example.de>\r\n" +
		"Subject: =?utf-8?b?QW5mcmFnZQ==?=\r\n" +
		"\r\n" +
		"hallo\r\n"

	msg, err := parseEML([]byte(raw))
	if err != nil {
		t.Fatalf("parseEML() error = %v", err)
	}
	if msg.Sender != "Jürgen <j@example.de>" {
		t.Fatalf("unexpected sender %q", msg.Sender)
	}
	if msg.Subject != "Anfrage" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
}

func TestParseEMLMultipartPrefersFirstPlainPart(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Subject: multipart\r\n" +
		"Content-Type: multipart/alternative; boundary=BOUND\r\n" +
		"\r\n" +
		"--BOUND\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<p>html first</p>\r\n" +
		"--BOUND\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"plain text wins\r\n" +
		"--BOUND--\r\n"

	msg, err := parseEML([]byte(raw))
	if err != nil {
		t.Fatalf("parseEML() error = %v", err)
	}
	if msg.Body != "plain text wins\r\n" {
		t.Fatalf("unexpected body %q", msg.Body)
	}
}

func TestParseEMLNestedMultipart(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Content-Type: multipart/mixed; boundary=OUTER\r\n" +
		"\r\n" +
		"--OUTER\r\n" +
		"Content-Type: multipart/alternative; boundary=INNER\r\n" +
		"\r\n" +
		"--INNER\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"nested plain\r\n" +
		"--INNER--\r\n" +
		"--OUTER\r\n" +
		"Content-Type: application/pdf\r\n" +
		"\r\n" +
		"%PDF-\r\n" +
		"--OUTER--\r\n"

	msg, err := parseEML([]byte(raw))
	if err != nil {
		t.Fatalf("parseEML() error = %v", err)
	}
	if msg.Body != "nested plain\r\n" {
		t.Fatalf("unexpected body %q", msg.Body)
	}
}

func TestParseEMLMultipartWithoutPlainPartYieldsEmptyBody(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Content-Type: multipart/mixed; boundary=BOUND\r\n" +
		"\r\n" +
		"--BOUND\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<p>only html</p>\r\n" +
		"--BOUND--\r\n"

	msg, err := parseEML([]byte(raw))
	if err != nil {
		t.Fatalf("parseEML() error = %v", err)
	}
	if msg.Body != "" {
		t.Fatalf("expected empty body, got %q", msg.Body)
	}
}

func TestParseEMLDecodesQuotedPrintableBody(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"Stra=C3=9Fe 12\r\n"

	msg, err := parseEML([]byte(raw))
	if err != nil {
		t.Fatalf("parseEML() error = %v", err)
	}
	if msg.Body != "Straße 12\r\n" {
		t.Fatalf("unexpected body %q", msg.Body)
	}
}

func TestParseEMLDecodesBase64Body(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Content-Type: text/plain\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		"aGVsbG8gd29ybGQ=\r\n"

	msg, err := parseEML([]byte(raw))
	if err != nil {
		t.Fatalf("parseEML() error = %v", err)
	}
	if msg.Body != "hello world" {
		t.Fatalf("unexpected body %q", msg.Body)
	}
}

func TestParseEMLNonTextSinglePartYieldsEmptyBody(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"\r\n" +
		"\x00\x01\x02\r\n"

	msg, err := parseEML([]byte(raw))
	if err != nil {
		t.Fatalf("parseEML() error = %v", err)
	}
	if msg.Body != "" {
		t.Fatalf("expected empty body, got %q", msg.Body)
	}
}

func TestParseEMLMalformedMessage(t *testing.T) {
	_, err := parseEML([]byte("not an rfc 5322 message at all"))
	if !domain.IsKind(err, domain.ErrMalformedContainer) {
		t.Fatalf("expected ErrMalformedContainer, got %v", err)
	}
}
