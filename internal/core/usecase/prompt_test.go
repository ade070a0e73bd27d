package usecase

import (
	"strings"
	"testing"

	"github.com/codevibe-de/offer-assistant/internal/core/domain"
)

func TestBuildExtractionPromptEmbedsTaxonomyAsJSON(t *testing.T) {
	taxonomy := []domain.RiskType{
		{Code: "CY", Name: "Cyber"},
		{Code: "PL", Name: "Professional Liability"},
	}

	prompt := BuildExtractionPrompt("a@b.example", "Inquiry", "body text", taxonomy)

	if !strings.Contains(prompt, `[{"code":"CY","name":"Cyber"},{"code":"PL","name":"Professional Liability"}]`) {
		t.Fatalf("taxonomy json not embedded:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Email Subject: Inquiry") {
		t.Fatalf("subject missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "From: a@b.example") {
		t.Fatalf("sender missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "body text") {
		t.Fatalf("body missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "ONLY a valid JSON object") {
		t.Fatalf("output contract missing:\n%s", prompt)
	}
}

func TestBuildExtractionPromptIsDeterministic(t *testing.T) {
	taxonomy := []domain.RiskType{{Code: "PL", Name: "Professional Liability"}}

	first := BuildExtractionPrompt("s", "subj", "body", taxonomy)
	second := BuildExtractionPrompt("s", "subj", "body", taxonomy)
	if first != second {
		t.Fatalf("prompt must be deterministic")
	}
}

func TestBuildExtractionPromptEmptyTaxonomyRendersEmptyList(t *testing.T) {
	for _, taxonomy := range [][]domain.RiskType{nil, {}} {
		prompt := BuildExtractionPrompt("s", "subj", "body", taxonomy)
		if !strings.Contains(prompt, "or null if none fit:\n[]") {
			t.Fatalf("expected empty json list, got:\n%s", prompt)
		}
	}
}
