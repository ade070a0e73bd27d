package usecase

import (
	"encoding/json"
	"fmt"

	"github.com/codevibe-de/offer-assistant/internal/core/domain"
)

// The response validator relies on this contract: exactly one JSON object,
// no fences, no prose. Keep the field list in sync with InquiryFields.
const extractionPromptTemplate = `You are an assistant that processes insurance inquiry emails.

Given the email below, return a JSON object with exactly these fields:
- "data": an object with these fields (use null if not found):
  - "customer_name": full name of the customer
  - "profession": the customer's profession or trade
  - "location": city or region
  - "insurance_type": type of insurance requested
  - "coverage_amount": desired coverage/sum insured
  - "deductible": deductible amount if mentioned
  - "insurance_year": year the insurance should start (integer)
  - "broker_name": name of the broker if mentioned
  - "broker_email": broker's email address
  - "broker_phone": broker's phone number
- "risk_type_code": pick the single best matching code from the list below, or null if none fit:
%s

Respond with ONLY a valid JSON object, no markdown fences, no explanation.

Email Subject: %s
From: %s
Body:
%s
`

// BuildExtractionPrompt renders the instruction template. Pure: identical
// inputs produce identical prompts, so an unchanged taxonomy keeps the model
// input reproducible.
func BuildExtractionPrompt(sender, subject, body string, taxonomy []domain.RiskType) string {
	if taxonomy == nil {
		taxonomy = []domain.RiskType{}
	}
	riskTypesJSON, err := json.Marshal(taxonomy)
	if err != nil {
		riskTypesJSON = []byte("[]")
	}
	return fmt.Sprintf(extractionPromptTemplate, riskTypesJSON, subject, sender, body)
}
