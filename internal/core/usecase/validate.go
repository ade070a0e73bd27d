package usecase

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/codevibe-de/offer-assistant/internal/core/domain"
)

// ValidateModelOutput coerces the model's raw text into a typed result. The
// payload is untrusted: the only hard requirement is that it parses as a JSON
// object. The nested "data" object and every field inside it degrade to null
// independently; unknown keys are ignored. Sender, subject and body always
// come from the parsed message, never from the model.
func ValidateModelOutput(raw string, taxonomy []domain.RiskType, msg domain.ParsedMessage) (*domain.ExtractionResult, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return nil, domain.WrapError(domain.ErrModelOutputInvalid, "parse model response", err)
	}

	result := &domain.ExtractionResult{
		Sender:  msg.Sender,
		Subject: msg.Subject,
		RawBody: msg.Body,
	}

	if code, _ := payload["risk_type_code"].(string); code != "" {
		result.RiskTypeCode = &code
		// First hit wins; duplicate codes in the taxonomy are tolerated.
		for _, rt := range taxonomy {
			if rt.Code == code {
				name := rt.Name
				result.RiskTypeName = &name
				break
			}
		}
	}

	fields, _ := payload["data"].(map[string]any)
	result.Data = coerceFields(fields)
	return result, nil
}

func coerceFields(payload map[string]any) domain.InquiryFields {
	return domain.InquiryFields{
		CustomerName:   stringField(payload, "customer_name"),
		Profession:     stringField(payload, "profession"),
		Location:       stringField(payload, "location"),
		InsuranceType:  stringField(payload, "insurance_type"),
		CoverageAmount: stringField(payload, "coverage_amount"),
		Deductible:     stringField(payload, "deductible"),
		InsuranceYear:  intField(payload, "insurance_year"),
		BrokerName:     stringField(payload, "broker_name"),
		BrokerEmail:    stringField(payload, "broker_email"),
		BrokerPhone:    stringField(payload, "broker_phone"),
	}
}

func stringField(m map[string]any, key string) *string {
	if m == nil {
		return nil
	}
	s, ok := m[key].(string)
	if !ok {
		return nil
	}
	return &s
}

// intField accepts integral JSON numbers and numeric strings; anything else
// is null.
func intField(m map[string]any, key string) *int {
	if m == nil {
		return nil
	}
	switch v := m[key].(type) {
	case float64:
		n := int(v)
		if float64(n) == v {
			return &n
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return &n
		}
	}
	return nil
}
