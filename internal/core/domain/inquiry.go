package domain

// RiskType is one active classification entry from the taxonomy store.
type RiskType struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ParsedMessage is the normalized view of an uploaded email, regardless of
// container format. Sender and Subject are empty strings when the source
// carries no value; Body is the single downstream "no content" signal.
type ParsedMessage struct {
	Sender  string
	Subject string
	Body    string
}

// InquiryFields holds the structured attributes extracted from an inquiry
// email. Every field is independently optional; a nil pointer serializes as
// JSON null.
type InquiryFields struct {
	CustomerName   *string `json:"customer_name"`
	Profession     *string `json:"profession"`
	Location       *string `json:"location"`
	InsuranceType  *string `json:"insurance_type"`
	CoverageAmount *string `json:"coverage_amount"`
	Deductible     *string `json:"deductible"`
	InsuranceYear  *int    `json:"insurance_year"`
	BrokerName     *string `json:"broker_name"`
	BrokerEmail    *string `json:"broker_email"`
	BrokerPhone    *string `json:"broker_phone"`
}

// ExtractionResult is the validated outcome of one pipeline run.
// RiskTypeName is set only when RiskTypeCode is set and that code exists in
// the taxonomy fetched for the same request; a code the model invented is
// passed through with a nil name.
type ExtractionResult struct {
	Sender       string        `json:"sender"`
	Subject      string        `json:"subject"`
	RiskTypeCode *string       `json:"risk_type_code"`
	RiskTypeName *string       `json:"risk_type_name"`
	Data         InquiryFields `json:"data"`
	RawBody      string        `json:"raw_body"`
}
