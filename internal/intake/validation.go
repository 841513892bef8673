// internal/intake/validation.go
package intake

import (
	"encoding/json"
	"fmt"
	"strings"

	"decision-assistant/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/xeipuuv/gojsonschema"
)

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult collects all field errors for one payload. Schema is
// true when the payload failed JSON-schema validation, before field rules
// ran.
type ValidationResult struct {
	Valid  bool         `json:"valid"`
	Schema bool         `json:"-"`
	Errors []FieldError `json:"errors,omitempty"`
}

func (r *ValidationResult) Error() string {
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(parts, "; ")
}

var schemaLoader = gojsonschema.NewStringLoader(intakeSchema)

// ParseAndValidate checks a raw payload against the intake JSON schema,
// decodes it, and applies the struct-level field rules. On failure the
// returned ValidationResult lists every rejected field.
func ParseAndValidate(payload []byte) (*models.ProjectIntake, *ValidationResult, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("schema validation: %w", err)
	}

	if !result.Valid() {
		vr := &ValidationResult{Valid: false, Schema: true}
		for _, desc := range result.Errors() {
			vr.Errors = append(vr.Errors, FieldError{
				Field:   desc.Field(),
				Message: desc.Description(),
			})
		}
		return nil, vr, nil
	}

	var p models.ProjectIntake
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, nil, fmt.Errorf("decode intake: %w", err)
	}

	if vr := ValidateIntake(&p); !vr.Valid {
		return nil, vr, nil
	}

	return &p, &ValidationResult{Valid: true}, nil
}

// ValidateIntake applies the field rules to an already-decoded intake.
// The schema layer catches most violations for HTTP traffic; this layer
// protects callers that build intakes in code, like the batch scorer.
func ValidateIntake(p *models.ProjectIntake) *ValidationResult {
	err := validation.ValidateStruct(p,
		validation.Field(&p.ProjectName, validation.Required, validation.Length(3, 80)),
		validation.Field(&p.Objective, validation.Required, validation.Length(10, 400)),
		validation.Field(&p.TeamSize, validation.Required, validation.Min(1), validation.Max(200)),
		validation.Field(&p.DurationWeeks, validation.Required, validation.Min(1), validation.Max(104)),
		validation.Field(&p.EstimatedCostUSD, validation.Min(0), validation.Max(100_000_000)),
		validation.Field(&p.CustomerImpact, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&p.StrategicAlignment, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&p.TechnicalComplexity, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&p.DeliveryRisk, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&p.ComplianceRisk, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&p.DependenciesCount, validation.Min(0), validation.Max(50)),
		validation.Field(&p.Notes, validation.Length(0, 600)),
	)
	if err == nil {
		return &ValidationResult{Valid: true}
	}

	// ozzo keys errors by the json tag name, so fields match the wire format.
	vr := &ValidationResult{Valid: false}
	if fieldErrs, ok := err.(validation.Errors); ok {
		for field, fieldErr := range fieldErrs {
			vr.Errors = append(vr.Errors, FieldError{
				Field:   field,
				Message: fieldErr.Error(),
			})
		}
	} else {
		vr.Errors = append(vr.Errors, FieldError{Field: "", Message: err.Error()})
	}
	return vr
}
