// internal/intake/validation_test.go
package intake

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decision-assistant/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createValidPayload(t *testing.T, mutate func(m map[string]interface{})) []byte {
	m := map[string]interface{}{
		"projectName":         "Checkout Revamp",
		"objective":           "Reduce cart abandonment with a rebuilt checkout flow",
		"teamSize":            6,
		"durationWeeks":       12,
		"estimatedCostUsd":    250000,
		"customerImpact":      5,
		"strategicAlignment":  4,
		"technicalComplexity": 3,
		"deliveryRisk":        2,
		"complianceRisk":      2,
		"dependenciesCount":   3,
		"hasExecSponsor":      true,
		"notes":               "Top ask from the commerce council",
	}
	if mutate != nil {
		mutate(m)
	}
	payload, err := json.Marshal(m)
	require.NoError(t, err)
	return payload
}

func createValidIntake() *models.ProjectIntake {
	return &models.ProjectIntake{
		ProjectName:         "Checkout Revamp",
		Objective:           "Reduce cart abandonment with a rebuilt checkout flow",
		TeamSize:            6,
		DurationWeeks:       12,
		EstimatedCostUSD:    250000,
		CustomerImpact:      5,
		StrategicAlignment:  4,
		TechnicalComplexity: 3,
		DeliveryRisk:        2,
		ComplianceRisk:      2,
		DependenciesCount:   3,
		HasExecSponsor:      true,
	}
}

func fieldNames(errs []FieldError) []string {
	names := make([]string, len(errs))
	for i, e := range errs {
		names[i] = e.Field
	}
	return names
}

// ==========================
// ParseAndValidate Tests
// ==========================

func TestParseAndValidate_ValidPayload(t *testing.T) {
	p, vr, err := ParseAndValidate(createValidPayload(t, nil))

	require.NoError(t, err)
	require.True(t, vr.Valid)
	require.NotNil(t, p)
	assert.Equal(t, "Checkout Revamp", p.ProjectName)
	assert.Equal(t, 6, p.TeamSize)
	assert.True(t, p.HasExecSponsor)
}

func TestParseAndValidate_SchemaViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]interface{})
	}{
		{"missing required field", func(m map[string]interface{}) { delete(m, "objective") }},
		{"scale above range", func(m map[string]interface{}) { m["customerImpact"] = 6 }},
		{"scale below range", func(m map[string]interface{}) { m["deliveryRisk"] = 0 }},
		{"project name too short", func(m map[string]interface{}) { m["projectName"] = "ab" }},
		{"objective too short", func(m map[string]interface{}) { m["objective"] = "too short" }},
		{"team size zero", func(m map[string]interface{}) { m["teamSize"] = 0 }},
		{"duration above a two year cap", func(m map[string]interface{}) { m["durationWeeks"] = 105 }},
		{"negative cost", func(m map[string]interface{}) { m["estimatedCostUsd"] = -1 }},
		{"wrong type", func(m map[string]interface{}) { m["teamSize"] = "six" }},
		{"unknown field rejected", func(m map[string]interface{}) { m["priority"] = "high" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, vr, err := ParseAndValidate(createValidPayload(t, tt.mutate))

			require.NoError(t, err)
			assert.Nil(t, p)
			require.NotNil(t, vr)
			assert.False(t, vr.Valid)
			assert.True(t, vr.Schema)
			assert.NotEmpty(t, vr.Errors)
		})
	}
}

func TestParseAndValidate_MalformedJSON(t *testing.T) {
	p, vr, err := ParseAndValidate([]byte(`{"projectName": `))

	assert.Error(t, err)
	assert.Nil(t, p)
	assert.Nil(t, vr)
}

func TestParseAndValidate_OptionalFieldsDefault(t *testing.T) {
	payload := createValidPayload(t, func(m map[string]interface{}) {
		delete(m, "dependenciesCount")
		delete(m, "hasExecSponsor")
		delete(m, "notes")
	})

	p, vr, err := ParseAndValidate(payload)

	require.NoError(t, err)
	require.True(t, vr.Valid)
	assert.Equal(t, 0, p.DependenciesCount)
	assert.False(t, p.HasExecSponsor)
	assert.Empty(t, p.Notes)
}

// ==========================
// ValidateIntake Tests
// ==========================

func TestValidateIntake_Valid(t *testing.T) {
	vr := ValidateIntake(createValidIntake())
	assert.True(t, vr.Valid)
	assert.Empty(t, vr.Errors)
}

func TestValidateIntake_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *models.ProjectIntake)
		wantField string
	}{
		{"blank project name", func(p *models.ProjectIntake) { p.ProjectName = "" }, "projectName"},
		{"objective too long", func(p *models.ProjectIntake) {
			long := make([]byte, 401)
			for i := range long {
				long[i] = 'x'
			}
			p.Objective = string(long)
		}, "objective"},
		{"team size above cap", func(p *models.ProjectIntake) { p.TeamSize = 201 }, "teamSize"},
		{"compliance risk above scale", func(p *models.ProjectIntake) { p.ComplianceRisk = 6 }, "complianceRisk"},
		{"dependencies above cap", func(p *models.ProjectIntake) { p.DependenciesCount = 51 }, "dependenciesCount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := createValidIntake()
			tt.mutate(p)

			vr := ValidateIntake(p)

			assert.False(t, vr.Valid)
			assert.False(t, vr.Schema)
			assert.Contains(t, fieldNames(vr.Errors), tt.wantField)
		})
	}
}

func TestValidationResult_ErrorString(t *testing.T) {
	vr := &ValidationResult{
		Valid: false,
		Errors: []FieldError{
			{Field: "teamSize", Message: "must be no greater than 200"},
		},
	}

	assert.Contains(t, vr.Error(), "teamSize")
}
