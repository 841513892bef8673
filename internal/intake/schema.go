// internal/intake/schema.go
package intake

// intakeSchema is the JSON schema every raw intake payload must satisfy
// before it is decoded into models.ProjectIntake. Bounds mirror the
// struct rules in validation.go; additionalProperties is closed so
// misspelled fields are rejected rather than silently defaulted.
const intakeSchema = `{
  "type": "object",
  "required": [
    "projectName", "objective", "teamSize", "durationWeeks",
    "estimatedCostUsd", "customerImpact", "strategicAlignment",
    "technicalComplexity", "deliveryRisk", "complianceRisk"
  ],
  "additionalProperties": false,
  "properties": {
    "projectName":         {"type": "string", "minLength": 3, "maxLength": 80},
    "objective":           {"type": "string", "minLength": 10, "maxLength": 400},
    "teamSize":            {"type": "integer", "minimum": 1, "maximum": 200},
    "durationWeeks":       {"type": "integer", "minimum": 1, "maximum": 104},
    "estimatedCostUsd":    {"type": "integer", "minimum": 0, "maximum": 100000000},
    "customerImpact":      {"type": "integer", "minimum": 1, "maximum": 5},
    "strategicAlignment":  {"type": "integer", "minimum": 1, "maximum": 5},
    "technicalComplexity": {"type": "integer", "minimum": 1, "maximum": 5},
    "deliveryRisk":        {"type": "integer", "minimum": 1, "maximum": 5},
    "complianceRisk":      {"type": "integer", "minimum": 1, "maximum": 5},
    "dependenciesCount":   {"type": "integer", "minimum": 0, "maximum": 50},
    "hasExecSponsor":      {"type": "boolean"},
    "notes":               {"type": "string", "maxLength": 600}
  }
}`
