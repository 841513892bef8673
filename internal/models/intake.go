// internal/models/intake.go
package models

// ProjectIntake holds the structured project attributes a user submits
// for evaluation.
type ProjectIntake struct {
	ProjectName string `json:"projectName"`
	Objective   string `json:"objective"`

	// Basic constraints
	TeamSize         int `json:"teamSize"`
	DurationWeeks    int `json:"durationWeeks"`
	EstimatedCostUSD int `json:"estimatedCostUsd"`

	// Scales: 1 (low) to 5 (high)
	CustomerImpact      int `json:"customerImpact"`
	StrategicAlignment  int `json:"strategicAlignment"`
	TechnicalComplexity int `json:"technicalComplexity"`
	DeliveryRisk        int `json:"deliveryRisk"`
	ComplianceRisk      int `json:"complianceRisk"`

	// Optional info
	DependenciesCount int    `json:"dependenciesCount"`
	HasExecSponsor    bool   `json:"hasExecSponsor"`
	Notes             string `json:"notes,omitempty"`
}
