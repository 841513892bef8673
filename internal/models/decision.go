// internal/models/decision.go
package models

import "time"

// Decision labels produced by the engine.
const (
	DecisionGo          = "GO"
	DecisionNeedsReview = "NEEDS REVIEW"
	DecisionNoGo        = "NO-GO"
)

// DecisionOutput is the result of evaluating a single intake.
type DecisionOutput struct {
	Decision             string   `json:"decision"`
	Score                int      `json:"score"` // 0..100
	Rationale            []string `json:"rationale"`
	RecommendedNextSteps []string `json:"recommendedNextSteps"`
	Guardrails           []string `json:"guardrails"`
}

// DecisionRecord is a persisted decision together with the intake that
// produced it.
type DecisionRecord struct {
	ID        string         `json:"id"`
	Intake    ProjectIntake  `json:"intake"`
	Output    DecisionOutput `json:"output"`
	CreatedAt time.Time      `json:"createdAt"`
}
