// pkg/playbook/schema.go
package playbook

// Playbook holds the guidance text attached to decisions: per-band next
// steps, conditional inserts, and global guardrails. Teams tune the
// wording without recompiling by pointing playbook.path at a JSON file.
type Playbook struct {
	Version    string   `json:"version"`
	Guardrails []string `json:"guardrails"`
	Bands      Bands    `json:"bands"`
}

type Bands struct {
	Go          BandGuidance `json:"go"`
	NeedsReview BandGuidance `json:"needsReview"`
	NoGo        BandGuidance `json:"noGo"`
}

// BandGuidance is the next-step list for one decision band. Conditional
// lines are prepended when the matching signal condition holds.
type BandGuidance struct {
	NextSteps []string `json:"nextSteps"`
	// Prepended for a GO with high delivery risk or technical complexity.
	HighRiskInsert string `json:"highRiskInsert,omitempty"`
	// Prepended for a NEEDS REVIEW with high compliance risk.
	ComplianceInsert string `json:"complianceInsert,omitempty"`
	// Prepended for a NO-GO with high impact and alignment.
	HighValueInsert string `json:"highValueInsert,omitempty"`
}
