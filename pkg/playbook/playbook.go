// pkg/playbook/playbook.go
package playbook

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a playbook from a JSON file.
func Load(path string) (*Playbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pb Playbook
	if err := json.Unmarshal(data, &pb); err != nil {
		return nil, err
	}
	if err := pb.Validate(); err != nil {
		return nil, err
	}
	return &pb, nil
}

// Validate checks that every band carries at least one next step and
// that guardrails are present.
func (pb *Playbook) Validate() error {
	if len(pb.Guardrails) == 0 {
		return fmt.Errorf("playbook: guardrails must not be empty")
	}
	for name, band := range map[string]BandGuidance{
		"go":          pb.Bands.Go,
		"needsReview": pb.Bands.NeedsReview,
		"noGo":        pb.Bands.NoGo,
	} {
		if len(band.NextSteps) == 0 {
			return fmt.Errorf("playbook: band %q has no next steps", name)
		}
	}
	return nil
}

// Default returns the built-in playbook.
func Default() *Playbook {
	return &Playbook{
		Version: "1",
		Guardrails: []string{
			"Define success metrics and leading indicators before execution.",
			"Require a written risk register with owners and mitigation dates.",
			"Use stage gates for funding. Discovery, MVP, Scale.",
		},
		Bands: Bands{
			Go: BandGuidance{
				NextSteps: []string{
					"Lock success metrics. North Star plus 3 supporting KPIs.",
					"Create a milestone plan. Discovery, MVP, rollout.",
					"Confirm resourcing and ownership across teams.",
				},
				HighRiskInsert: "Run a 2-week discovery sprint to validate approach and reduce risk.",
			},
			NeedsReview: BandGuidance{
				NextSteps: []string{
					"Identify the top 3 risks and create a mitigation plan with owners.",
					"Reduce scope to an MVP. One user journey, one workflow.",
					"Confirm dependency commitments in writing.",
					"Add instrumentation and an A/B test plan if user-facing.",
				},
				ComplianceInsert: "Schedule security and compliance review within 7 days.",
			},
			NoGo: BandGuidance{
				NextSteps: []string{
					"Write a one-page alternative plan. Smaller scope or different approach.",
					"Re-evaluate after risks are reduced or strategy changes.",
					"If still needed, run a discovery spike to validate feasibility and cost.",
				},
				HighValueInsert: "This looks valuable, but current risk is too high. De-risk with discovery and an MVP.",
			},
		},
	}
}
