// internal/engine/engine.go

// Package engine turns a validated project intake into a scored,
// explainable GO / NEEDS REVIEW / NO-GO decision.
package engine

import (
	"math"

	"decision-assistant/internal/models"
	"decision-assistant/pkg/playbook"
)

// Engine evaluates intakes with a fixed weight set, decision bands, and
// playbook. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	weights  Weights
	bands    Bands
	playbook *playbook.Playbook
}

func New(weights Weights, bands Bands, pb *playbook.Playbook) *Engine {
	if pb == nil {
		pb = playbook.Default()
	}
	return &Engine{weights: weights, bands: bands, playbook: pb}
}

// NewDefault returns an engine with the default weights, bands, and playbook.
func NewDefault() *Engine {
	return New(DefaultWeights(), DefaultBands(), playbook.Default())
}

// Score computes the 0..100 score for an intake and the rationale lines
// explaining which signals drove it.
func (e *Engine) Score(p *models.ProjectIntake) (int, []string) {
	w := e.weights

	ci := scale1to5(p.CustomerImpact)
	sa := scale1to5(p.StrategicAlignment)
	tc := scale1to5(p.TechnicalComplexity)
	dr := scale1to5(p.DeliveryRisk)
	cr := scale1to5(p.ComplianceRisk)

	dep := normalizeDependencies(p.DependenciesCount)
	team := normalizeTeam(p.TeamSize)
	dur := normalizeDuration(p.DurationWeeks)
	cost := normalizeCost(p.EstimatedCostUSD)
	sponsor := 0.0
	if p.HasExecSponsor {
		sponsor = 1.0
	}

	pos := w.CustomerImpact*ci + w.StrategicAlignment*sa + w.ExecSponsor*sponsor

	neg := w.TechnicalComplexity*tc +
		w.DeliveryRisk*dr +
		w.ComplianceRisk*cr +
		w.Dependencies*dep +
		w.TeamSize*team +
		w.Duration*dur +
		w.Cost*cost

	raw := pos - neg

	// Smooth mapping to 0..100; raw around 0 lands near 50.
	score := int(math.Round(100 / (1 + math.Exp(-6*raw))))
	score = clampScore(score)

	return score, e.rationale(p)
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// rationale lists the signals strong enough to call out, in a stable order.
func (e *Engine) rationale(p *models.ProjectIntake) []string {
	var lines []string

	if p.CustomerImpact >= 4 {
		lines = append(lines, "High customer impact increases priority and expected ROI.")
	}
	if p.StrategicAlignment >= 4 {
		lines = append(lines, "Strong strategic alignment supports funding and stakeholder commitment.")
	}
	if p.HasExecSponsor {
		lines = append(lines, "Executive sponsorship reduces coordination risk and accelerates decisions.")
	}

	if p.DeliveryRisk >= 4 {
		lines = append(lines, "High delivery risk suggests you need stronger plan, milestones, and contingency.")
	}
	if p.TechnicalComplexity >= 4 {
		lines = append(lines, "High technical complexity suggests discovery, architecture review, and phased rollout.")
	}
	if p.ComplianceRisk >= 4 {
		lines = append(lines, "High compliance risk requires early security and legal review with clear controls.")
	}
	if p.DependenciesCount >= 8 {
		lines = append(lines, "Many dependencies increase schedule risk. Consider de-risking or reducing scope.")
	}
	if p.DurationWeeks >= 26 {
		lines = append(lines, "Long duration increases risk. Consider an MVP milestone or phased delivery.")
	}

	if len(lines) == 0 {
		lines = append(lines, "Signals are balanced. Decision depends on risk controls and milestone clarity.")
	}

	return lines
}

// Decide maps a score to its decision label and assembles the playbook
// guidance for that band, applying the conditional inserts.
func (e *Engine) Decide(score int, p *models.ProjectIntake) (string, []string, []string) {
	guardrails := append([]string(nil), e.playbook.Guardrails...)

	if score >= e.bands.GoThreshold {
		band := e.playbook.Bands.Go
		nextSteps := append([]string(nil), band.NextSteps...)
		if band.HighRiskInsert != "" && (p.DeliveryRisk >= 4 || p.TechnicalComplexity >= 4) {
			nextSteps = append([]string{band.HighRiskInsert}, nextSteps...)
		}
		return models.DecisionGo, nextSteps, guardrails
	}

	if score >= e.bands.ReviewThreshold {
		band := e.playbook.Bands.NeedsReview
		nextSteps := append([]string(nil), band.NextSteps...)
		if band.ComplianceInsert != "" && p.ComplianceRisk >= 4 {
			nextSteps = append([]string{band.ComplianceInsert}, nextSteps...)
		}
		return models.DecisionNeedsReview, nextSteps, guardrails
	}

	band := e.playbook.Bands.NoGo
	nextSteps := append([]string(nil), band.NextSteps...)
	if band.HighValueInsert != "" && p.CustomerImpact >= 4 && p.StrategicAlignment >= 4 {
		nextSteps = append([]string{band.HighValueInsert}, nextSteps...)
	}
	return models.DecisionNoGo, nextSteps, guardrails
}

// Evaluate runs the full pipeline: score, band mapping, guidance.
func (e *Engine) Evaluate(p *models.ProjectIntake) *models.DecisionOutput {
	score, rationale := e.Score(p)
	decision, nextSteps, guardrails := e.Decide(score, p)

	return &models.DecisionOutput{
		Decision:             decision,
		Score:                score,
		Rationale:            rationale,
		RecommendedNextSteps: nextSteps,
		Guardrails:           guardrails,
	}
}
