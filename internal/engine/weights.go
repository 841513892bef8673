// internal/engine/weights.go
package engine

import "decision-assistant/internal/common/config"

// Weights control how much each signal moves the score. Positive signals
// add, risk and effort signals subtract.
type Weights struct {
	// Positive signals
	CustomerImpact     float64
	StrategicAlignment float64
	ExecSponsor        float64

	// Risk signals (subtract)
	TechnicalComplexity float64
	DeliveryRisk        float64
	ComplianceRisk      float64
	Dependencies        float64

	// Size/effort signals (subtract lightly)
	TeamSize float64
	Duration float64
	Cost     float64
}

// DefaultWeights returns the calibrated default weight set.
func DefaultWeights() Weights {
	return Weights{
		CustomerImpact:     0.22,
		StrategicAlignment: 0.22,
		ExecSponsor:        0.10,

		TechnicalComplexity: 0.14,
		DeliveryRisk:        0.16,
		ComplianceRisk:      0.10,
		Dependencies:        0.06,

		TeamSize: 0.03,
		Duration: 0.04,
		Cost:     0.03,
	}
}

// WeightsFromConfig overlays configured weights on the defaults. Unset
// weights keep the default; an explicit value applies as-is, including 0
// to neutralize a signal when calibrating.
func WeightsFromConfig(cfg config.WeightsConfig) Weights {
	w := DefaultWeights()
	overlay := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	overlay(&w.CustomerImpact, cfg.CustomerImpact)
	overlay(&w.StrategicAlignment, cfg.StrategicAlignment)
	overlay(&w.ExecSponsor, cfg.ExecSponsor)
	overlay(&w.TechnicalComplexity, cfg.TechnicalComplexity)
	overlay(&w.DeliveryRisk, cfg.DeliveryRisk)
	overlay(&w.ComplianceRisk, cfg.ComplianceRisk)
	overlay(&w.Dependencies, cfg.Dependencies)
	overlay(&w.TeamSize, cfg.TeamSize)
	overlay(&w.Duration, cfg.Duration)
	overlay(&w.Cost, cfg.Cost)
	return w
}

// Bands hold the score thresholds separating the three decision labels.
type Bands struct {
	GoThreshold     int
	ReviewThreshold int
}

// DefaultBands returns the default decision thresholds.
func DefaultBands() Bands {
	return Bands{GoThreshold: 70, ReviewThreshold: 45}
}

// BandsFromConfig overlays configured thresholds on the defaults.
func BandsFromConfig(cfg config.BandsConfig) Bands {
	b := DefaultBands()
	if cfg.GoThreshold != 0 {
		b.GoThreshold = cfg.GoThreshold
	}
	if cfg.ReviewThreshold != 0 {
		b.ReviewThreshold = cfg.ReviewThreshold
	}
	return b
}
