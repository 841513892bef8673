// internal/engine/normalize.go
package engine

// scale1to5 converts a 1..5 rating into 0..1.
func scale1to5(x int) float64 {
	return clip01(float64(x-1) / 4.0)
}

func clip01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// normalizeCost maps 0..5M USD roughly onto 0..1, saturating after.
func normalizeCost(costUSD int) float64 {
	return clip01(float64(costUSD) / 5_000_000)
}

// normalizeDuration saturates at one year.
func normalizeDuration(weeks int) float64 {
	return clip01(float64(weeks) / 52)
}

// normalizeTeam saturates at 50 people.
func normalizeTeam(teamSize int) float64 {
	return clip01(float64(teamSize) / 50)
}

// normalizeDependencies saturates at 15 dependencies.
func normalizeDependencies(n int) float64 {
	return clip01(float64(n) / 15)
}
