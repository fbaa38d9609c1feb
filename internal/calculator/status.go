package calculator

import (
	"math"

	"github.com/abelzeko/aquarium-bot/internal/entities"
)

// warningBand is the width of the warning zone on each side of the optimal
// range, as a fraction of the range span.
const warningBand = 0.2

// Classify maps a value onto optimal, warning or danger.
//
// Values inside [optimalMin, optimalMax] are optimal. Values further than
// 20% of the span outside the range are danger; the band edge itself is
// still warning. A zero-width range has no warning band.
func Classify(value, optimalMin, optimalMax float64) entities.Status {
	if math.IsNaN(value) {
		return entities.StatusDanger
	}
	if value >= optimalMin && value <= optimalMax {
		return entities.StatusOptimal
	}

	span := optimalMax - optimalMin
	if span <= 0 {
		return entities.StatusDanger
	}

	if value < optimalMin-warningBand*span || value > optimalMax+warningBand*span {
		return entities.StatusDanger
	}
	return entities.StatusWarning
}

// ClassifyReading classifies a reading against its own optimal range
func ClassifyReading(r entities.WaterReading) entities.Status {
	return Classify(r.Value, r.OptimalMin, r.OptimalMax)
}
