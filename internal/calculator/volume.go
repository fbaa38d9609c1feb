// Package calculator holds the water parameter and dosage calculations.
//
// Every function is pure: no I/O, no logging, no shared state. Callers may
// re-run them on every input change.
package calculator

import (
	"errors"
	"math"

	"github.com/abelzeko/aquarium-bot/internal/entities"
)

const (
	cmPerInch         = 2.54
	cubicInchesPerGal = 231.0
	litersPerGallon   = 3.78541
	hexagonAreaFactor = 3 * 1.7320508075688772 / 2 // 3√3/2
)

var (
	ErrInvalidDimensions = errors.New("tank dimensions must be positive finite numbers")
	ErrUnknownShape      = errors.New("unknown tank shape")
	ErrUnknownUnit       = errors.New("unknown dimension unit")
)

// TankVolumeGallons returns the water volume of the tank in US gallons.
// The result is not rounded.
func TankVolumeGallons(g entities.TankGeometry) (float64, error) {
	for _, d := range []float64{g.Length, g.Width, g.Height} {
		if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
			return 0, ErrInvalidDimensions
		}
	}

	l, w, h := g.Length, g.Width, g.Height
	switch g.Unit {
	case entities.UnitImperial:
	case entities.UnitMetric:
		l, w, h = l/cmPerInch, w/cmPerInch, h/cmPerInch
	default:
		return 0, ErrUnknownUnit
	}

	var cubicInches float64
	switch g.Shape {
	case entities.ShapeRectangular:
		cubicInches = l * w * h
	case entities.ShapeCylindrical:
		r := l / 2
		cubicInches = math.Pi * r * r * h
	case entities.ShapeHexagonal:
		r := l / 2
		cubicInches = hexagonAreaFactor * r * r * h
	default:
		return 0, ErrUnknownShape
	}

	return cubicInches / cubicInchesPerGal, nil
}

// LitersFromGallons converts US gallons to liters
func LitersFromGallons(gallons float64) float64 {
	return gallons * litersPerGallon
}
