// Package entities contains the core domain objects for the aquarium-bot application
package entities

import (
	"fmt"
	"strings"
)

// Unit is the measuring system used for tank dimensions
type Unit string

const (
	UnitImperial Unit = "inches"
	UnitMetric   Unit = "centimeters"
)

// Shape is the footprint of a tank
type Shape string

const (
	ShapeRectangular Shape = "rectangular"
	ShapeCylindrical Shape = "cylindrical"
	ShapeHexagonal   Shape = "hexagonal"
)

// TankGeometry describes the physical dimensions of a tank.
// For cylindrical and hexagonal tanks Length is the diameter (corner-to-corner for hexagons).
type TankGeometry struct {
	Length float64
	Width  float64
	Height float64
	Unit   Unit
	Shape  Shape
}

// DefaultTank is a standard 20 gallon long tank
func DefaultTank() TankGeometry {
	return TankGeometry{
		Length: 24,
		Width:  12,
		Height: 16,
		Unit:   UnitImperial,
		Shape:  ShapeRectangular,
	}
}

// ParseUnit accepts the common spellings of a dimension unit
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "inch", "inches", "imperial", `"`:
		return UnitImperial, nil
	case "cm", "centimeter", "centimeters", "metric":
		return UnitMetric, nil
	}
	return "", fmt.Errorf("unknown unit '%s'", s)
}

// ParseShape accepts a shape name or its first three letters
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rectangular", "rect", "rectangle":
		return ShapeRectangular, nil
	case "cylindrical", "cyl", "cylinder":
		return ShapeCylindrical, nil
	case "hexagonal", "hex", "hexagon":
		return ShapeHexagonal, nil
	}
	return "", fmt.Errorf("unknown shape '%s'", s)
}

func (u Unit) Abbrev() string {
	if u == UnitMetric {
		return "cm"
	}
	return "in"
}

func (g TankGeometry) String() string {
	return fmt.Sprintf("%g×%g×%g %s %s", g.Length, g.Width, g.Height, g.Unit.Abbrev(), g.Shape)
}
