package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/abelzeko/aquarium-bot/internal/entities"
)

func TestTankVolumeGallons(t *testing.T) {
	tests := []struct {
		name string
		tank entities.TankGeometry
		want float64
	}{
		{"rectangular-inches", entities.TankGeometry{Length: 24, Width: 12, Height: 16, Unit: entities.UnitImperial, Shape: entities.ShapeRectangular}, 24 * 12 * 16 / 231.0},
		{"rectangular-centimeters", entities.TankGeometry{Length: 60.96, Width: 30.48, Height: 40.64, Unit: entities.UnitMetric, Shape: entities.ShapeRectangular}, 24 * 12 * 16 / 231.0},
		{"cylindrical", entities.TankGeometry{Length: 12, Width: 12, Height: 16, Unit: entities.UnitImperial, Shape: entities.ShapeCylindrical}, math.Pi * 36 * 16 / 231},
		{"hexagonal", entities.TankGeometry{Length: 12, Width: 12, Height: 16, Unit: entities.UnitImperial, Shape: entities.ShapeHexagonal}, 3 * math.Sqrt(3) / 2 * 36 * 16 / 231},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TankVolumeGallons(tt.tank)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v gallons, want %v", got, tt.want)
			}
		})
	}
}

func TestTankVolumeGallonsStandardTank(t *testing.T) {
	got, err := TankVolumeGallons(entities.DefaultTank())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-19.95) > 0.005 {
		t.Errorf("expected about 19.95 gallons, got %v", got)
	}
}

func TestCylinderVolumeScalesWithHeight(t *testing.T) {
	tank := entities.TankGeometry{Length: 18, Width: 18, Height: 10, Unit: entities.UnitMetric, Shape: entities.ShapeCylindrical}
	short, err := TankVolumeGallons(tank)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tank.Height *= 2
	tall, err := TankVolumeGallons(tank)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tall != 2*short {
		t.Errorf("doubling height: got %v, want exactly %v", tall, 2*short)
	}
}

func TestCylinderIgnoresWidth(t *testing.T) {
	a, _ := TankVolumeGallons(entities.TankGeometry{Length: 20, Width: 20, Height: 20, Unit: entities.UnitImperial, Shape: entities.ShapeCylindrical})
	b, _ := TankVolumeGallons(entities.TankGeometry{Length: 20, Width: 5, Height: 20, Unit: entities.UnitImperial, Shape: entities.ShapeCylindrical})
	if a != b {
		t.Errorf("width changed cylindrical volume: %v vs %v", a, b)
	}
}

func TestTankVolumeGallonsRejectsBadInput(t *testing.T) {
	base := entities.DefaultTank()
	tests := []struct {
		name   string
		mutate func(*entities.TankGeometry)
		want   error
	}{
		{"zero-length", func(g *entities.TankGeometry) { g.Length = 0 }, ErrInvalidDimensions},
		{"negative-width", func(g *entities.TankGeometry) { g.Width = -3 }, ErrInvalidDimensions},
		{"nan-height", func(g *entities.TankGeometry) { g.Height = math.NaN() }, ErrInvalidDimensions},
		{"infinite-length", func(g *entities.TankGeometry) { g.Length = math.Inf(1) }, ErrInvalidDimensions},
		{"unknown-shape", func(g *entities.TankGeometry) { g.Shape = "bow-front" }, ErrUnknownShape},
		{"unknown-unit", func(g *entities.TankGeometry) { g.Unit = "furlongs" }, ErrUnknownUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := base
			tt.mutate(&g)
			got, err := TankVolumeGallons(g)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error: got %v, want %v", err, tt.want)
			}
			if got != 0 {
				t.Errorf("volume on error: got %v, want 0", got)
			}
		})
	}
}

func TestLitersFromGallons(t *testing.T) {
	if got := LitersFromGallons(10); math.Abs(got-37.8541) > 1e-9 {
		t.Errorf("got %v liters, want 37.8541", got)
	}
}

// A regular hexagon measured corner to corner has sides of half that width
// and splits into six equilateral triangles.
func TestHexagonLengthIsCornerToCorner(t *testing.T) {
	g := entities.TankGeometry{Length: 12, Width: 12, Height: 10, Unit: entities.UnitImperial, Shape: entities.ShapeHexagonal}
	got, err := TankVolumeGallons(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	side := g.Length / 2
	triangle := math.Sqrt(3) / 4 * side * side
	want := 6 * triangle * g.Height / 231
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v gallons, want %v", got, want)
	}
}
