package entities

import (
	"fmt"
	"strings"
)

// Status is the health classification of a single water reading
type Status string

const (
	StatusOptimal Status = "optimal"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
)

// Emoji returns the badge used when rendering a status
func (s Status) Emoji() string {
	switch s {
	case StatusOptimal:
		return "🟢"
	case StatusWarning:
		return "🟠"
	case StatusDanger:
		return "🔴"
	}
	return "⚪"
}

// Parameter is a measurable water property with its healthy range
type Parameter struct {
	Key         string // short name used in commands
	Name        string
	Unit        string
	OptimalMin  float64
	OptimalMax  float64
	Description string
}

// WaterReading is the current value of a parameter together with its optimal range
type WaterReading struct {
	Parameter  string
	Value      float64
	OptimalMin float64
	OptimalMax float64
	Unit       string
}

// Parameters lists the dashboard parameters in display order
var Parameters = []Parameter{
	{"ph", "pH Level", "", 6.5, 7.5, "Measures acidity/alkalinity. Most freshwater fish prefer 6.5-7.5"},
	{"temp", "Temperature", "°F", 72, 82, "Water temperature affects fish metabolism and health"},
	{"ammonia", "Ammonia", "ppm", 0, 0.25, "Toxic to fish. Should be 0 ppm in established tanks"},
	{"nitrite", "Nitrite", "ppm", 0, 0.5, "Also toxic. Should be 0 ppm in established tanks"},
	{"nitrate", "Nitrate", "ppm", 0, 40, "Less toxic but should be kept below 40 ppm"},
	{"gh", "General Hardness", "dGH", 4, 12, "Measures calcium and magnesium levels"},
}

var parameterAliases = map[string]string{
	"ph":          "ph",
	"temp":        "temp",
	"temperature": "temp",
	"ammonia":     "ammonia",
	"nh3":         "ammonia",
	"nitrite":     "nitrite",
	"no2":         "nitrite",
	"nitrate":     "nitrate",
	"no3":         "nitrate",
	"gh":          "gh",
	"hardness":    "gh",
}

// LookupParameter finds a parameter by key or alias, case-insensitively
func LookupParameter(name string) (Parameter, error) {
	key, ok := parameterAliases[strings.ToLower(strings.TrimSpace(name))]
	if ok {
		for _, p := range Parameters {
			if p.Key == key {
				return p, nil
			}
		}
	}
	return Parameter{}, fmt.Errorf("unknown parameter '%s'", name)
}

// Reading builds a WaterReading for the given value using the parameter's range
func (p Parameter) Reading(value float64) WaterReading {
	return WaterReading{
		Parameter:  p.Name,
		Value:      value,
		OptimalMin: p.OptimalMin,
		OptimalMax: p.OptimalMax,
		Unit:       p.Unit,
	}
}
