package entities

import "fmt"

// Range is an inclusive interval of acceptable values
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether v lies inside the range
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("%g-%g", r.Min, r.Max)
}

// FishSpecies is an entry of the species reference table
type FishSpecies struct {
	ID             int64    `yaml:"id"`
	Name           string   `yaml:"name"`
	ScientificName string   `yaml:"scientific_name"`
	Size           string   `yaml:"size"`
	Temperament    string   `yaml:"temperament"`
	PH             Range    `yaml:"ph"`
	Temperature    Range    `yaml:"temperature"` // °F
	Hardness       Range    `yaml:"hardness"`    // dGH
	Difficulty     string   `yaml:"difficulty"`
	TankSize       string   `yaml:"tank_size"`
	Diet           string   `yaml:"diet"`
	Lifespan       string   `yaml:"lifespan"`
	Origin         string   `yaml:"origin"`
	Image          string   `yaml:"image"`
	Description    string   `yaml:"description"`
	Compatibility  []string `yaml:"compatibility"`
}

// Mismatches lists the tank conditions the species would not tolerate.
// An empty result means the species suits the tank.
func (f FishSpecies) Mismatches(ph, tempF, gh float64) []string {
	var out []string
	if !f.PH.Contains(ph) {
		out = append(out, fmt.Sprintf("pH %g outside %s", ph, f.PH))
	}
	if !f.Temperature.Contains(tempF) {
		out = append(out, fmt.Sprintf("temperature %g°F outside %s", tempF, f.Temperature))
	}
	if !f.Hardness.Contains(gh) {
		out = append(out, fmt.Sprintf("hardness %g dGH outside %s", gh, f.Hardness))
	}
	return out
}
