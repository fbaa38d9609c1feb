package entities

// AdjustmentTarget holds the current and desired values fed to the dosage advisor
type AdjustmentTarget struct {
	CurrentPH      float64
	TargetPH       float64
	CurrentTemp    float64
	TargetTemp     float64
	CurrentAmmonia float64 // ppm
	CurrentNitrite float64 // ppm
	CurrentNitrate float64 // ppm
}

// NoAdjustment is the action of a recommendation that asks for nothing
const NoAdjustment = "No adjustment needed"

// Recommendation is a corrective action suggested by the advisor.
// Amount is zero when no action is needed.
type Recommendation struct {
	Action  string  `yaml:"action"`
	Amount  float64 `yaml:"amount"`
	Unit    string  `yaml:"unit,omitempty"`
	Warning string  `yaml:"warning,omitempty"`
}

// NeedsAction reports whether the recommendation asks the keeper to do something
func (r Recommendation) NeedsAction() bool {
	return r.Action != "" && r.Action != NoAdjustment
}

// WaterChange is the sizing of a partial water change
type WaterChange struct {
	Percentage float64 `yaml:"percentage"`
	Amount     float64 `yaml:"amount"` // gallons
	Reason     string  `yaml:"reason"`
	Detail     string  `yaml:"detail"`
}

// Report combines every advisor output for one tank
type Report struct {
	VolumeGallons float64        `yaml:"volume_gallons"`
	VolumeLiters  float64        `yaml:"volume_liters"`
	PH            Recommendation `yaml:"ph"`
	Temperature   Recommendation `yaml:"temperature"`
	WaterChange   WaterChange    `yaml:"water_change"`
}
