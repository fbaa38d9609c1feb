package calculator

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/abelzeko/aquarium-bot/internal/entities"
)

const (
	phTolerance   = 0.1
	tempTolerance = 1.0
	heaterRate    = 2.0 // degrees per hour for a typical heater

	bakingSodaPerPHGal = 0.5  // teaspoons per pH unit per gallon
	peatMossPerPHGal   = 0.25 // cups per pH unit per gallon
)

const (
	ActionNone         = entities.NoAdjustment
	ActionIncreasePH   = "Increase pH"
	ActionDecreasePH   = "Decrease pH"
	ActionIncreaseTemp = "Increase temperature"
	ActionDecreaseTemp = "Decrease temperature"
)

// AdjustPH recommends a buffer dose moving the tank from current to target pH
func AdjustPH(current, target, volumeGallons float64) entities.Recommendation {
	diff := target - current
	if math.Abs(diff) < phTolerance {
		return entities.Recommendation{Action: ActionNone}
	}

	if diff > 0 {
		return entities.Recommendation{
			Action:  ActionIncreasePH,
			Amount:  round(diff*volumeGallons*bakingSodaPerPHGal, 2),
			Unit:    "teaspoons of baking soda",
			Warning: "Add gradually over several hours",
		}
	}
	return entities.Recommendation{
		Action:  ActionDecreasePH,
		Amount:  round(-diff*volumeGallons*peatMossPerPHGal, 2),
		Unit:    "cups of peat moss",
		Warning: "Use in filter or as substrate",
	}
}

// AdjustTemperature estimates how long the heater needs to reach target.
// Volume does not enter the estimate.
func AdjustTemperature(current, target float64) entities.Recommendation {
	diff := target - current
	if math.Abs(diff) < tempTolerance {
		return entities.Recommendation{Action: ActionNone}
	}

	action := ActionIncreaseTemp
	if diff < 0 {
		action = ActionDecreaseTemp
	}
	return entities.Recommendation{
		Action:  action,
		Amount:  round(math.Abs(diff)/heaterRate, 1),
		Unit:    "hours",
		Warning: "Adjust gradually to avoid shocking fish",
	}
}

// WaterChangeRule is one row of the water change policy
type WaterChangeRule struct {
	Applies    func(ammonia, nitrite, nitrate float64) bool
	Percentage float64
	Reason     string
	Detail     string
}

// WaterChangePolicy is an ordered decision table; the first matching rule wins
type WaterChangePolicy []WaterChangeRule

// DefaultWaterChangePolicy sizes changes by the most toxic compound first
var DefaultWaterChangePolicy = WaterChangePolicy{
	{
		Applies:    func(a, _, _ float64) bool { return a > 0.25 },
		Percentage: 50,
		Reason:     "high ammonia",
		Detail:     "High ammonia levels detected",
	},
	{
		Applies:    func(_, n, _ float64) bool { return n > 0.5 },
		Percentage: 40,
		Reason:     "high nitrite",
		Detail:     "High nitrite levels detected",
	},
	{
		Applies:    func(_, _, n float64) bool { return n > 40 },
		Percentage: 30,
		Reason:     "high nitrate",
		Detail:     "High nitrate levels detected",
	},
	{
		Applies:    func(_, _, n float64) bool { return n > 20 },
		Percentage: 20,
		Reason:     "moderate nitrate",
		Detail:     "Moderate nitrate levels",
	},
	{
		Applies:    func(_, _, _ float64) bool { return true },
		Percentage: 10,
		Reason:     "regular maintenance",
		Detail:     "Regular maintenance",
	},
}

// Evaluate returns the first rule matching the readings.
// ok is false only for a policy without a catch-all rule.
func (p WaterChangePolicy) Evaluate(ammonia, nitrite, nitrate float64) (rule WaterChangeRule, ok bool) {
	for _, r := range p {
		if r.Applies(ammonia, nitrite, nitrate) {
			return r, true
		}
	}
	return WaterChangeRule{}, false
}

// SizeWaterChange applies DefaultWaterChangePolicy to the readings
func SizeWaterChange(ammonia, nitrite, nitrate, volumeGallons float64) entities.WaterChange {
	rule, _ := DefaultWaterChangePolicy.Evaluate(ammonia, nitrite, nitrate)
	return entities.WaterChange{
		Percentage: rule.Percentage,
		Amount:     round(volumeGallons*rule.Percentage/100, 1),
		Reason:     rule.Reason,
		Detail:     rule.Detail,
	}
}

// Advise computes the tank volume and every recommendation for it
func Advise(g entities.TankGeometry, t entities.AdjustmentTarget) (entities.Report, error) {
	volume, err := TankVolumeGallons(g)
	if err != nil {
		return entities.Report{}, err
	}

	return entities.Report{
		VolumeGallons: volume,
		VolumeLiters:  LitersFromGallons(volume),
		PH:            AdjustPH(t.CurrentPH, t.TargetPH, volume),
		Temperature:   AdjustTemperature(t.CurrentTemp, t.TargetTemp),
		WaterChange:   SizeWaterChange(t.CurrentAmmonia, t.CurrentNitrite, t.CurrentNitrate, volume),
	}, nil
}

// round rounds half away from zero to the given number of decimal places
func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
