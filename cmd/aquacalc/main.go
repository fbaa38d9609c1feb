// Command aquacalc prints the water parameter report for a tank without running the bot.
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abelzeko/aquarium-bot/internal/calculator"
	"github.com/abelzeko/aquarium-bot/internal/entities"
	"github.com/abelzeko/aquarium-bot/internal/usecases"
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli(os.Args[1:], os.Stdout, os.Stderr))
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("aquacalc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	tank := entities.DefaultTank()
	var unit, shape, format string
	fs.Float64Var(&tank.Length, "length", tank.Length, "tank length, diameter of a round tank or corner-to-corner width of a hexagonal one")
	fs.Float64Var(&tank.Width, "width", tank.Width, "tank width")
	fs.Float64Var(&tank.Height, "height", tank.Height, "tank height")
	fs.StringVar(&unit, "unit", "in", "dimension unit: in or cm")
	fs.StringVar(&shape, "shape", "rectangular", "rectangular, cylindrical or hexagonal")

	var t entities.AdjustmentTarget
	fs.Float64Var(&t.CurrentPH, "ph", 7.0, "current pH")
	fs.Float64Var(&t.TargetPH, "target-ph", 7.2, "desired pH")
	fs.Float64Var(&t.CurrentTemp, "temp", 75, "current temperature in °F")
	fs.Float64Var(&t.TargetTemp, "target-temp", 78, "desired temperature in °F")
	fs.Float64Var(&t.CurrentAmmonia, "ammonia", 0.1, "ammonia in ppm")
	fs.Float64Var(&t.CurrentNitrite, "nitrite", 0.05, "nitrite in ppm")
	fs.Float64Var(&t.CurrentNitrate, "nitrate", 20, "nitrate in ppm")
	fs.StringVar(&format, "format", "text", "output format: text or yaml")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	readings := map[string]float64{
		"ph": t.CurrentPH, "target-ph": t.TargetPH, "temp": t.CurrentTemp, "target-temp": t.TargetTemp,
		"ammonia": t.CurrentAmmonia, "nitrite": t.CurrentNitrite, "nitrate": t.CurrentNitrate,
	}
	for name, v := range readings {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			fmt.Fprintf(stderr, "aquacalc: -%s must be a finite number\n", name)
			return 1
		}
	}

	var err error
	if tank.Unit, err = entities.ParseUnit(unit); err != nil {
		fmt.Fprintf(stderr, "aquacalc: %v\n", err)
		return 1
	}
	if tank.Shape, err = entities.ParseShape(shape); err != nil {
		fmt.Fprintf(stderr, "aquacalc: %v\n", err)
		return 1
	}

	report, err := calculator.Advise(tank, t)
	if err != nil {
		fmt.Fprintf(stderr, "aquacalc: %v\n", err)
		return 1
	}

	switch format {
	case "text":
		fmt.Fprintln(stdout, usecases.FormatReport(report))
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(stderr, "aquacalc: failed to encode report: %v\n", err)
			return 1
		}
		enc.Close()
	default:
		fmt.Fprintf(stderr, "aquacalc: unknown format '%s'\n", format)
		return 1
	}
	return 0
}
