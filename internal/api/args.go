package api

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abelzeko/aquarium-bot/internal/entities"
)

var errUsage = errors.New("wrong number of arguments")

// ParseTankArgs parses "L W H [unit] [shape]". Unit and shape may come in either order
// and default to inches and rectangular.
func ParseTankArgs(args string) (entities.TankGeometry, error) {
	fields := strings.Fields(args)
	if len(fields) < 3 || len(fields) > 5 {
		return entities.TankGeometry{}, errUsage
	}

	g := entities.TankGeometry{Unit: entities.UnitImperial, Shape: entities.ShapeRectangular}
	dims := []*float64{&g.Length, &g.Width, &g.Height}
	for i, d := range dims {
		v, err := parseNumber(fields[i])
		if err != nil {
			return entities.TankGeometry{}, err
		}
		*d = v
	}

	for _, f := range fields[3:] {
		if u, err := entities.ParseUnit(f); err == nil {
			g.Unit = u
			continue
		}
		s, err := entities.ParseShape(f)
		if err != nil {
			return entities.TankGeometry{}, fmt.Errorf("'%s' is neither a unit nor a shape", f)
		}
		g.Shape = s
	}
	return g, nil
}

// ParseReadingArgs parses "<parameter> <value>"
func ParseReadingArgs(args string) (string, float64, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", 0, errUsage
	}
	v, err := parseNumber(fields[1])
	if err != nil {
		return "", 0, err
	}
	return fields[0], v, nil
}

// ParseAddTaskArgs parses "title | description [| frequency | priority | category | minutes]"
func ParseAddTaskArgs(args string) (entities.MaintenanceTask, error) {
	parts := strings.Split(args, "|")
	if len(parts) < 2 || len(parts) > 6 {
		return entities.MaintenanceTask{}, errUsage
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	task := entities.MaintenanceTask{Title: parts[0], Description: parts[1]}
	var err error
	if len(parts) > 2 && parts[2] != "" {
		if task.Frequency, err = entities.ParseFrequency(parts[2]); err != nil {
			return entities.MaintenanceTask{}, err
		}
	}
	if len(parts) > 3 && parts[3] != "" {
		if task.Priority, err = entities.ParsePriority(parts[3]); err != nil {
			return entities.MaintenanceTask{}, err
		}
	}
	if len(parts) > 4 && parts[4] != "" {
		if task.Category, err = entities.ParseCategory(parts[4]); err != nil {
			return entities.MaintenanceTask{}, err
		}
	}
	if len(parts) > 5 && parts[5] != "" {
		minutes, err := strconv.Atoi(parts[5])
		if err != nil || minutes <= 0 {
			return entities.MaintenanceTask{}, fmt.Errorf("invalid duration '%s'", parts[5])
		}
		task.EstimatedDuration = minutes
	}
	return task, nil
}

// parseNumber accepts a decimal comma as well as a point. NaN and infinities are rejected.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("'%s' is not a number", s)
	}
	return v, nil
}
