package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/abelzeko/aquarium-bot/internal/entities"
)

func TestCLIDefaults(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cli(nil, &stdout, &stderr); code != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", code, stderr.String())
	}
	for _, want := range []string{"19.9 gallon", "Amount: 1.99 teaspoons of baking soda", "Time: 1.5 hours", "Percentage: 10%"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("Output missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestCLIYAML(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := []string{"-format", "yaml", "-length", "60", "-width", "30", "-height", "40", "-unit", "cm", "-ph", "7.8", "-nitrate", "45"}
	if code := cli(args, &stdout, &stderr); code != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", code, stderr.String())
	}

	var report entities.Report
	if err := yaml.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("Output is not valid YAML: %v\n%s", err, stdout.String())
	}
	if report.PH.Action != "Decrease pH" || report.WaterChange.Reason != "high nitrate" || report.WaterChange.Percentage != 30 {
		t.Errorf("Unexpected report: %+v", report)
	}
}

func TestCLIInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative-height", []string{"-height", "-5"}},
		{"bad-unit", []string{"-unit", "ft"}},
		{"bad-shape", []string{"-shape", "sphere"}},
		{"bad-number", []string{"-ph", "neutral"}},
		{"bad-format", []string{"-format", "xml"}},
		{"nan-target-ph", []string{"-target-ph", "NaN"}},
		{"inf-temp", []string{"-temp", "Inf"}},
		{"negative-inf-nitrate", []string{"-nitrate", "-inf"}},
		{"inf-length", []string{"-length", "+Inf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := cli(tt.args, &stdout, &stderr); code != 1 {
				t.Errorf("Expected exit code 1, got %d", code)
			}
			if stderr.Len() == 0 {
				t.Error("Expected an error message on stderr")
			}
		})
	}
}

func TestMainExitCode(t *testing.T) {
	var codes []int
	old := exitFunc
	exitFunc = func(code int) { codes = append(codes, code) }
	defer func() { exitFunc = old }()

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"aquacalc", "-shape", "sphere"}
	main()
	if len(codes) != 1 || codes[0] != 1 {
		t.Errorf("Expected exit code 1, got %v", codes)
	}
}
