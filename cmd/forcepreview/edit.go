package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/forcefield/config"
)

// directionAngle returns the XY heading of d in degrees.
func directionAngle(d r3.Vec) float64 {
	return math.Atan2(d.Y, d.X) * 180 / math.Pi
}

// withDirectionAngle returns the unit XY direction at deg degrees.
func withDirectionAngle(deg float64) r3.Vec {
	rad := deg * math.Pi / 180
	return r3.Vec{X: math.Cos(rad), Y: math.Sin(rad)}
}

// recordYAML renders one force record as a YAML list item, ready to paste
// under forces:.
func recordYAML(rec config.ForceConfig) (string, error) {
	data, err := yaml.Marshal([]config.ForceConfig{rec})
	if err != nil {
		return "", fmt.Errorf("marshaling force: %w", err)
	}
	return string(data), nil
}

// pickOnePerKind returns the index of the first record of each kind, in
// list order.
func pickOnePerKind(records []config.ForceConfig) []int {
	seen := make(map[string]bool)
	var out []int
	for i, rec := range records {
		if seen[rec.Kind] {
			continue
		}
		seen[rec.Kind] = true
		out = append(out, i)
	}
	return out
}
