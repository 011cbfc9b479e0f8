// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mag

import (
	"math"
	"time"

	"github.com/relabs-tech/compass/internal/hmc5883l"
)

// Sample is one compass measurement as published on MQTT.
// X, Y, Z are in mG, rounded to 2 decimals. Norm is |B| in mG.
type Sample struct {
	Source  string  `json:"source"` // "hmc5883l" or "mock"
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Norm    float64 `json:"norm"`
	Heading int     `json:"heading"` // degrees, [0, 360)
	Range   string  `json:"range"`   // gauss label, e.g. "1.3"
	Time    string  `json:"time"`    // RFC3339
}

// Source is anything that can provide compass samples over time.
type Source interface {
	Next() (Sample, error)
}

// NewSample builds a Sample from a decoded reading.
func NewSample(source string, r hmc5883l.Reading, heading int, rng hmc5883l.Range, t time.Time) Sample {
	return Sample{
		Source:  source,
		X:       r.X,
		Y:       r.Y,
		Z:       r.Z,
		Norm:    hmc5883l.Round2(math.Sqrt(r.X*r.X + r.Y*r.Y + r.Z*r.Z)),
		Heading: heading,
		Range:   rng.String(),
		Time:    t.UTC().Format(time.RFC3339),
	}
}

// Reading returns the axis values of s.
func (s Sample) Reading() hmc5883l.Reading {
	return hmc5883l.Reading{X: s.X, Y: s.Y, Z: s.Z}
}

func (s Sample) String() string {
	return hmc5883l.Format(s.Reading(), s.Heading)
}
