// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"math"
	"time"

	"github.com/relabs-tech/compass/internal/hmc5883l"
	"github.com/relabs-tech/compass/internal/mag"
)

// MockSource simulates a level sensor turning at a constant rate in a
// 500 mG field with 60° inclination.
type MockSource struct {
	cfg   *hmc5883l.Configuration
	rng   hmc5883l.Range
	start time.Time
	now   func() time.Time

	// DegPerSecond is the turn rate.
	DegPerSecond float64
}

// NewMockSource creates a mock source configured like the real sensor.
func NewMockSource(rng hmc5883l.Range, declDegrees, declMinutes float64) *MockSource {
	cfg := hmc5883l.NewConfiguration()
	cfg.Apply(rng, declDegrees, declMinutes)
	return &MockSource{
		cfg:          cfg,
		rng:          rng,
		start:        time.Now(),
		now:          time.Now,
		DegPerSecond: 30,
	}
}

// Next encodes the simulated field into raw counts and runs them through
// the same decoder the hardware path uses.
func (m *MockSource) Next() (mag.Sample, error) {
	t := m.now()
	a := math.Mod(t.Sub(m.start).Seconds()*m.DegPerSecond, 360) * math.Pi / 180
	const horiz, vert = 250.0, 433.0 // mG
	raw := EncodeRaw(horiz*math.Cos(a)/m.cfg.Scale, horiz*math.Sin(a)/m.cfg.Scale, vert/m.cfg.Scale)
	r := hmc5883l.Decode(raw, m.cfg.Scale)
	h := hmc5883l.Heading(r.X, r.Y, m.cfg.DeclinationRadians)
	return mag.NewSample("mock", r, h, m.rng, t), nil
}

// EncodeRaw packs counts into the device's X,Z,Y big-endian block,
// saturating at the int16 limits.
func EncodeRaw(x, y, z float64) hmc5883l.RawSample {
	var raw hmc5883l.RawSample
	put := func(i int, v float64) {
		c := int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, math.Round(v))))
		raw[i] = byte(uint16(c) >> 8)
		raw[i+1] = byte(uint16(c))
	}
	put(0, x)
	put(2, z)
	put(4, y)
	return raw
}
