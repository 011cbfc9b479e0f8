// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmc5883l

import "math"

// I2C register map for HMC5883L.
const (
	RegConfigA  = 0x00
	RegConfigB  = 0x01
	RegMode     = 0x02
	RegDataXMSB = 0x03 // X MSB, X LSB, Z MSB, Z LSB, Y MSB, Y LSB
	RegStatus   = 0x09
	RegIDA      = 0x0A
	RegIDB      = 0x0B
	RegIDC      = 0x0C
)

// Default I2C address.
const DefaultAddr = 0x1E

const (
	// configA selects 8-sample averaging (bits 6..5 = 11), 15 Hz output
	// (bits 4..2 = 100) and normal measurement bias (bits 1..0 = 00).
	configA = 0b01110000

	modeContinuous = 0x00
	modeIdle       = 0x03

	defaultScale = 0.92 // Range1_3
)

// RegisterWrite is a single register assignment.
type RegisterWrite struct {
	Reg   byte `json:"reg"`
	Value byte `json:"value"`
}

// RegisterProgram is an ordered sequence of register writes. The transport
// must execute it in order.
type RegisterProgram []RegisterWrite

// Configuration is the state the sampling path reads: the scale factor of
// the active range and the declination correction.
type Configuration struct {
	Scale              float64 `json:"scale"`
	DeclinationRadians float64 `json:"declination_rad"`
}

// NewConfiguration returns the power-on configuration: 1.3 Ga, no
// declination.
func NewConfiguration() *Configuration {
	return &Configuration{Scale: defaultScale}
}

// Apply updates c for range r and the given declination and returns the
// register writes that program the device accordingly.
//
// If r is not in the gain table the scale is kept and no CRB write is
// emitted; CRA and mode are always written.
func (c *Configuration) Apply(r Range, declDegrees, declMinutes float64) RegisterProgram {
	prog := make(RegisterProgram, 0, 3)
	if field, scale, ok := r.Gain(); ok {
		c.Scale = scale
		prog = append(prog, RegisterWrite{Reg: RegConfigB, Value: field})
	}
	c.DeclinationRadians = (declDegrees + declMinutes/60) * math.Pi / 180
	prog = append(prog,
		RegisterWrite{Reg: RegConfigA, Value: configA},
		RegisterWrite{Reg: RegMode, Value: modeContinuous},
	)
	return prog
}
