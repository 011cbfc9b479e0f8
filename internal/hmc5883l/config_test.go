// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmc5883l

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestApply(t *testing.T) {
	c := NewConfiguration()
	prog := c.Apply(Range1_3, 0, 0)
	test.That(t, c.DeclinationRadians, test.ShouldEqual, 0.0)
	test.That(t, c.Scale, test.ShouldEqual, 0.92)
	test.That(t, prog, test.ShouldResemble, RegisterProgram{
		{Reg: 0x01, Value: 0x20},
		{Reg: 0x00, Value: 0b01110000},
		{Reg: 0x02, Value: 0x00},
	})

	prog = c.Apply(Range8_1, 0, 0)
	test.That(t, c.Scale, test.ShouldEqual, 4.35)
	test.That(t, prog[0], test.ShouldResemble, RegisterWrite{Reg: RegConfigB, Value: 0xE0})
}

func TestApplyUnknownRangeKeepsScale(t *testing.T) {
	c := NewConfiguration()
	prog := c.Apply(RangeUnknown, 0, 0)
	test.That(t, c.Scale, test.ShouldEqual, 0.92)
	test.That(t, prog, test.ShouldResemble, RegisterProgram{
		{Reg: RegConfigA, Value: 0x70},
		{Reg: RegMode, Value: 0x00},
	})

	c.Apply(Range4_0, 0, 0)
	prog = c.Apply(Range(12), 2, 0)
	test.That(t, prog, test.ShouldHaveLength, 2)
	test.That(t, c.Scale, test.ShouldEqual, 2.27)
	// Declination is still applied.
	test.That(t, c.DeclinationRadians, test.ShouldAlmostEqual, 2*math.Pi/180, 1e-12)
}

func TestApplyIdempotent(t *testing.T) {
	c := NewConfiguration()
	first := c.Apply(Range2_5, -3, 15)
	firstCfg := *c
	second := c.Apply(Range2_5, -3, 15)
	test.That(t, second, test.ShouldResemble, first)
	test.That(t, *c, test.ShouldResemble, firstCfg)
}

func TestApplyDeclination(t *testing.T) {
	for _, tc := range []struct {
		deg, min float64
		wantDeg  float64
	}{
		{0, 0, 0},
		{1, 30, 1.5},
		{-2, 0, -2},
		{-2, -30, -2.5},
		{0, 90, 1.5},
		{400, 0, 400}, // no clamping
	} {
		c := NewConfiguration()
		c.Apply(Range1_3, tc.deg, tc.min)
		test.That(t, c.DeclinationRadians, test.ShouldAlmostEqual, tc.wantDeg*math.Pi/180, 1e-12)
	}
}
