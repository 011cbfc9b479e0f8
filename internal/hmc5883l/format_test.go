// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmc5883l

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestFormat(t *testing.T) {
	got := Format(Reading{X: 9.2, Y: -9.2, Z: 4.6}, 315)
	test.That(t, got, test.ShouldEqual, "X: 9.20, Y: -9.20, Z: 4.60, Heading: 315°")

	got = Format(Reading{}, 0)
	test.That(t, got, test.ShouldEqual, "X: 0.00, Y: 0.00, Z: 0.00, Heading: 0°")
}

func TestFormatFixed2(t *testing.T) {
	for _, tc := range []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{1, "1.00"},
		{-1, "-1.00"},
		{0.1, "0.10"},
		{-0.05, "-0.05"},
		{-0.001, "0.00"},
		{1234.5, "1234.50"},
		{-30146.56, "-30146.56"},
		{23919.91, "23919.91"},
		{99.999, "100.00"},
		{math.NaN(), "NaN"},
		{math.Inf(-1), "-Inf"},
	} {
		test.That(t, FormatFixed2(tc.in), test.ShouldEqual, tc.want)
	}
}
