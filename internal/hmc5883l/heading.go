// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmc5883l

import "math"

// Heading returns the compass heading in whole degrees, in [0, 360), for the
// horizontal field components x and y corrected by declinationRadians.
//
// The angle is reduced with a floored modulo, so any declination is
// accepted, not only offsets within one revolution.
func Heading(x, y, declinationRadians float64) int {
	theta := math.Mod(math.Atan2(y, x)+declinationRadians, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	deg := int(roundHalfUp(theta * 180 / math.Pi))
	return deg % 360
}
