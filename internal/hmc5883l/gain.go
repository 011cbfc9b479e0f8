// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmc5883l

import "fmt"

// Range selects the sensor's full-scale field range (CRB gain bits 7..5).
// The value is the field index 0..7.
type Range uint8

const (
	Range0_88 Range = iota // ±0.88 Ga
	Range1_3               // ±1.3 Ga (power-on default)
	Range1_9               // ±1.9 Ga
	Range2_5               // ±2.5 Ga
	Range4_0               // ±4.0 Ga
	Range4_7               // ±4.7 Ga
	Range5_6               // ±5.6 Ga
	Range8_1               // ±8.1 Ga

	// RangeUnknown is returned by ParseRange for labels outside the table.
	RangeUnknown Range = 0xFF
)

// gainTable maps a Range to its scale factor (mG per count, rounded the
// way the datasheet's digital resolution column does).
var gainTable = [...]struct {
	label string
	scale float64
}{
	Range0_88: {"0.88", 0.73},
	Range1_3:  {"1.3", 0.92},
	Range1_9:  {"1.9", 1.22},
	Range2_5:  {"2.5", 1.52},
	Range4_0:  {"4.0", 2.27},
	Range4_7:  {"4.7", 2.56},
	Range5_6:  {"5.6", 3.03},
	Range8_1:  {"8.1", 4.35},
}

// Gain returns the CRB field value and the scale factor for r.
// ok is false when r is not one of the eight defined ranges; callers must
// then leave their configuration untouched.
func (r Range) Gain() (field byte, scale float64, ok bool) {
	if int(r) >= len(gainTable) {
		return 0, 0, false
	}
	return byte(r) << 5, gainTable[r].scale, true
}

// ParseRange maps a gauss label such as "1.3" to its Range.
func ParseRange(label string) (Range, bool) {
	for i, g := range gainTable {
		if g.label == label {
			return Range(i), true
		}
	}
	return RangeUnknown, false
}

func (r Range) String() string {
	if int(r) < len(gainTable) {
		return gainTable[r].label
	}
	return fmt.Sprintf("Range(%d)", uint8(r))
}
