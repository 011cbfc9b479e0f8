// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmc5883l

import (
	"errors"
	"fmt"
	"math"
)

// ErrShortSample is returned by ParseRawSample for buffers that are not
// exactly one sample long.
var ErrShortSample = errors.New("hmc5883l: raw sample must be 6 bytes")

// RawSample is the data output block as read from RegDataXMSB.
//
// NOTE: the device outputs axes in order X,Z,Y.
type RawSample [6]byte

// ParseRawSample copies b into a RawSample.
func ParseRawSample(b []byte) (RawSample, error) {
	var raw RawSample
	if len(b) != len(raw) {
		return raw, fmt.Errorf("%w: got %d", ErrShortSample, len(b))
	}
	copy(raw[:], b)
	return raw, nil
}

// Counts returns the signed X, Y, Z counts.
func (r RawSample) Counts() (x, y, z int) {
	return signed16(r[0], r[1]), signed16(r[4], r[5]), signed16(r[2], r[3])
}

// Reading is a scaled sample, each axis rounded to 2 decimals.
type Reading struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Decode converts raw into a Reading using scale.
func Decode(raw RawSample, scale float64) Reading {
	x, y, z := raw.Counts()
	return Reading{
		X: Round2(float64(x) * scale),
		Y: Round2(float64(y) * scale),
		Z: Round2(float64(z) * scale),
	}
}

// Round2 rounds v to 2 decimal places, halves towards +Inf.
func Round2(v float64) float64 {
	return roundHalfUp(v*100) / 100
}

// roundHalfUp rounds x to an integer, halves towards +Inf. It compares the
// fraction instead of adding 0.5, which would carry 0.49999999999999994 up.
func roundHalfUp(x float64) float64 {
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	return r
}

func signed16(hi, lo byte) int {
	v := int(hi)<<8 | int(lo)
	if v >= 0x8000 {
		v -= 0x10000
	}
	return v
}
