// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmc5883l

import "math"

// Format renders r and heading as
//
//	X: 9.20, Y: -9.20, Z: 4.60, Heading: 315°
func Format(r Reading, heading int) string {
	buf := make([]byte, 0, 48)
	buf = append(buf, "X: "...)
	buf = appendFixed2(buf, r.X)
	buf = append(buf, ", Y: "...)
	buf = appendFixed2(buf, r.Y)
	buf = append(buf, ", Z: "...)
	buf = appendFixed2(buf, r.Z)
	buf = append(buf, ", Heading: "...)
	buf = appendInt(buf, int64(heading))
	buf = append(buf, "°"...)
	return string(buf)
}

// FormatFixed2 renders v with exactly two fractional digits.
func FormatFixed2(v float64) string {
	return string(appendFixed2(nil, v))
}

// appendFixed2 works on the value in hundredths so the output does not
// depend on float formatting.
func appendFixed2(buf []byte, v float64) []byte {
	if math.IsNaN(v) {
		return append(buf, "NaN"...)
	}
	if math.IsInf(v, 0) {
		if v < 0 {
			return append(buf, "-Inf"...)
		}
		return append(buf, "+Inf"...)
	}
	n := int64(roundHalfUp(v * 100))
	if n < 0 {
		buf = append(buf, '-')
		n = -n
	}
	buf = appendInt(buf, n/100)
	frac := n % 100
	return append(buf, '.', byte('0'+frac/10), byte('0'+frac%10))
}

func appendInt(buf []byte, i int64) []byte {
	if i < 0 {
		buf = append(buf, '-')
		i = -i
	}
	var tmp [20]byte
	p := len(tmp)
	for {
		p--
		tmp[p] = byte('0' + i%10)
		i /= 10
		if i == 0 {
			break
		}
	}
	return append(buf, tmp[p:]...)
}
