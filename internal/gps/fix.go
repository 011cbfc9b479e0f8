// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"math"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
)

// Fix represents a single combined GPS fix suitable for JSON and MQTT.
type Fix struct {
	Time       string  `json:"time"`        // e.g. "12:34:56.0000"
	Date       string  `json:"date"`        // e.g. "13/06/94"
	Latitude   float64 `json:"lat"`         // decimal degrees
	Longitude  float64 `json:"lon"`         // decimal degrees
	SpeedKnots float64 `json:"speed_knots"` // speed over ground
	CourseDeg  float64 `json:"course_deg"`  // course over ground, true
	Variation  float64 `json:"variation"`   // magnetic variation, degrees, east positive
	Validity   string  `json:"validity"`    // "A" (valid) / "V" (void)
}

// Valid reports whether the receiver flagged the fix as usable.
func (f Fix) Valid() bool {
	return f.Validity == nmea.ValidRMC
}

// Declination splits the magnetic variation into whole degrees and
// minutes, both carrying the sign of the variation.
func (f Fix) Declination() (degrees, minutes float64) {
	degrees = math.Trunc(f.Variation)
	minutes = (f.Variation - degrees) * 60
	return degrees, minutes
}

// ParseSentence parses one NMEA line. ok is false for sentences that do not
// carry a fix (anything but RMC); err is set for malformed input.
func ParseSentence(line string) (fix Fix, ok bool, err error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return Fix{}, false, nil
	}
	sentence, err := nmea.Parse(line)
	if err != nil {
		return Fix{}, false, fmt.Errorf("nmea parse: %w", err)
	}
	m, isRMC := sentence.(nmea.RMC)
	if !isRMC {
		return Fix{}, false, nil
	}
	return Fix{
		Time:       m.Time.String(),
		Date:       m.Date.String(),
		Latitude:   m.Latitude,
		Longitude:  m.Longitude,
		SpeedKnots: m.Speed,
		CourseDeg:  m.Course,
		Variation:  m.Variation,
		Validity:   m.Validity,
	}, true, nil
}

// Deviation returns the signed difference course - heading in (-180, 180].
// Positive means the track is clockwise of where the compass points.
func Deviation(heading int, course float64) float64 {
	d := math.Mod(course-float64(heading), 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}
