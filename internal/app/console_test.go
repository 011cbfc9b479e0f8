// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/relabs-tech/compass/internal/gps"
	"github.com/relabs-tech/compass/internal/hmc5883l"
	"github.com/relabs-tech/compass/internal/mag"
)

func testSample(heading int) mag.Sample {
	r := hmc5883l.Reading{X: 9.2, Y: -9.2, Z: 4.6}
	return mag.NewSample("hmc5883l", r, heading, hmc5883l.Range1_3, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestConsolePrinter(t *testing.T) {
	var buf bytes.Buffer
	p := &consolePrinter{w: &buf}

	fix := gps.Fix{Time: "22:05:16.0000", CourseDeg: 231.8, Variation: -4.2, Validity: "A"}
	p.onFix(fix)
	test.That(t, buf.String(), test.ShouldStartWith, "[GPS ] time=22:05:16.0000")
	test.That(t, buf.String(), test.ShouldNotContainSubstring, "[DEV ]")

	buf.Reset()
	p.onSample(testSample(315))
	test.That(t, buf.String(), test.ShouldEqual, "[MAG ] X: 9.20, Y: -9.20, Z: 4.60, Heading: 315° |B|=13.80mG\n")

	buf.Reset()
	p.onFix(fix)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	test.That(t, lines, test.ShouldHaveLength, 2)
	test.That(t, lines[1], test.ShouldEqual, "[DEV ] heading=315° course=231.8° deviation=-83.2°")

	// Void fixes carry no usable course.
	buf.Reset()
	fix.Validity = "V"
	p.onFix(fix)
	test.That(t, buf.String(), test.ShouldNotContainSubstring, "[DEV ]")
}

type sliceSource struct {
	samples []mag.Sample
	i       int
}

func (s *sliceSource) Next() (mag.Sample, error) {
	if s.i >= len(s.samples) {
		return mag.Sample{}, errors.New("exhausted")
	}
	s.i++
	return s.samples[s.i-1], nil
}

func TestPrintSamples(t *testing.T) {
	src := &sliceSource{samples: []mag.Sample{testSample(0), testSample(90), testSample(180)}}
	var buf bytes.Buffer
	test.That(t, printSamples(&buf, src, time.Millisecond, 2), test.ShouldBeNil)
	test.That(t, buf.String(), test.ShouldEqual,
		"X: 9.20, Y: -9.20, Z: 4.60, Heading: 0°\nX: 9.20, Y: -9.20, Z: 4.60, Heading: 90°\n")

	// Running out of samples ends the loop with the source error.
	err := printSamples(&buf, src, time.Millisecond, 5)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldEqual, "exhausted")
}

func TestRunMockConsole(t *testing.T) {
	for _, gain := range []string{"1.3", "3.3"} {
		var buf bytes.Buffer
		test.That(t, RunMockConsole(&buf, gain, 0, 0, 2), test.ShouldBeNil)
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		test.That(t, lines, test.ShouldHaveLength, 2)
		for _, l := range lines {
			test.That(t, l, test.ShouldStartWith, "X: ")
			test.That(t, l, test.ShouldContainSubstring, ", Heading: ")
		}
	}
}
