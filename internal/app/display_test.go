// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"testing"

	"go.viam.com/test"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func on(img *image1bit.VerticalLSB, x, y int) bool {
	return img.At(x, y) == image1bit.On
}

func litPixels(img *image1bit.VerticalLSB) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if on(img, x, y) {
				n++
			}
		}
	}
	return n
}

func TestRenderCompassNeedle(t *testing.T) {
	east := renderCompass(testSample(90), true)
	test.That(t, east.Bounds().Dx(), test.ShouldEqual, displayWidth)
	test.That(t, east.Bounds().Dy(), test.ShouldEqual, displayHeight)
	test.That(t, on(east, roseCX+needleLen/2, roseCY), test.ShouldBeTrue)
	test.That(t, on(east, roseCX-needleLen/2, roseCY), test.ShouldBeFalse)

	north := renderCompass(testSample(0), true)
	test.That(t, on(north, roseCX, roseCY-needleLen/2), test.ShouldBeTrue)
	test.That(t, on(north, roseCX, roseCY+needleLen/2), test.ShouldBeFalse)

	// rose
	test.That(t, on(north, roseCX, roseCY+roseRadius), test.ShouldBeTrue)
}

func TestRenderCompassWaiting(t *testing.T) {
	img := renderCompass(testSample(90), false)
	test.That(t, litPixels(img), test.ShouldBeGreaterThan, 0)
	// No rose without data.
	test.That(t, on(img, roseCX, roseCY+roseRadius), test.ShouldBeFalse)
}

func TestDisplayData(t *testing.T) {
	d := &displayData{}
	_, have := d.get()
	test.That(t, have, test.ShouldBeFalse)

	d.set(testSample(7))
	s, have := d.get()
	test.That(t, have, test.ShouldBeTrue)
	test.That(t, s.Heading, test.ShouldEqual, 7)
}
