// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"errors"
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/relabs-tech/compass/internal/gps"
)

const nmeaLog = "$GPRMC,220516,A,5133.82,N,00042.24,W,173.8,231.8,130694,004.2,W*70\r\n" +
	"$GPGGA,172814.0,3723.46587704,N,12202.26957864,W,2,6,1.2,18.893,M,-25.669,M,2.0,0031*4F\r\n" +
	"$GPRMC,220516,A,5133.82,N,00042.24,W,173.8,231.8,130694,004.2,W*71\r\n" +
	"partial garbage\n" +
	"$GPRMC,220516,A,5133.82,N,00042.24,W,173.8,231.8,130694,004.2,W*70\r\n"

func TestReadFixes(t *testing.T) {
	var fixes []gps.Fix
	err := readFixes(strings.NewReader(nmeaLog), func(f gps.Fix) error {
		fixes = append(fixes, f)
		return nil
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, fixes, test.ShouldHaveLength, 2)
	test.That(t, fixes[0].Variation, test.ShouldEqual, -4.2)
	test.That(t, fixes[1].CourseDeg, test.ShouldEqual, 231.8)
}

func TestReadFixesPublishErrorContinues(t *testing.T) {
	calls := 0
	err := readFixes(strings.NewReader(nmeaLog), func(gps.Fix) error {
		calls++
		return errors.New("broker down")
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, calls, test.ShouldEqual, 2)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("port gone") }

func TestReadFixesReadError(t *testing.T) {
	err := readFixes(failingReader{}, func(gps.Fix) error { return nil })
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "port gone")
}
