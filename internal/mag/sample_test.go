// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mag

import (
	"encoding/json"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/relabs-tech/compass/internal/hmc5883l"
)

func TestNewSample(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	s := NewSample("hmc5883l", hmc5883l.Reading{X: 3, Y: -4, Z: 12}, 307, hmc5883l.Range1_3, ts)

	test.That(t, s.Norm, test.ShouldEqual, 13.0)
	test.That(t, s.Range, test.ShouldEqual, "1.3")
	test.That(t, s.Time, test.ShouldEqual, "2026-03-01T11:00:00Z")
	test.That(t, s.String(), test.ShouldEqual, "X: 3.00, Y: -4.00, Z: 12.00, Heading: 307°")

	b, err := json.Marshal(s)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(b), test.ShouldEqual,
		`{"source":"hmc5883l","x":3,"y":-4,"z":12,"norm":13,"heading":307,"range":"1.3","time":"2026-03-01T11:00:00Z"}`)
}
