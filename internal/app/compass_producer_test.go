// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"errors"
	"fmt"
	"testing"

	"go.viam.com/test"

	"github.com/relabs-tech/compass/internal/gps"
	"github.com/relabs-tech/compass/internal/hmc5883l"
)

type reconfigureCall struct {
	r        hmc5883l.Range
	deg, min float64
}

type fakeReconfigurer struct {
	calls []reconfigureCall
	err   error
}

func (f *fakeReconfigurer) Reconfigure(r hmc5883l.Range, deg, min float64) (hmc5883l.RegisterProgram, error) {
	f.calls = append(f.calls, reconfigureCall{r, deg, min})
	return nil, f.err
}

func TestDeclinationFollower(t *testing.T) {
	fake := &fakeReconfigurer{}
	f := &declinationFollower{src: fake, rng: hmc5883l.Range2_5}

	f.onFix(gps.Fix{Validity: "V", Variation: 3})
	test.That(t, fake.calls, test.ShouldHaveLength, 0)

	f.onFix(gps.Fix{Validity: "A", Variation: -4.5})
	test.That(t, fake.calls, test.ShouldHaveLength, 1)
	test.That(t, fake.calls[0].r, test.ShouldEqual, hmc5883l.Range2_5)
	test.That(t, fake.calls[0].deg, test.ShouldEqual, -4.0)
	test.That(t, fake.calls[0].min, test.ShouldAlmostEqual, -30, 1e-9)

	// Same variation: nothing to do.
	f.onFix(gps.Fix{Validity: "A", Variation: -4.5})
	test.That(t, fake.calls, test.ShouldHaveLength, 1)

	f.onFix(gps.Fix{Validity: "A", Variation: 1})
	test.That(t, fake.calls, test.ShouldHaveLength, 2)
	test.That(t, fake.calls[1].deg, test.ShouldEqual, 1.0)
}

func TestDeclinationFollowerErrors(t *testing.T) {
	fake := &fakeReconfigurer{err: fmt.Errorf("bus: %w", errors.New("nack"))}
	f := &declinationFollower{src: fake, rng: hmc5883l.Range1_3}

	// A failed write is retried on the next fix.
	f.onFix(gps.Fix{Validity: "A", Variation: 2})
	f.onFix(gps.Fix{Validity: "A", Variation: 2})
	test.That(t, fake.calls, test.ShouldHaveLength, 2)
	test.That(t, f.have, test.ShouldBeFalse)

	// An unknown range still applies the declination.
	fake.err = fmt.Errorf("%w: x", hmc5883l.ErrUnknownRange)
	f.onFix(gps.Fix{Validity: "A", Variation: 2})
	test.That(t, f.have, test.ShouldBeTrue)
	test.That(t, f.last, test.ShouldEqual, 2.0)
}
