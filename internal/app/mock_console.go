// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"time"

	"github.com/relabs-tech/compass/internal/hmc5883l"
	"github.com/relabs-tech/compass/internal/mag"
	"github.com/relabs-tech/compass/internal/sensors"
)

// RunMockConsole prints simulated samples; no hardware or broker needed.
func RunMockConsole(w io.Writer, gain string, declDegrees, declMinutes float64, n int) error {
	rng, ok := hmc5883l.ParseRange(gain)
	if !ok {
		logf("mock", "WARNING: unknown gain %q, keeping default scale", gain)
	}
	src := sensors.NewMockSource(rng, declDegrees, declMinutes)
	return printSamples(w, src, 100*time.Millisecond, n)
}

// printSamples prints n samples (forever when n <= 0).
func printSamples(w io.Writer, src mag.Source, interval time.Duration, n int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; n <= 0 || i < n; i++ {
		s, err := src.Next()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, s)
		if n <= 0 || i < n-1 {
			<-ticker.C
		}
	}
	return nil
}
