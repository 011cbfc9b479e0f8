// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"
	"os"

	"github.com/relabs-tech/compass/internal/app"
)

func main() {
	gain := flag.String("gain", "1.3", "gain label in gauss (0.88, 1.3, 1.9, 2.5, 4.0, 4.7, 5.6, 8.1)")
	deg := flag.Float64("deg", 0, "declination degrees, east positive")
	min := flag.Float64("min", 0, "declination minutes, same sign as degrees")
	n := flag.Int("n", 0, "number of samples, 0 runs until interrupted")
	flag.Parse()

	log.Println("starting compass (mock console)")

	if err := app.RunMockConsole(os.Stdout, *gain, *deg, *min, *n); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
