// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/compass/internal/config"
	"github.com/relabs-tech/compass/internal/hmc5883l"
	"github.com/relabs-tech/compass/internal/mag"
)

// HMCSource reads the HMC5883L and publishes mag.Samples.
// All device access goes through mu, so Reconfigure may be called from
// another goroutine (e.g. an MQTT callback) while Next runs.
type HMCSource struct {
	mu  sync.Mutex
	bus i2c.BusCloser
	dev *hmc5883l.Dev
	rng hmc5883l.Range
}

// NewHMCSource opens the configured I2C bus and initializes the sensor.
func NewHMCSource(cfg *config.Config) (*HMCSource, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("hmc: periph host init: %w", err)
	}
	bus, err := i2creg.Open(cfg.HMCI2CBus)
	if err != nil {
		return nil, fmt.Errorf("hmc: i2c open failed on bus %q: %w", cfg.HMCI2CBus, err)
	}
	s, err := NewHMCSourceOnBus(bus, cfg)
	if err != nil {
		bus.Close()
		return nil, err
	}
	return s, nil
}

// NewHMCSourceOnBus initializes the sensor on an already open bus. The
// source owns bus from then on.
func NewHMCSourceOnBus(bus i2c.BusCloser, cfg *config.Config) (*HMCSource, error) {
	rng, ok := hmc5883l.ParseRange(cfg.HMCGain)
	if !ok {
		log.Printf("hmc: WARNING: unknown gain %q, keeping default scale", cfg.HMCGain)
	}
	dev, err := hmc5883l.New(bus, &hmc5883l.Opts{
		Addr:               cfg.HMCI2CAddr,
		Range:              rng,
		DeclinationDegrees: cfg.DeclinationDegrees,
		DeclinationMinutes: cfg.DeclinationMinutes,
	})
	if err != nil {
		return nil, fmt.Errorf("hmc: init failed: %w", err)
	}
	c := dev.Config()
	log.Printf("hmc: %s ready (gain=%s scale=%.2f declination=%.4f rad)", dev, cfg.HMCGain, c.Scale, c.DeclinationRadians)
	if !ok {
		rng = hmc5883l.Range1_3
	}
	return &HMCSource{bus: bus, dev: dev, rng: rng}, nil
}

// Next reads one sample.
func (s *HMCSource) Next() (mag.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, h, err := s.dev.SenseHeading()
	if err != nil {
		return mag.Sample{}, err
	}
	return mag.NewSample("hmc5883l", r, h, s.rng, time.Now()), nil
}

// Reconfigure reprograms range and declination. An unknown range is
// reported but the rest of the program is still applied.
func (s *HMCSource) Reconfigure(r hmc5883l.Range, declDegrees, declMinutes float64) (hmc5883l.RegisterProgram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prog, err := s.dev.Program(r, declDegrees, declMinutes)
	if err != nil && !errors.Is(err, hmc5883l.ErrUnknownRange) {
		return prog, err
	}
	if err == nil {
		s.rng = r
	}
	return prog, err
}

// Do runs fn with exclusive access to the device.
func (s *HMCSource) Do(fn func(dev *hmc5883l.Dev) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.dev)
}

// Close idles the sensor and releases the bus.
func (s *HMCSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	herr := s.dev.Halt()
	if err := s.bus.Close(); err != nil {
		return err
	}
	return herr
}
