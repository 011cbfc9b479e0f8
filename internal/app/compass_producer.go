// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"errors"
	"log"
	"time"

	"github.com/relabs-tech/compass/internal/config"
	"github.com/relabs-tech/compass/internal/gps"
	"github.com/relabs-tech/compass/internal/hmc5883l"
	"github.com/relabs-tech/compass/internal/mag"
	"github.com/relabs-tech/compass/internal/sensors"
)

func logf(component, format string, args ...any) {
	log.Printf(component+": "+format, args...)
}

// reconfigurer is the part of sensors.HMCSource the GPS follower needs.
type reconfigurer interface {
	Reconfigure(r hmc5883l.Range, declDegrees, declMinutes float64) (hmc5883l.RegisterProgram, error)
}

// declinationFollower reprograms the sensor whenever a valid fix reports a
// magnetic variation different from the one in use.
type declinationFollower struct {
	src  reconfigurer
	rng  hmc5883l.Range
	last float64
	have bool
}

func (f *declinationFollower) onFix(fix gps.Fix) {
	if !fix.Valid() {
		return
	}
	if f.have && fix.Variation == f.last {
		return
	}
	deg, min := fix.Declination()
	if _, err := f.src.Reconfigure(f.rng, deg, min); err != nil && !errors.Is(err, hmc5883l.ErrUnknownRange) {
		logf("hmc", "declination update failed: %v", err)
		return
	}
	f.last, f.have = fix.Variation, true
	logf("hmc", "declination set from GPS: %.1f°", fix.Variation)
}

// RunCompassProducer reads the HMC5883L and publishes samples as JSON to
// the configured mag topic.
func RunCompassProducer() error {
	cfg := config.Get()

	src, err := sensors.NewHMCSource(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	err = src.Do(func(dev *hmc5883l.Dev) error {
		id, err := dev.ID()
		if err == nil {
			logf("hmc", "ID=%q (addr=%#x)", id[:], cfg.HMCI2CAddr)
		}
		return err
	})
	if err != nil {
		return err
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if cfg.DeclinationFromGPS {
		rng, _ := hmc5883l.ParseRange(cfg.HMCGain)
		f := &declinationFollower{src: src, rng: rng}
		if err := subscribeJSON(client, "hmc", cfg.TopicGPS, f.onFix); err != nil {
			return err
		}
		logf("hmc", "following declination from %s", cfg.TopicGPS)
	}

	return runProducerLoop(src, time.Duration(cfg.SampleInterval)*time.Millisecond, func(s mag.Sample) error {
		return publishJSON(client, cfg.TopicMag, false, s)
	})
}

// runProducerLoop reads src every interval and hands samples to publish.
// Read and publish errors are logged and the loop continues.
func runProducerLoop(src mag.Source, interval time.Duration, publish func(mag.Sample) error) error {
	logf("hmc", "producer started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		s, err := src.Next()
		if err != nil {
			logf("hmc", "read error: %v", err)
			continue
		}
		if err := publish(s); err != nil {
			logf("hmc", "%v", err)
			continue
		}
		logf("hmc", "%s", s)
	}
	return nil
}
