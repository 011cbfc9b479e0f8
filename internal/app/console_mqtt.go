// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/relabs-tech/compass/internal/config"
	"github.com/relabs-tech/compass/internal/gps"
	"github.com/relabs-tech/compass/internal/mag"
)

// consolePrinter prints samples and fixes, adding the compass deviation
// against GPS course once both are known.
type consolePrinter struct {
	mu      sync.Mutex
	w       io.Writer
	last    mag.Sample
	haveMag bool
}

func (p *consolePrinter) onSample(s mag.Sample) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last, p.haveMag = s, true
	fmt.Fprintf(p.w, "[MAG ] %s |B|=%s\n", s, formatMilliGauss(s.Norm))
}

func (p *consolePrinter) onFix(f gps.Fix) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w,
		"[GPS ] time=%s lat=%.6f lon=%.6f speed=%.1fkn course=%.1f° var=%.1f° validity=%s\n",
		f.Time, f.Latitude, f.Longitude, f.SpeedKnots, f.CourseDeg, f.Variation, f.Validity,
	)
	if p.haveMag && f.Valid() {
		fmt.Fprintf(p.w, "[DEV ] heading=%d° course=%.1f° deviation=%+.1f°\n",
			p.last.Heading, f.CourseDeg, gps.Deviation(p.last.Heading, f.CourseDeg))
	}
}

func formatMilliGauss(v float64) string {
	return fmt.Sprintf("%.2fmG", v)
}

// RunConsoleMQTT prints everything published on the mag and GPS topics
// until interrupted.
func RunConsoleMQTT() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	logf("console", "connected to MQTT broker at %s", cfg.MQTTBroker)

	p := &consolePrinter{w: os.Stdout}
	if err := subscribeJSON(client, "console", cfg.TopicMag, p.onSample); err != nil {
		return err
	}
	logf("console", "subscribed to %s", cfg.TopicMag)

	if err := subscribeJSON(client, "console", cfg.TopicGPS, p.onFix); err != nil {
		return err
	}
	logf("console", "subscribed to %s", cfg.TopicGPS)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logf("console", "shutting down")
	client.Disconnect(250)
	return nil
}
