// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"fmt"
	"io"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/compass/internal/config"
	"github.com/relabs-tech/compass/internal/gps"
)

// RunGPSProducer opens the GPS serial port, parses NMEA sentences, and
// publishes fixes (course and magnetic variation included) as JSON.
func RunGPSProducer() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDGPS)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	logf("gps", "connected to MQTT broker at %s", cfg.MQTTBroker)

	serialOpts := serial.OpenOptions{
		PortName:              cfg.GPSSerialPort,
		BaudRate:              uint(cfg.GPSBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("gps: open %s: %w", serialOpts.PortName, err)
	}
	defer port.Close()
	logf("gps", "serial port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)

	return readFixes(port, func(f gps.Fix) error {
		if err := publishJSON(client, cfg.TopicGPS, true, f); err != nil {
			return err
		}
		logf("gps", "published fix: %+v", f)
		return nil
	})
}

// readFixes feeds every RMC fix in r to publish until r fails. Parse and
// publish errors are logged and skipped.
func readFixes(r io.Reader, publish func(gps.Fix) error) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("gps: read: %w", err)
		}
		fix, ok, err := gps.ParseSentence(line)
		if err != nil {
			// noisy GPS or partial sentences
			continue
		}
		if !ok {
			continue
		}
		if err := publish(fix); err != nil {
			logf("gps", "%v", err)
		}
	}
}
