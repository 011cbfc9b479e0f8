// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package hmc5883l drives the Honeywell HMC5883L 3-axis magnetometer over
// I²C and turns its raw output into scaled readings and a compass heading.
//
// The conversion layer (gain table, register programming, sample decoding,
// heading and formatting) is pure and usable without hardware. Dev wires it
// to a periph i2c.Bus.
package hmc5883l

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

var (
	// ErrUnknownRange is returned by Configure when the range is not in the
	// gain table. The device is still programmed and the previous scale
	// stays in effect.
	ErrUnknownRange = errors.New("hmc5883l: unknown range, scale unchanged")

	// ErrBadID is returned by New when the identification registers do not
	// read "H43".
	ErrBadID = errors.New("hmc5883l: unexpected identification")
)

// Opts holds initialization options.
//
// Addr: I2C address, default 0x1E.
// Range: full-scale range, see Range.
// DeclinationDegrees/DeclinationMinutes: local magnetic declination, east
// positive.
type Opts struct {
	Addr               uint16
	Range              Range
	DeclinationDegrees float64
	DeclinationMinutes float64
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Addr:  DefaultAddr,
	Range: Range1_3,
}

// Dev is a handle to an HMC5883L.
//
// Dev is not safe for concurrent use; callers sharing it between goroutines
// must serialize access.
type Dev struct {
	d   i2c.Dev
	cfg Configuration
}

// New checks the device identity and programs it with opts.
func New(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	addr := opts.Addr
	if addr == 0 {
		addr = DefaultAddr
	}
	d := &Dev{
		d:   i2c.Dev{Addr: addr, Bus: b},
		cfg: *NewConfiguration(),
	}
	id, err := d.ID()
	if err != nil {
		return nil, fmt.Errorf("hmc5883l: read id: %w", err)
	}
	if id != [3]byte{'H', '4', '3'} {
		return nil, fmt.Errorf("%w: %q", ErrBadID, id[:])
	}
	if err := d.Configure(opts.Range, opts.DeclinationDegrees, opts.DeclinationMinutes); err != nil && !errors.Is(err, ErrUnknownRange) {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("HMC5883L{%#x}", d.d.Addr)
}

// Configure applies a new range and declination and writes the resulting
// register program to the device.
func (d *Dev) Configure(r Range, declDegrees, declMinutes float64) error {
	_, err := d.Program(r, declDegrees, declMinutes)
	return err
}

// Program is Configure but also returns the register writes that were
// issued.
func (d *Dev) Program(r Range, declDegrees, declMinutes float64) (RegisterProgram, error) {
	next := d.cfg
	prog := next.Apply(r, declDegrees, declMinutes)
	for i, w := range prog {
		if err := d.WriteRegister(w.Reg, w.Value); err != nil {
			return prog[:i], fmt.Errorf("hmc5883l: write reg %#02x: %w", w.Reg, err)
		}
	}
	d.cfg = next
	if _, _, ok := r.Gain(); !ok {
		return prog, fmt.Errorf("%w: %s", ErrUnknownRange, r)
	}
	return prog, nil
}

// Config returns a copy of the active configuration.
func (d *Dev) Config() Configuration {
	return d.cfg
}

// ReadRaw reads one data output block.
func (d *Dev) ReadRaw() (RawSample, error) {
	var raw RawSample
	if err := d.d.Tx([]byte{RegDataXMSB}, raw[:]); err != nil {
		return raw, fmt.Errorf("hmc5883l: read data: %w", err)
	}
	return raw, nil
}

// Sense reads and scales one sample.
func (d *Dev) Sense() (Reading, error) {
	raw, err := d.ReadRaw()
	if err != nil {
		return Reading{}, err
	}
	return Decode(raw, d.cfg.Scale), nil
}

// Heading reads one sample and returns the declination-corrected heading.
func (d *Dev) Heading() (int, error) {
	_, h, err := d.SenseHeading()
	return h, err
}

// SenseHeading returns the reading and the heading derived from that same
// sample.
func (d *Dev) SenseHeading() (Reading, int, error) {
	r, err := d.Sense()
	if err != nil {
		return Reading{}, 0, err
	}
	return r, Heading(r.X, r.Y, d.cfg.DeclinationRadians), nil
}

// Format reads one sample and renders it with Format.
func (d *Dev) Format() (string, error) {
	r, h, err := d.SenseHeading()
	if err != nil {
		return "", err
	}
	return Format(r, h), nil
}

// ID returns the three identity bytes, expected 'H','4','3'.
func (d *Dev) ID() ([3]byte, error) {
	var id [3]byte
	err := d.d.Tx([]byte{RegIDA}, id[:])
	return id, err
}

// Status reads the status register (bit 1 LOCK, bit 0 RDY).
func (d *Dev) Status() (byte, error) {
	return d.ReadRegister(RegStatus)
}

// ReadRegister reads a single register.
func (d *Dev) ReadRegister(reg byte) (byte, error) {
	var b [1]byte
	if err := d.d.Tx([]byte{reg}, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// WriteRegister writes a single register.
func (d *Dev) WriteRegister(reg, val byte) error {
	return d.d.Tx([]byte{reg, val}, nil)
}

// Halt puts the device in idle mode. The next Configure resumes
// continuous measurement.
func (d *Dev) Halt() error {
	return d.WriteRegister(RegMode, modeIdle)
}
