// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/compass/internal/config"
	"github.com/relabs-tech/compass/internal/hmc5883l"
	"github.com/relabs-tech/compass/internal/sensors"
)

// registerDevice is the device access the register debugger needs;
// sensors.HMCSource implements it.
type registerDevice interface {
	Do(fn func(dev *hmc5883l.Dev) error) error
	Reconfigure(r hmc5883l.Range, declDegrees, declMinutes float64) (hmc5883l.RegisterProgram, error)
}

// RegisterDebugSession holds WebSocket connection state for register debugging
type RegisterDebugSession struct {
	Conn       *websocket.Conn
	dev        registerDevice
	allowWrite bool
}

// Response types
type RegisterResponse struct {
	Type        string            `json:"type"` // "register_data", "register_map", "program", "sample", "status", "error"
	Address     string            `json:"addr,omitempty"`
	Value       string            `json:"value,omitempty"`
	Registers   map[string]string `json:"registers,omitempty"` // for bulk read
	Program     []ProgramStep     `json:"program,omitempty"`
	Scale       float64           `json:"scale,omitempty"`
	Declination float64           `json:"declination_rad,omitempty"`
	Line        string            `json:"line,omitempty"`
	Timestamp   string            `json:"timestamp,omitempty"`
	Message     string            `json:"message,omitempty"`
	RegisterMap []registerInfoJSON    `json:"register_map,omitempty"`
}

// registerInfoJSON is hmc5883l.RegisterInfo with hex-string address and
// default for the browser.
type registerInfoJSON struct {
	Address     string              `json:"address"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Access      string              `json:"access"` // "R", "W", "RW"
	Default     string              `json:"default,omitempty"`
	BitFields   []hmc5883l.BitField `json:"bit_fields,omitempty"`
}

// ProgramStep is one register write of an applied configuration.
type ProgramStep struct {
	Address string `json:"addr"`
	Name    string `json:"name"`
	Value   string `json:"value"`
}

// NewRegisterDebugHandler returns the websocket handler for the register
// debugger bound to dev.
func NewRegisterDebugHandler(dev registerDevice, allowWrite bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf("register_debug", "websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		s := &RegisterDebugSession{Conn: conn, dev: dev, allowWrite: allowWrite}
		if err := s.sendRegisterMap(); err != nil {
			logf("register_debug", "error sending register map: %v", err)
			return
		}
		s.serve()
	}
}

func (s *RegisterDebugSession) serve() {
	for {
		var rawMsg map[string]interface{}
		if err := s.Conn.ReadJSON(&rawMsg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logf("register_debug", "websocket error: %v", err)
			}
			return
		}

		action, ok := rawMsg["action"].(string)
		if !ok {
			s.sendError("missing or invalid action field")
			continue
		}

		switch action {
		case "get_map":
			s.sendRegisterMap()
		case "read":
			s.handleRead(rawMsg)
		case "read_all":
			s.handleReadAll()
		case "write":
			s.handleWrite(rawMsg)
		case "apply":
			s.handleApply(rawMsg)
		case "sense":
			s.handleSense()
		default:
			s.sendError(fmt.Sprintf("unknown action: %s", action))
		}
	}
}

func (s *RegisterDebugSession) handleRead(rawMsg map[string]interface{}) {
	addr, _ := rawMsg["addr"].(string)
	if addr == "" {
		s.sendError("missing addr field")
		return
	}
	var addrByte byte
	if _, err := fmt.Sscanf(addr, "0x%X", &addrByte); err != nil {
		s.sendError(fmt.Sprintf("invalid address format: %s", addr))
		return
	}
	if _, ok := hmc5883l.LookupRegister(addrByte); !ok {
		s.sendError(fmt.Sprintf("no register at 0x%02X", addrByte))
		return
	}

	var value byte
	err := s.dev.Do(func(dev *hmc5883l.Dev) error {
		var err error
		value, err = dev.ReadRegister(addrByte)
		return err
	})
	if err != nil {
		s.sendError(fmt.Sprintf("read error: %v", err))
		return
	}

	s.Conn.WriteJSON(RegisterResponse{
		Type:      "register_data",
		Address:   fmt.Sprintf("0x%02X", addrByte),
		Value:     fmt.Sprintf("0x%02X", value),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *RegisterDebugSession) handleReadAll() {
	regMap := make(map[string]string)
	err := s.dev.Do(func(dev *hmc5883l.Dev) error {
		for _, r := range hmc5883l.RegisterMap() {
			v, err := dev.ReadRegister(r.Address)
			if err != nil {
				return fmt.Errorf("0x%02X: %w", r.Address, err)
			}
			regMap[fmt.Sprintf("0x%02X", r.Address)] = fmt.Sprintf("0x%02X", v)
		}
		return nil
	})
	if err != nil {
		s.sendError(fmt.Sprintf("read all error: %v", err))
		return
	}

	s.Conn.WriteJSON(RegisterResponse{
		Type:      "register_data",
		Registers: regMap,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *RegisterDebugSession) handleWrite(rawMsg map[string]interface{}) {
	if !s.allowWrite {
		s.sendError("register writes are disabled (REGISTER_DEBUG_ALLOW_WRITE)")
		return
	}
	addr, _ := rawMsg["addr"].(string)
	valueStr, _ := rawMsg["value"].(string)
	if addr == "" || valueStr == "" {
		s.sendError("missing addr or value field")
		return
	}

	var addrByte, valueByte byte
	if _, err := fmt.Sscanf(addr, "0x%X", &addrByte); err != nil {
		s.sendError(fmt.Sprintf("invalid address format: %s", addr))
		return
	}
	if _, err := fmt.Sscanf(valueStr, "0x%X", &valueByte); err != nil {
		s.sendError(fmt.Sprintf("invalid value format: %s", valueStr))
		return
	}
	if info, ok := hmc5883l.LookupRegister(addrByte); !ok || !info.Writable() {
		s.sendError(fmt.Sprintf("register 0x%02X is not writable", addrByte))
		return
	}
	if addrByte == hmc5883l.RegConfigB {
		s.handleGainWrite(valueByte)
		return
	}

	err := s.dev.Do(func(dev *hmc5883l.Dev) error {
		return dev.WriteRegister(addrByte, valueByte)
	})
	if err != nil {
		s.sendError(fmt.Sprintf("write error: %v", err))
		return
	}

	s.Conn.WriteJSON(RegisterResponse{
		Type:      "register_data",
		Address:   fmt.Sprintf("0x%02X", addrByte),
		Value:     fmt.Sprintf("0x%02X", valueByte),
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   "write successful",
	})
}

// handleGainWrite turns a CRB write into a reconfiguration so the driver's
// scale follows the new gain. Declination is kept.
func (s *RegisterDebugSession) handleGainWrite(value byte) {
	if value&0x1F != 0 {
		s.sendError(fmt.Sprintf("CRB bits 4..0 must be zero, got 0x%02X", value))
		return
	}
	rng := hmc5883l.Range(value >> 5)

	var decl float64
	s.dev.Do(func(dev *hmc5883l.Dev) error {
		decl = dev.Config().DeclinationRadians
		return nil
	})
	prog, err := s.dev.Reconfigure(rng, decl*180/math.Pi, 0)
	if err != nil {
		s.sendError(fmt.Sprintf("write error: %v", err))
		return
	}
	s.sendProgram(prog, fmt.Sprintf("CRB write applied as gain %s", rng))
}

// handleApply runs a full configuration ({"gain":"1.3","deg":0,"min":0})
// and reports the register writes it produced.
func (s *RegisterDebugSession) handleApply(rawMsg map[string]interface{}) {
	gain, _ := rawMsg["gain"].(string)
	deg, _ := rawMsg["deg"].(float64)
	minutes, _ := rawMsg["min"].(float64)

	rng, _ := hmc5883l.ParseRange(gain)
	prog, err := s.dev.Reconfigure(rng, deg, minutes)
	msg := "configuration applied"
	if errors.Is(err, hmc5883l.ErrUnknownRange) {
		msg = fmt.Sprintf("unknown gain %q, scale unchanged", gain)
	} else if err != nil {
		s.sendError(fmt.Sprintf("apply error: %v", err))
		return
	}

	s.sendProgram(prog, msg)
}

func (s *RegisterDebugSession) sendProgram(prog hmc5883l.RegisterProgram, msg string) {
	var cfg hmc5883l.Configuration
	s.dev.Do(func(dev *hmc5883l.Dev) error {
		cfg = dev.Config()
		return nil
	})

	s.Conn.WriteJSON(RegisterResponse{
		Type:        "program",
		Program:     programSteps(prog),
		Scale:       cfg.Scale,
		Declination: cfg.DeclinationRadians,
		Message:     msg,
		Timestamp:   time.Now().Format(time.RFC3339),
	})
}

func (s *RegisterDebugSession) handleSense() {
	var line string
	err := s.dev.Do(func(dev *hmc5883l.Dev) error {
		var err error
		line, err = dev.Format()
		return err
	})
	if err != nil {
		s.sendError(fmt.Sprintf("sense error: %v", err))
		return
	}
	s.Conn.WriteJSON(RegisterResponse{
		Type:      "sample",
		Line:      line,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func programSteps(prog hmc5883l.RegisterProgram) []ProgramStep {
	steps := make([]ProgramStep, len(prog))
	for i, w := range prog {
		info, _ := hmc5883l.LookupRegister(w.Reg)
		steps[i] = ProgramStep{
			Address: fmt.Sprintf("0x%02X", w.Reg),
			Name:    info.Name,
			Value:   fmt.Sprintf("0x%02X", w.Value),
		}
	}
	return steps
}

func (s *RegisterDebugSession) sendRegisterMap() error {
	regs := hmc5883l.RegisterMap()
	mapped := make([]registerInfoJSON, len(regs))
	for i, r := range regs {
		mapped[i] = registerInfoJSON{
			Address:     fmt.Sprintf("0x%02X", r.Address),
			Name:        r.Name,
			Description: r.Description,
			Access:      r.Access,
			Default:     fmt.Sprintf("0x%02X", r.Default),
			BitFields:   r.BitFields,
		}
	}
	return s.Conn.WriteJSON(RegisterResponse{
		Type:        "register_map",
		RegisterMap: mapped,
	})
}

func (s *RegisterDebugSession) sendError(message string) {
	s.Conn.WriteJSON(RegisterResponse{
		Type:    "error",
		Message: message,
	})
}

// RunRegisterDebug serves the register debugger for the configured sensor.
func RunRegisterDebug() error {
	cfg := config.Get()

	src, err := sensors.NewHMCSource(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	mux := http.NewServeMux()
	mux.Handle("/ws", NewRegisterDebugHandler(src, cfg.RegisterDebugAllowWrite))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/register_debug.html")
	})

	addr := fmt.Sprintf(":%d", cfg.RegisterDebugPort)
	logf("register_debug", "listening on %s (writes allowed: %t)", addr, cfg.RegisterDebugAllowWrite)
	return http.ListenAndServe(addr, mux)
}
