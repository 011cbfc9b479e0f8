// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmc5883l

// BitField describes a field inside a register.
type BitField struct {
	Bits        string `json:"bits"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Values      string `json:"values,omitempty"`
}

// RegisterInfo is register metadata for the register debugger.
type RegisterInfo struct {
	Address     byte       `json:"-"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Access      string     `json:"access"` // "R", "W", "RW"
	Default     byte       `json:"-"`
	BitFields   []BitField `json:"bit_fields,omitempty"`
}

// Writable reports whether the register accepts writes.
func (r RegisterInfo) Writable() bool {
	return r.Access == "W" || r.Access == "RW"
}

// RegisterMap returns metadata for all HMC5883L registers, in address order.
func RegisterMap() []RegisterInfo {
	return []RegisterInfo{
		{Address: RegConfigA, Name: "CRA", Description: "Configuration Register A", Access: "RW", Default: 0x10,
			BitFields: []BitField{
				{Bits: "7", Name: "CRA7", Description: "Reserved, must be cleared", Values: "0"},
				{Bits: "6:5", Name: "MA", Description: "Samples averaged per output", Values: "0=1, 1=2, 2=4, 3=8"},
				{Bits: "4:2", Name: "DO", Description: "Data output rate", Values: "0=0.75Hz, 1=1.5Hz, 2=3Hz, 3=7.5Hz, 4=15Hz, 5=30Hz, 6=75Hz"},
				{Bits: "1:0", Name: "MS", Description: "Measurement bias", Values: "0=Normal, 1=Positive, 2=Negative"},
			}},
		{Address: RegConfigB, Name: "CRB", Description: "Configuration Register B (gain)", Access: "RW", Default: 0x20,
			BitFields: []BitField{
				{Bits: "7:5", Name: "GN", Description: "Gain / field range", Values: "0=±0.88Ga, 1=±1.3Ga, 2=±1.9Ga, 3=±2.5Ga, 4=±4.0Ga, 5=±4.7Ga, 6=±5.6Ga, 7=±8.1Ga"},
				{Bits: "4:0", Name: "CRB", Description: "Reserved, must be cleared", Values: "0"},
			}},
		{Address: RegMode, Name: "MODE", Description: "Mode Register", Access: "RW", Default: 0x01,
			BitFields: []BitField{
				{Bits: "7", Name: "HS", Description: "High speed I2C (3400kHz)", Values: "0=Disabled, 1=Enabled"},
				{Bits: "1:0", Name: "MD", Description: "Operating mode", Values: "0=Continuous, 1=Single, 2=Idle, 3=Idle"},
			}},
		{Address: RegDataXMSB, Name: "DXRA", Description: "Data Output X MSB", Access: "R"},
		{Address: 0x04, Name: "DXRB", Description: "Data Output X LSB", Access: "R"},
		{Address: 0x05, Name: "DZRA", Description: "Data Output Z MSB", Access: "R"},
		{Address: 0x06, Name: "DZRB", Description: "Data Output Z LSB", Access: "R"},
		{Address: 0x07, Name: "DYRA", Description: "Data Output Y MSB", Access: "R"},
		{Address: 0x08, Name: "DYRB", Description: "Data Output Y LSB", Access: "R"},
		{Address: RegStatus, Name: "SR", Description: "Status Register", Access: "R",
			BitFields: []BitField{
				{Bits: "1", Name: "LOCK", Description: "Data output registers locked until all six are read"},
				{Bits: "0", Name: "RDY", Description: "New data ready"},
			}},
		{Address: RegIDA, Name: "IRA", Description: "Identification Register A", Access: "R", Default: 'H'},
		{Address: RegIDB, Name: "IRB", Description: "Identification Register B", Access: "R", Default: '4'},
		{Address: RegIDC, Name: "IRC", Description: "Identification Register C", Access: "R", Default: '3'},
	}
}

// LookupRegister returns the metadata for addr.
func LookupRegister(addr byte) (RegisterInfo, bool) {
	for _, r := range RegisterMap() {
		if r.Address == addr {
			return r, true
		}
	}
	return RegisterInfo{}, false
}
