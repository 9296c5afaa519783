// Package ad559x drives the Analog Devices AD5592R/AD5593R 8-channel configurable
// ADC/DAC/GPIO converters.
//
// The AD5593R sits on a two-wire (I2C) bus and the AD5592R on a clocked serial
// (SPI) bus. Both expose the same register map, so the higher level Device only
// depends on the Ops interface and never on the physical bus.
//
// Datasheets:
//
//	https://www.analog.com/media/en/technical-documentation/data-sheets/AD5593R.pdf
//	https://www.analog.com/media/en/technical-documentation/data-sheets/AD5592R.pdf
package ad559x

import (
	"context"
	"errors"
	"fmt"
)

// NumChannels is the number of I/O pins of every chip in the family.
const NumChannels = 8

// Register is a control register address (4 bits on the wire).
type Register byte

const (
	RegNOP         Register = 0x0
	RegDACReadback Register = 0x1
	RegADCSeq      Register = 0x2
	RegCtrl        Register = 0x3
	RegADCEn       Register = 0x4
	RegDACEn       Register = 0x5
	RegPulldown    Register = 0x6
	RegLDAC        Register = 0x7
	RegGPIOOutEn   Register = 0x8
	RegGPIOSet     Register = 0x9
	RegGPIOInEn    Register = 0xA
	RegPD          Register = 0xB
	RegOpenDrain   Register = 0xC
	RegTristate    Register = 0xD
	RegReset       Register = 0xF
)

// resetCode written to RegReset triggers a software reset.
const resetCode = 0x0DAC

var registerNames = map[Register]string{
	RegNOP:         "NOP",
	RegDACReadback: "DAC_READBACK",
	RegADCSeq:      "ADC_SEQ",
	RegCtrl:        "CTRL",
	RegADCEn:       "ADC_EN",
	RegDACEn:       "DAC_EN",
	RegPulldown:    "PULLDOWN",
	RegLDAC:        "LDAC",
	RegGPIOOutEn:   "GPIO_OUT_EN",
	RegGPIOSet:     "GPIO_SET",
	RegGPIOInEn:    "GPIO_IN_EN",
	RegPD:          "PD",
	RegOpenDrain:   "OPEN_DRAIN",
	RegTristate:    "TRISTATE",
	RegReset:       "RESET",
}

func (r Register) String() string {
	if name, ok := registerNames[r]; ok {
		return name
	}
	return fmt.Sprintf("REG(%#x)", byte(r))
}

// ChannelMode is the role assigned to a single I/O pin.
type ChannelMode uint8

const (
	ModeUnused    ChannelMode = 0
	ModeADC       ChannelMode = 1
	ModeDAC       ChannelMode = 2
	ModeDACAndADC ChannelMode = 3
	ModeGPIO      ChannelMode = 8
)

func (m ChannelMode) String() string {
	switch m {
	case ModeUnused:
		return "UNUSED"
	case ModeADC:
		return "ADC"
	case ModeDAC:
		return "DAC"
	case ModeDACAndADC:
		return "DAC+ADC"
	case ModeGPIO:
		return "GPIO"
	default:
		return fmt.Sprintf("MODE(%d)", uint8(m))
	}
}

func (m ChannelMode) hasADC() bool {
	return m == ModeADC || m == ModeDACAndADC
}

func (m ChannelMode) hasDAC() bool {
	return m == ModeDAC || m == ModeDACAndADC
}

// Modes holds one mode per channel, indexed by channel number.
type Modes [NumChannels]ChannelMode

// Offstate is the state of a pin that is not used by any function.
type Offstate uint8

const (
	OffstatePulldown Offstate = iota
	OffstateOutLow
	OffstateOutHigh
	OffstateTristate
)

func (o Offstate) String() string {
	switch o {
	case OffstatePulldown:
		return "pulldown"
	case OffstateOutLow:
		return "out-low"
	case OffstateOutHigh:
		return "out-high"
	case OffstateTristate:
		return "tristate"
	default:
		return fmt.Sprintf("offstate(%d)", uint8(o))
	}
}

var (
	ErrInvalidChannel   = errors.New("ad559x: channel out of range")
	ErrInvalidValue     = errors.New("ad559x: value out of range")
	ErrChannelMode      = errors.New("ad559x: operation not supported in current channel mode")
	ErrReadbackMismatch = errors.New("ad559x: register readback mismatch")
	ErrADCChannel       = errors.New("ad559x: conversion result belongs to another channel")
)

// Ops is the register transport of one chip. Implementations perform no
// retries and no caching; every bus failure is returned to the caller.
// Callers are responsible for serializing concurrent use.
type Ops interface {
	// WriteDAC loads a raw code into the DAC of channel ch.
	WriteDAC(ctx context.Context, ch uint8, value uint16) error
	// ReadADC selects channel ch in the ADC sequence register and reads back one conversion.
	ReadADC(ctx context.Context, ch uint8) (uint16, error)
	RegWrite(ctx context.Context, reg Register, value uint16) error
	RegRead(ctx context.Context, reg Register) (uint16, error)
	// GPIORead returns the state of the GPIO input pins.
	GPIORead(ctx context.Context) (uint8, error)
}

func checkChannel(ch uint8) error {
	if ch >= NumChannels {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	return nil
}

// ParseOffstate is the inverse of Offstate.String.
func ParseOffstate(s string) (Offstate, error) {
	for o := OffstatePulldown; o <= OffstateTristate; o++ {
		if o.String() == s {
			return o, nil
		}
	}
	return OffstatePulldown, fmt.Errorf("ad559x: unknown offstate %q", s)
}
