package ad559x

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// codeMask covers the 12-bit DAC codes and ADC results.
const codeMask = 0x0FFF

// Device configures the converter pins and exposes them as analog and
// digital I/O on top of any register transport.
//
// Usage: NewDevice(ops, WithModeOverride(raw)), then Probe(ctx) before any I/O.
type Device struct {
	mx  sync.Mutex
	ops Ops

	defaults Modes
	modes    Modes
	offstate [NumChannels]Offstate
	override string
	// outcome of the last override attempt, nil when applied
	overrideErr error

	gpioMap uint8
	gpioOut uint8
	gpioIn  uint8
	gpioVal uint8
}

type DeviceConfig struct {
	Modes    Modes
	Offstate [NumChannels]Offstate
	Override string
}

type DeviceOption func(*DeviceConfig)

// WithModes sets the default channel modes used when no override applies.
func WithModes(modes Modes) DeviceOption {
	return func(c *DeviceConfig) {
		c.Modes = modes
	}
}

func WithOffstate(ch uint8, state Offstate) DeviceOption {
	return func(c *DeviceConfig) {
		if ch < NumChannels {
			c.Offstate[ch] = state
		}
	}
}

// WithModeOverride passes an override string (see ParseModeOverride) that
// replaces the default modes during Probe.
func WithModeOverride(raw string) DeviceOption {
	return func(c *DeviceConfig) {
		c.Override = raw
	}
}

func NewDevice(ops Ops, opts ...DeviceOption) *Device {
	config := &DeviceConfig{}
	for _, opt := range opts {
		opt(config)
	}
	return &Device{
		ops:      ops,
		defaults: config.Modes,
		modes:    config.Modes,
		offstate: config.Offstate,
		override: config.Override,
	}
}

// Modes returns the channel modes currently in force.
func (d *Device) Modes() Modes {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.modes
}

// OverrideResult reports why the mode override given to Probe was discarded,
// or nil if it was applied. See ParseModeOverride for the error values.
func (d *Device) OverrideResult() error {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.overrideErr
}

func (d *Device) updateDefaultModes(modes Modes) {
	d.modes = modes
}

// Probe applies the mode override, resets the chip and programs the channel modes.
// A rejected override is not an error: the default modes stay in force.
// Probe may be called again after Close.
func (d *Device) Probe(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.modes = d.defaults
	d.overrideErr = ApplyModeOverride(d.override, d.updateDefaultModes)
	if err := d.reset(ctx); err != nil {
		return err
	}
	return d.setChannelModes(ctx)
}

// Close puts every pin back into its off-state. The configured modes are
// kept for the next Probe.
func (d *Device) Close(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.modes = Modes{}
	return d.setChannelModes(ctx)
}

// Reset issues a software reset through ops. The chip needs 250us before
// it accepts further commands.
func Reset(ctx context.Context, ops Ops) error {
	if err := ops.RegWrite(ctx, RegReset, resetCode); err != nil {
		return fmt.Errorf("could not reset converter: %w", err)
	}
	return nil
}

func (d *Device) reset(ctx context.Context) error {
	if err := Reset(ctx, d.ops); err != nil {
		return err
	}
	timer := time.NewTimer(250 * time.Microsecond)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Device) setChannelModes(ctx context.Context) error {
	var dac, adc, pulldown, tristate uint8
	d.gpioMap, d.gpioOut, d.gpioIn, d.gpioVal = 0, 0, 0, 0
	for i, mode := range d.modes {
		bit := uint8(1) << i
		switch mode {
		case ModeDAC:
			dac |= bit
		case ModeADC:
			adc |= bit
		case ModeDACAndADC:
			dac |= bit
			adc |= bit
		case ModeGPIO:
			d.gpioMap |= bit
			// inputs until a direction is set
			d.gpioIn |= bit
		default:
			switch d.offstate[i] {
			case OffstateOutLow:
				d.gpioOut |= bit
			case OffstateOutHigh:
				d.gpioOut |= bit
				d.gpioVal |= bit
			case OffstateTristate:
				tristate |= bit
			default:
				pulldown |= bit
			}
		}
	}
	writes := []struct {
		reg Register
		val uint8
	}{
		{RegPulldown, pulldown},
		{RegTristate, tristate},
		{RegDACEn, dac},
		{RegADCEn, adc},
		{RegGPIOSet, d.gpioVal},
		{RegGPIOOutEn, d.gpioOut},
		{RegGPIOInEn, d.gpioIn},
	}
	for _, w := range writes {
		if err := d.ops.RegWrite(ctx, w.reg, uint16(w.val)); err != nil {
			return fmt.Errorf("could not program channel modes: %w", err)
		}
	}
	readBack, err := d.ops.RegRead(ctx, RegADCEn)
	if err != nil {
		return fmt.Errorf("could not verify channel modes: %w", err)
	}
	if uint8(readBack) != adc {
		return fmt.Errorf("%w: %s expected %#x, got %#x", ErrReadbackMismatch, RegADCEn, adc, uint8(readBack))
	}
	slog.Debug("channel modes programmed", "modes", d.modes, "dac", dac, "adc", adc, "gpio", d.gpioMap)
	return nil
}

// ReadADC returns the 12-bit conversion result of channel ch.
func (d *Device) ReadADC(ctx context.Context, ch uint8) (uint16, error) {
	if err := checkChannel(ch); err != nil {
		return 0, err
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	if !d.modes[ch].hasADC() {
		return 0, fmt.Errorf("%w: channel %d is %s", ErrChannelMode, ch, d.modes[ch])
	}
	raw, err := d.ops.ReadADC(ctx, ch)
	if err != nil {
		return 0, err
	}
	// bits 14:12 carry the channel the result belongs to
	if got := uint8(raw>>12) & 0x07; got != ch {
		return 0, fmt.Errorf("%w: expected %d, got %d", ErrADCChannel, ch, got)
	}
	return raw & codeMask, nil
}

// WriteDAC loads a 12-bit code into the DAC of channel ch.
func (d *Device) WriteDAC(ctx context.Context, ch uint8, value uint16) error {
	if err := checkChannel(ch); err != nil {
		return err
	}
	if value > codeMask {
		return fmt.Errorf("%w: %#x exceeds %#x", ErrInvalidValue, value, codeMask)
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	if !d.modes[ch].hasDAC() {
		return fmt.Errorf("%w: channel %d is %s", ErrChannelMode, ch, d.modes[ch])
	}
	return d.ops.WriteDAC(ctx, ch, value)
}

// GPIODirection switches a GPIO channel between input and output.
func (d *Device) GPIODirection(ctx context.Context, ch uint8, output bool) error {
	if err := checkChannel(ch); err != nil {
		return err
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	bit := uint8(1) << ch
	if d.gpioMap&bit == 0 {
		return fmt.Errorf("%w: channel %d is %s", ErrChannelMode, ch, d.modes[ch])
	}
	out, in := d.gpioOut, d.gpioIn
	if output {
		out |= bit
		in &^= bit
	} else {
		out &^= bit
		in |= bit
	}
	if err := d.ops.RegWrite(ctx, RegGPIOInEn, uint16(in)); err != nil {
		return err
	}
	// the input mask is live on the chip even if the output write fails
	d.gpioIn = in
	if err := d.ops.RegWrite(ctx, RegGPIOOutEn, uint16(out)); err != nil {
		return err
	}
	d.gpioOut = out
	return nil
}

// GPIOGet returns the level of a GPIO channel. Outputs report the last value set.
func (d *Device) GPIOGet(ctx context.Context, ch uint8) (bool, error) {
	if err := checkChannel(ch); err != nil {
		return false, err
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	bit := uint8(1) << ch
	if d.gpioMap&bit == 0 {
		return false, fmt.Errorf("%w: channel %d is %s", ErrChannelMode, ch, d.modes[ch])
	}
	if d.gpioOut&bit != 0 {
		return d.gpioVal&bit != 0, nil
	}
	val, err := d.ops.GPIORead(ctx)
	if err != nil {
		return false, err
	}
	return val&bit != 0, nil
}

func (d *Device) GPIOSet(ctx context.Context, ch uint8, high bool) error {
	if err := checkChannel(ch); err != nil {
		return err
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	bit := uint8(1) << ch
	if d.gpioOut&bit == 0 || d.gpioMap&bit == 0 {
		return fmt.Errorf("%w: channel %d is not a GPIO output", ErrChannelMode, ch)
	}
	val := d.gpioVal
	if high {
		val |= bit
	} else {
		val &^= bit
	}
	if err := d.ops.RegWrite(ctx, RegGPIOSet, uint16(val)); err != nil {
		return err
	}
	d.gpioVal = val
	return nil
}
