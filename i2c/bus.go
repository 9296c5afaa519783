// Package i2c provides converters.I2CBus implementations for host buses.
package i2c

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/mklimuk/converters"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var _ converters.I2CBus = &GenericBus{}

// GenericBus is an I2C bus exposed by the host kernel (e.g. /dev/i2c-1).
type GenericBus struct {
	bus i2c.BusCloser
}

// NewGenericBus loads the periph host drivers and opens dev. An empty dev
// selects the first bus found.
func NewGenericBus(dev string) (*GenericBus, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("host driver loaded", "driver", driver.String())
	}
	for _, failure := range state.Failed {
		slog.Debug("host driver failed", "driver", failure.D.String(), "error", failure.Err)
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus %q: %w", dev, err)
	}
	return newGenericBus(bus), nil
}

func newGenericBus(bus i2c.BusCloser) *GenericBus {
	return &GenericBus{bus: bus}
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.tx(ctx, "read from", address, nil, buffer)
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.tx(ctx, "write to", address, buffer, nil)
}

// TxAddr relies on the kernel combining both phases into one transfer with a repeated start.
func (b *GenericBus) TxAddr(ctx context.Context, address byte, w, r []byte) error {
	return b.tx(ctx, "transfer with", address, w, r)
}

func (b *GenericBus) tx(ctx context.Context, op string, address byte, w, r []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.bus.Tx(uint16(address), w, r); err != nil {
		return fmt.Errorf("could not %s i2c device %#x: %w", op, address, err)
	}
	slog.Debug("i2c tx", "addr", fmt.Sprintf("%#x", address), "w", hex.EncodeToString(w), "r", hex.EncodeToString(r))
	return nil
}

func (b *GenericBus) SetSpeed(f physic.Frequency) error {
	return b.bus.SetSpeed(f)
}

// Release is a no-op: the kernel driver ends every transfer with a stop condition.
func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}
