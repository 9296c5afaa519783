package i2c

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mklimuk/converters"
	gobot "gobot.io/x/gobot/v2/drivers/i2c"
)

var _ converters.I2CBus = &GobotBus{}

// gobotConn is the part of a gobot i2c.Connection used by GobotBus.
type gobotConn interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	ReadBlockData(reg uint8, b []byte) error
	Close() error
}

// GobotBus adapts a gobot I2C connector (e.g. the NanoPi adaptor) to converters.I2CBus.
// One gobot connection is opened lazily per device address.
type GobotBus struct {
	mx    sync.Mutex
	open  func(address int) (gobotConn, error)
	conns map[byte]gobotConn
}

func NewGobotBus(adaptor gobot.Connector, busNr int) *GobotBus {
	return newGobotBus(func(address int) (gobotConn, error) {
		return adaptor.GetI2cConnection(address, busNr)
	})
}

func newGobotBus(open func(address int) (gobotConn, error)) *GobotBus {
	return &GobotBus{open: open, conns: make(map[byte]gobotConn)}
}

func (b *GobotBus) conn(address byte) (gobotConn, error) {
	if c, ok := b.conns[address]; ok {
		return c, nil
	}
	c, err := b.open(int(address))
	if err != nil {
		return nil, fmt.Errorf("could not open gobot connection to %x: %w", address, err)
	}
	b.conns[address] = c
	return c, nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.conn(address)
	if err != nil {
		return err
	}
	n, err := c.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short read from i2c bus %x: %d", address, n)
	}
	return nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.conn(address)
	if err != nil {
		return err
	}
	n, err := c.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short write to i2c bus %x: %d", address, n)
	}
	return nil
}

// TxAddr uses an I2C block read for single byte commands, which keeps the
// repeated start between the command and the data. Longer writes fall back to
// two separate transfers.
func (b *GobotBus) TxAddr(ctx context.Context, address byte, w, r []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.conn(address)
	if err != nil {
		return err
	}
	if len(w) == 1 {
		if err := c.ReadBlockData(w[0], r); err != nil {
			return fmt.Errorf("could not transfer on i2c bus %x: %w", address, err)
		}
		return nil
	}
	if _, err := c.Write(w); err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	if _, err := c.Read(r); err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) Release(ctx context.Context) error {
	return nil
}

func (b *GobotBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var errs []error
	for addr, c := range b.conns {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("could not close connection to %x: %w", addr, err))
		}
		delete(b.conns, addr)
	}
	return errors.Join(errs...)
}
