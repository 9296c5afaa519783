// Package converters holds the bus capabilities shared by the converter drivers
// and the adapters that implement them.
package converters

import (
	"context"
	"errors"
)

// ErrBusBusy is returned by adapters whose I2C engine has not finished the previous command.
var ErrBusBusy = errors.New("I2C engine is busy (command not completed)")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// AddressableTransceiver writes w and reads into r within a single bus transaction
// (repeated start between the two phases).
type AddressableTransceiver interface {
	TxAddr(ctx context.Context, address byte, w, r []byte) error
}

// I2CBus is everything a register-mapped I2C converter needs from its bus.
type I2CBus interface {
	AddressableReader
	AddressableWriter
	AddressableTransceiver
}
