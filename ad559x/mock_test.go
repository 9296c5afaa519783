package ad559x

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockI2CBus is a mock implementation of converters.I2CBus using testify/mock
type MockI2CBus struct {
	mock.Mock
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockI2CBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
		copy(buffer, data)
	}
	return args.Error(1)
}

func (m *MockI2CBus) TxAddr(ctx context.Context, address byte, w, r []byte) error {
	args := m.Called(ctx, address, w)
	// Copy mock data to buffer if provided
	if data, ok := args.Get(0).([]byte); ok && len(data) <= len(r) {
		copy(r, data)
	}
	return args.Error(1)
}

func (m *MockI2CBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type regWrite struct {
	reg Register
	val uint16
}

// fakeOps records register traffic and serves register reads from a map.
type fakeOps struct {
	writes  []regWrite
	dac     map[uint8]uint16
	regs    map[Register]uint16
	adc     map[uint8]uint16
	gpio    uint8
	failOn  Register
	failErr error
}

func newFakeOps() *fakeOps {
	return &fakeOps{
		dac:  make(map[uint8]uint16),
		regs: make(map[Register]uint16),
		adc:  make(map[uint8]uint16),
	}
}

func (f *fakeOps) WriteDAC(ctx context.Context, ch uint8, value uint16) error {
	f.dac[ch] = value
	return nil
}

func (f *fakeOps) ReadADC(ctx context.Context, ch uint8) (uint16, error) {
	return f.adc[ch], nil
}

func (f *fakeOps) RegWrite(ctx context.Context, reg Register, value uint16) error {
	if f.failErr != nil && reg == f.failOn {
		return f.failErr
	}
	f.writes = append(f.writes, regWrite{reg, value})
	f.regs[reg] = value
	return nil
}

func (f *fakeOps) RegRead(ctx context.Context, reg Register) (uint16, error) {
	return f.regs[reg], nil
}

func (f *fakeOps) GPIORead(ctx context.Context) (uint8, error) {
	return f.gpio, nil
}
