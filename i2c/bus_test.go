package i2c

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/mklimuk/converters/ad559x"
)

func TestGenericBus_AD5593RTransactions(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x10, W: []byte{0x13, 0x08, 0x00}},
			{Addr: 0x10, W: []byte{0x02, 0x00, 0x04}},
			{Addr: 0x10, W: []byte{0x40}, R: []byte{0x20, 0x7F}},
			{Addr: 0x10, W: []byte{0x74}, R: []byte{0x00, 0x04}},
			{Addr: 0x10, W: []byte{0x60}, R: []byte{0x00, 0xA5}},
		},
		DontPanic: true,
	}
	ctx := context.Background()
	d := ad559x.NewAD5593R(newGenericBus(pb))

	require.NoError(t, d.WriteDAC(ctx, 3, 0x0800))
	val, err := d.ReadADC(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x207F), val)
	val, err = d.RegRead(ctx, ad559x.RegADCEn)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0004), val)
	gpio, err := d.GPIORead(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xA5), gpio)

	assert.NoError(t, pb.Close())
}

func TestGenericBus_ErrorWrapping(t *testing.T) {
	// playback with no recorded operations rejects every transfer
	pb := &i2ctest.Playback{DontPanic: true}
	b := newGenericBus(pb)
	err := b.WriteToAddr(context.Background(), 0x10, []byte{0x00})
	assert.Error(t, err)
	err = b.TxAddr(context.Background(), 0x10, []byte{0x70}, make([]byte, 2))
	assert.Error(t, err)
}

type fakeGobotConn struct {
	written [][]byte
	block   map[uint8][]byte
	closed  bool
	err     error
}

func (f *fakeGobotConn) Read(b []byte) (int, error) {
	return len(b), f.err
}

func (f *fakeGobotConn) Write(b []byte) (int, error) {
	f.written = append(f.written, append([]byte(nil), b...))
	return len(b), f.err
}

func (f *fakeGobotConn) ReadBlockData(reg uint8, b []byte) error {
	copy(b, f.block[reg])
	return f.err
}

func (f *fakeGobotConn) Close() error {
	f.closed = true
	return nil
}

func TestGobotBus_AD5593R(t *testing.T) {
	conn := &fakeGobotConn{block: map[uint8][]byte{0x70 | 0x05: {0x00, 0x0F}}}
	opened := 0
	bus := newGobotBus(func(address int) (gobotConn, error) {
		opened++
		assert.Equal(t, 0x11, address)
		return conn, nil
	})
	ctx := context.Background()
	d := ad559x.NewAD5593R(bus, ad559x.WithAddress(0x11))

	require.NoError(t, d.RegWrite(ctx, ad559x.RegDACEn, 0x000F))
	val, err := d.RegRead(ctx, ad559x.RegDACEn)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x000F), val)
	assert.Equal(t, [][]byte{{0x05, 0x00, 0x0F}}, conn.written)
	assert.Equal(t, 1, opened)

	require.NoError(t, bus.Close())
	assert.True(t, conn.closed)
}

func TestGobotBus_OpenError(t *testing.T) {
	errOpen := errors.New("no such bus")
	bus := newGobotBus(func(address int) (gobotConn, error) {
		return nil, errOpen
	})
	err := bus.WriteToAddr(context.Background(), 0x10, []byte{0x00})
	assert.ErrorIs(t, err, errOpen)
}
