package ad559x

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

func playback(t *testing.T, ops ...conntest.IO) (spi.Conn, func()) {
	p := &spitest.Playback{Playback: conntest.Playback{Ops: ops, DontPanic: true}}
	c, err := p.Connect(AD5592RMaxSpeed, AD5592RMode, 8)
	require.NoError(t, err)
	return c, func() { assert.NoError(t, p.Close()) }
}

var nop = []byte{0x00, 0x00}

func TestAD5592R_WriteDAC(t *testing.T) {
	c, done := playback(t, conntest.IO{W: []byte{0xBA, 0xBC}})
	defer done()
	require.NoError(t, NewAD5592R(c).WriteDAC(context.Background(), 3, 0x0ABC))
}

func TestAD5592R_ReadADC(t *testing.T) {
	c, done := playback(t,
		conntest.IO{W: []byte{0x10, 0x04}},
		conntest.IO{W: nop, R: []byte{0xFF, 0xFF}},
		conntest.IO{W: nop, R: []byte{0x2A, 0xBC}},
	)
	defer done()
	val, err := NewAD5592R(c).ReadADC(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x2ABC), val)
}

func TestAD5592R_RegRead(t *testing.T) {
	c, done := playback(t,
		conntest.IO{W: []byte{0x38, 0x50}},
		conntest.IO{W: nop, R: []byte{0x00, 0x0F}},
	)
	defer done()
	val, err := NewAD5592R(c).RegRead(context.Background(), RegADCEn)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x000F), val)
}

func TestAD5592R_GPIOReadKeepsInputMask(t *testing.T) {
	c, done := playback(t,
		conntest.IO{W: []byte{0x50, 0x0F}},
		conntest.IO{W: []byte{0x54, 0x0F}},
		conntest.IO{W: nop, R: []byte{0x12, 0x34}},
	)
	defer done()
	d := NewAD5592R(c)
	ctx := context.Background()
	require.NoError(t, d.RegWrite(ctx, RegGPIOInEn, 0x0F))
	val, err := d.GPIORead(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x34), val)
}

type failingConn struct {
	calls int
}

func (f *failingConn) String() string { return "failing" }

func (f *failingConn) Duplex() conn.Duplex { return conn.Full }

func (f *failingConn) Tx(w, r []byte) error {
	f.calls++
	return errBus
}

func (f *failingConn) TxPackets(p []spi.Packet) error {
	f.calls++
	return errBus
}

func TestAD5592R_BusErrorPropagation(t *testing.T) {
	ctx := context.Background()
	c := &failingConn{}
	d := NewAD5592R(c)

	_, err := d.ReadADC(ctx, 0)
	assert.ErrorIs(t, err, errBus)
	assert.Equal(t, 1, c.calls)

	_, err = d.RegRead(ctx, RegCtrl)
	assert.ErrorIs(t, err, errBus)
	assert.Equal(t, 2, c.calls)

	_, err = d.GPIORead(ctx)
	assert.ErrorIs(t, err, errBus)
	assert.ErrorIs(t, d.WriteDAC(ctx, 0, 1), errBus)
	assert.ErrorIs(t, d.RegWrite(ctx, RegCtrl, 1), errBus)
	assert.Equal(t, 5, c.calls)
}

func TestAD5592R_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &failingConn{}
	d := NewAD5592R(c)

	assert.ErrorIs(t, d.WriteDAC(ctx, 0, 1), context.Canceled)
	_, err := d.ReadADC(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, d.RegWrite(ctx, RegCtrl, 1), context.Canceled)
	_, err = d.RegRead(ctx, RegCtrl)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = d.GPIORead(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.calls)
}
