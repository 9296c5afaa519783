package ad559x

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// AD5592R clocks data on the falling edge with SCLK idling high.
const (
	AD5592RMode     = spi.Mode2
	AD5592RMaxSpeed = 20 * physic.MegaHertz
)

const (
	ad5592rDACWrite       uint16 = 1 << 15
	ad5592rReadbackEnable uint16 = 1 << 6
	ad5592rGPIOReadback   uint16 = 1 << 10
)

var _ Ops = &AD5592R{}

// AD5592R is the SPI register transport of the AD5592R.
//
// Every frame is a single 16-bit big-endian word framed by chip select.
// A cancelled context stops the operation before the next frame.
// Readbacks are clocked out by the NOP frame that follows the request.
type AD5592R struct {
	conn spi.Conn

	mx     sync.Mutex
	gpioIn uint8 // last GPIO_IN_EN mask written through this transport
}

func NewAD5592R(conn spi.Conn) *AD5592R {
	return &AD5592R{conn: conn}
}

func (d *AD5592R) WriteDAC(ctx context.Context, ch uint8, value uint16) error {
	if err := checkChannel(ch); err != nil {
		return err
	}
	if err := d.write(ctx, ad5592rDACWrite|uint16(ch)<<12|value&0x0FFF); err != nil {
		return fmt.Errorf("ad5592r: dac %d write failed: %w", ch, err)
	}
	return nil
}

// ReadADC discards the first NOP frame: the conversion started by the
// sequence write is only available one frame later.
func (d *AD5592R) ReadADC(ctx context.Context, ch uint8) (uint16, error) {
	if err := checkChannel(ch); err != nil {
		return 0, err
	}
	if err := d.write(ctx, regFrame(RegADCSeq, 1<<ch)); err != nil {
		return 0, fmt.Errorf("ad5592r: adc %d sequence write failed: %w", ch, err)
	}
	if _, err := d.readNOP(ctx); err != nil {
		return 0, fmt.Errorf("ad5592r: adc %d conversion failed: %w", ch, err)
	}
	val, err := d.readNOP(ctx)
	if err != nil {
		return 0, fmt.Errorf("ad5592r: adc %d readback failed: %w", ch, err)
	}
	return val, nil
}

func (d *AD5592R) RegWrite(ctx context.Context, reg Register, value uint16) error {
	if err := d.write(ctx, regFrame(reg, value)); err != nil {
		return fmt.Errorf("ad5592r: %s write failed: %w", reg, err)
	}
	if reg&0x0F == RegGPIOInEn {
		d.mx.Lock()
		d.gpioIn = uint8(value)
		d.mx.Unlock()
	}
	return nil
}

func (d *AD5592R) RegRead(ctx context.Context, reg Register) (uint16, error) {
	err := d.write(ctx, regFrame(RegLDAC, ad5592rReadbackEnable|uint16(reg&0x0F)<<2))
	if err != nil {
		return 0, fmt.Errorf("ad5592r: %s readback select failed: %w", reg, err)
	}
	val, err := d.readNOP(ctx)
	if err != nil {
		return 0, fmt.Errorf("ad5592r: %s read failed: %w", reg, err)
	}
	return val, nil
}

// GPIORead re-writes the input enable register with the readback bit set,
// keeping the input mask previously written through RegWrite.
func (d *AD5592R) GPIORead(ctx context.Context) (uint8, error) {
	d.mx.Lock()
	in := d.gpioIn
	d.mx.Unlock()
	if err := d.write(ctx, regFrame(RegGPIOInEn, ad5592rGPIOReadback|uint16(in))); err != nil {
		return 0, fmt.Errorf("ad5592r: gpio readback select failed: %w", err)
	}
	val, err := d.readNOP(ctx)
	if err != nil {
		return 0, fmt.Errorf("ad5592r: gpio readback failed: %w", err)
	}
	return uint8(val), nil
}

func regFrame(reg Register, value uint16) uint16 {
	return uint16(reg&0x0F)<<11 | value&0x07FF
}

func (d *AD5592R) write(ctx context.Context, frame uint16) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w := make([]byte, 2)
	binary.BigEndian.PutUint16(w, frame)
	return d.conn.Tx(w, nil)
}

func (d *AD5592R) readNOP(ctx context.Context) (uint16, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	w := make([]byte, 2)
	r := make([]byte, 2)
	if err := d.conn.Tx(w, r); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(r), nil
}
