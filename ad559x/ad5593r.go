package ad559x

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/mklimuk/converters"
)

// AD5593R I2C address with A0 pulled low; A0 high selects 0x11.
const DefaultAD5593RAddress = 0x10

// Pointer byte modes (high nibble of the first byte of every transaction).
const (
	ad5593rModeConf         byte = 0 << 4
	ad5593rModeDACWrite     byte = 1 << 4
	ad5593rModeADCReadback  byte = 4 << 4
	ad5593rModeDACReadback  byte = 5 << 4
	ad5593rModeGPIOReadback byte = 6 << 4
	ad5593rModeRegReadback  byte = 7 << 4
)

var _ Ops = &AD5593R{}

// AD5593R is the I2C register transport of the AD5593R.
//
// Every write is a pointer byte followed by a big-endian 16-bit word and every
// read is a pointer byte followed by a repeated start and a 2-byte big-endian read.
type AD5593R struct {
	transport converters.I2CBus
	address   byte
}

type AD5593RConfig struct {
	Address byte
}

type AD5593RConfigOption func(*AD5593RConfig)

func WithAddress(address byte) AD5593RConfigOption {
	return func(c *AD5593RConfig) {
		c.Address = address
	}
}

func NewAD5593R(bus converters.I2CBus, opts ...AD5593RConfigOption) *AD5593R {
	config := &AD5593RConfig{
		Address: DefaultAD5593RAddress,
	}
	for _, opt := range opts {
		opt(config)
	}
	return &AD5593R{transport: bus, address: config.Address}
}

func (d *AD5593R) Address() byte {
	return d.address
}

func (d *AD5593R) WriteDAC(ctx context.Context, ch uint8, value uint16) error {
	if err := checkChannel(ch); err != nil {
		return err
	}
	if err := d.writeWord(ctx, ad5593rModeDACWrite|ch, value); err != nil {
		return fmt.Errorf("ad5593r: dac %d write failed: %w", ch, err)
	}
	return nil
}

// ReadADC is two transactions: the sequence register write must precede the
// readback and the readback is skipped when the write fails.
func (d *AD5593R) ReadADC(ctx context.Context, ch uint8) (uint16, error) {
	if err := checkChannel(ch); err != nil {
		return 0, err
	}
	err := d.writeWord(ctx, ad5593rModeConf|byte(RegADCSeq), 1<<ch)
	if err != nil {
		return 0, fmt.Errorf("ad5593r: adc %d sequence write failed: %w", ch, err)
	}
	val, err := d.readWord(ctx, ad5593rModeADCReadback)
	if err != nil {
		return 0, fmt.Errorf("ad5593r: adc %d readback failed: %w", ch, err)
	}
	return val, nil
}

func (d *AD5593R) RegWrite(ctx context.Context, reg Register, value uint16) error {
	if err := d.writeWord(ctx, ad5593rModeConf|byte(reg&0x0F), value); err != nil {
		return fmt.Errorf("ad5593r: %s write failed: %w", reg, err)
	}
	return nil
}

func (d *AD5593R) RegRead(ctx context.Context, reg Register) (uint16, error) {
	val, err := d.readWord(ctx, ad5593rModeRegReadback|byte(reg&0x0F))
	if err != nil {
		return 0, fmt.Errorf("ad5593r: %s read failed: %w", reg, err)
	}
	return val, nil
}

// GPIORead reads a full word but only the low byte carries pin states.
func (d *AD5593R) GPIORead(ctx context.Context) (uint8, error) {
	val, err := d.readWord(ctx, ad5593rModeGPIOReadback)
	if err != nil {
		return 0, fmt.Errorf("ad5593r: gpio readback failed: %w", err)
	}
	return uint8(val), nil
}

// ReadDACBack returns the code currently loaded in the DAC of channel ch.
func (d *AD5593R) ReadDACBack(ctx context.Context, ch uint8) (uint16, error) {
	if err := checkChannel(ch); err != nil {
		return 0, err
	}
	val, err := d.readWord(ctx, ad5593rModeDACReadback|ch)
	if err != nil {
		return 0, fmt.Errorf("ad5593r: dac %d readback failed: %w", ch, err)
	}
	return val, nil
}

func (d *AD5593R) writeWord(ctx context.Context, cmd byte, value uint16) error {
	buf := make([]byte, 3)
	buf[0] = cmd
	binary.BigEndian.PutUint16(buf[1:], value)
	return d.transport.WriteToAddr(ctx, d.address, buf)
}

func (d *AD5593R) readWord(ctx context.Context, cmd byte) (uint16, error) {
	resp := make([]byte, 2)
	err := d.transport.TxAddr(ctx, d.address, []byte{cmd}, resp)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(resp), nil
}
