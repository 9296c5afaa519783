package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/converters"
)

// scriptedHID records requests and answers with prepared responses in order.
type scriptedHID struct {
	requests  [][]byte
	responses [][]byte
}

func (s *scriptedHID) Write(b []byte) (int, error) {
	s.requests = append(s.requests, append([]byte(nil), b...))
	return len(b), nil
}

func (s *scriptedHID) Read(b []byte) (int, error) {
	if len(s.responses) == 0 {
		return 0, errors.New("no response scripted")
	}
	copy(b, s.responses[0])
	s.responses = s.responses[1:]
	return len(b), nil
}

func (s *scriptedHID) Close() error {
	return nil
}

func response(data ...byte) []byte {
	buf := make([]byte, reportSize)
	copy(buf, data)
	return buf
}

func newScripted(s *scriptedHID) *MCP2221 {
	d := NewMCP2221(WithResponseWait(0))
	d.open = func() (hidDevice, error) { return s, nil }
	return d
}

func TestMCP2221_WriteToAddr(t *testing.T) {
	s := &scriptedHID{responses: [][]byte{response(cmdI2CWrite, 0x00)}}
	err := newScripted(s).WriteToAddr(context.Background(), 0x10, []byte{0x12, 0x0A, 0xBC})
	require.NoError(t, err)
	require.Len(t, s.requests, 1)
	assert.Equal(t, []byte{0x90, 0x03, 0x00, 0x20, 0x12, 0x0A, 0xBC}, s.requests[0][:7])
}

func TestMCP2221_WriteBusy(t *testing.T) {
	s := &scriptedHID{responses: [][]byte{response(cmdI2CWrite, responseBusy)}}
	err := newScripted(s).WriteToAddr(context.Background(), 0x10, []byte{0x00})
	assert.ErrorIs(t, err, converters.ErrBusBusy)
}

func TestMCP2221_TxAddr(t *testing.T) {
	s := &scriptedHID{responses: [][]byte{
		response(cmdI2CWriteNoStop, 0x00),
		response(cmdI2CReadRepStart, 0x00),
		response(cmdGetI2CData, 0x00, 0x00, 0x02, 0xAB, 0xCD),
	}}
	r := make([]byte, 2)
	err := newScripted(s).TxAddr(context.Background(), 0x11, []byte{0x70}, r)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0xCD}, r)
	require.Len(t, s.requests, 3)
	assert.Equal(t, []byte{0x94, 0x01, 0x00, 0x22, 0x70}, s.requests[0][:5])
	assert.Equal(t, []byte{0x93, 0x02, 0x00, 0x23}, s.requests[1][:4])
	assert.Equal(t, byte(0x40), s.requests[2][0])
}

func TestMCP2221_ReadSizeMismatch(t *testing.T) {
	s := &scriptedHID{responses: [][]byte{
		response(cmdI2CRead, 0x00),
		response(cmdGetI2CData, 0x00, 0x00, responseSizeError),
	}}
	err := newScripted(s).ReadFromAddr(context.Background(), 0x10, make([]byte, 2))
	assert.Error(t, err)
}

func TestMCP2221_SetSpeed(t *testing.T) {
	s := &scriptedHID{responses: [][]byte{response(cmdStatusSetParams, 0x00)}}
	require.NoError(t, newScripted(s).Init(context.Background()))
	assert.Equal(t, []byte{0x10, 0x00, 0x10, 0x20, 117}, s.requests[0][:5])
}

func TestMCP2221_Status(t *testing.T) {
	buf := response(cmdStatusSetParams, 0x00)
	buf[9], buf[10] = 0x03, 0x00
	buf[11], buf[12] = 0x02, 0x00
	buf[14] = 117
	buf[16], buf[17] = 0x20, 0x00
	s := &scriptedHID{responses: [][]byte{buf}}
	status, err := newScripted(s).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint16(3), status.LastWriteRequestedSize)
	assert.Equal(t, uint16(2), status.LastWriteSentSize)
	assert.Equal(t, 117, status.I2CSpeedDivider)
	assert.Equal(t, "2000", status.CurrentAddress)
}
