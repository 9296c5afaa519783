package spi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/mklimuk/converters/ad559x"
)

func TestPort_AD5592RDacWrite(t *testing.T) {
	pb := &spitest.Playback{Playback: conntest.Playback{
		Ops:       []conntest.IO{{W: []byte{0x80, 0x01}}},
		DontPanic: true,
	}}
	p, err := connect(pb, ad559x.AD5592RMaxSpeed, ad559x.AD5592RMode)
	require.NoError(t, err)

	require.NoError(t, ad559x.NewAD5592R(p).WriteDAC(context.Background(), 0, 1))
	assert.NoError(t, p.Close())
}
