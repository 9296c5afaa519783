package spi

import (
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Port is an open SPI port connected with fixed clock, mode and word size.
type Port struct {
	spi.Conn
	port spi.PortCloser
}

// OpenPort opens a host SPI port (e.g. "/dev/spidev0.0" or "SPI0.0", empty for the first one)
// and connects to it with 8-bit words.
func OpenPort(dev string, speed physic.Frequency, mode spi.Mode) (*Port, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("host driver loaded", "driver", driver.String())
	}
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open spi port: %w", err)
	}
	return connect(p, speed, mode)
}

func connect(p spi.PortCloser, speed physic.Frequency, mode spi.Mode) (*Port, error) {
	c, err := p.Connect(speed, mode, 8)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("could not connect to spi port %s: %w", p, err)
	}
	slog.Debug("spi port connected", "port", p.String(), "speed", speed.String(), "mode", mode.String())
	return &Port{Conn: c, port: p}, nil
}

func (p *Port) Close() error {
	return p.port.Close()
}
