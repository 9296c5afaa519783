package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/converters"
	"github.com/mklimuk/converters/ad559x"
	"github.com/mklimuk/converters/adapter"
	"github.com/mklimuk/converters/i2c"
	"github.com/mklimuk/converters/pkg/config"
	"github.com/mklimuk/converters/spi"
)

// loadConfig reads the configuration file and applies command line overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("adapter") {
		cfg.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		cfg.Device = c.String("device")
	}
	if c.IsSet("bus") {
		cfg.BusNumber = c.Int("bus")
	}
	if c.IsSet("address") {
		addr, err := strconv.ParseUint(c.String("address"), 0, 7)
		if err != nil {
			return cfg, fmt.Errorf("could not parse address: %w", err)
		}
		cfg.Address = uint8(addr)
	}
	if c.IsSet("ch-mode") {
		cfg.ChannelModes = c.String("ch-mode")
	}
	return cfg, cfg.Validate()
}

// converter bundles the register transport with whatever must be closed afterwards.
type converter struct {
	ops     ad559x.Ops
	ad5593r *ad559x.AD5593R
	close   func() error
}

func openConverter(ctx context.Context, cfg config.Config) (*converter, error) {
	var bus converters.I2CBus
	closer := func() error { return nil }
	switch cfg.Adapter {
	case config.AdapterSPI:
		port, err := spi.OpenPort(cfg.DevicePath(), physic.Frequency(cfg.SPISpeedHz)*physic.Hertz, ad559x.AD5592RMode)
		if err != nil {
			return nil, err
		}
		return &converter{ops: ad559x.NewAD5592R(port), close: port.Close}, nil
	case config.AdapterMCP2221:
		mcp := adapter.NewMCP2221()
		if err := mcp.Init(ctx); err != nil {
			return nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		bus = mcp
	case config.AdapterNanoPi:
		npi := nanopi.NewNeoAdaptor()
		if err := npi.Connect(); err != nil {
			return nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		gb := i2c.NewGobotBus(npi, cfg.BusNumber)
		bus = gb
		closer = func() error {
			err := gb.Close()
			if ferr := npi.Finalize(); err == nil {
				err = ferr
			}
			return err
		}
	default:
		gb, err := i2c.NewGenericBus(cfg.DevicePath())
		if err != nil {
			return nil, err
		}
		bus = gb
		closer = gb.Close
	}
	d := ad559x.NewAD5593R(bus, ad559x.WithAddress(cfg.Address))
	return &converter{ops: d, ad5593r: d, close: closer}, nil
}

// deviceOptions turns the configuration into Device options.
func deviceOptions(cfg config.Config) ([]ad559x.DeviceOption, error) {
	opts := []ad559x.DeviceOption{ad559x.WithModeOverride(cfg.ChannelModes)}
	for ch, name := range cfg.Offstate {
		state, err := ad559x.ParseOffstate(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ad559x.WithOffstate(ch, state))
	}
	return opts, nil
}

func parseChannel(s string) (uint8, error) {
	ch, err := strconv.ParseUint(s, 10, 8)
	if err != nil || ch >= ad559x.NumChannels {
		return 0, fmt.Errorf("invalid channel %q", s)
	}
	return uint8(ch), nil
}

func parseWord(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return uint16(v), nil
}

func parseRegister(s string) (ad559x.Register, error) {
	v, err := strconv.ParseUint(s, 0, 4)
	if err != nil {
		return 0, fmt.Errorf("invalid register %q: %w", s, err)
	}
	return ad559x.Register(v), nil
}
