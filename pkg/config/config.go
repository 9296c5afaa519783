// Package config holds the converter CLI configuration file and the build version.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Version is injected at build time.
var Version = "latest"

const (
	AdapterGeneric = "generic"
	AdapterMCP2221 = "mcp2221"
	AdapterNanoPi  = "nanopi"
	AdapterSPI     = "spi"
)

// DefaultI2CDevice is used by the generic adapter when no device is configured.
const DefaultI2CDevice = "/dev/i2c-1"

type Config struct {
	Adapter string `yaml:"adapter"`
	// Device is the host bus path; empty selects the adapter default (see DevicePath).
	Device     string `yaml:"device"`
	BusNumber  int    `yaml:"bus_number"`
	Address    uint8  `yaml:"address"`
	SPISpeedHz int64  `yaml:"spi_speed_hz"`
	// ChannelModes is the startup channel mode override, e.g. "00002222".
	ChannelModes string `yaml:"ch_mode"`
	// Offstate maps a channel number to pulldown, out-low, out-high or tristate.
	Offstate map[uint8]string `yaml:"offstate"`
}

func Default() Config {
	return Config{
		Adapter:    AdapterGeneric,
		BusNumber:  1,
		Address:    0x10,
		SPISpeedHz: 1_000_000,
	}
}

// Load reads a YAML configuration file on top of the defaults.
// A missing file is not an error when path is empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not decode config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// DevicePath resolves the bus device for the configured adapter. An empty
// path on the spi adapter lets the host pick its first SPI port.
func (c Config) DevicePath() string {
	if c.Device != "" || c.Adapter == AdapterSPI {
		return c.Device
	}
	return DefaultI2CDevice
}

var ErrUnknownAdapter = errors.New("unknown adapter")

func (c Config) Validate() error {
	switch c.Adapter {
	case AdapterGeneric, AdapterMCP2221, AdapterNanoPi, AdapterSPI:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAdapter, c.Adapter)
	}
	if c.Adapter != AdapterSPI && c.Address > 0x7F {
		return fmt.Errorf("invalid i2c address %#x", c.Address)
	}
	for ch := range c.Offstate {
		if ch > 7 {
			return fmt.Errorf("invalid offstate channel %d", ch)
		}
	}
	return nil
}
