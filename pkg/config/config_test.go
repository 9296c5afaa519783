package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "converters.yaml")
	err := os.WriteFile(path, []byte(`
adapter: mcp2221
address: 0x11
ch_mode: "88880000"
offstate:
  0: tristate
  3: out-high
`), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, AdapterMCP2221, cfg.Adapter)
	assert.Equal(t, uint8(0x11), cfg.Address)
	assert.Equal(t, "88880000", cfg.ChannelModes)
	assert.Equal(t, map[uint8]string{0: "tristate", 3: "out-high"}, cfg.Offstate)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultI2CDevice, cfg.DevicePath())
}

func TestConfig_DevicePath(t *testing.T) {
	tests := []struct {
		name    string
		content string
		device  string
	}{
		{"spi without device", "adapter: spi\n", ""},
		{"spi with device", "adapter: spi\ndevice: /dev/spidev0.1\n", "/dev/spidev0.1"},
		{"generic without device", "adapter: generic\n", DefaultI2CDevice},
		{"generic with device", "device: /dev/i2c-0\n", "/dev/i2c-0"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "converters.yaml")
			require.NoError(t, os.WriteFile(path, []byte(test.content), 0o600))
			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, test.device, cfg.DevicePath())
		})
	}
}

func TestConfig_DevicePathFollowsAdapterOverride(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultI2CDevice, cfg.DevicePath())
	cfg.Adapter = AdapterSPI
	assert.Equal(t, "", cfg.DevicePath())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown adapter", "adapter: ftdi\n"},
		{"address out of range", "address: 0x80\n"},
		{"offstate channel", "offstate:\n  9: tristate\n"},
		{"malformed", "adapter: [\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "converters.yaml")
			require.NoError(t, os.WriteFile(path, []byte(test.content), 0o600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
