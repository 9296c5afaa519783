package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/converters/ad559x"
	"github.com/mklimuk/converters/cmd/converters/console"
)

type channelReport struct {
	Channel int    `yaml:"channel"`
	Mode    string `yaml:"mode"`
}

type probeReport struct {
	Adapter  string          `yaml:"adapter"`
	Address  string          `yaml:"address,omitempty"`
	Override string          `yaml:"override"`
	Channels []channelReport `yaml:"channels"`
}

var probeCmd = cli.Command{
	Name:  "probe",
	Usage: "reset the converter and program channel modes",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "keep", Usage: "leave channels configured on exit"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		conv, err := openConverter(ctx, cfg)
		if err != nil {
			return console.Exit(1, "could not open converter: %s", console.Red(err))
		}
		defer func() { _ = conv.close() }()
		opts, err := deviceOptions(cfg)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		dev := ad559x.NewDevice(conv.ops, opts...)
		if err := dev.Probe(ctx); err != nil {
			return console.Exit(1, "probe failed: %s", console.Red(err))
		}
		if !c.Bool("keep") {
			defer func() {
				if err := dev.Close(ctx); err != nil {
					console.Errorf("could not release channels: %s", console.Red(err))
				}
			}()
		}
		report := probeReport{Adapter: cfg.Adapter, Override: "applied"}
		if conv.ad5593r != nil {
			report.Address = fmt.Sprintf("%#x", conv.ad5593r.Address())
		}
		if err := dev.OverrideResult(); err != nil {
			report.Override = err.Error()
			if ad559x.IsNotProvided(err, cfg.ChannelModes) {
				report.Override = "none"
			}
		}
		for ch, mode := range dev.Modes() {
			report.Channels = append(report.Channels, channelReport{Channel: ch, Mode: mode.String()})
		}
		enc := yaml.NewEncoder(console.Writer())
		defer func() { _ = enc.Close() }()
		if err := enc.Encode(report); err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}
