package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/converters/cmd/converters/console"
)

var dacCmd = cli.Command{
	Name: "dac",
	Subcommands: cli.Commands{
		&dacWriteCmd,
		&dacReadCmd,
	},
}

var dacWriteCmd = cli.Command{
	Name:      "write",
	Usage:     "load a raw code into a DAC channel",
	ArgsUsage: "<channel> <value>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return console.Exit(1, "expected 2 arguments, got %d", c.NArg())
		}
		ch, err := parseChannel(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		val, err := parseWord(c.Args().Get(1))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		conv, err := openConverter(ctx, cfg)
		if err != nil {
			return console.Exit(1, "could not open converter: %s", console.Red(err))
		}
		defer func() { _ = conv.close() }()
		if err := conv.ops.WriteDAC(ctx, ch, val); err != nil {
			return console.Exit(1, "dac write failed: %s", console.Red(err))
		}
		console.PInfof(console.PictoGauge, "DAC %d <- %#04x", ch, val)
		return nil
	},
}

var dacReadCmd = cli.Command{
	Name:      "read",
	Usage:     "read back the code loaded into a DAC channel (AD5593R only)",
	ArgsUsage: "<channel>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		ch, err := parseChannel(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Exit(1, "configuration error: %s", console.Red(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		conv, err := openConverter(ctx, cfg)
		if err != nil {
			return console.Exit(1, "could not open converter: %s", console.Red(err))
		}
		defer func() { _ = conv.close() }()
		if conv.ad5593r == nil {
			return console.Exit(1, "dac readback requires an I2C adapter")
		}
		val, err := conv.ad5593r.ReadDACBack(ctx, ch)
		if err != nil {
			return console.Exit(1, "dac readback failed: %s", console.Red(err))
		}
		console.PInfof(console.PictoGauge, "DAC %d = %s", ch, console.White(val))
		return nil
	},
}
