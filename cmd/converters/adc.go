package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/converters/cmd/converters/console"
)

var adcCmd = cli.Command{
	Name: "adc",
	Subcommands: cli.Commands{
		&adcReadCmd,
	},
}

var adcReadCmd = cli.Command{
	Name:      "read",
	Aliases:   []string{"rd"},
	Usage:     "run a single conversion and print the raw readback word",
	ArgsUsage: "<channel>",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1},
		&cli.DurationFlag{Name: "interval", Value: 500 * time.Millisecond},
	},
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
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		conv, err := openConverter(ctx, cfg)
		if err != nil {
			return console.Exit(1, "could not open converter: %s", console.Red(err))
		}
		defer func() { _ = conv.close() }()
		for i := 0; i < c.Int("count"); i++ {
			if i > 0 {
				time.Sleep(c.Duration("interval"))
			}
			val, err := conv.ops.ReadADC(ctx, ch)
			if err != nil {
				return console.Exit(1, "adc read failed: %s", console.Red(err))
			}
			console.PInfof(console.PictoGauge, "ADC %d = %s (%d)", ch, console.White(val&0x0FFF), val>>12&0x07)
		}
		return nil
	},
}
