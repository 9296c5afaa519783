package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/converters/cmd/converters/console"
)

var gpioCmd = cli.Command{
	Name: "gpio",
	Subcommands: cli.Commands{
		&gpioReadCmd,
	},
}

var gpioReadCmd = cli.Command{
	Name:  "read",
	Usage: "read the GPIO input pins",
	Action: func(c *cli.Context) error {
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
		val, err := conv.ops.GPIORead(ctx)
		if err != nil {
			return console.Exit(1, "could not read gpio: %s", console.Red(err))
		}
		console.PInfof(console.PictoPin, "GPIO: %#08b", val)
		return nil
	},
}
