package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/converters/ad559x"
	"github.com/mklimuk/converters/cmd/converters/console"
)

var resetCmd = cli.Command{
	Name:  "reset",
	Usage: "software reset of the converter",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
	},
	Action: func(c *cli.Context) error {
		if !c.Bool("yes") {
			ok, err := console.Confirm(console.PictoWarning + " all outputs will be released, continue?")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if !ok {
				return nil
			}
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
		if err := ad559x.Reset(ctx, conv.ops); err != nil {
			return console.Exit(1, "reset failed: %s", console.Red(err))
		}
		console.Printf("%s\n", console.Green("converter reset"))
		return nil
	},
}
