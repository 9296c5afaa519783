package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/converters/cmd/converters/console"
)

var regCmd = cli.Command{
	Name:  "reg",
	Usage: "raw control register access",
	Subcommands: cli.Commands{
		&regReadCmd,
		&regWriteCmd,
	},
}

var regReadCmd = cli.Command{
	Name:      "read",
	ArgsUsage: "<register>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		reg, err := parseRegister(c.Args().Get(0))
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
		val, err := conv.ops.RegRead(ctx, reg)
		if err != nil {
			return console.Exit(1, "register read failed: %s", console.Red(err))
		}
		console.Printf("%s: %#04x\n", console.White(reg), val)
		return nil
	},
}

var regWriteCmd = cli.Command{
	Name:      "write",
	ArgsUsage: "<register> <value>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return console.Exit(1, "expected 2 arguments, got %d", c.NArg())
		}
		reg, err := parseRegister(c.Args().Get(0))
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
		if err := conv.ops.RegWrite(ctx, reg, val); err != nil {
			return console.Exit(1, "register write failed: %s", console.Red(err))
		}
		console.Printf("\nWrote %s content: %#04x\n", console.White(reg), val)
		return nil
	},
}
