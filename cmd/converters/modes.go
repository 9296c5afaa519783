package main

import (
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/converters/ad559x"
	"github.com/mklimuk/converters/cmd/converters/console"
)

var modesCmd = cli.Command{
	Name: "modes",
	Subcommands: cli.Commands{
		&modesParseCmd,
	},
}

var modesParseCmd = cli.Command{
	Name:      "parse",
	Usage:     "decode a channel mode override without touching the device",
	ArgsUsage: "<override>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		modes, err := ad559x.ParseModeOverride(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "override rejected: %s", console.Red(err))
		}
		w := tabwriter.NewWriter(os.Stdout, 12, 0, 1, ' ', 0)
		_, _ = w.Write([]byte("CHANNEL\tMODE\n"))
		for ch, mode := range modes {
			_, _ = w.Write([]byte(console.White(ch) + "\t" + console.Mode(mode.String()) + "\n"))
		}
		_ = w.Flush()
		return nil
	},
}
