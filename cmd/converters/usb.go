package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/karalabe/hid"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/converters/adapter"
)

var usbCmd = cli.Command{
	Name: "usb",
	Subcommands: cli.Commands{
		&usbLsCmd,
	},
}

var usbLsCmd = cli.Command{
	Name:  "ls",
	Usage: "list MCP2221 USB-to-I2C bridges",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "all", Usage: "list every HID device"},
	},
	Action: func(c *cli.Context) error {
		var devices []hid.DeviceInfo
		if c.Bool("all") {
			devices = hid.Enumerate(0, 0)
		} else {
			devices = hid.Enumerate(adapter.VendorID, adapter.ProductID)
		}

		w := tabwriter.NewWriter(os.Stdout, 24, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "ID\tPATH\tSERIAL\tVENDOR\tPRODUCT ID\tPRODUCT\n")
		for i, dev := range devices {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%#x\t%#x\t%s\n",
				i, dev.Path, dev.Serial, dev.VendorID, dev.ProductID, dev.Product)
		}
		_ = w.Flush()
		return nil
	},
}
