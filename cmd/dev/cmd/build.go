package cmd

import (
	"fmt"
	"log/slog"

	"github.com/gophertribe/devtool/build"
	"github.com/spf13/cobra"
)

// BuildCmd compiles the converters cli. Cgo stays enabled because the
// MCP2221 adapter links against hidapi.
func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the converters cli",
		RunE: func(cmd *cobra.Command, args []string) error {
			goos, err := cmd.Flags().GetString("os")
			if err != nil {
				return fmt.Errorf("could not get os flag: %w", err)
			}
			arch, err := cmd.Flags().GetString("arch")
			if err != nil {
				return fmt.Errorf("could not get arch flag: %w", err)
			}
			version, err := cmd.Flags().GetString("version")
			if err != nil {
				return fmt.Errorf("could not get version flag: %w", err)
			}
			out := fmt.Sprintf("dist/converters-%s-%s", goos, arch)
			slog.Info("building", "output", out, "version", version)
			return build.GoBuild(out, "./cmd/converters", build.GoBuildOpts{
				Version:       version,
				InjectVersion: true,
				ConfigPackage: "github.com/mklimuk/converters/pkg/config",
				EnableCgo:     true,
				Arch:          arch,
				OS:            goos,
			})
		},
	}
	cmd.Flags().String("version", "latest", "version of the cli")
	cmd.Flags().String("os", "linux", "os to build for")
	cmd.Flags().String("arch", "arm64", "arch to build for")
	return cmd
}
