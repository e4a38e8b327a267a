package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Set via ldflags at build time
	Version   = "dev"
	BuildTime = "unknown"
)

func newVersionCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// No library needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]string{
					"version":    Version,
					"build_time": BuildTime,
					"go_version": runtime.Version(),
					"os":         runtime.GOOS,
					"arch":       runtime.GOARCH,
				})
			}

			fmt.Fprintf(p.w, "playwise %s\n", Version)
			if s.verbose {
				fmt.Fprintf(p.w, "  built:      %s\n", BuildTime)
				fmt.Fprintf(p.w, "  go version: %s\n", runtime.Version())
				fmt.Fprintf(p.w, "  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
			}
			return nil
		},
	}
}
