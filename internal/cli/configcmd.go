package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/playwise/playwise/internal/domain"
)

func newConfigCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change settings. Keys use dotted names such as storage.driver
or replay.calming_genres; list values are comma separated.

Examples:
  playwise config get
  playwise config get library.skip_window
  playwise config set replay.calming_genres "Jazz,Lo-Fi,Ambient"`,
		// Settings do not need the library.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.loadConfig()
		},
	}

	cmd.AddCommand(
		newConfigGetCmd(s),
		newConfigSetCmd(s),
		newConfigPathCmd(s),
	)
	return cmd
}

func newConfigGetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print one setting, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := s.out(cmd.OutOrStdout())

			if len(args) == 1 {
				value, ok := s.cfg.Value(args[0])
				if !ok {
					return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, args[0])
				}
				if p.json {
					return p.JSON(map[string]interface{}{args[0]: value})
				}
				p.Printf("%v", value)
				return nil
			}

			keys := s.cfg.Keys()
			if p.json {
				values := make(map[string]interface{}, len(keys))
				for _, key := range keys {
					values[key], _ = s.cfg.Value(key)
				}
				return p.JSON(values)
			}
			t := NewTableWriter(p.w, "KEY", "VALUE")
			for _, key := range keys {
				value, _ := s.cfg.Value(key)
				t.Row(key, fmt.Sprint(value))
			}
			t.Flush()
			return nil
		},
	}
}

func newConfigSetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting and write the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.cfg.Set(args[0], args[1]); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			path := s.configPath()
			if err := s.cfg.Save(path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]string{"key": args[0], "value": args[1], "path": path})
			}
			p.Printf("Set %s = %s in %s", args[0], args[1], path)
			if s.loaded {
				p.Muted("Storage and library settings apply from the next start.")
			}
			return nil
		},
	}
}

func newConfigPathCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where settings are read from and written to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := s.out(cmd.OutOrStdout())
			path := s.configPath()
			if p.json {
				return p.JSON(map[string]string{"path": path})
			}
			p.Printf("%s", path)
			return nil
		},
	}
}
