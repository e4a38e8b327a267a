package cli

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/playwise/playwise/internal/config"
	"github.com/playwise/playwise/internal/logger"
)

var promptStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("39"))

func newShellCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively against one library",
		Long: `Read commands line by line and run them against the same library, so
the player cursor survives between next, previous and current. Quote
arguments that contain spaces. Type exit or quit to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(s, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runShell(s *session, in io.Reader, out, errOut io.Writer) error {
	scanner := bufio.NewScanner(in)
	jsonOut, verbose := s.jsonOut, s.verbose

	// Log settings follow edits to the config file while the shell runs.
	s.cfg.Watch(func(c *config.Config) {
		initLogger(c, verbose)
		logger.WithField("level", logger.Get().GetLevel()).Info("Logger reconfigured")
	})

	for {
		fmt.Fprint(out, promptStyle.Render("playwise> "))
		if !scanner.Scan() {
			break
		}

		args, err := splitLine(scanner.Text())
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "exit", "quit":
			fmt.Fprintln(out)
			return nil
		case "shell":
			fmt.Fprintln(errOut, "Already in the shell")
			continue
		}

		// Errors are printed by run; the shell keeps going.
		_ = run(s, args, in, out, errOut)
		s.jsonOut, s.verbose = jsonOut, verbose
	}

	fmt.Fprintln(out)
	return scanner.Err()
}

// splitLine splits a shell line on spaces, honouring double quotes.
func splitLine(line string) ([]string, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ' '
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q: %w", line, err)
	}

	args := fields[:0]
	for _, f := range fields {
		if f != "" {
			args = append(args, f)
		}
	}
	return args, nil
}
