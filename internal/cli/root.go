// Package cli is the playwise command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/playwise/playwise/internal/domain"
	"github.com/playwise/playwise/internal/logger"
)

func newRootCmd(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:   "playwise",
		Short: "Manage a music catalogue and its playback",
		Long: `PlayWise keeps a playlist, ratings, play history, skip tracking and
recently added songs, and replays calming favourites when playback runs out.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.save()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Defaults come from the session so nested shell trees keep the flags
	// given on the outer command line.
	root.PersistentFlags().StringVarP(&s.cfgFile, "config", "c", s.cfgFile, "config file (default: ~/.config/playwise/config.yaml)")
	root.PersistentFlags().BoolVarP(&s.jsonOut, "json", "j", s.jsonOut, "output as JSON")
	root.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", s.verbose, "verbose output")

	root.AddCommand(
		newAddCmd(s),
		newInsertCmd(s),
		newDeleteCmd(s),
		newMoveCmd(s),
		newReverseCmd(s),
		newListCmd(s),
		newFindCmd(s),

		newRateCmd(s),
		newUnrateCmd(s),
		newRatingsCmd(s),

		newPlayCmd(s),
		newPlayAllCmd(s),
		newNextCmd(s),
		newPreviousCmd(s),
		newCurrentCmd(s),
		newUndoCmd(s),
		newHistoryCmd(s),
		newReplayCmd(s),

		newSkipCmd(s),
		newSkippedCmd(s),
		newClearSkipsCmd(s),
		newRecentCmd(s),
		newClearRecentCmd(s),

		newReportCmd(s),
		newImportCmd(s),
		newExportCmd(s),
		newBackupCmd(s),
		newSaveCmd(s),
		newConfigCmd(s),
		newShellCmd(s),
		newVersionCmd(s),
	)
	return root
}

// run executes one command line against s and prints any error to errOut.
func run(s *session, args []string, in io.Reader, out, errOut io.Writer) error {
	root := newRootCmd(s)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.Execute()
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		if hint := suggestion(err); hint != "" {
			fmt.Fprintln(errOut, mutedStyle.Render(hint))
		}
	}
	return err
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	s := &session{}
	defer s.close()
	defer logger.Get().Close()

	if err := run(s, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		return 1
	}
	return 0
}

func suggestion(err error) string {
	switch {
	case errors.Is(err, domain.ErrSongNotFound):
		return "Run 'playwise list' to see the catalogue."
	case errors.Is(err, domain.ErrInvalidPosition):
		return "Positions start at 0; run 'playwise list' to see them."
	case errors.Is(err, domain.ErrInvalidRating):
		return "Ratings run from 1 to 5."
	case errors.Is(err, domain.ErrStorageDisabled):
		return "Set storage.driver to sqlite or text to persist the library."
	case domain.IsStateError(err):
		return "The saved state could not be read; check storage.database_path or storage.text_path."
	case domain.IsNotFound(err):
		return "Check that the path exists."
	case domain.IsInvalidInput(err):
		return "Run 'playwise help' for usage."
	default:
		return ""
	}
}
