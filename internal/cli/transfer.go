package cli

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/playwise/playwise/internal/domain"
	"github.com/playwise/playwise/internal/infrastructure/textfile"
	"github.com/playwise/playwise/internal/library"
)

func newImportCmd(s *session) *cobra.Command {
	var (
		workers     int
		noRecursive bool
		genre       string
	)

	cmd := &cobra.Command{
		Use:   "import <directory>",
		Short: "Add the audio files under a directory",
		Long: `Scan a directory for MP3 and FLAC files, read their tags and add each
song to the end of the playlist. Songs already in the catalogue with the
same title and artist are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := library.ImportOptionsFromConfig(s.cfg)
			if workers > 0 {
				opts.Workers = workers
			}
			if noRecursive {
				opts.Recursive = false
			}
			if genre != "" {
				opts.DefaultGenre = genre
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			result, err := library.NewImporter(s.lib, opts).Import(ctx, args[0])
			if result != nil && result.Imported > 0 {
				s.touch()
			}
			if err != nil {
				return err
			}

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(result)
			}
			p.Printf("Imported %s from %s in %s", Count(result.Imported, "song"),
				Count(result.TotalFiles, "file"), result.Duration.Round(time.Millisecond))
			if result.Skipped > 0 {
				p.Muted("  %d already in the catalogue", result.Skipped)
			}
			if result.Failed > 0 {
				p.Muted("  %d could not be read", result.Failed)
				if s.verbose {
					for _, err := range result.Errors {
						p.Muted("    %v", err)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of files probed in parallel (default from import.workers)")
	cmd.Flags().BoolVar(&noRecursive, "no-recursive", false, "do not descend into subdirectories")
	cmd.Flags().StringVarP(&genre, "genre", "g", "", "genre for files without one (default from import.default_genre)")
	return cmd
}

func newExportCmd(s *session) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the library to a file",
		Long: `Write a full snapshot of the library. The format follows the file
extension (.json, .toml, anything else is the sectioned text format) unless
--format is given. Use - to write to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := textfile.ParseFormat(format, path)
			if err != nil {
				return err
			}

			state := s.lib.Snapshot()
			if path == "-" {
				return textfile.Write(cmd.OutOrStdout(), state, f)
			}
			if err := textfile.WriteFile(path, state, f); err != nil {
				return err
			}

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{"path": path, "format": f, "songs": len(state.Songs)})
			}
			p.Printf("Exported %s to %s (%s)", Count(len(state.Songs), "song"), path, f)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "text, json or toml")
	return cmd
}

func newBackupCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <file>",
		Short: "Copy the SQLite database",
		Long:  `Write a consistent copy of the SQLite store. Only available with storage.driver sqlite.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.database == nil {
				return fmt.Errorf("%w: backup needs the sqlite driver", domain.ErrStorageDisabled)
			}
			if err := s.flush(); err != nil {
				return err
			}
			if err := s.database.Backup(args[0]); err != nil {
				return err
			}
			s.out(cmd.OutOrStdout()).Printf("Backed up %s to %s", s.database.Path(), args[0])
			return nil
		},
	}
}

func newSaveCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the library to the configured store",
		Long:  `Save the library now, even when storage.auto_save is off.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.flush(); err != nil {
				return err
			}
			s.out(cmd.OutOrStdout()).Printf("Saved %s", Count(s.lib.Len(), "song"))
			return nil
		},
	}
}
