package cli

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/playwise/playwise/internal/domain"
)

func newSkipCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "skip <title>",
		Short: "Mark a song as skipped",
		Long: `Mark a song as skipped. Recently skipped songs are left out of auto
replay until they fall out of the skip window.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			song, err := s.lib.SkipByTitle(args[0])
			if err != nil {
				return err
			}
			s.touch()

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{"skipped": song, "window": s.lib.SkippedCount()})
			}
			p.Printf("Skipped %q", song.Title)
			return nil
		},
	}
}

func newSkippedCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "skipped",
		Short: "Show recently skipped songs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			songs := s.lib.SkippedSnapshot()

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{"skipped": songs, "capacity": s.lib.SkipCapacity()})
			}
			if len(songs) == 0 {
				p.Printf("No recently skipped songs")
				return nil
			}
			p.Heading("Recently skipped")
			p.Songs(songs, false)
			p.Muted("%d of %d slots used", len(songs), s.lib.SkipCapacity())
			return nil
		},
	}
}

func newClearSkipsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-skips",
		Short: "Forget all recent skips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s.lib.ClearSkipHistory()
			s.touch()
			s.out(cmd.OutOrStdout()).Printf("Skip history cleared")
			return nil
		},
	}
}

func newRecentCmd(s *session) *cobra.Command {
	var (
		genre  string
		limit  int
		genres bool
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recently added songs",
		Long: `Show recently added songs, newest first.

Examples:
  playwise recent
  playwise recent --genre Jazz -n 3
  playwise recent --genres`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := s.out(cmd.OutOrStdout())

			if genres {
				breakdown := s.lib.RecentlyAddedGenres()
				if p.json {
					return p.JSON(breakdown)
				}
				names := make([]string, 0, len(breakdown))
				for name := range breakdown {
					names = append(names, name)
				}
				sort.Strings(names)
				t := NewTableWriter(p.w, "GENRE", "SONGS")
				for _, name := range names {
					t.Row(name, strconv.Itoa(breakdown[name]))
				}
				t.Flush()
				return nil
			}

			if limit <= 0 {
				limit = -1
			}
			var songs []*domain.Song
			if genre != "" {
				songs = s.lib.RecentlyAddedByGenre(genre, limit)
			} else {
				songs = s.lib.RecentlyAddedSnapshot(limit)
			}

			if p.json {
				return p.JSON(map[string]interface{}{"recent": songs, "capacity": s.lib.RecentlyAddedCapacity()})
			}
			if len(songs) == 0 {
				p.Printf("No recently added songs")
				return nil
			}
			p.Heading("Recently added")
			p.Songs(songs, false)
			return nil
		},
	}

	cmd.Flags().StringVarP(&genre, "genre", "g", "", "only show songs of this genre")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of songs to show")
	cmd.Flags().BoolVar(&genres, "genres", false, "show a per-genre breakdown instead")
	return cmd
}

func newClearRecentCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-recent",
		Short: "Forget the recently added list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s.lib.ClearRecentlyAdded()
			s.touch()
			s.out(cmd.OutOrStdout()).Printf("Recently added list cleared")
			return nil
		},
	}
}
