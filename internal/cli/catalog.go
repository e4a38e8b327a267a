package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/playwise/playwise/internal/domain"
	"github.com/playwise/playwise/internal/library"
)

func newAddCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title> <artist> <genre> <duration>",
		Short: "Add a song to the end of the playlist",
		Long: `Add a song to the end of the playlist. Duration is seconds or mm:ss.

Examples:
  playwise add "So What" "Miles Davis" Jazz 9:05
  playwise add Weightless "Marconi Union" Ambient 480`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, err := ParseDuration(args[3])
			if err != nil {
				return err
			}
			song, pos, err := s.lib.AddSong(args[0], args[1], args[2], duration)
			if err != nil {
				return err
			}
			s.touch()

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{"song": song, "position": pos})
			}
			p.Printf("Added %q by %s at position %d", song.Title, song.Artist, pos)
			return nil
		},
	}
}

func newInsertCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "insert <position> <title> <artist> <genre> <duration>",
		Short: "Insert a song at a playlist position",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			duration, err := ParseDuration(args[4])
			if err != nil {
				return err
			}
			song, err := s.lib.InsertSong(pos, args[1], args[2], args[3], duration)
			if err != nil {
				return err
			}
			s.touch()

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{"song": song, "position": pos})
			}
			p.Printf("Inserted %q at position %d", song.Title, pos)
			return nil
		},
	}
}

func newDeleteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <position>",
		Aliases: []string{"rm"},
		Short:   "Delete the song at a playlist position",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			song, ok := s.lib.DeleteSong(pos)
			if !ok {
				return fmt.Errorf("%w: %d", domain.ErrInvalidPosition, pos)
			}
			s.touch()

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{"deleted": song, "position": pos})
			}
			p.Printf("Deleted %q from position %d", song.Title, pos)
			return nil
		},
	}
}

func newMoveCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move a song to another playlist position",
		Long: `Move the song at <from> so it ends up at <to>. A <to> past the end
moves the song to the end.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			to, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			if !s.lib.MoveSong(from, to) {
				return fmt.Errorf("%w: cannot move %d to %d", domain.ErrInvalidPosition, from, to)
			}
			s.touch()

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{"from": from, "to": to, "moved": true})
			}
			p.Printf("Moved song from position %d to %d", from, to)
			return nil
		},
	}
}

func newReverseCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "reverse",
		Short: "Reverse the playlist order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s.lib.ReversePlaylist()
			s.touch()

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(s.lib.AllSongsOrdered())
			}
			p.Printf("Reversed %s", Count(s.lib.Len(), "song"))
			return nil
		},
	}
}

func newListCmd(s *session) *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the playlist",
		Long: `Show the playlist in order. --sort title or --sort duration shows a
sorted copy and leaves the playlist itself unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := library.ParseSortKey(sortBy)
			if err != nil {
				return err
			}
			songs := s.lib.SortedSongs(key)

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{
					"songs":          songs,
					"total":          len(songs),
					"total_duration": s.lib.TotalDuration(),
				})
			}
			if len(songs) == 0 {
				p.Printf("Playlist is empty")
				return nil
			}
			p.Heading("Playlist")
			p.Songs(songs, key == library.SortNone)
			p.Muted("%s, %s", Count(len(songs), "song"), FormatDuration(s.lib.TotalDuration()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&sortBy, "sort", "s", "", "sort by title or duration")
	return cmd
}

func newFindCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "find <title>",
		Short: "Look a song up by exact title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			song, ok := s.lib.FindByTitle(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", domain.ErrSongNotFound, args[0])
			}

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{
					"song":       song,
					"play_count": s.lib.PlayCount(song.Title),
					"skipped":    s.lib.IsSkippedRecently(song),
				})
			}
			p.Printf("%s by %s", song.Title, song.Artist)
			p.Printf("  Genre:    %s", song.Genre)
			p.Printf("  Duration: %s", FormatDuration(song.Duration))
			p.Printf("  Plays:    %d", s.lib.PlayCount(song.Title))
			if s.lib.IsSkippedRecently(song) {
				p.Muted("  Skipped recently")
			}
			return nil
		},
	}
}
