package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/playwise/playwise/internal/replay"
)

func newPlayCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "play <title>",
		Short: "Record a play of a song",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			song, count, err := s.lib.PlayByTitle(args[0])
			if err != nil {
				return err
			}
			s.touch()

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{"song": song, "play_count": count})
			}
			p.Printf("▶ %s by %s (%s)", song.Title, song.Artist, FormatDuration(song.Duration))
			p.Muted("  played %s", Count(count, "time"))
			return nil
		},
	}
}

func newPlayAllCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "play-all",
		Short: "Play the whole playlist from the start",
		Long: `Play every song in playlist order. When auto replay is enabled the
most played calming songs are replayed afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := s.lib.PlayAll()
			if len(result.Played) > 0 || len(result.Replay) > 0 {
				s.touch()
			}

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(result)
			}
			if len(result.Played) == 0 {
				p.Printf("Playlist is empty")
			}
			for i, song := range result.Played {
				p.Printf("▶ %d. %s by %s (%s)", i, song.Title, song.Artist, FormatDuration(song.Duration))
			}
			printReplay(p, result.Replay)
			return nil
		},
	}
}

func newNextCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Play the next song",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			step := s.lib.Next()
			if step.Advanced || len(step.Replay) > 0 {
				s.touch()
			}

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(step)
			}
			if step.Advanced {
				p.Printf("▶ %d. %s by %s", step.Position, step.Song.Title, step.Song.Artist)
				return nil
			}
			p.Printf("End of playlist")
			printReplay(p, step.Replay)
			return nil
		},
	}
}

func newPreviousCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "previous",
		Aliases: []string{"prev"},
		Short:   "Play the previous song",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			step := s.lib.Previous()
			if step.Advanced {
				s.touch()
			}

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(step)
			}
			if !step.Advanced {
				p.Printf("Already at the start of the playlist")
				return nil
			}
			p.Printf("▶ %d. %s by %s", step.Position, step.Song.Title, step.Song.Artist)
			return nil
		},
	}
}

func newCurrentCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the song under the player cursor",
		Long: `Show the song under the player cursor. The cursor lives for one
process, so use this inside 'playwise shell'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			song, pos, ok := s.lib.CurrentSong()

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{
					"state":    s.lib.PlayerState().String(),
					"song":     song,
					"position": pos,
				})
			}
			if !ok {
				p.Printf("Nothing playing")
				return nil
			}
			p.Printf("▶ %d. %s by %s (%s)", pos, song.Title, song.Artist, FormatDuration(song.Duration))
			return nil
		},
	}
}

func newUndoCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Remove the most recent play from the history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			song, ok := s.lib.UndoLastPlay()
			if ok {
				s.touch()
			}

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{"undone": song})
			}
			if !ok {
				p.Printf("Play history is empty")
				return nil
			}
			p.Printf("Undid play of %q", song.Title)
			return nil
		},
	}
}

func newHistoryCmd(s *session) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently played songs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			songs := s.lib.RecentlyPlayed(limit)

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{"recent": songs, "total": s.lib.HistoryLen()})
			}
			if len(songs) == 0 {
				p.Printf("Play history is empty")
				return nil
			}
			p.Heading("Recently played")
			p.Songs(songs, false)
			p.Muted("%s in history", Count(s.lib.HistoryLen(), "play"))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of plays to show (default from library.recent_plays)")
	return cmd
}

func newReplayCmd(s *session) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay the most played calming songs",
		Long: `Pick the most played songs in calming genres that were not skipped
recently and play each of them once. --dry-run only shows the picks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			candidates := s.lib.SelectAutoReplayCandidates()
			if !dryRun && len(candidates) > 0 {
				s.lib.StartAutoReplay(replay.Songs(candidates))
				s.touch()
			}

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{"candidates": candidates, "played": !dryRun && len(candidates) > 0})
			}
			if len(candidates) == 0 {
				p.Printf("No calming songs to replay")
				return nil
			}
			if dryRun {
				p.Heading("Replay candidates")
				t := NewTableWriter(p.w, "#", "TITLE", "GENRE", "PLAYS")
				for i, c := range candidates {
					t.Row(strconv.Itoa(i+1), c.Song.Title, c.Song.Genre, strconv.Itoa(c.PlayCount))
				}
				t.Flush()
				return nil
			}
			printReplay(p, candidates)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the picks without playing them")
	return cmd
}

func printReplay(p *printer, candidates []replay.Candidate) {
	if len(candidates) == 0 {
		return
	}
	p.Heading("Auto replay")
	for _, c := range candidates {
		p.Printf("↻ %s (%s)", c.Song.Title, c.Song.Genre)
	}
}
