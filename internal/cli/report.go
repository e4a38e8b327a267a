package cli

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/playwise/playwise/internal/infrastructure/db"
	"github.com/playwise/playwise/internal/library"
)

// reportOutput adds the saved row counts to a library report when the
// sqlite store is in use.
type reportOutput struct {
	library.Report
	Storage map[string]int64 `json:"storage,omitempty"`
}

func newReportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "report",
		Aliases: []string{"stats"},
		Short:   "Summarise the library",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := s.lib.Report()
			var storage map[string]int64
			if s.database != nil {
				stats, err := s.database.Stats()
				if err != nil {
					return err
				}
				storage = stats
			}

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(reportOutput{Report: r, Storage: storage})
			}

			p.Heading("Library")
			p.Printf("  %s, %s total", Count(r.TotalSongs, "song"), FormatDuration(r.TotalDuration))
			p.Printf("  %d recently skipped, %d recently added", r.SkippedCount, r.RecentlyAdded)

			if len(r.Longest) > 0 {
				p.Printf("")
				p.Heading("Longest songs")
				p.Songs(r.Longest, false)
			}

			if len(r.RecentlyPlayed) > 0 {
				p.Printf("")
				p.Heading("Recently played")
				p.Songs(r.RecentlyPlayed, false)
			}

			if len(r.RatingCounts) > 0 {
				p.Printf("")
				p.Heading("Ratings")
				t := NewTableWriter(p.w, "RATING", "SONGS")
				for _, c := range r.RatingCounts {
					t.Row(stars(c.Rating), strconv.Itoa(c.Count))
				}
				t.Flush()
			}

			if len(r.PlayCounts) > 0 {
				p.Printf("")
				p.Heading("Play counts")
				t := NewTableWriter(p.w, "TITLE", "PLAYS")
				for _, c := range r.PlayCounts {
					t.Row(c.Title, strconv.Itoa(c.Count))
				}
				t.Flush()
			}

			if len(r.GenreBreakdown) > 0 {
				p.Printf("")
				p.Heading("Recently added by genre")
				genres := make([]string, 0, len(r.GenreBreakdown))
				for g := range r.GenreBreakdown {
					genres = append(genres, g)
				}
				sort.Strings(genres)
				t := NewTableWriter(p.w, "GENRE", "SONGS")
				for _, g := range genres {
					t.Row(g, strconv.Itoa(r.GenreBreakdown[g]))
				}
				t.Flush()
			}

			if storage != nil {
				p.Printf("")
				p.Heading("Storage")
				t := NewTableWriter(p.w, "TABLE", "ROWS")
				for _, table := range db.StateTables {
					t.Row(table, strconv.FormatInt(storage[table], 10))
				}
				t.Flush()
			}
			return nil
		},
	}
}
