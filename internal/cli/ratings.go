package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/playwise/playwise/internal/domain"
)

func parseRating(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || !domain.ValidRating(n) {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidRating, arg)
	}
	return n, nil
}

func stars(rating int) string {
	return strings.Repeat("★", rating) + strings.Repeat("☆", domain.MaxRating-rating)
}

func newRateCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <title> <1-5>",
		Short: "Rate a song",
		Long: `Rate a song from 1 to 5 stars. Rating a song again adds another
entry; it does not replace the earlier one.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := parseRating(args[1])
			if err != nil {
				return err
			}
			song, err := s.lib.RateSong(args[0], rating)
			if err != nil {
				return err
			}
			s.touch()

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{"song": song, "rating": rating})
			}
			p.Printf("Rated %q %s", song.Title, stars(rating))
			return nil
		},
	}
}

func newUnrateCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "unrate <title> <1-5>",
		Short: "Remove one rating from a song",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := parseRating(args[1])
			if err != nil {
				return err
			}
			if err := s.lib.UnrateSong(args[0], rating); err != nil {
				return err
			}
			s.touch()

			p := s.out(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]interface{}{"title": args[0], "rating": rating, "removed": true})
			}
			p.Printf("Removed %d-star rating from %q", rating, args[0])
			return nil
		},
	}
}

func newRatingsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "ratings [1-5]",
		Short: "Show rated songs",
		Long: `Without an argument, show how many songs carry each rating. With a
rating, list the songs rated that many stars.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := s.out(cmd.OutOrStdout())

			if len(args) == 0 {
				counts := s.lib.CountsByRating()
				if p.json {
					return p.JSON(counts)
				}
				t := NewTableWriter(p.w, "RATING", "SONGS")
				for _, c := range counts {
					t.Row(stars(c.Rating), strconv.Itoa(c.Count))
				}
				t.Flush()
				return nil
			}

			rating, err := parseRating(args[0])
			if err != nil {
				return err
			}
			songs := s.lib.SongsByRating(rating)
			if p.json {
				return p.JSON(map[string]interface{}{"rating": rating, "songs": songs})
			}
			if len(songs) == 0 {
				p.Printf("No songs rated %d", rating)
				return nil
			}
			p.Heading(fmt.Sprintf("Rated %s", stars(rating)))
			p.Songs(songs, false)
			return nil
		},
	}
}
