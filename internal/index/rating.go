package index

import (
	"sort"

	"github.com/playwise/playwise/internal/domain"
)

// RatingCount is one row of CountsByRating.
type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// RatingIndex keeps, per rating value, the songs rated with it in the order
// the ratings were given. Rating the same song twice stores it twice.
// Range checks are the caller's job.
type RatingIndex struct {
	buckets map[int][]*domain.Song
	ratings []int // sorted keys of buckets
}

func NewRatingIndex() *RatingIndex {
	return &RatingIndex{
		buckets: make(map[int][]*domain.Song),
		ratings: make([]int, 0, domain.MaxRating),
	}
}

func (r *RatingIndex) Rate(song *domain.Song, rating int) {
	if song == nil {
		return
	}
	if _, ok := r.buckets[rating]; !ok {
		i := sort.SearchInts(r.ratings, rating)
		r.ratings = append(r.ratings, 0)
		copy(r.ratings[i+1:], r.ratings[i:])
		r.ratings[i] = rating
	}
	r.buckets[rating] = append(r.buckets[rating], song)
}

// SongsWithRating returns a copy of the bucket, empty if there is none.
func (r *RatingIndex) SongsWithRating(rating int) []*domain.Song {
	bucket := r.buckets[rating]
	songs := make([]*domain.Song, len(bucket))
	copy(songs, bucket)
	return songs
}

// Unrate removes the first occurrence of song from the rating bucket only.
func (r *RatingIndex) Unrate(song *domain.Song, rating int) bool {
	bucket, ok := r.buckets[rating]
	if !ok {
		return false
	}
	for i, s := range bucket {
		if s == song {
			r.buckets[rating] = append(bucket[:i:i], bucket[i+1:]...)
			return true
		}
	}
	return false
}

// Purge removes every occurrence of song from every bucket and returns how
// many entries were dropped.
func (r *RatingIndex) Purge(song *domain.Song) int {
	removed := 0
	for _, rating := range r.ratings {
		bucket := r.buckets[rating]
		kept := bucket[:0:0]
		for _, s := range bucket {
			if s == song {
				removed++
				continue
			}
			kept = append(kept, s)
		}
		r.buckets[rating] = kept
	}
	return removed
}

// CountsByRating lists the non-empty buckets, ascending by rating.
func (r *RatingIndex) CountsByRating() []RatingCount {
	counts := make([]RatingCount, 0, len(r.ratings))
	for _, rating := range r.ratings {
		if n := len(r.buckets[rating]); n > 0 {
			counts = append(counts, RatingCount{Rating: rating, Count: n})
		}
	}
	return counts
}

// Ratings returns the ratings given to song, ascending, one entry per time
// it was rated.
func (r *RatingIndex) Ratings(song *domain.Song) []int {
	var out []int
	for _, rating := range r.ratings {
		for _, s := range r.buckets[rating] {
			if s == song {
				out = append(out, rating)
			}
		}
	}
	return out
}
