// Package aggregate derives values that are never stored, such as a
// movie's average rating, from the live rating rows.
package aggregate

import (
	"context"
	"math"
)

// AverageStars returns the mean of the non-nil stars rounded to one decimal
// place.  Nil entries are text-only comments or replies and are excluded.
// An empty input, or one with only nil entries, yields 0.
func AverageStars(stars []*int) float64 {
	sum, n := 0, 0
	for _, s := range stars {
		if s == nil {
			continue
		}
		sum += *s
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}

// StarSource loads the stars column of every rating of the given movies,
// keyed by movie id.  Movies without ratings may be absent from the map.
type StarSource interface {
	StarsForMovies(ctx context.Context, movieIDs []uint64) (map[uint64][]*int, error)
}

// Calculator computes average ratings from a StarSource.
type Calculator struct {
	src StarSource
}

func NewCalculator(src StarSource) *Calculator { return &Calculator{src: src} }

// AverageRating returns the average rating of one movie.
func (c *Calculator) AverageRating(ctx context.Context, movieID uint64) (float64, error) {
	avgs, err := c.AverageRatings(ctx, []uint64{movieID})
	if err != nil {
		return 0, err
	}
	return avgs[movieID], nil
}

// AverageRatings returns the average rating of every requested movie with a
// single round trip.  Every requested id is present in the result.
func (c *Calculator) AverageRatings(ctx context.Context, movieIDs []uint64) (map[uint64]float64, error) {
	out := make(map[uint64]float64, len(movieIDs))
	if len(movieIDs) == 0 {
		return out, nil
	}
	stars, err := c.src.StarsForMovies(ctx, movieIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range movieIDs {
		out[id] = AverageStars(stars[id])
	}
	return out, nil
}
