package model

import (
	"fmt"
	"strings"
	"time"
)

// Resolution is one of the fixed video qualities a movie can be offered in.
type Resolution string

const (
	Res144p  Resolution = "144p"
	Res360p  Resolution = "360p"
	Res480p  Resolution = "480p"
	Res720p  Resolution = "720p"
	Res1080p Resolution = "1080p"
)

// MaxResolutions caps how many qualities a movie may list.
const MaxResolutions = 5

var knownResolutions = map[Resolution]bool{
	Res144p: true, Res360p: true, Res480p: true, Res720p: true, Res1080p: true,
}

// ParseResolutions splits the comma separated `movies.types` column.
// Empty segments are skipped.
func ParseResolutions(raw string) []Resolution {
	out := []Resolution{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, Resolution(p))
		}
	}
	return out
}

// JoinResolutions is the inverse of ParseResolutions.
func JoinResolutions(rs []Resolution) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// ValidateResolutions checks that rs is a subset of the known qualities
// with no duplicates and at most MaxResolutions entries.
func ValidateResolutions(rs []Resolution) error {
	if len(rs) > MaxResolutions {
		return fmt.Errorf("at most %d resolutions allowed", MaxResolutions)
	}
	seen := make(map[Resolution]bool, len(rs))
	for _, r := range rs {
		if !knownResolutions[r] {
			return fmt.Errorf("unknown resolution %q", r)
		}
		if seen[r] {
			return fmt.Errorf("duplicate resolution %q", r)
		}
		seen[r] = true
	}
	return nil
}

// Movie represents a catalog title stored in the `movies` table together
// with whatever relations the repository loaded for it.  List queries
// only fill Genres and Countries; detail queries fill every relation.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display title.
//  Year        – release date (only the year is shown in lists).
//  Duration    – running time in minutes.
//  Description – synopsis.
//  Trailer     – blob store reference of the trailer (nullable).
//  Image       – blob store reference of the poster (nullable).
//  Status      – visibility tier of the detail view.
//  Types       – available resolutions.
type Movie struct {
	ID          uint64       // movies.id
	Name        string       // movies.movie_name
	Year        time.Time    // movies.year
	Duration    uint16       // movies.movie_time
	Description string       // movies.description
	Trailer     *string      // movies.movie_trailer (nullable)
	Image       *string      // movies.movie_image (nullable)
	Status      Status       // movies.status_movie
	Types       []Resolution // movies.types (comma separated)

	Countries []Country
	Directors []Director
	Actors    []Actor
	Genres    []Genre
	Languages []LanguageTrack
	Moments   []Moment
	Ratings   []Rating
}

// LanguageTrack is a dubbed or subtitled video of a movie
// (`movie_languages` table).
type LanguageTrack struct {
	ID       uint64 // movie_languages.id
	MovieID  uint64 // movie_languages.movie_id
	Language string // movie_languages.language
	Video    string // movie_languages.video
}

// Moment is a still image taken from a movie (`moments` table).
type Moment struct {
	ID      uint64 // moments.id
	MovieID uint64 // moments.movie_id
	Image   string // moments.movie_moments
}
