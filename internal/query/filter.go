// Package query parses listing parameters (filters, search, pagination)
// and shapes paginated envelopes.  The SQL that applies a filter lives in
// the repository package.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/apperr"
)

// MovieFilter narrows the movie listing.  Set fields combine with AND.
type MovieFilter struct {
	CountryID *uint64
	GenreID   *uint64
	Search    string // case-insensitive substring of the movie name
}

// IsZero reports whether no filter is set.
func (f MovieFilter) IsZero() bool {
	return f.CountryID == nil && f.GenreID == nil && f.Search == ""
}

// ParseMovieFilter reads `country`, `genre` and `search` from v.
func ParseMovieFilter(v url.Values) (MovieFilter, error) {
	var f MovieFilter
	fields := map[string]string{}

	if id, ok, err := optionalID(v, "country"); err != nil {
		fields["country"] = err.Error()
	} else if ok {
		f.CountryID = &id
	}
	if id, ok, err := optionalID(v, "genre"); err != nil {
		fields["genre"] = err.Error()
	} else if ok {
		f.GenreID = &id
	}
	if len(fields) > 0 {
		return MovieFilter{}, apperr.Validation("invalid filter", fields)
	}
	f.Search = strings.TrimSpace(v.Get("search"))
	return f, nil
}

type paramError string

func (e paramError) Error() string { return string(e) }

func optionalID(v url.Values, key string) (uint64, bool, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false, paramError("select a valid choice")
	}
	return id, true, nil
}

// LikePattern turns a search term into a LIKE pattern matching any
// substring.  Wildcards inside the term are escaped with a backslash.
func LikePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
