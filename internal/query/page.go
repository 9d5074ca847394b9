package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/apperr"
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Offset is the number of rows to skip.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// Limit is the number of rows to fetch.
func (p Page) Limit() int { return p.Size }

// ParsePage reads `page` and `page_size` from v.  A missing page is 1 and a
// missing page size is defSize; page sizes above maxSize are clamped.
func ParsePage(v url.Values, defSize, maxSize int) (Page, error) {
	p := Page{Number: 1, Size: defSize}
	if raw := strings.TrimSpace(v.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Page{}, apperr.NotFound("invalid page")
		}
		p.Number = n
	}
	if raw := strings.TrimSpace(v.Get("page_size")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err == nil && n > 0 {
			p.Size = n
		}
	}
	if maxSize > 0 && p.Size > maxSize {
		p.Size = maxSize
	}
	if p.Size < 1 {
		p.Size = 1
	}
	return p, nil
}

// PageResult is the paginated list envelope.
type PageResult[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// LastPage returns the number of the last page for total rows (at least 1).
func (p Page) LastPage(total int64) int {
	if total <= 0 {
		return 1
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// Paginate builds the envelope for items, the rows of page p out of total.
// base is the request URL; next and previous keep its other parameters.
// A page past the end is reported as NotFound.
func Paginate[T any](base *url.URL, p Page, total int64, items []T) (PageResult[T], error) {
	last := p.LastPage(total)
	if p.Number > last {
		return PageResult[T]{}, apperr.NotFound("invalid page")
	}
	if items == nil {
		items = []T{}
	}
	res := PageResult[T]{Count: total, Results: items}
	if p.Number < last {
		next := pageLink(base, p.Number+1)
		res.Next = &next
	}
	if p.Number > 1 {
		prev := pageLink(base, p.Number-1)
		res.Previous = &prev
	}
	return res, nil
}

func pageLink(base *url.URL, number int) string {
	u := *base
	q := u.Query()
	if number == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(number))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
