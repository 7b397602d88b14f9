// Package pagination implements page/limits query parameters and the list
// envelope returned by collection endpoints.
package pagination

import (
	"math"
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000

	PageParam     = "page"
	PageSizeParam = "limits"
)

// Page selects one page of a collection. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// Default returns the first page at the default size
func Default() Page {
	return Page{Number: 1, Size: DefaultPageSize}
}

// FromQuery reads page and limits from q. Missing or malformed values fall
// back to the defaults and sizes above MaxPageSize are clamped.
func FromQuery(q url.Values) Page {
	p := Default()
	if n, err := strconv.Atoi(q.Get(PageParam)); err == nil && n > 0 {
		p.Number = n
	}
	if s, err := strconv.Atoi(q.Get(PageSizeParam)); err == nil && s > 0 {
		p.Size = s
	}
	return p.Normalize()
}

// Normalize clamps the page into valid bounds. Page numbers too large to
// address are pulled back to the last addressable page.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	// Number*Size must fit in an int
	if maxNumber := math.MaxInt / p.Size; p.Number > maxNumber {
		p.Number = maxNumber
	}
	return p
}

// Offset returns the number of rows to skip
func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Size
}

// Limit returns the number of rows to fetch
func (p Page) Limit() int {
	return p.Normalize().Size
}

// Response is the list envelope
type Response[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewResponse builds the envelope for one page of results. base is the
// request URL; next and previous keep its query and replace the page.
func NewResponse[T any](base *url.URL, page Page, count int64, results []T) Response[T] {
	page = page.Normalize()
	if results == nil {
		results = []T{}
	}
	resp := Response[T]{Count: count, Results: results}
	if base == nil {
		return resp
	}
	if int64(page.Number*page.Size) < count {
		link := pageURL(base, page.Number+1)
		resp.Next = &link
	}
	if page.Number > 1 {
		link := pageURL(base, page.Number-1)
		resp.Previous = &link
	}
	return resp
}

func pageURL(base *url.URL, number int) string {
	u := *base
	q := u.Query()
	if number == 1 {
		q.Del(PageParam)
	} else {
		q.Set(PageParam, strconv.Itoa(number))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
