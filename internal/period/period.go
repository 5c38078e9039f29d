// Package period turns caller supplied period tokens into calendar months.
//
// Every month is resolved on the wall-clock calendar: a token's own date
// components decide its month, and range boundaries are built in the
// resolver's location. Nothing is converted through UTC, so a token dated on
// the first or last day of a month never slides into its neighbour.
package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidPeriod is returned for tokens that are neither a month key nor a date.
var ErrInvalidPeriod = errors.New("invalid period, expected YYYY-MM")

// KeyLayout is the canonical month key format.
const KeyLayout = "2006-01"

// timestampLayouts are accepted in addition to month keys and plain dates.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
}

// Period is one calendar month: [Start, End).
type Period struct {
	Key   string
	Start time.Time
	End   time.Time
}

// StartDate is the inclusive first day as YYYY-MM-DD.
func (p Period) StartDate() string { return p.Start.Format(time.DateOnly) }

// EndDate is the exclusive end (first day of the next month) as YYYY-MM-DD.
func (p Period) EndDate() string { return p.End.Format(time.DateOnly) }

// Contains reports whether the calendar date of t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	d := t.Format(time.DateOnly)
	return d >= p.StartDate() && d < p.EndDate()
}

func (p Period) String() string { return p.Key }

type Resolver struct {
	now func() time.Time
	loc *time.Location
}

type Option func(*Resolver)

// WithClock replaces the wall clock used for "current month" and "today".
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithLocation sets the calendar the resolver works in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(r *Resolver) {
		if loc != nil {
			r.loc = loc
		}
	}
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve normalises a period token. An empty token means the current month.
func (r *Resolver) Resolve(token string) (Period, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return r.Current(), nil
	}

	if t, err := time.Parse(KeyLayout, token); err == nil {
		return r.month(t.Year(), t.Month()), nil
	}

	if t, err := time.Parse(time.DateOnly, token); err == nil {
		return r.month(t.Year(), t.Month()), nil
	}

	for _, layout := range timestampLayouts {
		// time.Parse keeps the offset written in the token, so Year/Month
		// are the ones the caller wrote.
		if t, err := time.Parse(layout, token); err == nil {
			return r.month(t.Year(), t.Month()), nil
		}
	}

	return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, token)
}

// ForDate returns the period holding the calendar date of t, as written in t's own location.
func (r *Resolver) ForDate(t time.Time) Period {
	return r.month(t.Year(), t.Month())
}

// Current returns the period holding the resolver's "now".
func (r *Resolver) Current() Period {
	return r.ForDate(r.now().In(r.loc))
}

// Today returns the current calendar date at midnight in the resolver's location.
func (r *Resolver) Today() time.Time {
	now := r.now().In(r.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc)
}

func (r *Resolver) month(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, r.loc)

	return Period{
		Key:   start.Format(KeyLayout),
		Start: start,
		End:   start.AddDate(0, 1, 0),
	}
}
