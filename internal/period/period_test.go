package period_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kitty/internal/period"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation(name)
	require.NoError(t, err)

	return loc
}

func TestResolver_Resolve(t *testing.T) {
	fixed := time.Date(2025, 7, 31, 23, 30, 0, 0, time.UTC)
	r := period.NewResolver(period.WithClock(func() time.Time { return fixed }), period.WithLocation(time.UTC))

	type want struct {
		key   string
		start string
		end   string
	}

	tests := []struct {
		name    string
		token   string
		want    want
		wantErr bool
	}{
		{name: "MonthKey", token: "2025-03", want: want{"2025-03", "2025-03-01", "2025-04-01"}},
		{name: "FullDate", token: "2025-03-15", want: want{"2025-03", "2025-03-01", "2025-04-01"}},
		{name: "December", token: "2024-12", want: want{"2024-12", "2024-12-01", "2025-01-01"}},
		{name: "Padded", token: "  2025-02 ", want: want{"2025-02", "2025-02-01", "2025-03-01"}},
		{name: "Empty", token: "", want: want{"2025-07", "2025-07-01", "2025-08-01"}},
		{name: "TimestampWithOffset", token: "2025-03-01T00:30:00+08:00", want: want{"2025-03", "2025-03-01", "2025-04-01"}},
		{name: "TimestampNegativeOffset", token: "2025-03-31T23:30:00-05:00", want: want{"2025-03", "2025-03-01", "2025-04-01"}},
		{name: "TimestampNoZone", token: "2025-01-31T23:59:59", want: want{"2025-01", "2025-01-01", "2025-02-01"}},
		{name: "InvalidMonth", token: "2025-13", wantErr: true},
		{name: "Garbage", token: "next month", wantErr: true},
		{name: "ShortMonth", token: "2025-3", wantErr: true},
		{name: "BadDay", token: "2025-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.token)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, period.ErrInvalidPeriod))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.key, got.Key)
			assert.Equal(t, tt.want.start, got.StartDate())
			assert.Equal(t, tt.want.end, got.EndDate())
		})
	}
}

func TestResolver_SameMonthInEveryZone(t *testing.T) {
	zones := []*time.Location{
		time.UTC,
		mustLoad(t, "Asia/Shanghai"),
		mustLoad(t, "America/Los_Angeles"),
		mustLoad(t, "Pacific/Kiritimati"),
		mustLoad(t, "Pacific/Pago_Pago"),
	}

	tokens := []string{"2025-03", "2025-03-01", "2025-03-31", "2025-03-01T00:00:00+14:00", "2025-03-31T23:59:59-11:00"}

	for _, token := range tokens {
		var keys, starts, ends []string

		for _, loc := range zones {
			got, err := period.NewResolver(period.WithLocation(loc)).Resolve(token)
			require.NoError(t, err)

			keys = append(keys, got.Key)
			starts = append(starts, got.StartDate())
			ends = append(ends, got.EndDate())
		}

		for i := range zones {
			assert.Equal(t, "2025-03", keys[i], "token %s zone %s", token, zones[i])
			assert.Equal(t, "2025-03-01", starts[i], "token %s zone %s", token, zones[i])
			assert.Equal(t, "2025-04-01", ends[i], "token %s zone %s", token, zones[i])
		}
	}
}

func TestResolver_CurrentUsesLocalCalendar(t *testing.T) {
	// 2025-03-31 20:00 in Los Angeles is already April in UTC.
	instant := time.Date(2025, 4, 1, 3, 0, 0, 0, time.UTC)
	la := mustLoad(t, "America/Los_Angeles")

	r := period.NewResolver(period.WithClock(func() time.Time { return instant }), period.WithLocation(la))

	assert.Equal(t, "2025-03", r.Current().Key)
	assert.Equal(t, "2025-03-31", r.Today().Format(time.DateOnly))

	utc := period.NewResolver(period.WithClock(func() time.Time { return instant }), period.WithLocation(time.UTC))
	assert.Equal(t, "2025-04", utc.Current().Key)
}

func TestResolver_ForDate(t *testing.T) {
	r := period.NewResolver(period.WithLocation(time.UTC))

	shanghai := mustLoad(t, "Asia/Shanghai")
	p := r.ForDate(time.Date(2025, 3, 1, 0, 15, 0, 0, shanghai))

	assert.Equal(t, "2025-03", p.Key)
	assert.True(t, p.Contains(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 2, 28, 23, 59, 0, 0, time.UTC)))
}
