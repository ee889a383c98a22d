package schedule_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condo/internal/domains/reservation/model"
	"condo/internal/domains/reservation/schedule"
)

func TestWindow_Anchor(t *testing.T) {
	tests := []struct {
		name      string
		window    schedule.Window
		date      string
		wantStart string
		wantEnd   string
	}{
		{
			name:      "daytime window stays on the same day",
			window:    schedule.Window{OpensAt: "08:00", ClosesAt: "20:00"},
			date:      "2025-06-01",
			wantStart: "2025-06-01T08:00:00Z",
			wantEnd:   "2025-06-01T20:00:00Z",
		},
		{
			name:      "overnight window closes on the next day",
			window:    schedule.Window{OpensAt: "22:00", ClosesAt: "02:00"},
			date:      "2025-06-01",
			wantStart: "2025-06-01T22:00:00Z",
			wantEnd:   "2025-06-02T02:00:00Z",
		},
		{
			name:      "overnight window across a month boundary",
			window:    schedule.Window{OpensAt: "23:00", ClosesAt: "01:00"},
			date:      "2025-06-30",
			wantStart: "2025-06-30T23:00:00Z",
			wantEnd:   "2025-07-01T01:00:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.window.Anchor(tt.date)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStart, got.Start.Format(time.RFC3339))
			assert.Equal(t, tt.wantEnd, got.End.Format(time.RFC3339))
		})
	}
}

func TestWindow_Resolve(t *testing.T) {
	pool := schedule.Window{OpensAt: "08:00", ClosesAt: "20:00"}
	lounge := schedule.Window{OpensAt: "22:00", ClosesAt: "02:00"}

	tests := []struct {
		name       string
		window     schedule.Window
		date       string
		start, end string
		wantStart  string
		wantEnd    string
		wantErr    error
	}{
		{
			name:   "inside daytime window",
			window: pool, date: "2025-06-01", start: "09:00", end: "10:00",
			wantStart: "2025-06-01T09:00:00Z", wantEnd: "2025-06-01T10:00:00Z",
		},
		{
			name:   "fills the whole daytime window",
			window: pool, date: "2025-06-01", start: "08:00", end: "20:00",
			wantStart: "2025-06-01T08:00:00Z", wantEnd: "2025-06-01T20:00:00Z",
		},
		{
			name:   "starts before opening",
			window: pool, date: "2025-06-01", start: "07:00", end: "09:00",
			wantErr: schedule.ErrOutsideWindow,
		},
		{
			name:   "ends after closing",
			window: pool, date: "2025-06-01", start: "19:00", end: "21:00",
			wantErr: schedule.ErrOutsideWindow,
		},
		{
			name:   "entirely outside",
			window: pool, date: "2025-06-01", start: "21:00", end: "22:00",
			wantErr: schedule.ErrOutsideWindow,
		},
		{
			name:   "zero length window",
			window: pool, date: "2025-06-01", start: "09:00", end: "09:00",
			wantErr: schedule.ErrEmptyWindow,
		},
		{
			name:   "overnight booking crossing midnight",
			window: lounge, date: "2025-06-01", start: "23:00", end: "01:00",
			wantStart: "2025-06-01T23:00:00Z", wantEnd: "2025-06-02T01:00:00Z",
		},
		{
			name:   "post-midnight segment anchors to the booked night",
			window: lounge, date: "2025-06-01", start: "00:30", end: "01:30",
			wantStart: "2025-06-02T00:30:00Z", wantEnd: "2025-06-02T01:30:00Z",
		},
		{
			name:   "post-midnight booking past closing",
			window: lounge, date: "2025-06-01", start: "01:00", end: "03:00",
			wantErr: schedule.ErrOutsideWindow,
		},
		{
			name:   "daytime hours rejected for overnight area",
			window: lounge, date: "2025-06-01", start: "10:00", end: "11:00",
			wantErr: schedule.ErrOutsideWindow,
		},
		{
			name:   "malformed date",
			window: pool, date: "01/06/2025", start: "09:00", end: "10:00",
			wantErr: nil, // any error is fine, asserted below
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.window.Resolve(tt.date, tt.start, tt.end)

			if tt.wantStart == "" {
				require.Error(t, err)

				if tt.wantErr != nil {
					assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, got.Start.Format(time.RFC3339))
			assert.Equal(t, tt.wantEnd, got.End.Format(time.RFC3339))
		})
	}
}

func TestInterval_Overlaps(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	interval := func(startOffset, endOffset time.Duration) schedule.Interval {
		return schedule.Interval{Start: base.Add(startOffset), End: base.Add(endOffset)}
	}

	tests := []struct {
		name string
		a, b schedule.Interval
		want bool
	}{
		{name: "identical", a: interval(0, time.Hour), b: interval(0, time.Hour), want: true},
		{name: "partial overlap", a: interval(0, time.Hour), b: interval(30*time.Minute, 90*time.Minute), want: true},
		{name: "containment", a: interval(0, 2*time.Hour), b: interval(30*time.Minute, time.Hour), want: true},
		{name: "back to back", a: interval(0, time.Hour), b: interval(time.Hour, 2*time.Hour), want: false},
		{name: "disjoint", a: interval(0, time.Hour), b: interval(2*time.Hour, 3*time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

// Scenario: pool open 08:00-20:00; an existing 09:00-10:00 booking blocks
// 09:30-10:30 but not the back-to-back 10:00-11:00.
func TestHasConflict_Daytime(t *testing.T) {
	pool := schedule.Window{OpensAt: "08:00", ClosesAt: "20:00"}

	existing := []model.Reservation{
		{ID: "res-a", Date: "2025-06-01", StartTime: "09:00", EndTime: "10:00", Status: model.StatusConfirmed},
	}

	overlapping, err := pool.Resolve("2025-06-01", "09:30", "10:30")
	require.NoError(t, err)
	assert.True(t, schedule.HasConflict(pool, overlapping, existing, ""))

	backToBack, err := pool.Resolve("2025-06-01", "10:00", "11:00")
	require.NoError(t, err)
	assert.False(t, schedule.HasConflict(pool, backToBack, existing, ""))
}

// Scenario: lounge open 22:00-02:00; a 23:00-01:00 booking crossing midnight
// blocks the 00:30-01:30 slot of the same night.
func TestHasConflict_Overnight(t *testing.T) {
	lounge := schedule.Window{OpensAt: "22:00", ClosesAt: "02:00"}

	existing := []model.Reservation{
		{ID: "res-a", Date: "2025-06-01", StartTime: "23:00", EndTime: "01:00", Status: model.StatusPending},
	}

	candidate, err := lounge.Resolve("2025-06-01", "00:30", "01:30")
	require.NoError(t, err)
	assert.True(t, schedule.HasConflict(lounge, candidate, existing, ""))

	// The same clock window a night later is free.
	nextNight, err := lounge.Resolve("2025-06-02", "00:30", "01:30")
	require.NoError(t, err)
	assert.False(t, schedule.HasConflict(lounge, nextNight, existing, ""))
}

func TestHasConflict_SkipsCancelledAndExcluded(t *testing.T) {
	pool := schedule.Window{OpensAt: "08:00", ClosesAt: "20:00"}

	existing := []model.Reservation{
		{ID: "res-cancelled", Date: "2025-06-01", StartTime: "09:00", EndTime: "10:00", Status: model.StatusCancelled},
		{ID: "res-self", Date: "2025-06-01", StartTime: "10:00", EndTime: "11:00", Status: model.StatusPending},
	}

	candidate, err := pool.Resolve("2025-06-01", "09:30", "10:30")
	require.NoError(t, err)

	assert.False(t, schedule.HasConflict(pool, candidate, existing, "res-self"))
	assert.True(t, schedule.HasConflict(pool, candidate, existing, ""))
}

func TestHasConflict_MalformedRecordBlocks(t *testing.T) {
	pool := schedule.Window{OpensAt: "08:00", ClosesAt: "20:00"}

	existing := []model.Reservation{
		{ID: "res-bad", Date: "not-a-date", StartTime: "09:00", EndTime: "10:00", Status: model.StatusPending},
	}

	candidate, err := pool.Resolve("2025-06-01", "12:00", "13:00")
	require.NoError(t, err)

	assert.True(t, schedule.HasConflict(pool, candidate, existing, ""))
}

// Property: admitting random candidates one at a time through HasConflict
// never produces a pair of accepted reservations whose resolved intervals
// overlap, including day-crossing windows on overnight areas.
func TestHasConflict_NoOverlapProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	windows := []schedule.Window{
		{OpensAt: "08:00", ClosesAt: "20:00"},
		{OpensAt: "22:00", ClosesAt: "02:00"},
		{OpensAt: "18:00", ClosesAt: "06:00"},
	}

	clock := func(offset time.Duration) string {
		offset = offset % (24 * time.Hour)

		return fmt.Sprintf("%02d:%02d", int(offset.Hours()), int(offset.Minutes())%60)
	}

	for wi, window := range windows {
		t.Run(fmt.Sprintf("window_%d", wi), func(t *testing.T) {
			var accepted []model.Reservation

			opens, err := window.Anchor("2025-06-01")
			require.NoError(t, err)

			span := opens.Duration()

			for i := range 400 {
				day := 1 + rng.Intn(3)
				date := fmt.Sprintf("2025-06-%02d", day)

				startOffset := time.Duration(rng.Intn(int(span/time.Minute))) * time.Minute
				length := time.Duration(1+rng.Intn(119)) * time.Minute

				openClock, err := clockOffsetForTest(window.OpensAt)
				require.NoError(t, err)

				start := clock(openClock + startOffset)
				end := clock(openClock + startOffset + length)

				candidate, err := window.Resolve(date, start, end)
				if err != nil {
					continue // outside operating hours, rejected upstream
				}

				if schedule.HasConflict(window, candidate, accepted, "") {
					continue
				}

				accepted = append(accepted, model.Reservation{
					ID:        fmt.Sprintf("res-%d", i),
					Date:      date,
					StartTime: start,
					EndTime:   end,
					Status:    model.StatusConfirmed,
				})
			}

			require.NotEmpty(t, accepted)

			for i := range accepted {
				for j := i + 1; j < len(accepted); j++ {
					a, err := window.Resolve(accepted[i].Date, accepted[i].StartTime, accepted[i].EndTime)
					require.NoError(t, err)

					b, err := window.Resolve(accepted[j].Date, accepted[j].StartTime, accepted[j].EndTime)
					require.NoError(t, err)

					assert.False(t, a.Overlaps(b),
						"accepted reservations %s and %s overlap", accepted[i].ID, accepted[j].ID)
				}
			}
		})
	}
}

func clockOffsetForTest(clock string) (time.Duration, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, err
	}

	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, nil
}
