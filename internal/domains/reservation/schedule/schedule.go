// Package schedule holds the pure interval arithmetic behind the reservation
// scheduler: anchoring wall-clock booking windows to absolute instants,
// handling operating hours and bookings that cross midnight, and detecting
// overlaps between reservations. Nothing here touches storage; every function
// is deterministic over its inputs and safe to call concurrently.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"condo/internal/domains/reservation/model"
	"condo/shared/constant"
)

var (
	// ErrOutsideWindow marks a booking window that is not fully contained in
	// the area's operating hours.
	ErrOutsideWindow = errors.New("window outside the area's operating hours")
	// ErrEmptyWindow marks a window whose start and end coincide.
	ErrEmptyWindow = errors.New("window start and end must differ")
)

// Interval is a half-open absolute time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not overlap, so back-to-back bookings are allowed.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Duration returns the length of the interval.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Window is an area's daily operating window in wall-clock terms. A ClosesAt
// numerically at or below OpensAt means the window runs past midnight, e.g.
// a lounge open 22:00-02:00.
type Window struct {
	OpensAt  string
	ClosesAt string
}

// crosses reports whether the window spans midnight.
func (w Window) crosses() (bool, error) {
	opens, err := clockOffset(w.OpensAt)
	if err != nil {
		return false, err
	}

	closes, err := clockOffset(w.ClosesAt)
	if err != nil {
		return false, err
	}

	return closes <= opens, nil
}

// Anchor resolves the operating window for the night labeled by date: it
// opens at date+OpensAt and, when the window crosses midnight, closes on the
// following day.
func (w Window) Anchor(date string) (Interval, error) {
	day, err := time.Parse(constant.ReservationDateFormat, date)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	opens, err := clockOffset(w.OpensAt)
	if err != nil {
		return Interval{}, err
	}

	closes, err := clockOffset(w.ClosesAt)
	if err != nil {
		return Interval{}, err
	}

	interval := Interval{Start: day.Add(opens), End: day.Add(closes)}
	if closes <= opens {
		interval.End = interval.End.AddDate(0, 0, 1)
	}

	return interval, nil
}

// Resolve anchors a booking window inside the operating window for the night
// labeled by date and checks containment. For an overnight operating window,
// a start before the opening clock value is read as the post-midnight segment
// of that night, so a booking "00:30-01:30 on 2025-06-01" for a lounge open
// 22:00-02:00 lands in the small hours of 2025-06-02. Returns
// ErrOutsideWindow when the resolved interval escapes the operating hours and
// ErrEmptyWindow when start equals end.
func (w Window) Resolve(date, start, end string) (Interval, error) {
	if start == end {
		return Interval{}, ErrEmptyWindow
	}

	operating, err := w.Anchor(date)
	if err != nil {
		return Interval{}, err
	}

	day, err := time.Parse(constant.ReservationDateFormat, date)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	startOffset, err := clockOffset(start)
	if err != nil {
		return Interval{}, err
	}

	endOffset, err := clockOffset(end)
	if err != nil {
		return Interval{}, err
	}

	opens, err := clockOffset(w.OpensAt)
	if err != nil {
		return Interval{}, err
	}

	crossing, err := w.crosses()
	if err != nil {
		return Interval{}, err
	}

	if crossing && startOffset < opens {
		day = day.AddDate(0, 0, 1)
	}

	booking := Interval{Start: day.Add(startOffset), End: day.Add(endOffset)}
	if endOffset <= startOffset {
		booking.End = booking.End.AddDate(0, 0, 1)
	}

	if booking.Start.Before(operating.Start) || booking.End.After(operating.End) {
		return Interval{}, ErrOutsideWindow
	}

	return booking, nil
}

// HasConflict reports whether the candidate interval collides with any
// non-cancelled reservation in existing, skipping excludeID (the record being
// rescheduled, if any). Stored records are resolved against the same
// operating window; a record that no longer resolves counts as a conflict,
// since a malformed row must never let a double booking through.
func HasConflict(window Window, candidate Interval, existing []model.Reservation, excludeID string) bool {
	for _, res := range existing {
		if res.ID == excludeID || res.Status == model.StatusCancelled {
			continue
		}

		interval, err := window.Resolve(res.Date, res.StartTime, res.EndTime)
		if err != nil {
			return true
		}

		if candidate.Overlaps(interval) {
			return true
		}
	}

	return false
}

func clockOffset(clock string) (time.Duration, error) {
	parsed, err := time.Parse(constant.ClockFormat, clock)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", clock, err)
	}

	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, nil
}
