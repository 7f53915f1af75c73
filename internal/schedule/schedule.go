// Package schedule computes working-day validity and the catalog of
// bookable interview slots, optionally narrowed by a remote calendar's
// busy periods.
package schedule

import (
	"context"
	"fmt"
	"time"

	"cvintake/internal/errors"
	"cvintake/internal/types"
)

const (
	// DefaultStartHour and DefaultEndHour bound the bookable window.
	// Slots run from StartHour:00 up to but excluding EndHour:00.
	DefaultStartHour = 9
	DefaultEndHour   = 20

	// SlotDuration is the granularity of the bookable catalog.
	SlotDuration = 15 * time.Minute
)

// IsWorkingDay reports whether the date falls Monday through Friday.
func IsWorkingDay(date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// QuarterHourSlots returns every quarter-hour label from startHour:00 up
// to but excluding endHour:00, in chronological order.
func QuarterHourSlots(startHour, endHour int) []string {
	slots := make([]string, 0, (endHour-startHour)*4)
	for hour := startHour; hour < endHour; hour++ {
		for _, minute := range []int{0, 15, 30, 45} {
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return slots
}

// BusyLister fetches the occupied intervals for a calendar date.
type BusyLister interface {
	BusyIntervals(ctx context.Context, date string) ([]types.BusyInterval, error)
}

// Planner produces the bookable slots for a date. When a BusyLister is
// configured its busy intervals narrow the catalog; any remote failure
// degrades to the full fallback catalog rather than surfacing an error.
type Planner struct {
	busy      BusyLister
	logger    *errors.Logger
	location  *time.Location
	startHour int
	endHour   int
}

// NewPlanner builds a Planner over the default 09:00-20:00 window. The
// busy lister may be nil, in which case the fallback catalog is always
// returned. Slot instants are anchored in loc; nil means UTC.
func NewPlanner(busy BusyLister, logger *errors.Logger, loc *time.Location) *Planner {
	if loc == nil {
		loc = time.UTC
	}
	return &Planner{
		busy:      busy,
		logger:    logger,
		location:  loc,
		startHour: DefaultStartHour,
		endHour:   DefaultEndHour,
	}
}

// WithWindow overrides the bookable window. An inverted or out-of-range
// pair keeps the current window.
func (p *Planner) WithWindow(startHour, endHour int) *Planner {
	if startHour >= 0 && endHour <= 24 && startHour < endHour {
		p.startHour = startHour
		p.endHour = endHour
	}
	return p
}

// Catalog returns the planner's full fallback slot catalog.
func (p *Planner) Catalog() []string {
	return QuarterHourSlots(p.startHour, p.endHour)
}

// HasSlot reports whether label is one of the planner's catalog slots.
func (p *Planner) HasSlot(label string) bool {
	for _, s := range p.Catalog() {
		if s == label {
			return true
		}
	}
	return false
}

// AvailableSlots returns the bookable slots for date (YYYY-MM-DD). A
// slot is removed when its 15-minute window overlaps a busy interval.
// Remote failures fall back to the full catalog; only an unparseable
// date is an error.
func (p *Planner) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	day, err := time.ParseInLocation("2006-01-02", date, p.location)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidDate,
			fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date), err)
	}

	catalog := p.Catalog()
	if p.busy == nil {
		return catalog, nil
	}

	intervals, err := p.busy.BusyIntervals(ctx, date)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("calendar unreachable, serving fallback slot catalog",
				"date", date, "error", err)
		}
		return catalog, nil
	}

	available := make([]string, 0, len(catalog))
	for i, label := range catalog {
		slotStart := day.Add(time.Duration(p.startHour)*time.Hour + time.Duration(i)*SlotDuration)
		if !overlapsAny(slotStart, intervals) {
			available = append(available, label)
		}
	}
	return available, nil
}

func overlapsAny(slotStart time.Time, intervals []types.BusyInterval) bool {
	slotEnd := slotStart.Add(SlotDuration)
	for _, iv := range intervals {
		if slotStart.Before(iv.End) && slotEnd.After(iv.Start) {
			return true
		}
	}
	return false
}
