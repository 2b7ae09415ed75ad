package service

import (
	"fmt"
	"time"

	"hospital-booking/config"
	"hospital-booking/internal/domain/entity"
)

// SlotCatalog is the fixed, ordered sequence of bookable slots in a day.
// It is immutable after construction and safe for concurrent use.
type SlotCatalog struct {
	slots    []entity.TimeSlot
	index    map[entity.TimeSlot]int
	interval time.Duration
	loc      *time.Location
}

func NewSlotCatalog(cfg config.BookingConfig) (*SlotCatalog, error) {
	start, err := entity.ParseTimeSlot(cfg.DayStart)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_DAY_START %q: %w", cfg.DayStart, err)
	}
	end, err := entity.ParseTimeSlot(cfg.DayEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_DAY_END %q: %w", cfg.DayEnd, err)
	}
	return NewSlotCatalogFromBounds(start, end, cfg.SlotInterval, cfg.Location())
}

// NewSlotCatalogFromBounds builds slots from start (inclusive) to end (exclusive).
func NewSlotCatalogFromBounds(start, end entity.TimeSlot, interval time.Duration, loc *time.Location) (*SlotCatalog, error) {
	if interval <= 0 || interval%time.Minute != 0 {
		return nil, fmt.Errorf("slot interval must be a positive whole number of minutes, got %s", interval)
	}
	from, to := start.Minutes(), end.Minutes()
	if from < 0 || to < 0 || from >= to {
		return nil, fmt.Errorf("slot day start %s must be before day end %s", start, end)
	}

	step := int(interval / time.Minute)
	catalog := &SlotCatalog{
		index:    make(map[entity.TimeSlot]int),
		interval: interval,
		loc:      loc,
	}
	for m := from; m < to; m += step {
		slot := entity.NewTimeSlot(m/60, m%60)
		catalog.index[slot] = len(catalog.slots)
		catalog.slots = append(catalog.slots, slot)
	}
	return catalog, nil
}

// SlotsForDay returns a fresh copy of the catalog in order.
func (c *SlotCatalog) SlotsForDay() []entity.TimeSlot {
	out := make([]entity.TimeSlot, len(c.slots))
	copy(out, c.slots)
	return out
}

func (c *SlotCatalog) Contains(slot entity.TimeSlot) bool {
	_, ok := c.index[slot]
	return ok
}

func (c *SlotCatalog) Location() *time.Location {
	return c.loc
}

// MomentOf is the start of slot on date in the booking time zone.
func (c *SlotCatalog) MomentOf(date entity.Date, slot entity.TimeSlot) time.Time {
	return slot.At(date, c.loc)
}

// Today is the current calendar day in the booking time zone.
func (c *SlotCatalog) Today(now time.Time) entity.Date {
	return entity.DateOf(now.In(c.loc))
}

// IsPast reports whether the slot on date started strictly before now.
func (c *SlotCatalog) IsPast(date entity.Date, slot entity.TimeSlot, now time.Time) bool {
	return c.MomentOf(date, slot).Before(now)
}

// ElapsedCutoff returns the day and latest slot start whose whole interval
// has ended by now. Slots on earlier days are elapsed as well.
func (c *SlotCatalog) ElapsedCutoff(now time.Time) (entity.Date, entity.TimeSlot) {
	cutoff := now.In(c.loc).Add(-c.interval)
	return entity.DateOf(cutoff), entity.NewTimeSlot(cutoff.Hour(), cutoff.Minute())
}
