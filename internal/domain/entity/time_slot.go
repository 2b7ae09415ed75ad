package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidTimeSlot = errors.New("time slot must be formatted as HH:MM or hh:mm AM/PM")

// TimeSlot is a start-of-slot label in 24-hour "HH:MM" form.
type TimeSlot string

var timeSlotLayouts = []string{"15:04", "03:04 PM", "3:04 PM", "03:04PM", "3:04PM"}

// ParseTimeSlot accepts both the 24-hour label and the 12-hour form used by
// the mobile client ("01:30 PM") and normalises to "13:30".
func ParseTimeSlot(s string) (TimeSlot, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range timeSlotLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeSlot(t.Hour(), t.Minute()), nil
		}
	}
	return "", ErrInvalidTimeSlot
}

func NewTimeSlot(hour, minute int) TimeSlot {
	return TimeSlot(fmt.Sprintf("%02d:%02d", hour, minute))
}

// Clock returns the hour and minute of the slot; ok is false for malformed labels.
func (s TimeSlot) Clock() (hour, minute int, ok bool) {
	t, err := time.Parse("15:04", string(s))
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

// Minutes returns minutes since midnight, or -1 for a malformed label.
func (s TimeSlot) Minutes() int {
	h, m, ok := s.Clock()
	if !ok {
		return -1
	}
	return h*60 + m
}

// Label renders the 12-hour form, e.g. "09:30 AM".
func (s TimeSlot) Label() string {
	h, m, ok := s.Clock()
	if !ok {
		return string(s)
	}
	return time.Date(0, 1, 1, h, m, 0, 0, time.UTC).Format("03:04 PM")
}

func (s TimeSlot) String() string {
	return string(s)
}

// At returns the moment the slot starts on date d in loc.
func (s TimeSlot) At(d Date, loc *time.Location) time.Time {
	h, m, _ := s.Clock()
	return d.In(loc).Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}
