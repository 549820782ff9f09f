package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

// Date is a calendar day stored as YYYY-MM-DD text, so that range filters
// compare lexicographically.
type Date struct {
	time.Time
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error { return d.scanString(string(b)) }

// MarshalJSON shadows the promoted time.Time encoding.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode date: %w", err)
	}
	return d.scanString(s)
}

// Clock is a time of day stored as HH:MM:SS text.
type Clock time.Duration

// ClockOf builds a Clock from hours, minutes and seconds.
func ClockOf(h, m, s int) Clock {
	return Clock(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
}

// ParseClock parses HH:MM[:SS].
func ParseClock(s string) (Clock, error) {
	layout := ClockLayout
	if strings.Count(s, ":") == 1 {
		layout = "15:04"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("parse time %q: %w", s, err)
	}
	return ClockOf(t.Hour(), t.Minute(), t.Second()), nil
}

func (c Clock) String() string {
	d := time.Duration(c)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Sub returns c - o.
func (c Clock) Sub(o Clock) time.Duration {
	return time.Duration(c - o)
}

func (c Clock) Value() (driver.Value, error) {
	return c.String(), nil
}

func (c *Clock) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = 0
		return nil
	case time.Time:
		*c = ClockOf(v.Hour(), v.Minute(), v.Second())
		return nil
	case []byte:
		return c.scanString(string(v))
	case string:
		return c.scanString(v)
	}
	return fmt.Errorf("cannot scan %T into Clock", src)
}

func (c *Clock) scanString(s string) error {
	// Older rows may carry fractional seconds ("09:30:00.0000000").
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	v, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c Clock) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Clock) UnmarshalText(b []byte) error { return c.scanString(string(b)) }

// IDList is a set of row ids persisted as a sorted JSON array.
type IDList []int64

// NewIDList returns a sorted, de-duplicated list.
func NewIDList(ids ...int64) IDList {
	out := slices.Clone(ids)
	slices.Sort(out)
	return IDList(slices.Compact(out))
}

// Contains reports whether id is in the list.
func (l IDList) Contains(id int64) bool {
	return slices.Contains(l, id)
}

// Any converts the list for use as query arguments.
func (l IDList) Any() []any {
	out := make([]any, len(l))
	for i, id := range l {
		out[i] = id
	}
	return out
}

func (l IDList) Value() (driver.Value, error) {
	b, err := json.Marshal(NewIDList(l...))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *IDList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into IDList", src)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		*l = nil
		return nil
	}
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("decode id list: %w", err)
	}
	*l = NewIDList(ids...)
	return nil
}
