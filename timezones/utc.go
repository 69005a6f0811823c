// Package timezones provides time values that are always tagged UTC.
//
// UTCTime embeds time.Time, so it can be used anywhere a time.Time method set
// is expected. Construction goes through NewUTCTime, which rejects naive input
// (Strict, the default) or tags it as UTC without shifting the clock fields
// (Permissive). Aware input in another zone is converted to UTC.
package timezones

import (
	"strings"
	"time"

	csvskema "github.com/reoring/csvskema"
	"github.com/reoring/csvskema/codec"
	"github.com/reoring/csvskema/i18n"
)

// Wall is a naive wall-clock reading. Its location is ignored; only the clock
// fields (year through nanosecond) carry meaning.
type Wall struct{ time.Time }

// NaiveOf returns t's clock fields as a Wall, dropping the zone.
func NaiveOf(t time.Time) Wall { return Wall{t} }

// Mode selects how naive input is treated.
type Mode int

const (
	Strict     Mode = iota // naive input fails with missing_timezone
	Permissive             // naive input is tagged UTC as is
)

type options struct {
	mode  Mode
	clock func() time.Time
}

// Option configures NewUTCTime, NewUTCFuture and the field adapters.
type Option func(*options)

// WithMode sets the naive-input handling mode.
func WithMode(m Mode) Option { return func(o *options) { o.mode = m } }

// AllowNaive is shorthand for WithMode(Permissive).
func AllowNaive() Option { return WithMode(Permissive) }

// WithClock sets the source of "now" for future checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{mode: Strict, clock: time.Now}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// awareLayouts are offset-bearing forms besides RFC3339, such as the
// space-separated "2023-01-01 12:00:00+02:00".
var awareLayouts = []string{
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04Z07:00",
}

// naiveLayouts are accepted for strings without an offset.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// UTCTime is a time.Time guaranteed to be in UTC.
type UTCTime struct{ time.Time }

// NewUTCTime normalizes v into a UTCTime. Accepted inputs are time.Time,
// *time.Time, Wall, UTCTime and strings: RFC3339 or its space-separated form
// (aware), or one of the offset-free layouts (naive).
func NewUTCTime(v any, opts ...Option) (UTCTime, error) {
	return normalize(v, buildOptions(opts))
}

func normalize(v any, o options) (UTCTime, error) {
	switch x := v.(type) {
	case UTCTime:
		return UTCTime{x.UTC()}, nil
	case time.Time:
		return UTCTime{x.UTC()}, nil
	case *time.Time:
		if x == nil {
			return UTCTime{}, issue(csvskema.CodeInvalidType, v, "expected time")
		}
		return UTCTime{x.UTC()}, nil
	case Wall:
		return fromNaive(x.Time, v, o)
	case string:
		s := strings.TrimSpace(x)
		if t, err := codec.ParseRFC3339(s); err == nil {
			return UTCTime{t.UTC()}, nil
		}
		for _, layout := range awareLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return UTCTime{t.UTC()}, nil
			}
		}
		for _, layout := range naiveLayouts {
			// time.Parse without an offset yields UTC clock fields
			if t, err := time.Parse(layout, s); err == nil {
				return fromNaive(t, v, o)
			}
		}
		return UTCTime{}, issue(csvskema.CodeInvalidFormat, v, "RFC3339 time")
	}
	return UTCTime{}, issue(csvskema.CodeInvalidType, v, "expected time")
}

func fromNaive(t time.Time, raw any, o options) (UTCTime, error) {
	if o.mode != Permissive {
		return UTCTime{}, issue(csvskema.CodeMissingTimezone, raw, "add an offset such as Z or +09:00")
	}
	return UTCTime{time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)}, nil
}

func issue(code string, v any, hint string) csvskema.Issues {
	return csvskema.Issues{{Path: "/", Code: code, Message: i18n.T(code, nil), Hint: hint, Value: v}}
}

// Std returns the plain time.Time.
func (u UTCTime) Std() time.Time { return u.Time }

// MarshalText renders u as RFC3339 with a Z suffix.
func (u UTCTime) MarshalText() ([]byte, error) {
	return []byte(codec.FormatRFC3339(u.Time)), nil
}

// UnmarshalText parses an aware RFC3339 value in strict mode.
func (u *UTCTime) UnmarshalText(b []byte) error {
	v, err := NewUTCTime(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// String renders u the same way as MarshalText.
func (u UTCTime) String() string { return codec.FormatRFC3339(u.Time) }
