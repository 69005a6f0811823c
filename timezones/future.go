package timezones

import (
	csvskema "github.com/reoring/csvskema"
	"github.com/reoring/csvskema/codec"
	"github.com/reoring/csvskema/i18n"
)

// UTCFuture is a UTCTime that was strictly later than "now" when it was
// constructed. The check is not repeated afterwards.
type UTCFuture struct{ UTCTime }

// NewUTCFuture normalizes v like NewUTCTime and then requires the result to be
// strictly after the clock's current instant (time.Now unless WithClock is given).
func NewUTCFuture(v any, opts ...Option) (UTCFuture, error) {
	o := buildOptions(opts)
	u, err := normalize(v, o)
	if err != nil {
		return UTCFuture{}, err
	}
	if err := checkFuture(u, o); err != nil {
		return UTCFuture{}, err
	}
	return UTCFuture{u}, nil
}

func checkFuture(u UTCTime, o options) error {
	now := o.clock().UTC()
	if u.After(now) {
		return nil
	}
	return csvskema.Issues{{
		Path:    "/",
		Code:    csvskema.CodeNotFuture,
		Message: i18n.T(csvskema.CodeNotFuture, nil),
		Value:   codec.FormatRFC3339(u.Time),
		Params:  map[string]any{"now": codec.FormatRFC3339(now)},
	}}
}
