package marketdata

import (
	"time"

	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
)

// Timespan is a bar interval as written in configs and on the command line.
type Timespan string

const (
	TimespanOneSecond      Timespan = "1s"
	TimespanOneMinute      Timespan = "1m"
	TimespanThreeMinutes   Timespan = "3m"
	TimespanFiveMinutes    Timespan = "5m"
	TimespanFifteenMinutes Timespan = "15m"
	TimespanThirtyMinutes  Timespan = "30m"
	TimespanOneHour        Timespan = "1h"
	TimespanTwoHours       Timespan = "2h"
	TimespanFourHours      Timespan = "4h"
	TimespanSixHours       Timespan = "6h"
	TimespanEightHours     Timespan = "8h"
	TimespanTwelveHours    Timespan = "12h"
	TimespanOneDay         Timespan = "1d"
	TimespanThreeDays      Timespan = "3d"
	TimespanOneWeek        Timespan = "1w"
	TimespanOneMonth       Timespan = "1M"
)

// DefaultTimespan is the daily interval the tutorial pipeline works on.
const DefaultTimespan = TimespanOneDay

var knownTimespans = []Timespan{
	TimespanOneSecond, TimespanOneMinute, TimespanThreeMinutes, TimespanFiveMinutes,
	TimespanFifteenMinutes, TimespanThirtyMinutes, TimespanOneHour, TimespanTwoHours,
	TimespanFourHours, TimespanSixHours, TimespanEightHours, TimespanTwelveHours,
	TimespanOneDay, TimespanThreeDays, TimespanOneWeek, TimespanOneMonth,
}

// Timespans lists every supported interval.
func Timespans() []Timespan {
	out := make([]Timespan, len(knownTimespans))
	copy(out, knownTimespans)

	return out
}

// ParseTimespan validates s as an interval. An empty string yields DefaultTimespan.
func ParseTimespan(s string) (Timespan, error) {
	if s == "" {
		return DefaultTimespan, nil
	}

	for _, t := range knownTimespans {
		if string(t) == s {
			return t, nil
		}
	}

	return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported interval %q", s)
}

func (t Timespan) Multiplier() int {
	switch t {
	case TimespanThreeMinutes:
		return 3
	case TimespanFiveMinutes:
		return 5
	case TimespanFifteenMinutes:
		return 15
	case TimespanThirtyMinutes:
		return 30
	case TimespanTwoHours:
		return 2
	case TimespanFourHours:
		return 4
	case TimespanSixHours:
		return 6
	case TimespanEightHours:
		return 8
	case TimespanTwelveHours:
		return 12
	case TimespanThreeDays:
		return 3
	default:
		return 1
	}
}

func (t Timespan) Timespan() models.Timespan {
	switch t {
	case TimespanOneSecond:
		return models.Second
	case TimespanOneMinute, TimespanThreeMinutes, TimespanFiveMinutes, TimespanFifteenMinutes, TimespanThirtyMinutes:
		return models.Minute
	case TimespanOneHour, TimespanTwoHours, TimespanFourHours, TimespanSixHours, TimespanEightHours, TimespanTwelveHours:
		return models.Hour
	case TimespanOneDay, TimespanThreeDays:
		return models.Day
	case TimespanOneWeek:
		return models.Week
	case TimespanOneMonth:
		return models.Month
	default:
		return models.Day
	}
}

// IsDaily reports whether bars of this interval are keyed by calendar date.
func (t Timespan) IsDaily() bool {
	switch t.Timespan() {
	case models.Day, models.Week, models.Month, models.Quarter, models.Year:
		return true
	default:
		return false
	}
}

// normalizeDate drops the time of day from daily bars so every row of a
// daily table sits on UTC midnight.
func (t Timespan) normalizeDate(d time.Time) time.Time {
	if !t.IsDaily() {
		return d.UTC()
	}

	d = d.UTC()

	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
