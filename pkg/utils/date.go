package utils

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"
)

// MarketTimezone is the exchange timezone for A-share trading.
const MarketTimezone = "Asia/Shanghai"

// Clock supplies the current time. Services take a Clock so tests can pin time.
type Clock func() time.Time

// MustLoadLocation loads a timezone and panics when it is unknown.
func MustLoadLocation(name string) *time.Location {
	if name == "" {
		name = MarketTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("failed to load location %q: %v", name, err))
	}
	return loc
}

var marketLocation = sync.OnceValue(func() *time.Location {
	return MustLoadLocation(MarketTimezone)
})

// TimeNowCST returns the current time in the market timezone. It is the service clock.
func TimeNowCST() time.Time {
	return time.Now().In(marketLocation())
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// PrettyDate formats t in the market timezone for notifications.
func PrettyDate(t time.Time) string {
	return t.In(MustLoadLocation(MarketTimezone)).Format("Mon, 02 Jan 2006 15:04 MST")
}
