package effects

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

type TimeSpan = timespan.TimeSpan

// epsilon widens Now into a span so that two stamps taken back to back overlap.
const epsilon = time.Millisecond

func Now() TimeSpan {
	now := time.Now()
	return timespan.BetweenTimes(now.Add(-1*epsilon), now.Add(epsilon))
}

// TimeBounded is implemented by values stamped with a TimeSpan.
type TimeBounded interface {
	TimeSpan() TimeSpan
}
