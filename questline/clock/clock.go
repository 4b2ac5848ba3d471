package clock

import "time"

const secondsPerDay = 86400

// Clock supplies the current day number to the tracker engine. A day is the
// integer count of UTC days since the Unix epoch, so every completion and
// streak computation works on whole days regardless of timezone.
type Clock interface {
	CurrentDay() int64
}

type systemClock struct{}

// System returns a Clock backed by the host wall clock.
func System() Clock {
	return systemClock{}
}

func (systemClock) CurrentDay() int64 {
	return time.Now().Unix() / secondsPerDay
}

// Fixed is a Clock pinned to a single day, used by tests and tooling.
type Fixed struct {
	Day int64
}

func (f Fixed) CurrentDay() int64 {
	return f.Day
}
