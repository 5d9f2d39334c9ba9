package workflow

import "time"

func ParseDate(v string) (time.Time, error) {
	return time.Parse(DateLayout, v)
}

// InclusiveDays counts calendar days in [start, end]. It returns 0 when end
// is before start.
func InclusiveDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
