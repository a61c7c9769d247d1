package rollup

import "time"

func at(date string, hour, minute int) *time.Time {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		panic(err)
	}
	t := d.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	return &t
}

func str(s string) *string { return &s }

func f64(v float64) *float64 { return &v }

func i64(v int64) *int64 { return &v }

func hourEntry[T any](entries []T, label func(T) string, hour string) (T, bool) {
	for _, e := range entries {
		if label(e) == hour {
			return e, true
		}
	}
	var zero T
	return zero, false
}
