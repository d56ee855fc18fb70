package automation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NextRun computes the next digest run time for a schedule definition.
// Supported kinds:
//
//	daily    - expr is a notification time "HH:MM" (or "H:MM")
//	interval - expr is a Go duration, e.g. "6h"
//	cron     - @hourly/@daily/@weekly or a 5-field expression limited
//	           to "*", numbers and comma lists
//
// The returned time is in UTC; expr is evaluated in tz (UTC when
// empty).
func NextRun(kind, expr, tz string, from time.Time) (*time.Time, error) {
	location := time.UTC
	if tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
		location = loc
	}
	localFrom := from.In(location)

	switch strings.ToLower(kind) {
	case "daily":
		hour, minute, err := ParseNotificationTime(expr)
		if err != nil {
			return nil, err
		}
		next := time.Date(localFrom.Year(), localFrom.Month(), localFrom.Day(), hour, minute, 0, 0, location)
		if !next.After(localFrom) {
			next = next.AddDate(0, 0, 1)
		}
		utc := next.UTC()
		return &utc, nil
	case "interval":
		d, err := time.ParseDuration(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid interval expression %q: %w", expr, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("interval must be > 0")
		}
		utc := localFrom.Add(d).UTC()
		return &utc, nil
	case "cron":
		next, err := nextCron(expr, localFrom)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, nil
		}
		utc := next.UTC()
		return &utc, nil
	default:
		return nil, fmt.Errorf("unsupported schedule kind %q", kind)
	}
}

// ParseNotificationTime normalizes a user-preference time string into
// an hour and minute. Accepts "HH:MM" and "H:MM"; surrounding
// whitespace is ignored.
func ParseNotificationTime(expr string) (hour, minute int, err error) {
	expr = strings.TrimSpace(expr)
	h, m, ok := strings.Cut(expr, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid notification time %q (expected HH:MM)", expr)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", expr)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", expr)
	}
	return hour, minute, nil
}

func nextCron(expr string, from time.Time) (*time.Time, error) {
	expr = strings.TrimSpace(expr)
	switch expr {
	case "@hourly":
		next := from.Truncate(time.Hour).Add(time.Hour)
		return &next, nil
	case "@daily":
		next := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location()).AddDate(0, 0, 1)
		return &next, nil
	case "@weekly":
		offset := (7 - int(from.Weekday())) % 7
		if offset == 0 {
			offset = 7
		}
		next := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location()).AddDate(0, 0, offset)
		return &next, nil
	}

	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return nil, fmt.Errorf("invalid cron expression %q (expected 5 fields)", expr)
	}

	fields := make([]map[int]bool, 5)
	bounds := [5][2]int{{0, 59}, {0, 23}, {1, 31}, {1, 12}, {0, 6}}
	names := [5]string{"minute", "hour", "day-of-month", "month", "day-of-week"}
	for i, part := range parts {
		allowed, err := parseCronField(part, bounds[i][0], bounds[i][1])
		if err != nil {
			return nil, fmt.Errorf("invalid %s field: %w", names[i], err)
		}
		fields[i] = allowed
	}
	minute, hour, dayOfMonth, month, dayOfWeek := fields[0], fields[1], fields[2], fields[3], fields[4]

	candidate := from.Truncate(time.Minute).Add(time.Minute)
	limit := candidate.AddDate(2, 0, 0)
	for !candidate.After(limit) {
		if !month[int(candidate.Month())] {
			candidate = time.Date(candidate.Year(), candidate.Month(), 1, 0, 0, 0, 0, candidate.Location()).AddDate(0, 1, 0)
			continue
		}
		if !dayOfMonth[candidate.Day()] || !dayOfWeek[int(candidate.Weekday())] {
			candidate = time.Date(candidate.Year(), candidate.Month(), candidate.Day(), 0, 0, 0, 0, candidate.Location()).AddDate(0, 0, 1)
			continue
		}
		if !hour[candidate.Hour()] || !minute[candidate.Minute()] {
			candidate = candidate.Add(time.Minute)
			continue
		}
		return &candidate, nil
	}
	return nil, nil
}

func parseCronField(field string, min, max int) (map[int]bool, error) {
	allowed := make(map[int]bool, max-min+1)
	if field == "*" {
		for i := min; i <= max; i++ {
			allowed[i] = true
		}
		return allowed, nil
	}

	for _, item := range strings.Split(field, ",") {
		item = strings.TrimSpace(item)
		v, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", item)
		}
		// 7 is an accepted alias for Sunday in the day-of-week field.
		if min == 0 && max == 6 && v == 7 {
			v = 0
		}
		if v < min || v > max {
			return nil, fmt.Errorf("value %d out of bounds [%d,%d]", v, min, max)
		}
		allowed[v] = true
	}
	if len(allowed) == 0 {
		return nil, fmt.Errorf("no values selected")
	}
	return allowed, nil
}
