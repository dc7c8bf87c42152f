package timezone

import "time"

const DefaultTimezone = "UTC"

const (
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
	DateTimeLayout = DateLayout + " " + ClockLayout
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolves tz, falling back to DefaultTimezone.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

// ParseDateTime reads a YYYY-MM-DD date and an HH:MM clock time as a wall
// time in loc.
func ParseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, date+" "+clock, loc)
}
