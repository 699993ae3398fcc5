package addressbook

import (
	"time"

	"github.com/janisto/addressbook-assistant/internal/platform/timeutil"
)

// UpcomingWindowDays is the length of the birthday window after today.
const UpcomingWindowDays = 7

// Upcoming is one contact to congratulate.
type Upcoming struct {
	Name         string
	CongratsDate string // DD.MM.YYYY
}

// UpcomingBirthdays lists contacts whose birthday, moved into today's year,
// falls on a calendar date in [today, today+7 days]. Time of day is ignored
// and dates are taken in today's location. Results follow name order.
//
// The birthday is always placed in today's year: a January birthday queried
// in late December lands in the past and is not reported.
// February 29 is celebrated on February 28 when today's year is not a leap year.
func (b *Book) UpcomingBirthdays(today time.Time) []Upcoming {
	start := timeutil.StartOfDay(today)
	end := timeutil.AddDays(start, UpcomingWindowDays)

	var result []Upcoming
	for _, r := range b.Records() {
		bd, ok := r.Birthday()
		if !ok {
			continue
		}
		congrats := bd.inYear(start.Year(), start.Location())
		if congrats.Before(start) || congrats.After(end) {
			continue
		}
		result = append(result, Upcoming{
			Name:         r.name.String(),
			CongratsDate: timeutil.FormatDate(congrats),
		})
	}
	return result
}

// inYear returns the birthday's month and day in year at midnight in loc.
func (b Birthday) inYear(year int, loc *time.Location) time.Time {
	_, month, day := b.date.Date()
	if month == time.February && day == 29 && !timeutil.IsLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
