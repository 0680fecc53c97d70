package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sosodev/duration"
)

type DurationUnit string

const (
	UnitDay   DurationUnit = "day"
	UnitMonth DurationUnit = "month"
	UnitYear  DurationUnit = "year"
)

var unitAliases = map[string]DurationUnit{
	"day":    UnitDay,
	"days":   UnitDay,
	"hari":   UnitDay,
	"month":  UnitMonth,
	"months": UnitMonth,
	"bulan":  UnitMonth,
	"year":   UnitYear,
	"years":  UnitYear,
	"tahun":  UnitYear,
}

// ParseDurationUnit accepts singular, plural and Indonesian spellings.
func ParseDurationUnit(s string) (DurationUnit, error) {
	unit, ok := unitAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: unknown unit %q", ErrInvalidDuration, s)
	}
	return unit, nil
}

// ParseAmount parses a strictly positive whole number.
func ParseAmount(s string) (int, error) {
	amount, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || amount <= 0 {
		return 0, fmt.Errorf("%w: amount %q must be a positive whole number", ErrInvalidDuration, s)
	}
	return amount, nil
}

// Period is a calendar length. Months and years are added with day
// clamping, so Jan 31 plus one month is the last day of February.
type Period struct {
	Years  int
	Months int
	Days   int
}

func NewPeriod(amount int, unit DurationUnit) (Period, error) {
	if amount <= 0 {
		return Period{}, fmt.Errorf("%w: amount must be positive", ErrInvalidDuration)
	}
	switch unit {
	case UnitDay:
		return Period{Days: amount}, nil
	case UnitMonth:
		return Period{Months: amount}, nil
	case UnitYear:
		return Period{Years: amount}, nil
	default:
		return Period{}, fmt.Errorf("%w: unknown unit %q", ErrInvalidDuration, unit)
	}
}

// ParsePeriod reads an ISO 8601 date-only duration such as "P1M" or "P1Y2M10D".
// Weeks count as seven days. Time components are rejected.
func ParsePeriod(s string) (Period, error) {
	d, err := duration.Parse(strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return Period{}, fmt.Errorf("%w: %w", ErrInvalidDuration, err)
	}

	if d.Hours != 0 || d.Minutes != 0 || d.Seconds != 0 {
		return Period{}, fmt.Errorf("%w: %q has a time component", ErrInvalidDuration, s)
	}

	for _, v := range []float64{d.Years, d.Months, d.Weeks, d.Days} {
		if v < 0 || v != math.Trunc(v) {
			return Period{}, fmt.Errorf("%w: %q must use whole positive numbers", ErrInvalidDuration, s)
		}
	}

	p := Period{
		Years:  int(d.Years),
		Months: int(d.Months),
		Days:   int(d.Weeks)*7 + int(d.Days),
	}
	if p.IsZero() {
		return Period{}, fmt.Errorf("%w: %q has zero length", ErrInvalidDuration, s)
	}
	return p, nil
}

func (p Period) IsZero() bool {
	return p.Years == 0 && p.Months == 0 && p.Days == 0
}

// AddTo returns t advanced by p. Years and months are applied first,
// clamping the day to the end of the target month, then days.
func (p Period) AddTo(t time.Time) time.Time {
	months := p.Years*12 + p.Months
	if months != 0 {
		t = addMonths(t, months)
	}
	if p.Days != 0 {
		t = t.AddDate(0, 0, p.Days)
	}
	return t
}

func (p Period) String() string {
	var sb strings.Builder
	sb.WriteString("P")
	if p.Years != 0 {
		sb.WriteString(strconv.Itoa(p.Years) + "Y")
	}
	if p.Months != 0 {
		sb.WriteString(strconv.Itoa(p.Months) + "M")
	}
	if p.Days != 0 || p.IsZero() {
		sb.WriteString(strconv.Itoa(p.Days) + "D")
	}
	return sb.String()
}

func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	total := int(month) - 1 + months
	year += total / 12
	total %= 12
	if total < 0 {
		total += 12
		year--
	}
	target := time.Month(total + 1)

	if last := daysIn(year, target); day > last {
		day = last
	}

	return time.Date(year, target, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
