package saju

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	isoLayout     = "2006-01-02"
	compactLayout = "20060102"
)

// Date is a proleptic Gregorian calendar day with no time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates and builds a Date. Any integer year is accepted.
func NewDate(year int, month time.Month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if err := d.Validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate reads a birth date. ISO "YYYY-MM-DD" and compact "YYYYMMDD" are
// parsed strictly; other shapes (YYYY/MM/DD, YYYY.MM.DD, RFC3339, ...) go
// through dateparse in strict mode. The input must spell out a year, a month
// and a day: bare years, Unix timestamps and dd/mm vs mm/dd ambiguity are
// rejected.
func ParseDate(s string) (Date, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return Date{}, invalidDate(s, "empty", nil)
	}
	if looksISO(in) {
		return parseLayout(s, isoLayout, in)
	}
	if allDigits(in) {
		if len(in) != len(compactLayout) {
			return Date{}, invalidDate(s, "not a calendar day", nil)
		}
		return parseLayout(s, compactLayout, in)
	}
	if !hasDayMonthYear(in) {
		return Date{}, invalidDate(s, "year, month and day are required", nil)
	}
	t, err := dateparse.ParseStrict(in)
	if err != nil {
		return Date{}, invalidDate(s, "", err)
	}
	return DateOf(t), nil
}

func parseLayout(raw, layout, in string) (Date, error) {
	t, err := time.Parse(layout, in)
	if err != nil {
		return Date{}, invalidDate(raw, "", err)
	}
	return DateOf(t), nil
}

func looksISO(s string) bool {
	return len(s) == len(isoLayout) && s[4] == '-' && s[7] == '-'
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// hasDayMonthYear reports whether s carries three numeric date parts, or two
// numeric parts and a month name.
func hasDayMonthYear(s string) bool {
	var numbers, months int
	for i := 0; i < len(s); {
		j := i
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			numbers++
		case isLetter(c):
			for j < len(s) && isLetter(s[j]) {
				j++
			}
			if isMonthName(s[i:j]) {
				months++
			}
		default:
			j++
		}
		i = j
	}
	return numbers >= 3 || (numbers >= 2 && months >= 1)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isMonthName(w string) bool {
	if len(w) < 3 {
		return false
	}
	switch strings.ToLower(w[:3]) {
	case "jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec":
		return true
	}
	return false
}

// Validate rejects months outside 1..12 and days that do not exist.
func (d Date) Validate() error {
	if d.Month < time.January || d.Month > time.December {
		return invalidDate(d.String(), "month out of range", nil)
	}
	if d.Day < 1 || d.Day > daysIn(d.Year, d.Month) {
		return invalidDate(d.String(), "day out of range", nil)
	}
	return nil
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// DaysSince returns the signed number of whole days from o to d.
func (d Date) DaysSince(o Date) int {
	return d.dayNumber() - o.dayNumber()
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	if d.Year < 0 {
		return fmt.Sprintf("-%04d-%02d-%02d", -d.Year, int(d.Month), d.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText encodes the date as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts anything ParseDate does.
func (d *Date) UnmarshalText(b []byte) error {
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// dayNumber counts days from 1970-01-01 using floor division throughout, so
// it stays exact for negative years. time.Duration saturates after ~292
// years and cannot be used for epoch differences.
func (d Date) dayNumber() int {
	y := d.Year
	m := int(d.Month)
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d.Day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func daysIn(year int, month time.Month) int {
	switch month {
	case time.February:
		if isLeap(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
