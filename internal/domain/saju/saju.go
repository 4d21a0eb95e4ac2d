// Package saju computes the Four Pillars (사주) of a birth date and optional
// birth time, together with the five-element balance of the pillars.
//
// Everything here is a pure function of its inputs: no I/O, no clock, no
// shared state. Results are safe to compute from any number of goroutines and
// to memoise by (date, time).
//
// Solar months use fixed day-of-month thresholds and Lichun is fixed at
// February 4th. These are approximations kept for parity with stored charts,
// not astronomical solar terms. The arithmetic itself holds for any year.
package saju

import (
	"strings"

	"github.com/okian/saju/internal/domain/ganji"
)

// Result is the full chart for one birth date/time.
type Result struct {
	Year  Pillar  `json:"year"`
	Month Pillar  `json:"month"`
	Day   Pillar  `json:"day"`
	Hour  *Pillar `json:"hour"` // nil when the birth time is unknown

	Elements ElementCounts `json:"elementBalance"`
	Dominant ganji.Element `json:"dominantElement"`
	Weakest  ganji.Element `json:"weakestElement"`
	Zodiac   string        `json:"zodiac"`

	YearPillar  string `json:"yearPillarString"`
	MonthPillar string `json:"monthPillarString"`
	DayPillar   string `json:"dayPillarString"`
	HourPillar  string `json:"hourPillarString,omitempty"`
	Saju        string `json:"sajuString"`
}

// HasHour reports whether the hour pillar is present.
func (r Result) HasHour() bool { return r.Hour != nil }

// Pillars returns the present pillars in year, month, day, hour order.
func (r Result) Pillars() []Pillar {
	ps := []Pillar{r.Year, r.Month, r.Day}
	if r.Hour != nil {
		ps = append(ps, *r.Hour)
	}
	return ps
}

// Calculate computes the chart for date. An empty or malformed birthTime
// yields a chart without an hour pillar; it is not an error.
func Calculate(date Date, birthTime string) (Result, error) {
	if err := date.Validate(); err != nil {
		return Result{}, err
	}

	year := YearPillar(date)
	month := MonthPillar(date, year.Stem)
	day := DayPillar(date)

	var hour *Pillar
	if p, ok := HourPillar(birthTime, day.Stem); ok {
		hour = &p
	}
	return assemble(year, month, day, hour), nil
}

// CalculateString parses birthDate with ParseDate and calls Calculate.
func CalculateString(birthDate, birthTime string) (Result, error) {
	d, err := ParseDate(birthDate)
	if err != nil {
		return Result{}, err
	}
	return Calculate(d, birthTime)
}

func assemble(year, month, day Pillar, hour *Pillar) Result {
	r := Result{
		Year:        year,
		Month:       month,
		Day:         day,
		Hour:        hour,
		Zodiac:      year.Branch.Animal(),
		YearPillar:  year.String(),
		MonthPillar: month.String(),
		DayPillar:   day.String(),
	}
	if hour != nil {
		r.HourPillar = hour.String()
	}

	r.Elements = CountElements(r.Pillars()...)
	r.Dominant = r.Elements.Dominant()
	r.Weakest = r.Elements.Weakest()

	parts := []string{r.YearPillar, r.MonthPillar, r.DayPillar}
	if r.HourPillar != "" {
		parts = append(parts, r.HourPillar)
	}
	r.Saju = strings.Join(parts, " ")
	return r
}
