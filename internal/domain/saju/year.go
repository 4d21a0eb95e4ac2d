package saju

import "time"

// Lichun (입춘) is approximated as February 4th every year.
const (
	lichunMonth = time.February
	lichunDay   = 4
)

// yearEpoch aligns the year cycle: 4 CE is 甲子.
const yearEpoch = 4

// EffectiveYear returns the calendar year, or the previous one for dates
// strictly before Lichun.
func EffectiveYear(d Date) int {
	if d.Before(Date{Year: d.Year, Month: lichunMonth, Day: lichunDay}) {
		return d.Year - 1
	}
	return d.Year
}

// YearPillar computes the year pillar from the Lichun-adjusted year.
func YearPillar(d Date) Pillar {
	offset := EffectiveYear(d) - yearEpoch
	return NewPillar(offset, offset)
}
