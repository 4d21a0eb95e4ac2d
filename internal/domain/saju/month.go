package saju

import (
	"github.com/okian/saju/internal/domain/ganji"
)

// solarTermDay[m] is the first day of month m that belongs to the solar month
// starting in m. These are fixed approximations of the twelve jie (節) terms,
// not per-year ephemeris dates. January has no boundary here: the whole month
// is the Ox month.
var solarTermDay = [13]int{
	0,  // unused
	1,  // Jan: 축월 throughout
	4,  // Feb: 입춘
	6,  // Mar: 경칩
	5,  // Apr: 청명
	6,  // May: 입하
	6,  // Jun: 망종
	7,  // Jul: 소서
	8,  // Aug: 입추
	8,  // Sep: 백로
	8,  // Oct: 한로
	8,  // Nov: 입동
	7,  // Dec: 대설
}

// tigerMonthStems maps yearStem mod 5 to the stem of that year's Tiger month
// (五虎遁): 甲己→丙, 乙庚→戊, 丙辛→庚, 丁壬→壬, 戊癸→甲.
var tigerMonthStems = [5]ganji.Stem{2, 4, 6, 8, 0}

// SolarMonthIndex returns the solar month of d, 0 for the Tiger month
// (≈ Feb 4 – Mar 5) through 11 for the Ox month.
func SolarMonthIndex(d Date) int {
	m := int(d.Month)
	idx := m - 2
	if d.Day < solarTermDay[m] {
		idx--
	}
	return ganji.NormMod(idx, ganji.BranchCount)
}

// MonthPillar computes the month pillar from the solar month and the year stem.
func MonthPillar(d Date, yearStem ganji.Stem) Pillar {
	m := SolarMonthIndex(d)
	start := tigerMonthStems[yearStem.Index()%5]
	return NewPillar(start.Index()+m, m+ganji.Tiger.Index())
}
