package saju

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/okian/saju/internal/domain/ganji"
)

// ratHourStems maps dayStem mod 5 to the stem of that day's Rat hour
// (五鼠遁): 甲己→甲, 乙庚→丙, 丙辛→戊, 丁壬→庚, 戊癸→壬.
var ratHourStems = [5]ganji.Stem{0, 2, 4, 6, 8}

// ParseBirthTime reads "HH:MM". ok is false when the input has fewer than two
// colon-separated parts, which callers treat as an unknown birth time.
// Non-numeric components read as 0.
func ParseBirthTime(s string) (hour, minute int, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, 0, false
	}
	return leadingInt(parts[0]), leadingInt(parts[1]), true
}

// HourPeriod returns the double-hour index: 0 for 子 (23:00–01:00) through
// 11 for 亥 (21:00–23:00). Hours outside 0..23 fall into 子.
func HourPeriod(hour int) int {
	switch {
	case hour >= 23 || hour < 1:
		return 0
	case hour < 3:
		return 1
	case hour < 5:
		return 2
	case hour < 7:
		return 3
	case hour < 9:
		return 4
	case hour < 11:
		return 5
	case hour < 13:
		return 6
	case hour < 15:
		return 7
	case hour < 17:
		return 8
	case hour < 19:
		return 9
	case hour < 21:
		return 10
	default:
		return 11
	}
}

// HourPillar computes the hour pillar, or false when birthTime is unknown.
func HourPillar(birthTime string, dayStem ganji.Stem) (Pillar, bool) {
	hour, _, ok := ParseBirthTime(birthTime)
	if !ok {
		return Pillar{}, false
	}
	period := HourPeriod(hour)
	start := ratHourStems[dayStem.Index()%5]
	return NewPillar(start.Index()+period, period), true
}

// leadingInt reads an optional sign and the leading digits after any
// whitespace, ignoring the rest. Anything unreadable is 0.
func leadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
