// Package ganji holds the static sexagenary tables: the ten heavenly stems,
// the twelve earthly branches and the five elements they map to.
//
// The label strings are stored verbatim in persisted charts, so they must
// never change.
package ganji

import (
	"fmt"
	"strings"
)

// Cycle lengths.
const (
	StemCount    = 10
	BranchCount  = 12
	ElementCount = 5
	CycleLength  = 60 // lcm(StemCount, BranchCount)
)

// NormMod returns x mod n in the range [0, n) for any integer x and n > 0.
// Go's % truncates toward zero, so negative operands need the second step.
func NormMod(x, n int) int {
	return ((x % n) + n) % n
}

// Element is one of the five phases. The declaration order is the fixed
// ordering used to break ties.
type Element int

const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

// Elements lists all elements in tie-break order.
var Elements = [ElementCount]Element{Wood, Fire, Earth, Metal, Water}

var (
	elementNames  = [ElementCount]string{"Wood", "Fire", "Earth", "Metal", "Water"}
	elementLabels = [ElementCount]string{"목", "화", "토", "금", "수"}
	elementHanja  = [ElementCount]string{"木", "火", "土", "金", "水"}
)

func (e Element) valid() bool { return e >= 0 && int(e) < ElementCount }

// String returns the English name, e.g. "Wood".
func (e Element) String() string {
	if !e.valid() {
		return "Unknown"
	}
	return elementNames[e]
}

// Label returns the Korean label, e.g. "목".
func (e Element) Label() string {
	if !e.valid() {
		return ""
	}
	return elementLabels[e]
}

// Hanja returns the literary form, e.g. "木".
func (e Element) Hanja() string {
	if !e.valid() {
		return ""
	}
	return elementHanja[e]
}

// MarshalText encodes the element as its Korean label, the form stored in
// the dominant_element column.
func (e Element) MarshalText() ([]byte, error) {
	return []byte(e.Label()), nil
}

// ElementByLabel resolves a Korean label or English name.
func ElementByLabel(s string) (Element, bool) {
	for _, e := range Elements {
		if elementLabels[e] == s || strings.EqualFold(elementNames[e], s) {
			return e, true
		}
	}
	return 0, false
}

// UnmarshalText accepts a Korean label or English name.
func (e *Element) UnmarshalText(b []byte) error {
	v, ok := ElementByLabel(string(b))
	if !ok {
		return fmt.Errorf("unknown element %q", string(b))
	}
	*e = v
	return nil
}
