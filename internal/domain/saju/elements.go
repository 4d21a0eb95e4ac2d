package saju

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/okian/saju/internal/domain/ganji"
)

// ElementCounts holds one counter per element, indexed by ganji.Element.
type ElementCounts [ganji.ElementCount]int

// CountElements adds the stem element and the branch element of every pillar,
// so each pillar contributes exactly two counts.
func CountElements(pillars ...Pillar) ElementCounts {
	var c ElementCounts
	for _, p := range pillars {
		c[p.Stem.Element()]++
		c[p.Branch.Element()]++
	}
	return c
}

// Get returns the count for e.
func (c ElementCounts) Get(e ganji.Element) int {
	if e < 0 || int(e) >= len(c) {
		return 0
	}
	return c[e]
}

// Total returns the sum of all counts.
func (c ElementCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Dominant returns the element with the highest count. Ties go to the element
// that comes last in Wood, Fire, Earth, Metal, Water order, matching the
// dominant_element column of stored charts.
func (c ElementCounts) Dominant() ganji.Element {
	best := ganji.Wood
	for _, e := range ganji.Elements {
		if c[e] >= c[best] {
			best = e
		}
	}
	return best
}

// Weakest returns the element with the lowest count, with the same tie rule.
func (c ElementCounts) Weakest() ganji.Element {
	low := ganji.Wood
	for _, e := range ganji.Elements {
		if c[e] <= c[low] {
			low = e
		}
	}
	return low
}

// Map returns the counts keyed by element.
func (c ElementCounts) Map() map[ganji.Element]int {
	m := make(map[ganji.Element]int, len(c))
	for _, e := range ganji.Elements {
		m[e] = c[e]
	}
	return m
}

// MarshalJSON writes {"목":n,"화":n,"토":n,"금":n,"수":n} in element order.
func (c ElementCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range ganji.Elements {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Label())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", c[e])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts Korean labels or English names as keys.
func (c *ElementCounts) UnmarshalJSON(b []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var out ElementCounts
	for k, v := range raw {
		e, ok := ganji.ElementByLabel(k)
		if !ok {
			return fmt.Errorf("unknown element %q", k)
		}
		out[e] = v
	}
	*c = out
	return nil
}
