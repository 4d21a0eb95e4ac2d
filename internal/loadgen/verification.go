package loadgen

import (
	"fmt"
	"strings"

	"github.com/okian/saju/internal/domain/saju"
)

// Verify checks r, computed for birthDate and birthTime, and returns one
// message per broken invariant.
func Verify(birthDate, birthTime string, r saju.Result) []string {
	var out []string
	fail := func(format string, args ...any) {
		out = append(out, birthDate+" "+birthTime+": "+fmt.Sprintf(format, args...))
	}

	for _, p := range r.Pillars() {
		if s, b := p.Stem.Index(), p.Branch.Index(); s < 0 || s > 9 || b < 0 || b > 11 {
			fail("pillar %s out of range (%d, %d)", p, s, b)
		}
		if p.Stem.Index()%2 != p.Branch.Index()%2 {
			fail("pillar %s is not on the sexagenary cycle", p)
		}
	}

	_, _, hasTime := saju.ParseBirthTime(birthTime)
	want := 6
	if hasTime {
		want = 8
	}
	if r.HasHour() != hasTime {
		fail("hour pillar present=%t, want %t", r.HasHour(), hasTime)
	}
	if total := r.Elements.Total(); total != want {
		fail("element total %d, want %d", total, want)
	}
	if r.Elements != saju.CountElements(r.Pillars()...) {
		fail("element counts do not match the pillars")
	}
	if r.Elements.Get(r.Dominant) != maxCount(r.Elements) {
		fail("dominant element %s is not the most frequent", r.Dominant.Label())
	}

	parts := make([]string, 0, 4)
	for _, p := range r.Pillars() {
		parts = append(parts, p.String())
	}
	if joined := strings.Join(parts, " "); r.Saju != joined {
		fail("saju string %q, want %q", r.Saju, joined)
	}

	local, err := saju.CalculateString(birthDate, birthTime)
	switch {
	case err != nil:
		fail("local computation failed: %v", err)
	case local.Saju != r.Saju || local.Elements != r.Elements:
		fail("server chart %q differs from local chart %q", r.Saju, local.Saju)
	}
	return out
}

func maxCount(c saju.ElementCounts) int {
	m := 0
	for _, v := range c {
		m = max(m, v)
	}
	return m
}
