package saju

import (
	"time"

	"github.com/okian/saju/internal/domain/ganji"
)

// dayEpoch is fixed at cycle offset 40 (甲辰).
var dayEpoch = Date{Year: 1900, Month: time.January, Day: 1}

const dayEpochOffset = 40

// DayPillar computes the day pillar from the whole-day distance to the epoch.
// It does not depend on the year or month pillars.
func DayPillar(d Date) Pillar {
	n := ganji.NormMod(d.DaysSince(dayEpoch)+dayEpochOffset, ganji.CycleLength)
	return NewPillar(n%ganji.StemCount, n%ganji.BranchCount)
}
