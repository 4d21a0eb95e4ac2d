package saju_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/saju/internal/domain/ganji"
	"github.com/okian/saju/internal/domain/saju"
	. "github.com/smartystreets/goconvey/convey"
)

func mustDate(t *testing.T, s string) saju.Date {
	t.Helper()
	d, err := saju.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestCalculate_Scenarios(t *testing.T) {
	Convey("Given the epoch day 1900-01-01 without a birth time", t, func() {
		r, err := saju.Calculate(mustDate(t, "1900-01-01"), "")
		So(err, ShouldBeNil)

		Convey("The day pillar is 甲辰", func() {
			So(r.Day.Stem.Index(), ShouldEqual, 0)
			So(r.Day.Branch.Index(), ShouldEqual, 4)
			So(r.DayPillar, ShouldEqual, "갑진")
			So(r.Day.Hanja(), ShouldEqual, "甲辰")
		})

		Convey("There is no hour pillar", func() {
			So(r.Hour, ShouldBeNil)
			So(r.HasHour(), ShouldBeFalse)
			So(r.HourPillar, ShouldBeEmpty)
			So(r.Saju, ShouldEqual, "기해 정축 갑진")
		})
	})

	Convey("Given 2000-03-15, after Lichun", t, func() {
		r, err := saju.Calculate(mustDate(t, "2000-03-15"), "")
		So(err, ShouldBeNil)

		Convey("The year pillar comes from 2000", func() {
			So(r.Year.Stem.Index(), ShouldEqual, 6)
			So(r.Year.Branch.Index(), ShouldEqual, 4)
			So(r.YearPillar, ShouldEqual, "경진")
			So(r.Zodiac, ShouldEqual, "용")
		})

		Convey("The rest of the chart matches", func() {
			So(r.MonthPillar, ShouldEqual, "기묘")
			So(r.DayPillar, ShouldEqual, "임인")
		})
	})

	Convey("Given 1999-01-15, before Lichun", t, func() {
		d := mustDate(t, "1999-01-15")
		r, err := saju.Calculate(d, "")
		So(err, ShouldBeNil)

		Convey("The year pillar comes from 1998", func() {
			So(saju.EffectiveYear(d), ShouldEqual, 1998)
			So(r.YearPillar, ShouldEqual, "무인")
			So(r.MonthPillar, ShouldEqual, "을축")
		})
	})

	Convey("Given a birth time of 09:30", t, func() {
		r, err := saju.Calculate(mustDate(t, "1900-01-01"), "09:30")
		So(err, ShouldBeNil)

		Convey("The hour pillar falls in the 사 period", func() {
			So(r.Hour, ShouldNotBeNil)
			So(r.Hour.Branch.Index(), ShouldEqual, 5)
			So(r.HourPillar, ShouldEqual, "기사")
			So(r.Saju, ShouldEqual, "기해 정축 갑진 기사")
		})
	})

	Convey("Given a birth time of \"abc\"", t, func() {
		r, err := saju.Calculate(mustDate(t, "1900-01-01"), "abc")

		Convey("The hour pillar is absent and nothing fails", func() {
			So(err, ShouldBeNil)
			So(r.Hour, ShouldBeNil)
			So(r.Elements.Total(), ShouldEqual, 6)
		})
	})
}

func TestCalculate_KnownCharts(t *testing.T) {
	cases := []struct {
		date, time string
		saju       string
		counts     saju.ElementCounts
		dominant   ganji.Element
	}{
		{"1900-01-01", "", "기해 정축 갑진", saju.ElementCounts{1, 1, 3, 0, 1}, ganji.Earth},
		{"2000-03-15", "", "경진 기묘 임인", saju.ElementCounts{2, 0, 2, 1, 1}, ganji.Earth},
		{"1999-01-15", "", "무인 을축 정유", saju.ElementCounts{2, 1, 2, 1, 0}, ganji.Earth},
		{"1999-12-31", "23:59", "기묘 병자 정해 경자", saju.ElementCounts{1, 2, 1, 1, 3}, ganji.Water},
		{"1988-09-17", "14:05", "무진 신유 을사 계미", saju.ElementCounts{1, 1, 3, 2, 1}, ganji.Earth},
		{"1850-06-01", "", "경술 신사 계축", saju.ElementCounts{0, 1, 2, 2, 1}, ganji.Metal},
		{"2100-12-31", "00:10", "경신 무자 정축 경자", saju.ElementCounts{0, 1, 2, 3, 2}, ganji.Metal},
		{"1899-12-31", "", "기해 병자 계묘", saju.ElementCounts{1, 1, 1, 0, 3}, ganji.Water},
		{"2000-01-01", "", "기묘 정축 무자", saju.ElementCounts{1, 1, 3, 0, 1}, ganji.Earth},
		{"1974-02-03", "", "계축 을축 을사", saju.ElementCounts{2, 1, 2, 0, 1}, ganji.Earth},
		{"1974-02-04", "05:00", "갑인 병인 병오 신묘", saju.ElementCounts{4, 3, 0, 1, 0}, ganji.Wood},
		{"2024-02-10", "12:00", "갑진 병인 갑술 경오", saju.ElementCounts{3, 2, 2, 1, 0}, ganji.Wood},
	}

	for _, tc := range cases {
		r, err := saju.Calculate(mustDate(t, tc.date), tc.time)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.date, tc.time, err)
		}
		if r.Saju != tc.saju {
			t.Errorf("%s %s: saju = %q, want %q", tc.date, tc.time, r.Saju, tc.saju)
		}
		if r.Elements != tc.counts {
			t.Errorf("%s %s: elements = %v, want %v", tc.date, tc.time, r.Elements, tc.counts)
		}
		if r.Dominant != tc.dominant {
			t.Errorf("%s %s: dominant = %v, want %v", tc.date, tc.time, r.Dominant, tc.dominant)
		}
	}
}

func TestCalculate_Invariants(t *testing.T) {
	Convey("Given every day from 1850 through 2100", t, func() {
		start := time.Date(1850, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2100, time.December, 31, 0, 0, 0, 0, time.UTC)

		var outOfRange, badTotals, offCycle, days int
		for ts := start; !ts.After(end); ts = ts.AddDate(0, 0, 1) {
			days++
			d := saju.DateOf(ts)
			withHour := days%2 == 0
			birthTime := ""
			if withHour {
				birthTime = "13:45"
			}

			r, err := saju.Calculate(d, birthTime)
			if err != nil {
				t.Fatalf("%s: %v", d, err)
			}
			for _, p := range r.Pillars() {
				if p.Stem.Index() < 0 || p.Stem.Index() > 9 || p.Branch.Index() < 0 || p.Branch.Index() > 11 {
					outOfRange++
				}
			}
			want := 6
			if withHour {
				want = 8
			}
			if r.Elements.Total() != want || r.HasHour() != withHour {
				badTotals++
			}
			// stem and branch parity must agree on the 60-term cycle
			for _, p := range []saju.Pillar{r.Year, r.Day} {
				if p.Stem.Index()%2 != p.Branch.Index()%2 {
					offCycle++
				}
			}
		}

		Convey("Every index stays in range", func() {
			So(days, ShouldBeGreaterThan, 90_000)
			So(outOfRange, ShouldEqual, 0)
		})

		Convey("Element totals are 6 without and 8 with an hour pillar", func() {
			So(badTotals, ShouldEqual, 0)
		})

		Convey("Year and day pillars lie on the sexagenary cycle", func() {
			So(offCycle, ShouldEqual, 0)
		})
	})

	Convey("Given the same input twice", t, func() {
		d := mustDate(t, "1988-09-17")
		a, errA := saju.Calculate(d, "14:05")
		b, errB := saju.Calculate(d, "14:05")
		So(errA, ShouldBeNil)
		So(errB, ShouldBeNil)

		Convey("The encoded results are byte-identical", func() {
			ja, err := json.Marshal(a)
			So(err, ShouldBeNil)
			jb, err := json.Marshal(b)
			So(err, ShouldBeNil)
			So(bytes.Equal(ja, jb), ShouldBeTrue)
		})

		Convey("The hour pillars are separate values", func() {
			So(a.Hour, ShouldNotPointTo, b.Hour)
			So(*a.Hour, ShouldResemble, *b.Hour)
		})
	})

	Convey("Given years far outside a human lifespan", t, func() {
		for _, s := range []string{"0001-03-01", "0003-02-03", "9999-12-31"} {
			r, err := saju.Calculate(mustDate(t, s), "")
			So(err, ShouldBeNil)
			So(r.Elements.Total(), ShouldEqual, 6)
		}

		d, err := saju.NewDate(-500, time.June, 1)
		So(err, ShouldBeNil)
		r, err := saju.Calculate(d, "")
		So(err, ShouldBeNil)
		So(r.Year.Stem.Index(), ShouldEqual, ganji.NormMod(-504, 10))
		So(r.Year.Branch.Index(), ShouldEqual, ganji.NormMod(-504, 12))
	})
}

func TestCalculate_InvalidDate(t *testing.T) {
	Convey("Given an invalid date", t, func() {
		Convey("Calculate rejects a zero Date", func() {
			_, err := saju.Calculate(saju.Date{}, "")
			So(err, ShouldNotBeNil)
			So(errors.Is(err, saju.ErrInvalidDate), ShouldBeTrue)

			var ide *saju.InvalidDateError
			So(errors.As(err, &ide), ShouldBeTrue)
		})

		Convey("CalculateString rejects unparseable input", func() {
			for _, s := range []string{"", "   ", "not a date", "1990-02-30", "1990-13-01"} {
				_, err := saju.CalculateString(s, "10:00")
				So(errors.Is(err, saju.ErrInvalidDate), ShouldBeTrue)
			}
		})
	})
}

func TestResult_JSON(t *testing.T) {
	Convey("Given a computed result", t, func() {
		r, err := saju.CalculateString("2000-03-15", "09:30")
		So(err, ShouldBeNil)

		b, err := json.Marshal(r)
		So(err, ShouldBeNil)

		Convey("It encodes the stored chart layout", func() {
			var raw map[string]any
			So(json.Unmarshal(b, &raw), ShouldBeNil)
			So(raw["yearPillarString"], ShouldEqual, "경진")
			So(raw["dominantElement"], ShouldEqual, r.Dominant.Label())

			year := raw["year"].(map[string]any)
			So(year["stem"], ShouldEqual, "경")
			So(year["stemHanja"], ShouldEqual, "庚")
			So(year["branchIndex"], ShouldEqual, 4.0)

			balance := raw["elementBalance"].(map[string]any)
			So(balance, ShouldContainKey, "목")
			So(len(balance), ShouldEqual, 5)
		})

		Convey("It decodes back to the same result", func() {
			var back saju.Result
			So(json.Unmarshal(b, &back), ShouldBeNil)
			So(back, ShouldResemble, r)
		})

		Convey("A missing hour encodes as null", func() {
			noHour, err := saju.CalculateString("2000-03-15", "")
			So(err, ShouldBeNil)
			b, err := json.Marshal(noHour)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"hour":null`)
			So(string(b), ShouldNotContainSubstring, "hourPillarString")
		})
	})
}
