package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/saju/internal/domain/model"
	"github.com/okian/saju/internal/domain/saju"
	"github.com/smartystreets/goconvey/convey"
)

func TestSubject(t *testing.T) {
	convey.Convey("Given a Subject", t, func() {
		s := model.Subject{Name: "아이유", BirthDate: "1993-05-16"}

		convey.Convey("Then its ID joins name and birth date", func() {
			convey.So(s.ID(), convey.ShouldEqual, "아이유_1993-05-16")
		})

		convey.Convey("Then it validates", func() {
			convey.So(s.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the name or birth date is blank", func() {
			noName := model.Subject{Name: "  ", BirthDate: "1993-05-16"}
			noDate := model.Subject{Name: "아이유"}

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(noName.Validate(), model.ErrInvalidSubject), convey.ShouldBeTrue)
				convey.So(errors.Is(noDate.Validate(), model.ErrInvalidSubject), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the birth date is not a calendar day", func() {
			for _, date := range []string{"2000-02-30", "2000", "sometime in 1990"} {
				err := model.Subject{Name: "아이유", BirthDate: date}.Validate()

				convey.So(errors.Is(err, model.ErrInvalidSubject), convey.ShouldBeTrue)
				convey.So(errors.Is(err, saju.ErrInvalidDate), convey.ShouldBeTrue)
			}
		})
	})
}

func TestNewChart(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.FixedZone("KST", 9*3600))

	convey.Convey("Given a subject with only the required fields", t, func() {
		s := model.Subject{Name: "홍길동", BirthDate: "2000-03-15"}
		r, err := saju.CalculateString(s.BirthDate, s.BirthTime)
		convey.So(err, convey.ShouldBeNil)

		c, err := model.NewChart(s, r, now)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then defaults are filled in", func() {
			convey.So(c.ID, convey.ShouldEqual, "홍길동_2000-03-15")
			convey.So(c.NameEn, convey.ShouldEqual, "홍길동")
			convey.So(c.RealName, convey.ShouldEqual, "홍길동")
			convey.So(c.BirthTime, convey.ShouldEqual, model.DefaultBirthTime)
			convey.So(c.BirthPlace, convey.ShouldEqual, "")
			convey.So(c.DataSource, convey.ShouldEqual, model.DataSource)
		})

		convey.Convey("Then the stored birth time does not add an hour pillar", func() {
			convey.So(c.HourPillar, convey.ShouldEqual, "")
			convey.So(c.SajuString, convey.ShouldEqual, "경진 기묘 임인")
		})

		convey.Convey("Then pillars and counts mirror the result", func() {
			convey.So(c.YearPillar, convey.ShouldEqual, "경진")
			convey.So(c.MonthPillar, convey.ShouldEqual, "기묘")
			convey.So(c.DayPillar, convey.ShouldEqual, "임인")
			sum := c.WoodCount + c.FireCount + c.EarthCount + c.MetalCount + c.WaterCount
			convey.So(sum, convey.ShouldEqual, 6)
			convey.So(c.WoodCount, convey.ShouldEqual, 2)
			convey.So(c.DominantElement, convey.ShouldEqual, "토")
		})

		convey.Convey("Then timestamps are now in UTC", func() {
			convey.So(c.CreatedAt.Equal(now), convey.ShouldBeTrue)
			convey.So(c.CreatedAt.Location(), convey.ShouldEqual, time.UTC)
			convey.So(c.UpdatedAt, convey.ShouldEqual, c.CreatedAt)
		})

		convey.Convey("Then full_saju_data carries labels with a null hour", func() {
			var full map[string]any
			convey.So(json.Unmarshal(c.FullSajuData, &full), convey.ShouldBeNil)
			convey.So(full["hour"], convey.ShouldBeNil)

			year := full["year"].(map[string]any)
			convey.So(year["stem"], convey.ShouldEqual, "경")
			convey.So(year["branchHanja"], convey.ShouldEqual, "辰")
			convey.So(year, convey.ShouldNotContainKey, "stemIndex")

			elements := full["elements"].(map[string]any)
			convey.So(elements["목"], convey.ShouldEqual, 2.0)
		})
	})

	convey.Convey("Given a subject with a birth time and optional fields", t, func() {
		s := model.Subject{
			Name: "Kim", NameEn: "Kim Minsu", RealName: "김민수",
			BirthDate: "1988-09-17", BirthTime: "14:05", BirthPlace: "Seoul",
			Gender: "male", Category: "actor",
		}
		r, err := saju.CalculateString(s.BirthDate, s.BirthTime)
		convey.So(err, convey.ShouldBeNil)

		c, err := model.NewChart(s, r, now)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the supplied values are kept", func() {
			convey.So(c.NameEn, convey.ShouldEqual, "Kim Minsu")
			convey.So(c.RealName, convey.ShouldEqual, "김민수")
			convey.So(c.BirthTime, convey.ShouldEqual, "14:05")
			convey.So(c.BirthPlace, convey.ShouldEqual, "Seoul")
			convey.So(c.Category, convey.ShouldEqual, "actor")
		})

		convey.Convey("Then the hour pillar is stored", func() {
			convey.So(c.HourPillar, convey.ShouldEqual, "계미")
			convey.So(c.SajuString, convey.ShouldEqual, "무진 신유 을사 계미")

			var full map[string]any
			convey.So(json.Unmarshal(c.FullSajuData, &full), convey.ShouldBeNil)
			convey.So(full["hour"], convey.ShouldNotBeNil)
		})
	})
}

func TestJob(t *testing.T) {
	convey.Convey("Given a Job", t, func() {
		convey.Convey("When it has a callback", func() {
			var got []model.Outcome
			j := model.Job{ID: "a", Done: func(o model.Outcome) { got = append(got, o) }}
			j.Finish(model.Outcome{Err: errors.New("boom")})

			convey.Convey("Then Finish reports the outcome", func() {
				convey.So(got, convey.ShouldHaveLength, 1)
				convey.So(got[0].Err, convey.ShouldBeError, "boom")
			})
		})

		convey.Convey("When it has no callback", func() {
			j := model.Job{ID: "b"}

			convey.Convey("Then Finish is a no-op", func() {
				convey.So(func() { j.Finish(model.Outcome{}) }, convey.ShouldNotPanic)
			})
		})
	})
}
