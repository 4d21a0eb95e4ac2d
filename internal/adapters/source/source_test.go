package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/saju/internal/adapters/source"
	"github.com/okian/saju/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/text/unicode/norm"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

const wrappedJSON = `{
  "celebrities": [
    {"name": "아이유", "name_en": "IU", "real_name": "이지은", "birth_date": "1993-05-16",
     "birth_time": "", "gender": "female", "category": "singer"},
    {"name": " 박서준 ", "birth_date": "1988-12-16 ", "birth_time": "14:05", "category": "actor"}
  ]
}`

const bareJSON = `[{"name": "손흥민", "birth_date": "1992-07-08", "category": "athlete"}]`

const wrappedYAML = `
celebrities:
  - name: 김연아
    name_en: Yuna Kim
    birth_date: "1990-09-05"
    category: athlete
`

const bareYAML = `
- name: 봉준호
  birth_date: "1969-09-14"
  birth_time: "09:30"
`

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given subject files in every supported layout", t, func() {
		dir := t.TempDir()

		Convey("A wrapped JSON document is read and trimmed", func() {
			got, err := source.Load(ctx, write(t, dir, "a.json", wrappedJSON))
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(got[0].NameEn, ShouldEqual, "IU")
			So(got[0].RealName, ShouldEqual, "이지은")
			So(got[1].Name, ShouldEqual, "박서준")
			So(got[1].BirthDate, ShouldEqual, "1988-12-16")
			So(got[1].ID(), ShouldEqual, "박서준_1988-12-16")
		})

		Convey("A bare JSON array is read", func() {
			got, err := source.Load(ctx, write(t, dir, "b.json", bareJSON))
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []model.Subject{{Name: "손흥민", BirthDate: "1992-07-08", Category: "athlete"}})
		})

		Convey("Wrapped and bare YAML are read", func() {
			got, err := source.Load(ctx, write(t, dir, "c.yaml", wrappedYAML))
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
			So(got[0].NameEn, ShouldEqual, "Yuna Kim")

			got, err = source.Load(ctx, write(t, dir, "d.yml", bareYAML))
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
			So(got[0].BirthTime, ShouldEqual, "09:30")
		})

		Convey("Decomposed Hangul names are composed", func() {
			decomposed := norm.NFD.String("아이유")
			So(decomposed, ShouldNotEqual, "아이유")

			got, err := source.Load(ctx, write(t, dir, "nfd.json",
				`[{"name": "`+decomposed+`", "birth_date": "1993-05-16"}]`))
			So(err, ShouldBeNil)
			So(got[0].Name, ShouldEqual, "아이유")
		})

		Convey("Broken and unknown files fail", func() {
			_, err := source.Load(ctx, write(t, dir, "bad.json", `{"celebrities": [`))
			So(err, ShouldNotBeNil)

			_, err = source.Load(ctx, write(t, dir, "list.csv", "name,birth_date"))
			So(errors.Is(err, source.ErrUnsupportedFormat), ShouldBeTrue)

			_, err = source.Load(ctx, filepath.Join(dir, "missing.json"))
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})
}

func TestLoadAll(t *testing.T) {
	ctx := context.Background()

	Convey("Given several files", t, func() {
		dir := t.TempDir()
		a := write(t, dir, "a.json", wrappedJSON)
		b := write(t, dir, "b.json", bareJSON)
		c := write(t, dir, "c.yaml", wrappedYAML)

		Convey("Subjects are concatenated in argument order", func() {
			got, err := source.LoadAll(ctx, c, a, b)
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 4)
			So(got[0].Name, ShouldEqual, "김연아")
			So(got[1].Name, ShouldEqual, "아이유")
			So(got[3].Name, ShouldEqual, "손흥민")
		})

		Convey("One failing file fails the whole load", func() {
			_, err := source.LoadAll(ctx, a, filepath.Join(dir, "missing.yaml"), b)
			So(err, ShouldNotBeNil)
		})

		Convey("A cancelled context stops the load", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := source.LoadAll(cctx, a, b)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("No paths load nothing", func() {
			got, err := source.LoadAll(ctx)
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})
	})
}
