package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/okian/saju/internal/domain/ganji"
	"github.com/okian/saju/internal/domain/saju"
)

// DataSource marks charts computed by this service.
const DataSource = "manual_with_saju_calculated"

// DefaultBirthTime is stored when a subject has no birth time. It is never
// fed back into the computation.
const DefaultBirthTime = "12:00"

// Chart is the denormalised record persisted per subject.
type Chart struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NameEn     string `json:"name_en"`
	RealName   string `json:"real_name"`
	BirthDate  string `json:"birth_date"`
	BirthTime  string `json:"birth_time"`
	BirthPlace string `json:"birth_place"`
	Gender     string `json:"gender"`
	Category   string `json:"category"`

	YearPillar  string `json:"year_pillar"`
	MonthPillar string `json:"month_pillar"`
	DayPillar   string `json:"day_pillar"`
	HourPillar  string `json:"hour_pillar"`
	SajuString  string `json:"saju_string"`

	WoodCount       int    `json:"wood_count"`
	FireCount       int    `json:"fire_count"`
	EarthCount      int    `json:"earth_count"`
	MetalCount      int    `json:"metal_count"`
	WaterCount      int    `json:"water_count"`
	DominantElement string `json:"dominant_element"`

	FullSajuData json.RawMessage `json:"full_saju_data"`
	DataSource   string          `json:"data_source"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type pillarLabels struct {
	Stem        string `json:"stem"`
	Branch      string `json:"branch"`
	StemHanja   string `json:"stemHanja"`
	BranchHanja string `json:"branchHanja"`
}

type fullSajuData struct {
	Year     pillarLabels       `json:"year"`
	Month    pillarLabels       `json:"month"`
	Day      pillarLabels       `json:"day"`
	Hour     *pillarLabels      `json:"hour"`
	Elements saju.ElementCounts `json:"elements"`
}

func labelsOf(p saju.Pillar) pillarLabels {
	return pillarLabels{
		Stem:        p.Stem.Label(),
		Branch:      p.Branch.Label(),
		StemHanja:   p.Stem.Hanja(),
		BranchHanja: p.Branch.Hanja(),
	}
}

// NewChart builds the stored record for s from its computed result.
// Both timestamps are set to now; stores keep the original CreatedAt on update.
func NewChart(s Subject, r saju.Result, now time.Time) (Chart, error) {
	full := fullSajuData{
		Year:     labelsOf(r.Year),
		Month:    labelsOf(r.Month),
		Day:      labelsOf(r.Day),
		Elements: r.Elements,
	}
	if r.Hour != nil {
		h := labelsOf(*r.Hour)
		full.Hour = &h
	}
	blob, err := json.Marshal(full)
	if err != nil {
		return Chart{}, fmt.Errorf("encode full_saju_data: %w", err)
	}

	now = now.UTC()
	return Chart{
		ID:         s.ID(),
		Name:       s.Name,
		NameEn:     orDefault(s.NameEn, s.Name),
		RealName:   orDefault(s.RealName, s.Name),
		BirthDate:  s.BirthDate,
		BirthTime:  orDefault(s.BirthTime, DefaultBirthTime),
		BirthPlace: s.BirthPlace,
		Gender:     s.Gender,
		Category:   s.Category,

		YearPillar:  r.YearPillar,
		MonthPillar: r.MonthPillar,
		DayPillar:   r.DayPillar,
		HourPillar:  r.HourPillar,
		SajuString:  r.Saju,

		WoodCount:       r.Elements.Get(ganji.Wood),
		FireCount:       r.Elements.Get(ganji.Fire),
		EarthCount:      r.Elements.Get(ganji.Earth),
		MetalCount:      r.Elements.Get(ganji.Metal),
		WaterCount:      r.Elements.Get(ganji.Water),
		DominantElement: r.Dominant.Label(),

		FullSajuData: blob,
		DataSource:   DataSource,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
