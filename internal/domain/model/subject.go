// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"strings"

	"github.com/okian/saju/internal/domain/saju"
)

// ErrInvalidSubject is returned by Subject.Validate.
var ErrInvalidSubject = errors.New("invalid subject")

// Subject is one person whose chart is ingested.
// Fields mirror the subject files and the POST /subjects body.
type Subject struct {
	Name       string `json:"name" yaml:"name"`
	NameEn     string `json:"name_en,omitempty" yaml:"name_en,omitempty"`
	RealName   string `json:"real_name,omitempty" yaml:"real_name,omitempty"`
	BirthDate  string `json:"birth_date" yaml:"birth_date"`
	BirthTime  string `json:"birth_time,omitempty" yaml:"birth_time,omitempty"`
	BirthPlace string `json:"birth_place,omitempty" yaml:"birth_place,omitempty"`
	Gender     string `json:"gender,omitempty" yaml:"gender,omitempty"`
	Category   string `json:"category,omitempty" yaml:"category,omitempty"`
}

// ID is the store key: name and birth date joined by an underscore.
func (s Subject) ID() string {
	return s.Name + "_" + s.BirthDate
}

// Validate checks the fields the ID depends on. An unparseable birth date
// matches both ErrInvalidSubject and saju.ErrInvalidDate.
func (s Subject) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.Join(ErrInvalidSubject, errors.New("name is required"))
	}
	if strings.TrimSpace(s.BirthDate) == "" {
		return errors.Join(ErrInvalidSubject, errors.New("birth_date is required"))
	}
	if _, err := saju.ParseDate(s.BirthDate); err != nil {
		return errors.Join(ErrInvalidSubject, err)
	}
	return nil
}
