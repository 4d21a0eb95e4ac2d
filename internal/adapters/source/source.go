// Package source reads subject lists from JSON or YAML files.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/okian/saju/internal/domain/model"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported subject file format")

// maxConcurrentLoads bounds LoadAll.
const maxConcurrentLoads = 8

// document is the wrapped file layout: {"celebrities": [...]}.
type document struct {
	Celebrities []model.Subject `json:"celebrities" yaml:"celebrities"`
}

// Load reads the subjects in path. JSON files may hold a wrapped document
// or a bare array; YAML files the same shapes.
func Load(ctx context.Context, path string) ([]model.Subject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	subjects, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return subjects, nil
}

// LoadAll loads every path concurrently and concatenates the results in
// argument order. The first error cancels the remaining loads.
func LoadAll(ctx context.Context, paths ...string) ([]model.Subject, error) {
	parts := make([][]model.Subject, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, p := range paths {
		g.Go(func() error {
			subjects, err := Load(gctx, p)
			if err != nil {
				return err
			}
			parts[i] = subjects
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.Subject
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

// Format names a subject file encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return ""
	}
}

// Parse decodes data in format and normalises every subject.
func Parse(data []byte, format Format) ([]model.Subject, error) {
	var (
		subjects []model.Subject
		err      error
	)
	switch format {
	case FormatJSON:
		subjects, err = parseJSON(data)
	case FormatYAML:
		subjects, err = parseYAML(data)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	for i := range subjects {
		subjects[i] = Normalize(subjects[i])
	}
	return subjects, nil
}

func parseJSON(data []byte) ([]model.Subject, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []model.Subject
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return doc.Celebrities, nil
}

func parseYAML(data []byte) ([]model.Subject, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	if node.Content[0].Kind == yaml.SequenceNode {
		var list []model.Subject
		if err := node.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var doc document
	if err := node.Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Celebrities, nil
}

// Normalize trims every field and puts the free-text ones in NFC, so that
// decomposed Hangul from some editors produces the same subject id.
func Normalize(s model.Subject) model.Subject {
	nfc := func(v string) string { return norm.NFC.String(strings.TrimSpace(v)) }
	return model.Subject{
		Name:       nfc(s.Name),
		NameEn:     nfc(s.NameEn),
		RealName:   nfc(s.RealName),
		BirthDate:  strings.TrimSpace(s.BirthDate),
		BirthTime:  strings.TrimSpace(s.BirthTime),
		BirthPlace: nfc(s.BirthPlace),
		Gender:     strings.TrimSpace(s.Gender),
		Category:   nfc(s.Category),
	}
}
