package measurements

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.MeasurementSource = (*Source)(nil)

// file is the on-disk layout shared by both formats.
type file struct {
	Unit         string             `toml:"unit" yaml:"unit"`
	Measurements map[string]float64 `toml:"measurements" yaml:"measurements"`
}

// Source loads measurement files in TOML or YAML, chosen by extension.
type Source struct{}

// NewSource creates a new measurement file source.
func NewSource() *Source {
	return &Source{}
}

// Extensions returns the file extensions Load understands.
func Extensions() []string {
	return []string{".toml", ".yaml", ".yml"}
}

// Load reads the measurement file at path.
func (s *Source) Load(ctx context.Context, path string) (*domain.Measurements, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading measurements: %w", err)
	}
	return Parse(filepath.Ext(path), data)
}

// Parse decodes measurement file content in the format named by ext.
func Parse(ext string, data []byte) (*domain.Measurements, error) {
	var f file
	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: parsing toml measurements: %w", domain.ErrInvalidInput, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && len(bytes.TrimSpace(data)) > 0 {
			return nil, fmt.Errorf("%w: parsing yaml measurements: %w", domain.ErrInvalidInput, err)
		}
	default:
		return nil, fmt.Errorf("%w: measurement file extension %q", domain.ErrUnsupportedType, ext)
	}

	if f.Unit == "" {
		return nil, fmt.Errorf("%w: measurement file declares no unit", domain.ErrInvalidInput)
	}
	unit, err := domain.ParseUnit(f.Unit)
	if err != nil {
		return nil, err
	}
	if f.Measurements == nil {
		f.Measurements = make(map[string]float64)
	}
	return &domain.Measurements{Unit: unit, Values: f.Measurements}, nil
}
