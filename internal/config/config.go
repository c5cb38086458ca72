// Package config reads process settings from the environment and the
// optional presentation file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"choropleth/core-go/internal/style"
	"choropleth/core-go/internal/tooltip"
)

var ErrInvalidPresentation = errors.New("invalid presentation")

type Config struct {
	HTTPAddr         string
	LogLevel         string
	RegionsPath      string
	MetricsPath      string
	PresentationPath string
	CodeProperty     string
	Presentation     Presentation
}

// Presentation holds the display constants. It is read from YAML.
type Presentation struct {
	Style   style.Options   `yaml:",inline"`
	Tooltip tooltip.Options `yaml:",inline"`
}

func DefaultPresentation() Presentation {
	return Presentation{
		Style:   style.DefaultOptions(),
		Tooltip: tooltip.Options{}.WithDefaults(),
	}
}

// FromEnv loads Config using getenv (os.Getenv when nil). When the
// presentation file cannot be loaded the env-derived fields are still
// returned alongside the error, with default presentation.
func FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	envOr := func(key, fallback string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return fallback
		}
		return v
	}

	cfg := Config{
		HTTPAddr:         envOr("HTTP_ADDR", ":8081"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		RegionsPath:      envOr("REGIONS_PATH", ""),
		MetricsPath:      envOr("METRICS_PATH", ""),
		PresentationPath: envOr("PRESENTATION_PATH", ""),
		CodeProperty:     envOr("REGION_CODE_PROPERTY", ""),
		Presentation:     DefaultPresentation(),
	}

	if cfg.PresentationPath != "" {
		p, err := ReadPresentationFile(cfg.PresentationPath)
		if err != nil {
			return cfg, err
		}
		cfg.Presentation = p
	}
	return cfg, nil
}

// ReadPresentationFile loads and validates a presentation YAML file.
func ReadPresentationFile(path string) (Presentation, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Presentation{}, fmt.Errorf("read presentation %q: %w", path, err)
	}
	return ParsePresentation(b)
}

// ParsePresentation decodes YAML over the defaults. Unknown keys are rejected.
func ParsePresentation(b []byte) (Presentation, error) {
	p := DefaultPresentation()
	dec := yaml.NewDecoder(strings.NewReader(string(b)))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Presentation{}, fmt.Errorf("%w: %v", ErrInvalidPresentation, err)
	}
	// Absent keys already hold defaults; an explicit zero must fail validation
	// instead of being replaced.
	if err := p.Validate(); err != nil {
		return Presentation{}, err
	}
	p.Tooltip = p.Tooltip.WithDefaults()
	return p, nil
}

func (p Presentation) Validate() error {
	s := p.Style
	for name, c := range map[string]string{
		"no_data_color": s.NoDataColor,
		"border_color":  s.BorderColor,
	} {
		if !validColor(c) {
			return fmt.Errorf("%w: %s %q is not a #rgb/#rrggbb color or css name", ErrInvalidPresentation, name, c)
		}
	}
	if s.FillOpacity <= 0 || s.FillOpacity > 1 || s.HighlightFillOpacity <= 0 || s.HighlightFillOpacity > 1 {
		return fmt.Errorf("%w: opacities must be within (0,1]", ErrInvalidPresentation)
	}
	if s.BorderWeight <= 0 || s.HighlightBorderWeight <= 0 {
		return fmt.Errorf("%w: border weights must be positive", ErrInvalidPresentation)
	}
	if s.HighlightFillOpacity < s.FillOpacity {
		return fmt.Errorf("%w: highlight_fill_opacity %.2f below fill_opacity %.2f", ErrInvalidPresentation, s.HighlightFillOpacity, s.FillOpacity)
	}
	if s.HighlightBorderWeight < s.BorderWeight {
		return fmt.Errorf("%w: highlight_border_weight %.1f below border_weight %.1f", ErrInvalidPresentation, s.HighlightBorderWeight, s.BorderWeight)
	}
	return nil
}

func validColor(c string) bool {
	if strings.HasPrefix(c, "#") {
		if len(c) != 4 && len(c) != 7 {
			return false
		}
		_, err := colorful.Hex(c)
		return err == nil
	}
	if c == "" {
		return false
	}
	for _, r := range c {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
