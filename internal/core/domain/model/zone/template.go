package zone

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"dispatch/internal/core/domain/geo"
	"dispatch/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

// Built-in template names.
const (
	TemplateWeekday = "weekday"
	TemplateWeekend = "weekend"
)

// Service area covered by the built-in templates.
const (
	serviceAreaMinLng = -97.90
	serviceAreaMaxLng = -97.60
	serviceAreaMinLat = 30.15
	serviceAreaMaxLat = 30.45
)

// Definition describes one zone of a template. A zero TargetDriverCount
// falls back to the template default.
type Definition struct {
	Name              string
	Color             string
	Boundary          geo.Ring
	TargetDriverCount int
}

// Template is a named bundle of zone definitions with default active days
// and driver count.
type Template struct {
	Name                     string
	DefaultActiveDays        Weekdays
	DefaultTargetDriverCount int
	Definitions              []Definition
}

// Instantiate builds one new Zone per definition. Display orders start at
// firstDisplayOrder and follow definition order. A nil activeDaysOverride
// keeps the template default.
func (t Template) Instantiate(activeDaysOverride Weekdays, firstDisplayOrder int) ([]*Zone, error) {
	days := t.DefaultActiveDays
	if activeDaysOverride != nil {
		days = activeDaysOverride
	}

	zones := make([]*Zone, 0, len(t.Definitions))
	for i, d := range t.Definitions {
		target := d.TargetDriverCount
		if target == 0 {
			target = t.DefaultTargetDriverCount
		}

		z, err := NewZone(Params{
			Name:              d.Name,
			Boundary:          d.Boundary,
			Color:             d.Color,
			ActiveDays:        days,
			TargetDriverCount: target,
			DisplayOrder:      firstDisplayOrder + i,
		})
		if err != nil {
			return nil, fmt.Errorf("template %s zone %q: %w", t.Name, d.Name, err)
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// TemplateCatalog resolves template names. It starts with the built-in
// templates; LoadYAML adds or replaces entries. Safe for concurrent use.
type TemplateCatalog struct {
	mu        sync.RWMutex
	templates map[string]Template
}

func NewTemplateCatalog() *TemplateCatalog {
	c := &TemplateCatalog{templates: make(map[string]Template)}
	for _, t := range builtinTemplates() {
		c.templates[t.Name] = t
	}
	return c
}

// Get returns the named template or *errs.TemplateNotFoundError.
func (c *TemplateCatalog) Get(name string) (Template, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.templates[name]
	if !ok {
		return Template{}, errs.NewTemplateNotFoundError(name)
	}
	return t, nil
}

func (c *TemplateCatalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.templates))
	for n := range c.templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type yamlFile struct {
	Templates []yamlTemplate `yaml:"templates"`
}

type yamlTemplate struct {
	Name              string     `yaml:"name"`
	ActiveDays        []string   `yaml:"active_days"`
	TargetDriverCount int        `yaml:"target_driver_count"`
	Zones             []yamlZone `yaml:"zones"`
}

type yamlZone struct {
	Name              string       `yaml:"name"`
	Color             string       `yaml:"color"`
	TargetDriverCount int          `yaml:"target_driver_count"`
	Boundary          [][2]float64 `yaml:"boundary"`
}

// LoadYAML reads templates from r. Every template is validated by
// instantiating it before any is registered, so a bad file changes nothing.
//
// Format:
//
//	templates:
//	  - name: holiday
//	    active_days: [sat, sun]
//	    target_driver_count: 1
//	    zones:
//	      - name: Downtown
//	        color: "#d9534f"
//	        boundary: [[-97.76, 30.26], [-97.73, 30.26], [-97.73, 30.28], [-97.76, 30.26]]
func (c *TemplateCatalog) LoadYAML(r io.Reader) (int, error) {
	var f yamlFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("decode zone templates: %w", err)
	}

	parsed := make([]Template, 0, len(f.Templates))
	for _, yt := range f.Templates {
		t, err := yt.toTemplate()
		if err != nil {
			return 0, err
		}
		if _, err = t.Instantiate(nil, 0); err != nil {
			return 0, err
		}
		parsed = append(parsed, t)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range parsed {
		c.templates[t.Name] = t
	}
	return len(parsed), nil
}

func (yt yamlTemplate) toTemplate() (Template, error) {
	if yt.Name == "" {
		return Template{}, errs.NewValueIsRequiredError("template name")
	}
	days, err := NewWeekdays(yt.ActiveDays...)
	if err != nil {
		return Template{}, fmt.Errorf("template %s: %w", yt.Name, err)
	}
	target := yt.TargetDriverCount
	if target == 0 {
		target = 1
	}

	defs := make([]Definition, 0, len(yt.Zones))
	for _, yz := range yt.Zones {
		ring := make(geo.Ring, 0, len(yz.Boundary))
		for _, p := range yz.Boundary {
			ring = append(ring, geo.Point{Lng: p[0], Lat: p[1]})
		}
		defs = append(defs, Definition{
			Name:              yz.Name,
			Color:             yz.Color,
			Boundary:          ring,
			TargetDriverCount: yz.TargetDriverCount,
		})
	}

	return Template{
		Name:                     yt.Name,
		DefaultActiveDays:        days,
		DefaultTargetDriverCount: target,
		Definitions:              defs,
	}, nil
}

func builtinTemplates() []Template {
	midLat := (serviceAreaMinLat + serviceAreaMaxLat) / 2

	weekday := Template{
		Name:                     TemplateWeekday,
		DefaultActiveDays:        Weekdays{"mon", "tue", "wed", "thu"},
		DefaultTargetDriverCount: 2,
		Definitions: []Definition{
			{
				Name:     "North",
				Color:    "#3b82f6",
				Boundary: geo.Rectangle(serviceAreaMinLng, midLat, serviceAreaMaxLng, serviceAreaMaxLat),
			},
			{
				Name:     "South",
				Color:    "#f97316",
				Boundary: geo.Rectangle(serviceAreaMinLng, serviceAreaMinLat, serviceAreaMaxLng, midLat),
			},
		},
	}

	const strips = 5
	names := [strips]string{"West", "West Central", "Central", "East Central", "East"}
	colors := [strips]string{"#22c55e", "#14b8a6", "#6366f1", "#a855f7", "#ef4444"}
	width := (serviceAreaMaxLng - serviceAreaMinLng) / strips

	weekend := Template{
		Name:                     TemplateWeekend,
		DefaultActiveDays:        Weekdays{"fri", "sat", "sun"},
		DefaultTargetDriverCount: 1,
	}
	for i := range strips {
		minLng := serviceAreaMinLng + float64(i)*width
		maxLng := minLng + width
		if i == strips-1 {
			maxLng = serviceAreaMaxLng
		}
		weekend.Definitions = append(weekend.Definitions, Definition{
			Name:     names[i],
			Color:    colors[i],
			Boundary: geo.Rectangle(minLng, serviceAreaMinLat, maxLng, serviceAreaMaxLat),
		})
	}

	return []Template{weekday, weekend}
}
