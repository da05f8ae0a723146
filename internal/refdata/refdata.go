// Package refdata exposes the embedded astrological reference tables that
// back the MCP resources and the validation enums.
package refdata

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
)

//go:embed data/reference.toml
var referenceTOML []byte

// Objects lists the bodies and points available for chart calculation.
type Objects struct {
	Planets         []string `toml:"planets" json:"planets"`
	Asteroids       []string `toml:"asteroids" json:"asteroids"`
	Points          []string `toml:"points" json:"points"`
	Luminaries      []string `toml:"luminaries" json:"luminaries"`
	PersonalPlanets []string `toml:"personal_planets" json:"personal_planets"`
	SocialPlanets   []string `toml:"social_planets" json:"social_planets"`
	OuterPlanets    []string `toml:"outer_planets" json:"outer_planets"`
}

// HouseSystems lists the supported systems with short descriptions.
type HouseSystems struct {
	Systems      []string          `toml:"systems" json:"systems"`
	Descriptions map[string]string `toml:"descriptions" json:"descriptions"`
}

// AspectShape describes one aspect's exact angle and nature. The orb is
// joined in from the orb table when rendered.
type AspectShape struct {
	Degrees float64 `toml:"degrees" json:"degrees"`
	Nature  string  `toml:"nature" json:"nature"`
}

type aspectTables struct {
	Major map[string]AspectShape `toml:"major"`
	Minor map[string]AspectShape `toml:"minor"`
}

// SignMeaning carries a zodiac sign's symbolism.
type SignMeaning struct {
	Element  string   `toml:"element" json:"element"`
	Modality string   `toml:"modality" json:"modality"`
	Ruler    string   `toml:"ruler" json:"ruler"`
	Keywords []string `toml:"keywords" json:"keywords"`
}

// PlanetMeaning carries a planet's symbolism and rulerships.
type PlanetMeaning struct {
	Keywords []string `toml:"keywords" json:"keywords"`
	Rules    []string `toml:"rules" json:"rules"`
}

// HouseMeaning carries one astrological house's themes.
type HouseMeaning struct {
	Name     string   `toml:"name" json:"name"`
	Keywords []string `toml:"keywords" json:"keywords"`
}

// Data is the parsed reference table set. Read-only after Load.
type Data struct {
	Objects      Objects                  `toml:"objects"`
	HouseSystems HouseSystems             `toml:"house_systems"`
	Orbs         map[string]float64       `toml:"orbs"`
	Aspects      aspectTables             `toml:"aspects"`
	Signs        map[string]SignMeaning   `toml:"signs"`
	Planets      map[string]PlanetMeaning `toml:"planets"`
	Houses       map[string]HouseMeaning  `toml:"houses"`
}

// Load parses the embedded reference tables.
func Load() (*Data, error) {
	var d Data
	if err := toml.Unmarshal(referenceTOML, &d); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}
	if len(d.HouseSystems.Systems) == 0 || len(d.Orbs) == 0 {
		return nil, fmt.Errorf("reference data incomplete")
	}
	return &d, nil
}

// ExtendedObjects returns every selectable object: planets, asteroids, and
// points.
func (d *Data) ExtendedObjects() []string {
	out := make([]string, 0, len(d.Objects.Planets)+len(d.Objects.Asteroids)+len(d.Objects.Points))
	out = append(out, d.Objects.Planets...)
	out = append(out, d.Objects.Asteroids...)
	out = append(out, d.Objects.Points...)
	return out
}

// aspectEntry is the rendered shape of one aspect in the aspect_patterns
// resource.
type aspectEntry struct {
	Degrees float64 `json:"degrees"`
	Orb     float64 `json:"orb"`
	Nature  string  `json:"nature"`
}

// AspectPatterns renders the aspect_patterns resource document, joining the
// orb table into the shape tables.
func (d *Data) AspectPatterns() map[string]any {
	render := func(shapes map[string]AspectShape) map[string]aspectEntry {
		out := make(map[string]aspectEntry, len(shapes))
		for name, s := range shapes {
			out[name] = aspectEntry{Degrees: s.Degrees, Orb: d.Orbs[name], Nature: s.Nature}
		}
		return out
	}
	return map[string]any{
		"major_aspects": render(d.Aspects.Major),
		"minor_aspects": render(d.Aspects.Minor),
	}
}

// MajorAspectAngles returns the exact angle per major aspect name, used by
// the aspect finder.
func (d *Data) MajorAspectAngles() map[string]float64 {
	out := make(map[string]float64, len(d.Aspects.Major))
	for name, s := range d.Aspects.Major {
		out[name] = s.Degrees
	}
	return out
}
