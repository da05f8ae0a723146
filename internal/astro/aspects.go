package astro

import (
	"fmt"
	"math"
	"sort"
)

// findAspects returns the major aspects among the given positions. Custom
// orbs, when provided, override the reference orb per aspect name.
func (s *Service) findAspects(planets []PlanetPosition, customOrbs map[string]float64) []Aspect {
	var aspects []Aspect
	for i := 0; i < len(planets); i++ {
		for j := i + 1; j < len(planets); j++ {
			if aspect, ok := s.matchAspect(planets[i], planets[j], customOrbs); ok {
				aspects = append(aspects, aspect)
			}
		}
	}
	return aspects
}

// interaspects returns the aspects each of one chart's planets makes to each
// of another's.
func (s *Service) interaspects(p1, p2 []PlanetPosition, customOrbs map[string]float64) []Aspect {
	var aspects []Aspect
	for _, a := range p1 {
		for _, b := range p2 {
			if aspect, ok := s.matchAspect(a, b, customOrbs); ok {
				aspects = append(aspects, aspect)
			}
		}
	}
	return aspects
}

// matchAspect reports the aspect between two positions, if any. When wide
// orbs put the separation inside more than one aspect's orb, the closest
// aspect wins; names are walked in sorted order so the choice is stable.
func (s *Service) matchAspect(a, b PlanetPosition, customOrbs map[string]float64) (Aspect, bool) {
	separation := angularSeparation(a.Longitude, b.Longitude)
	angles := s.ref.MajorAspectAngles()
	names := make([]string, 0, len(angles))
	for name := range angles {
		names = append(names, name)
	}
	sort.Strings(names)

	var best Aspect
	found := false
	for _, name := range names {
		angle := angles[name]
		orb := s.ref.Orbs[name]
		if custom, ok := customOrbs[name]; ok {
			orb = custom
		}
		diff := math.Abs(separation - angle)
		if diff > orb {
			continue
		}
		if found && diff >= best.Orb {
			continue
		}
		found = true
		best = Aspect{
			Planet1:    a.Name,
			Planet2:    b.Name,
			AspectType: name,
			Orb:        diff,
			ExactOrb:   angle,
			Applying:   a.Speed > b.Speed,
			Separating: a.Speed < b.Speed,
		}
	}
	return best, found
}

// compatibilityScore converts interaspect counts into a 0-100 score:
// harmonious aspects add, challenging aspects subtract, normalized by the
// total.
func compatibilityScore(aspects []Aspect) float64 {
	if len(aspects) == 0 {
		return 0
	}
	harmonious := map[string]bool{"trine": true, "sextile": true, "conjunction": true}
	challenging := map[string]bool{"square": true, "opposition": true}

	var positive, negative int
	for _, a := range aspects {
		switch {
		case harmonious[a.AspectType]:
			positive++
		case challenging[a.AspectType]:
			negative++
		}
	}
	raw := float64(positive-negative) / float64(len(aspects))
	return math.Max(0, math.Min(100, (raw+1)*50))
}

// dignityTable maps planets to sign scores: 5 for rulership, 4 for
// exaltation.
var dignityTable = map[string]map[string]int{
	"sun":     {"leo": 5, "aries": 4},
	"moon":    {"cancer": 5, "taurus": 4},
	"mercury": {"gemini": 5, "virgo": 5},
	"venus":   {"taurus": 5, "libra": 5},
	"mars":    {"aries": 5, "scorpio": 5},
	"jupiter": {"sagittarius": 5, "pisces": 5},
	"saturn":  {"capricorn": 5, "aquarius": 5},
}

func scoreDignity(p PlanetPosition) DignityScore {
	score := dignityTable[p.Name][p.Sign]
	house := p.House
	if house == 0 {
		house = 1
	}
	out := DignityScore{
		Planet:     p.Name,
		Sign:       p.Sign,
		House:      house,
		TotalScore: score,
	}
	switch score {
	case 5:
		out.Ruler = 5
	case 4:
		out.Exalted = 4
	}
	return out
}

var aspectInterpretations = map[string]string{
	"conjunction": "Unified energy and focus",
	"sextile":     "Harmonious opportunity for growth",
	"square":      "Dynamic tension requiring resolution",
	"trine":       "Natural flow and ease",
	"opposition":  "Need for balance and integration",
}

var aspectKeywordTable = map[string][]string{
	"conjunction": {"unity", "focus", "intensity"},
	"sextile":     {"opportunity", "harmony", "cooperation"},
	"square":      {"challenge", "tension", "growth"},
	"trine":       {"ease", "flow", "talent"},
	"opposition":  {"balance", "awareness", "integration"},
}

func interpretAspect(a Aspect, detailLevel string) string {
	meaning, ok := aspectInterpretations[a.AspectType]
	if !ok {
		return fmt.Sprintf("%s %s %s", a.Planet1, a.AspectType, a.Planet2)
	}
	base := fmt.Sprintf("%s %s %s: %s", a.Planet1, a.AspectType, a.Planet2, meaning)
	switch detailLevel {
	case "basic":
		return base
	case "detailed":
		return fmt.Sprintf("%s (orb %.2f°, %s)", base, a.Orb, motionWord(a))
	default:
		return fmt.Sprintf("%s (orb %.2f°)", base, a.Orb)
	}
}

func motionWord(a Aspect) string {
	if a.Applying {
		return "applying"
	}
	if a.Separating {
		return "separating"
	}
	return "exact"
}

func aspectKeywords(aspectType string) []string {
	return aspectKeywordTable[aspectType]
}
