// Package astro is the calculation collaborator behind the MCP tools: it
// builds charts from birth data using a mean-element position model and the
// embedded reference tables.
package astro

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jasperb3/Astrology-MCP/internal/refdata"
)

const chartCacheTTL = 12 * time.Hour

// Service generates astrological charts and derived analyses. Chart
// computation is deterministic for a given subject, so natal charts are
// memoized.
type Service struct {
	ref                *refdata.Data
	defaultHouseSystem string
	cache              *chartCache
	log                *slog.Logger
}

// NewService builds a Service over the reference tables.
func NewService(ref *refdata.Data, defaultHouseSystem string, log *slog.Logger) *Service {
	return &Service{
		ref:                ref,
		defaultHouseSystem: defaultHouseSystem,
		cache:              newChartCache(),
		log:                log,
	}
}

func (s *Service) houseSystem(requested string) string {
	if requested != "" {
		return requested
	}
	return s.defaultHouseSystem
}

// NatalChart computes a natal chart for the subject.
func (s *Service) NatalChart(subject Subject) (ChartData, error) {
	key := cacheKey("natal", subject)
	if chart, ok := s.cache.Get(key); ok {
		return chart, nil
	}
	chart, err := s.buildChart("natal", subject)
	if err != nil {
		return ChartData{}, err
	}
	s.cache.Set(key, chart, chartCacheTTL)
	return chart, nil
}

// ProgressedChart computes a chart for the progression date at the natal
// location.
func (s *Service) ProgressedChart(req ProgressedRequest) (ChartData, error) {
	if req.NatalChart.DateTime == "" {
		return ChartData{}, fmt.Errorf("natal_chart missing date_time")
	}
	subject := Subject{
		DateTime:    req.ProgressionDate,
		Latitude:    req.NatalChart.Coordinates.Latitude,
		Longitude:   req.NatalChart.Coordinates.Longitude,
		HouseSystem: s.houseSystem(req.HouseSystem),
	}
	return s.buildChart("progressed", subject)
}

// SolarReturn computes the chart of the sun's return in the given year,
// reusing the birth time-of-day and, unless overridden, the birth location.
func (s *Service) SolarReturn(req SolarReturnRequest) (ChartData, error) {
	birth, err := ParseDateTime(req.BirthData.DateTime)
	if err != nil {
		return ChartData{}, err
	}
	if req.ReturnYear < 1800 || req.ReturnYear > time.Now().Year()+100 {
		return ChartData{}, fmt.Errorf("return_year out of reasonable range: %d", req.ReturnYear)
	}
	returnMoment := time.Date(req.ReturnYear, birth.Month(), birth.Day(),
		birth.Hour(), birth.Minute(), birth.Second(), 0, time.UTC)

	subject := Subject{
		DateTime:    returnMoment.Format("2006-01-02 15:04:05"),
		Latitude:    req.BirthData.Latitude,
		Longitude:   req.BirthData.Longitude,
		HouseSystem: s.houseSystem(req.BirthData.HouseSystem),
	}
	if req.ReturnLocation != nil {
		subject.Latitude = req.ReturnLocation.Latitude
		subject.Longitude = req.ReturnLocation.Longitude
	}
	return s.buildChart("solar_return", subject)
}

// CompositeChart computes a midpoint composite of two subjects: each shared
// object's position is the midpoint of the two natal positions.
func (s *Service) CompositeChart(req CompositeRequest) (ChartData, error) {
	chart1, err := s.NatalChart(req.Person1)
	if err != nil {
		return ChartData{}, fmt.Errorf("person1: %w", err)
	}
	chart2, err := s.NatalChart(req.Person2)
	if err != nil {
		return ChartData{}, fmt.Errorf("person2: %w", err)
	}

	byName := make(map[string]PlanetPosition, len(chart2.Planets))
	for _, p := range chart2.Planets {
		byName[p.Name] = p
	}
	planets := make([]PlanetPosition, 0, len(chart1.Planets))
	for _, p1 := range chart1.Planets {
		p2, ok := byName[p1.Name]
		if !ok {
			continue
		}
		mid := midpoint(p1.Longitude, p2.Longitude)
		planets = append(planets, PlanetPosition{
			Name:      p1.Name,
			Longitude: mid,
			Distance:  (p1.Distance + p2.Distance) / 2,
			Speed:     (p1.Speed + p2.Speed) / 2,
			Sign:      signOf(mid),
		})
	}

	houses := compositeHouses(chart1.Houses, chart2.Houses)
	for i, p := range planets {
		if len(houses) > 0 {
			planets[i].House = houseOf(p.Longitude, houses[0].Cusp)
		}
	}

	chart := ChartData{
		ChartType:   "composite",
		DateTime:    chart1.DateTime,
		Coordinates: chart1.Coordinates,
		Timezone:    "UTC",
		HouseSystem: s.houseSystem(req.HouseSystem),
		Planets:     planets,
		Houses:      houses,
		Aspects:     s.findAspects(planets, nil),
		Metadata:    s.metadata(),
	}
	return chart, nil
}

// Synastry compares two subjects: both natal charts, the aspects between
// them, a midpoint composite, and a compatibility score.
func (s *Service) Synastry(req SynastryRequest) (SynastryAnalysis, error) {
	chart1, err := s.NatalChart(req.Person1)
	if err != nil {
		return SynastryAnalysis{}, fmt.Errorf("person1: %w", err)
	}
	chart2, err := s.NatalChart(req.Person2)
	if err != nil {
		return SynastryAnalysis{}, fmt.Errorf("person2: %w", err)
	}
	interaspects := s.interaspects(chart1.Planets, chart2.Planets, req.AspectOrbs)

	composite, err := s.CompositeChart(CompositeRequest{Person1: req.Person1, Person2: req.Person2})
	if err != nil {
		return SynastryAnalysis{}, err
	}

	return SynastryAnalysis{
		Person1Chart:       chart1,
		Person2Chart:       chart2,
		Interaspects:       interaspects,
		CompositeChart:     composite,
		CompatibilityScore: compatibilityScore(interaspects),
	}, nil
}

// Transits returns the aspects the transiting objects make to the natal
// chart's planets at the transit date.
func (s *Service) Transits(req TransitsRequest) ([]Aspect, error) {
	if len(req.NatalChart.Planets) == 0 {
		return nil, fmt.Errorf("natal_chart has no planet positions")
	}
	moment, err := ParseDateTime(req.TransitDate)
	if err != nil {
		return nil, err
	}
	names := req.Objects
	if len(names) == 0 {
		names = s.ref.Objects.Planets
	}

	var transits []Aspect
	for _, name := range names {
		lon, speed, ok := longitudeAt(name, moment)
		if !ok {
			return nil, fmt.Errorf("unknown transiting object %q", name)
		}
		moving := PlanetPosition{Name: name, Longitude: lon, Speed: speed, Sign: signOf(lon)}
		for _, natal := range req.NatalChart.Planets {
			if aspect, ok := s.matchAspect(moving, natal, nil); ok {
				transits = append(transits, aspect)
			}
		}
	}
	return transits, nil
}

// Dignities scores each planet's essential dignity from the rulership and
// exaltation tables.
func (s *Service) Dignities(chart ChartData) ([]DignityScore, error) {
	if len(chart.Planets) == 0 {
		return nil, fmt.Errorf("chart_data has no planet positions")
	}
	scores := make([]DignityScore, 0, len(chart.Planets))
	for _, p := range chart.Planets {
		scores = append(scores, scoreDignity(p))
	}
	return scores, nil
}

// InterpretAspects renders textual interpretations of the chart's aspects at
// the requested detail level.
func (s *Service) InterpretAspects(chart ChartData, detailLevel string) (Interpretation, error) {
	if detailLevel == "" {
		detailLevel = "medium"
	}
	analysis := make([]string, 0, len(chart.Aspects))
	seen := map[string]bool{}
	var keywords []string
	for _, a := range chart.Aspects {
		analysis = append(analysis, interpretAspect(a, detailLevel))
		for _, kw := range aspectKeywords(a.AspectType) {
			if !seen[kw] {
				seen[kw] = true
				keywords = append(keywords, kw)
			}
		}
	}
	sort.Strings(keywords)
	return Interpretation{
		InterpretationType: "aspects",
		Summary:            fmt.Sprintf("Analysis of %d aspects in the chart", len(chart.Aspects)),
		DetailedAnalysis:   analysis,
		Keywords:           keywords,
	}, nil
}

// buildChart is the common natal-style chart pipeline: parse inputs,
// position objects, derive houses and aspects.
func (s *Service) buildChart(chartType string, subject Subject) (ChartData, error) {
	moment, err := ParseDateTime(subject.DateTime)
	if err != nil {
		return ChartData{}, err
	}
	lat, err := ParseCoordinate(subject.Latitude)
	if err != nil {
		return ChartData{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := ParseCoordinate(subject.Longitude)
	if err != nil {
		return ChartData{}, fmt.Errorf("longitude: %w", err)
	}
	if lat < -90 || lat > 90 {
		return ChartData{}, fmt.Errorf("latitude %g out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return ChartData{}, fmt.Errorf("longitude %g out of range [-180, 180]", lon)
	}

	names := subject.Objects
	if len(names) == 0 {
		names = s.ref.Objects.Planets
	}

	asc := ascendant(moment, lat, lon)
	planets := make([]PlanetPosition, 0, len(names))
	for _, name := range names {
		objLon, speed, ok := longitudeAt(name, moment)
		if !ok {
			derived, derivedOK := s.derivedPoint(name, moment, asc)
			if !derivedOK {
				return ChartData{}, fmt.Errorf("unknown object %q", name)
			}
			objLon, speed = derived, 0
		}
		el := elements[name]
		planets = append(planets, PlanetPosition{
			Name:      name,
			Longitude: objLon,
			Distance:  el.distance,
			Speed:     speed,
			Sign:      signOf(objLon),
			House:     houseOf(objLon, asc),
		})
	}

	houses := make([]House, 0, 12)
	for i := 0; i < 12; i++ {
		cusp := normalizeDegrees(asc + float64(i)*30)
		houses = append(houses, House{Number: i + 1, Cusp: cusp, Sign: signOf(cusp)})
	}

	timezone := subject.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	chart := ChartData{
		ChartType:   chartType,
		DateTime:    subject.DateTime,
		Coordinates: Coordinates{Latitude: subject.Latitude, Longitude: subject.Longitude},
		Timezone:    timezone,
		HouseSystem: s.houseSystem(subject.HouseSystem),
		Planets:     planets,
		Houses:      houses,
		Aspects:     s.findAspects(planets, nil),
		Metadata:    s.metadata(),
	}
	s.log.Debug("chart generated", "type", chartType, "objects", len(planets))
	return chart, nil
}

// derivedPoint positions objects computed from the chart itself rather than
// from orbital elements.
func (s *Service) derivedPoint(name string, moment time.Time, asc float64) (float64, bool) {
	switch name {
	case "part_of_fortune":
		sun, _, _ := longitudeAt("sun", moment)
		moon, _, _ := longitudeAt("moon", moment)
		return normalizeDegrees(asc + moon - sun), true
	case "vertex":
		return normalizeDegrees(asc + 180), true
	}
	return 0, false
}

func (s *Service) metadata() map[string]any {
	return map[string]any{
		"chart_id":     uuid.NewString(),
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"engine":       "mean-elements",
	}
}

func cacheKey(kind string, subject Subject) string {
	return fmt.Sprintf("%s|%s|%v|%v|%s|%s", kind, subject.DateTime,
		subject.Latitude, subject.Longitude, subject.HouseSystem,
		strings.Join(subject.Objects, ","))
}

func midpoint(a, b float64) float64 {
	diff := normalizeDegrees(b - a)
	if diff > 180 {
		return normalizeDegrees(b + (360-diff)/2)
	}
	return normalizeDegrees(a + diff/2)
}

func compositeHouses(h1, h2 []House) []House {
	if len(h1) != len(h2) {
		return nil
	}
	out := make([]House, 0, len(h1))
	for i := range h1 {
		cusp := midpoint(h1[i].Cusp, h2[i].Cusp)
		out = append(out, House{Number: h1[i].Number, Cusp: cusp, Sign: signOf(cusp)})
	}
	return out
}
