package astro

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jasperb3/Astrology-MCP/internal/refdata"
)

func testService(t *testing.T) *Service {
	t.Helper()
	ref, err := refdata.Load()
	require.NoError(t, err)
	return NewService(ref, "placidus", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sampleSubject() Subject {
	return Subject{
		DateTime:  "1990-05-15 14:30:00",
		Latitude:  "32n43",
		Longitude: "117w09",
	}
}

func TestNatalChart(t *testing.T) {
	svc := testService(t)

	chart, err := svc.NatalChart(sampleSubject())
	require.NoError(t, err)

	assert.Equal(t, "natal", chart.ChartType)
	assert.Equal(t, "placidus", chart.HouseSystem)
	assert.Equal(t, "UTC", chart.Timezone)
	assert.Len(t, chart.Planets, 10)
	assert.Len(t, chart.Houses, 12)
	assert.NotEmpty(t, chart.Aspects)
	assert.NotEmpty(t, chart.Metadata["chart_id"])
	assert.Equal(t, "mean-elements", chart.Metadata["engine"])

	for _, p := range chart.Planets {
		assert.GreaterOrEqual(t, p.Longitude, 0.0, p.Name)
		assert.Less(t, p.Longitude, 360.0, p.Name)
		assert.NotEmpty(t, p.Sign, p.Name)
		assert.GreaterOrEqual(t, p.House, 1, p.Name)
		assert.LessOrEqual(t, p.House, 12, p.Name)
	}
	for i, h := range chart.Houses {
		assert.Equal(t, i+1, h.Number)
	}
}

// The position model is longitude-only; serialized positions must not carry
// fields it never computes.
func TestPlanetPositionPayloadShape(t *testing.T) {
	svc := testService(t)

	chart, err := svc.NatalChart(sampleSubject())
	require.NoError(t, err)

	raw, err := json.Marshal(chart.Planets[0])
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "longitude")
	assert.NotContains(t, fields, "latitude")
}

func TestNatalChartMemoized(t *testing.T) {
	svc := testService(t)

	first, err := svc.NatalChart(sampleSubject())
	require.NoError(t, err)
	second, err := svc.NatalChart(sampleSubject())
	require.NoError(t, err)

	// The cached chart comes back whole, metadata included.
	assert.Equal(t, first.Metadata["chart_id"], second.Metadata["chart_id"])
}

func TestNatalChartCustomObjects(t *testing.T) {
	svc := testService(t)

	subject := sampleSubject()
	subject.Objects = []string{"sun", "moon", "north_node", "south_node", "part_of_fortune", "vertex"}
	chart, err := svc.NatalChart(subject)
	require.NoError(t, err)
	require.Len(t, chart.Planets, 6)

	byName := map[string]PlanetPosition{}
	for _, p := range chart.Planets {
		byName[p.Name] = p
	}
	north := byName["north_node"]
	south := byName["south_node"]
	assert.InDelta(t, 180, angularSeparation(north.Longitude, south.Longitude), 1e-6)
}

func TestNatalChartRejectsBadInput(t *testing.T) {
	svc := testService(t)

	tests := []struct {
		name    string
		subject Subject
	}{
		{"bad datetime", Subject{DateTime: "soon", Latitude: 0, Longitude: 0}},
		{"bad latitude", Subject{DateTime: "1990-05-15", Latitude: "x", Longitude: 0}},
		{"latitude out of range", Subject{DateTime: "1990-05-15", Latitude: 91.0, Longitude: 0}},
		{"longitude out of range", Subject{DateTime: "1990-05-15", Latitude: 0, Longitude: -181.0}},
		{"unknown object", Subject{DateTime: "1990-05-15", Latitude: 0, Longitude: 0, Objects: []string{"planet_x"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.NatalChart(tc.subject)
			assert.Error(t, err)
		})
	}
}

func TestProgressedChart(t *testing.T) {
	svc := testService(t)

	natal, err := svc.NatalChart(sampleSubject())
	require.NoError(t, err)

	chart, err := svc.ProgressedChart(ProgressedRequest{
		NatalChart:      natal,
		ProgressionDate: "2024-05-15 14:30:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "progressed", chart.ChartType)
	assert.Len(t, chart.Planets, 10)

	_, err = svc.ProgressedChart(ProgressedRequest{ProgressionDate: "2024-05-15"})
	assert.Error(t, err)
}

func TestSolarReturn(t *testing.T) {
	svc := testService(t)

	chart, err := svc.SolarReturn(SolarReturnRequest{
		BirthData:  sampleSubject(),
		ReturnYear: 2024,
	})
	require.NoError(t, err)
	assert.Equal(t, "solar_return", chart.ChartType)
	// The return keeps the birth time-of-day in the requested year.
	assert.Equal(t, "2024-05-15 14:30:00", chart.DateTime)

	relocated, err := svc.SolarReturn(SolarReturnRequest{
		BirthData:      sampleSubject(),
		ReturnYear:     2024,
		ReturnLocation: &Coordinates{Latitude: 51.5, Longitude: -0.12},
	})
	require.NoError(t, err)
	assert.Equal(t, 51.5, relocated.Coordinates.Latitude)

	_, err = svc.SolarReturn(SolarReturnRequest{BirthData: sampleSubject(), ReturnYear: 1500})
	assert.Error(t, err)
}

func TestCompositeChart(t *testing.T) {
	svc := testService(t)

	person2 := Subject{DateTime: "1992-11-02 08:15:00", Latitude: 40.7, Longitude: -74.0}
	chart, err := svc.CompositeChart(CompositeRequest{
		Person1: sampleSubject(),
		Person2: person2,
	})
	require.NoError(t, err)
	assert.Equal(t, "composite", chart.ChartType)
	assert.Len(t, chart.Planets, 10)
	assert.Len(t, chart.Houses, 12)

	// Every composite position is the circular midpoint of the two natal
	// positions.
	chart1, err := svc.NatalChart(sampleSubject())
	require.NoError(t, err)
	chart2, err := svc.NatalChart(person2)
	require.NoError(t, err)
	assert.InDelta(t, midpoint(chart1.Planets[0].Longitude, chart2.Planets[0].Longitude),
		chart.Planets[0].Longitude, 1e-9)
}

func TestMidpointWrapsZero(t *testing.T) {
	assert.InDelta(t, 0, midpoint(350, 10), 1e-9)
	assert.InDelta(t, 90, midpoint(80, 100), 1e-9)
	assert.InDelta(t, 180, midpoint(90, 270), 1e-9)
}

func TestSynastry(t *testing.T) {
	svc := testService(t)

	analysis, err := svc.Synastry(SynastryRequest{
		Person1: sampleSubject(),
		Person2: Subject{DateTime: "1992-11-02 08:15:00", Latitude: 40.7, Longitude: -74.0},
	})
	require.NoError(t, err)
	assert.Equal(t, "natal", analysis.Person1Chart.ChartType)
	assert.Equal(t, "composite", analysis.CompositeChart.ChartType)
	assert.NotEmpty(t, analysis.Interaspects)
	assert.GreaterOrEqual(t, analysis.CompatibilityScore, 0.0)
	assert.LessOrEqual(t, analysis.CompatibilityScore, 100.0)
}

func TestTransits(t *testing.T) {
	svc := testService(t)

	natal, err := svc.NatalChart(sampleSubject())
	require.NoError(t, err)

	transits, err := svc.Transits(TransitsRequest{
		NatalChart:  natal,
		TransitDate: "2024-05-15 12:00:00",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, transits)

	_, err = svc.Transits(TransitsRequest{TransitDate: "2024-05-15"})
	assert.Error(t, err)

	_, err = svc.Transits(TransitsRequest{
		NatalChart:  natal,
		TransitDate: "2024-05-15",
		Objects:     []string{"planet_x"},
	})
	assert.Error(t, err)
}

func TestDignities(t *testing.T) {
	svc := testService(t)

	scores, err := svc.Dignities(ChartData{Planets: []PlanetPosition{
		{Name: "sun", Sign: "leo", House: 5},
		{Name: "moon", Sign: "taurus", House: 2},
		{Name: "mars", Sign: "libra", House: 7},
	}})
	require.NoError(t, err)
	require.Len(t, scores, 3)

	assert.Equal(t, 5, scores[0].Ruler)
	assert.Equal(t, 5, scores[0].TotalScore)
	assert.Equal(t, 4, scores[1].Exalted)
	assert.Equal(t, 0, scores[2].TotalScore)

	_, err = svc.Dignities(ChartData{})
	assert.Error(t, err)
}

func TestInterpretAspects(t *testing.T) {
	svc := testService(t)

	chart := ChartData{Aspects: []Aspect{
		{Planet1: "sun", Planet2: "moon", AspectType: "trine", Orb: 2.5, Applying: true},
		{Planet1: "mars", Planet2: "saturn", AspectType: "square", Orb: 1.2, Separating: true},
	}}

	medium, err := svc.InterpretAspects(chart, "")
	require.NoError(t, err)
	assert.Equal(t, "aspects", medium.InterpretationType)
	assert.Contains(t, medium.Summary, "2 aspects")
	require.Len(t, medium.DetailedAnalysis, 2)
	assert.Contains(t, medium.DetailedAnalysis[0], "Natural flow and ease")
	assert.Contains(t, medium.DetailedAnalysis[0], "orb 2.50")
	assert.Contains(t, medium.Keywords, "ease")
	assert.Contains(t, medium.Keywords, "tension")

	basic, err := svc.InterpretAspects(chart, "basic")
	require.NoError(t, err)
	assert.NotContains(t, basic.DetailedAnalysis[0], "orb")

	detailed, err := svc.InterpretAspects(chart, "detailed")
	require.NoError(t, err)
	assert.Contains(t, detailed.DetailedAnalysis[0], "applying")
	assert.Contains(t, detailed.DetailedAnalysis[1], "separating")
}
