package astro

// Coordinates carries a latitude/longitude pair as supplied by the caller:
// decimal degrees or sexagesimal hemisphere tokens.
type Coordinates struct {
	Latitude  any `json:"latitude"`
	Longitude any `json:"longitude"`
}

// PlanetPosition is one placed object in a chart. The position model works
// in ecliptic longitude only, so no latitude is carried.
type PlanetPosition struct {
	Name      string  `json:"name"`
	Longitude float64 `json:"longitude"`
	Distance  float64 `json:"distance"`
	Speed     float64 `json:"speed"`
	Sign      string  `json:"sign"`
	House     int     `json:"house,omitempty"`
}

// House is one house cusp.
type House struct {
	Number int     `json:"number"`
	Cusp   float64 `json:"cusp"`
	Sign   string  `json:"sign"`
}

// Aspect is an angular relationship between two placed objects.
type Aspect struct {
	Planet1    string  `json:"planet1"`
	Planet2    string  `json:"planet2"`
	AspectType string  `json:"aspect_type"`
	Orb        float64 `json:"orb"`
	ExactOrb   float64 `json:"exact_orb"`
	Applying   bool    `json:"applying"`
	Separating bool    `json:"separating"`
}

// ChartData is a computed chart: the structured payload tool calls return.
type ChartData struct {
	ChartType   string           `json:"chart_type"`
	DateTime    string           `json:"date_time"`
	Coordinates Coordinates      `json:"coordinates"`
	Timezone    string           `json:"timezone"`
	HouseSystem string           `json:"house_system"`
	Planets     []PlanetPosition `json:"planets"`
	Houses      []House          `json:"houses"`
	Aspects     []Aspect         `json:"aspects"`
	Metadata    map[string]any   `json:"metadata"`
}

// DignityScore is the essential-dignity evaluation of one planet.
type DignityScore struct {
	Planet     string `json:"planet"`
	Sign       string `json:"sign"`
	House      int    `json:"house"`
	Ruler      int    `json:"ruler"`
	Exalted    int    `json:"exalted"`
	TotalScore int    `json:"total_score"`
}

// SynastryAnalysis is the full relationship comparison of two subjects.
type SynastryAnalysis struct {
	Person1Chart       ChartData `json:"person1_chart"`
	Person2Chart       ChartData `json:"person2_chart"`
	Interaspects       []Aspect  `json:"interaspects"`
	CompositeChart     ChartData `json:"composite_chart"`
	CompatibilityScore float64   `json:"compatibility_score"`
}

// Interpretation is a textual analysis of chart content.
type Interpretation struct {
	InterpretationType string   `json:"interpretation_type"`
	Summary            string   `json:"summary"`
	DetailedAnalysis   []string `json:"detailed_analysis"`
	Keywords           []string `json:"keywords"`
}

// Subject is the birth-data input for natal-style charts.
type Subject struct {
	DateTime    string   `json:"date_time"`
	Latitude    any      `json:"latitude"`
	Longitude   any      `json:"longitude"`
	Timezone    string   `json:"timezone,omitempty"`
	HouseSystem string   `json:"house_system,omitempty"`
	Objects     []string `json:"objects,omitempty"`
}

// ProgressedRequest asks for a progressed chart relative to a natal chart.
type ProgressedRequest struct {
	NatalChart      ChartData `json:"natal_chart"`
	ProgressionDate string    `json:"progression_date"`
	HouseSystem     string    `json:"house_system,omitempty"`
}

// SolarReturnRequest asks for the chart of the sun's return in a given year.
type SolarReturnRequest struct {
	BirthData      Subject      `json:"birth_data"`
	ReturnYear     int          `json:"return_year"`
	ReturnLocation *Coordinates `json:"return_location,omitempty"`
}

// CompositeRequest asks for a midpoint composite of two subjects.
type CompositeRequest struct {
	Person1     Subject `json:"person1"`
	Person2     Subject `json:"person2"`
	HouseSystem string  `json:"house_system,omitempty"`
}

// SynastryRequest asks for a synastry comparison of two subjects.
type SynastryRequest struct {
	Person1    Subject            `json:"person1"`
	Person2    Subject            `json:"person2"`
	AspectOrbs map[string]float64 `json:"aspect_orbs,omitempty"`
}

// TransitsRequest asks for transiting aspects to a natal chart.
type TransitsRequest struct {
	NatalChart  ChartData `json:"natal_chart"`
	TransitDate string    `json:"transit_date"`
	Objects     []string  `json:"objects,omitempty"`
}
