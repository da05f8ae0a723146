// Package catalog populates the MCP registry: tool definitions bound to the
// astro service, resource definitions bound to the reference tables, and
// prompt definitions bound to their renderers. Registration happens once at
// process start; the resulting registry is read-only.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Jasperb3/Astrology-MCP/internal/astro"
	"github.com/Jasperb3/Astrology-MCP/internal/mcp"
	"github.com/Jasperb3/Astrology-MCP/internal/refdata"
)

// New builds the complete registry for the server.
func New(svc *astro.Service, ref *refdata.Data) (*mcp.Registry, error) {
	reg := mcp.NewRegistry()
	if err := registerTools(reg, svc, ref); err != nil {
		return nil, err
	}
	if err := registerResources(reg, ref); err != nil {
		return nil, err
	}
	if err := registerPrompts(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// decode maps loosely-typed validated arguments onto a typed request.
func decode[T any](args map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(args)
	if err != nil {
		return out, fmt.Errorf("encode arguments: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("invalid arguments: %w", err)
	}
	return out, nil
}

func registerTools(reg *mcp.Registry, svc *astro.Service, ref *refdata.Data) error {
	houseSystems := ref.HouseSystems.Systems

	coordinate := func(format, example string) mcp.Property {
		return mcp.Property{
			Kinds:       []mcp.FieldKind{mcp.KindString, mcp.KindNumber},
			Description: fmt.Sprintf("%s in decimal degrees or DMS format (e.g., %s)", format, example),
			Format:      format,
		}
	}
	houseSystem := mcp.Property{
		Kinds:       []mcp.FieldKind{mcp.KindString},
		Description: "House system to use",
		Enum:        houseSystems,
		Default:     "placidus",
	}

	tools := []struct {
		def     mcp.Tool
		handler mcp.ToolHandler
	}{
		{
			def: mcp.Tool{
				Name:        "generate_natal_chart",
				Description: "Generate a natal (birth) chart with planets, houses, and aspects",
				InputSchema: &mcp.InputSchema{
					Properties: map[string]mcp.Property{
						"date_time": {
							Kinds:       []mcp.FieldKind{mcp.KindString},
							Description: "ISO format datetime: YYYY-MM-DD HH:MM:SS",
						},
						"latitude":  coordinate("latitude", "'32n43' or 32.71667"),
						"longitude": coordinate("longitude", "'117w09' or -117.15"),
						"timezone": {
							Kinds:       []mcp.FieldKind{mcp.KindString},
							Description: "Timezone identifier (optional, will auto-detect if not provided)",
						},
						"house_system": houseSystem,
						"objects": {
							Kinds:       []mcp.FieldKind{mcp.KindArray},
							Items:       mcp.KindString,
							Description: "List of objects to include (optional, uses defaults if not provided)",
						},
					},
					Required: []string{"date_time", "latitude", "longitude"},
				},
			},
			handler: func(_ context.Context, args map[string]any) (any, error) {
				subject, err := decode[astro.Subject](args)
				if err != nil {
					return nil, err
				}
				return svc.NatalChart(subject)
			},
		},
		{
			def: mcp.Tool{
				Name:        "generate_progressed_chart",
				Description: "Generate a progressed chart for a specific date",
				InputSchema: &mcp.InputSchema{
					Properties: map[string]mcp.Property{
						"natal_chart": {
							Kinds:       []mcp.FieldKind{mcp.KindObject},
							Description: "Reference natal chart data",
						},
						"progression_date": {
							Kinds:       []mcp.FieldKind{mcp.KindString},
							Description: "Date for progression (ISO format)",
						},
						"house_system": houseSystem,
					},
					Required: []string{"natal_chart", "progression_date"},
				},
			},
			handler: func(_ context.Context, args map[string]any) (any, error) {
				req, err := decode[astro.ProgressedRequest](args)
				if err != nil {
					return nil, err
				}
				return svc.ProgressedChart(req)
			},
		},
		{
			def: mcp.Tool{
				Name:        "generate_solar_return",
				Description: "Generate a solar return chart for a specific year",
				InputSchema: &mcp.InputSchema{
					Properties: map[string]mcp.Property{
						"birth_data": {
							Kinds:       []mcp.FieldKind{mcp.KindObject},
							Description: "Original birth data",
						},
						"return_year": {
							Kinds:       []mcp.FieldKind{mcp.KindInteger},
							Description: "Year for solar return",
						},
						"return_location": {
							Kinds:       []mcp.FieldKind{mcp.KindObject},
							Description: "Location for solar return (optional, uses birth location if not provided)",
							Properties: map[string]mcp.Property{
								"latitude":  {Kinds: []mcp.FieldKind{mcp.KindString, mcp.KindNumber}, Format: "latitude"},
								"longitude": {Kinds: []mcp.FieldKind{mcp.KindString, mcp.KindNumber}, Format: "longitude"},
							},
						},
					},
					Required: []string{"birth_data", "return_year"},
				},
			},
			handler: func(_ context.Context, args map[string]any) (any, error) {
				req, err := decode[astro.SolarReturnRequest](args)
				if err != nil {
					return nil, err
				}
				return svc.SolarReturn(req)
			},
		},
		{
			def: mcp.Tool{
				Name:        "generate_composite_chart",
				Description: "Generate a composite chart from two natal charts",
				InputSchema: &mcp.InputSchema{
					Properties: map[string]mcp.Property{
						"person1": {
							Kinds:       []mcp.FieldKind{mcp.KindObject},
							Description: "First person's birth data",
						},
						"person2": {
							Kinds:       []mcp.FieldKind{mcp.KindObject},
							Description: "Second person's birth data",
						},
						"house_system": houseSystem,
					},
					Required: []string{"person1", "person2"},
				},
			},
			handler: func(_ context.Context, args map[string]any) (any, error) {
				req, err := decode[astro.CompositeRequest](args)
				if err != nil {
					return nil, err
				}
				return svc.CompositeChart(req)
			},
		},
		{
			def: mcp.Tool{
				Name:        "calculate_synastry",
				Description: "Calculate synastry aspects between two natal charts",
				InputSchema: &mcp.InputSchema{
					Properties: map[string]mcp.Property{
						"person1": {
							Kinds:       []mcp.FieldKind{mcp.KindObject},
							Description: "First person's birth data",
						},
						"person2": {
							Kinds:       []mcp.FieldKind{mcp.KindObject},
							Description: "Second person's birth data",
						},
						"aspect_orbs": {
							Kinds:       []mcp.FieldKind{mcp.KindObject},
							Description: "Custom aspect orbs (optional)",
							Properties: map[string]mcp.Property{
								"conjunction": {Kinds: []mcp.FieldKind{mcp.KindNumber}},
								"opposition":  {Kinds: []mcp.FieldKind{mcp.KindNumber}},
								"trine":       {Kinds: []mcp.FieldKind{mcp.KindNumber}},
								"square":      {Kinds: []mcp.FieldKind{mcp.KindNumber}},
								"sextile":     {Kinds: []mcp.FieldKind{mcp.KindNumber}},
							},
						},
					},
					Required: []string{"person1", "person2"},
				},
			},
			handler: func(_ context.Context, args map[string]any) (any, error) {
				req, err := decode[astro.SynastryRequest](args)
				if err != nil {
					return nil, err
				}
				return svc.Synastry(req)
			},
		},
		{
			def: mcp.Tool{
				Name:        "get_transits",
				Description: "Get current transits to a natal chart",
				InputSchema: &mcp.InputSchema{
					Properties: map[string]mcp.Property{
						"natal_chart": {
							Kinds:       []mcp.FieldKind{mcp.KindObject},
							Description: "Reference natal chart",
						},
						"transit_date": {
							Kinds:       []mcp.FieldKind{mcp.KindString},
							Description: "Date for transit analysis (ISO format)",
						},
						"objects": {
							Kinds:       []mcp.FieldKind{mcp.KindArray},
							Items:       mcp.KindString,
							Description: "Transiting objects to include (optional)",
						},
					},
					Required: []string{"natal_chart", "transit_date"},
				},
			},
			handler: func(_ context.Context, args map[string]any) (any, error) {
				req, err := decode[astro.TransitsRequest](args)
				if err != nil {
					return nil, err
				}
				transits, err := svc.Transits(req)
				if err != nil {
					return nil, err
				}
				return map[string]any{"transits": transits}, nil
			},
		},
		{
			def: mcp.Tool{
				Name:        "interpret_aspects",
				Description: "Get interpretations for chart aspects",
				InputSchema: &mcp.InputSchema{
					Properties: map[string]mcp.Property{
						"chart_data": {
							Kinds:       []mcp.FieldKind{mcp.KindObject},
							Description: "Chart data containing aspects",
						},
						"aspect_types": {
							Kinds:       []mcp.FieldKind{mcp.KindArray},
							Items:       mcp.KindString,
							Description: "Specific aspect types to interpret (optional)",
						},
						"detail_level": {
							Kinds:   []mcp.FieldKind{mcp.KindString},
							Enum:    []string{"basic", "medium", "detailed"},
							Default: "medium",
						},
					},
					Required: []string{"chart_data"},
				},
			},
			handler: func(_ context.Context, args map[string]any) (any, error) {
				type interpretArgs struct {
					ChartData   astro.ChartData `json:"chart_data"`
					DetailLevel string          `json:"detail_level"`
				}
				req, err := decode[interpretArgs](args)
				if err != nil {
					return nil, err
				}
				return svc.InterpretAspects(req.ChartData, req.DetailLevel)
			},
		},
		{
			def: mcp.Tool{
				Name:        "calculate_dignities",
				Description: "Calculate essential dignities for planets",
				InputSchema: &mcp.InputSchema{
					Properties: map[string]mcp.Property{
						"chart_data": {
							Kinds:       []mcp.FieldKind{mcp.KindObject},
							Description: "Chart data with planet positions",
						},
					},
					Required: []string{"chart_data"},
				},
			},
			handler: func(_ context.Context, args map[string]any) (any, error) {
				type dignityArgs struct {
					ChartData astro.ChartData `json:"chart_data"`
				}
				req, err := decode[dignityArgs](args)
				if err != nil {
					return nil, err
				}
				dignities, err := svc.Dignities(req.ChartData)
				if err != nil {
					return nil, err
				}
				return map[string]any{"dignities": dignities}, nil
			},
		},
	}

	for _, t := range tools {
		if err := reg.RegisterTool(t.def, t.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerResources(reg *mcp.Registry, ref *refdata.Data) error {
	resources := []struct {
		def     mcp.Resource
		handler mcp.ResourceHandler
	}{
		{
			def: mcp.Resource{
				URI:         "astrological_objects",
				Name:        "Astrological Objects",
				Description: "List of planets, asteroids, and points available for chart calculation",
				MimeType:    "application/json",
			},
			handler: func(context.Context) (any, error) { return ref.Objects, nil },
		},
		{
			def: mcp.Resource{
				URI:         "house_systems",
				Name:        "House Systems",
				Description: "Available house systems for chart calculation",
				MimeType:    "application/json",
			},
			handler: func(context.Context) (any, error) { return ref.HouseSystems, nil },
		},
		{
			def: mcp.Resource{
				URI:         "aspect_patterns",
				Name:        "Aspect Patterns",
				Description: "Supported aspect types and default orbs",
				MimeType:    "application/json",
			},
			handler: func(context.Context) (any, error) { return ref.AspectPatterns(), nil },
		},
		{
			def: mcp.Resource{
				URI:         "sign_meanings",
				Name:        "Zodiac Sign Meanings",
				Description: "Interpretations and symbolism for zodiac signs",
				MimeType:    "application/json",
			},
			handler: func(context.Context) (any, error) {
				return map[string]any{"signs": ref.Signs}, nil
			},
		},
		{
			def: mcp.Resource{
				URI:         "planet_meanings",
				Name:        "Planet Meanings",
				Description: "Planetary symbolism and keywords",
				MimeType:    "application/json",
			},
			handler: func(context.Context) (any, error) {
				return map[string]any{"planets": ref.Planets}, nil
			},
		},
		{
			def: mcp.Resource{
				URI:         "house_meanings",
				Name:        "House Meanings",
				Description: "Astrological house interpretations",
				MimeType:    "application/json",
			},
			handler: func(context.Context) (any, error) {
				return map[string]any{"houses": ref.Houses}, nil
			},
		},
	}

	for _, r := range resources {
		if err := reg.RegisterResource(r.def, r.handler); err != nil {
			return err
		}
	}
	return nil
}
