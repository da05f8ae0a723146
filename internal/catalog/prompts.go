package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Jasperb3/Astrology-MCP/internal/mcp"
)

func registerPrompts(reg *mcp.Registry) error {
	prompts := []struct {
		def    mcp.Prompt
		render mcp.PromptHandler
	}{
		{
			def: mcp.Prompt{
				Name:        "natal_chart_interpretation",
				Description: "Generate a comprehensive natal chart interpretation",
				Arguments: []mcp.PromptArgument{
					{Name: "chart_data", Description: "Complete natal chart data", Required: true},
					{Name: "focus_areas", Description: "Areas to emphasize (optional)", Required: false},
					{Name: "detail_level", Description: "Level of detail: basic, medium, detailed", Required: false},
				},
			},
			render: renderNatalInterpretation,
		},
		{
			def: mcp.Prompt{
				Name:        "transit_report",
				Description: "Generate a transit report for current planetary movements",
				Arguments: []mcp.PromptArgument{
					{Name: "natal_chart", Description: "Reference natal chart", Required: true},
					{Name: "transit_data", Description: "Current transit data", Required: true},
					{Name: "time_period", Description: "Time period for the report", Required: false},
				},
			},
			render: renderTransitReport,
		},
		{
			def: mcp.Prompt{
				Name:        "compatibility_analysis",
				Description: "Generate a relationship compatibility analysis",
				Arguments: []mcp.PromptArgument{
					{Name: "synastry_data", Description: "Synastry analysis data", Required: true},
					{Name: "relationship_type", Description: "Type of relationship being analyzed", Required: false},
				},
			},
			render: renderCompatibilityAnalysis,
		},
		{
			def: mcp.Prompt{
				Name:        "progression_forecast",
				Description: "Generate a progressed chart analysis and forecast",
				Arguments: []mcp.PromptArgument{
					{Name: "progressed_chart", Description: "Progressed chart data", Required: true},
					{Name: "natal_chart", Description: "Reference natal chart", Required: true},
					{Name: "time_frame", Description: "Time frame for the forecast", Required: false},
				},
			},
			render: renderProgressionForecast,
		},
	}

	for _, p := range prompts {
		if err := reg.RegisterPrompt(p.def, p.render); err != nil {
			return err
		}
	}
	return nil
}

// argText renders a prompt argument for template interpolation: strings pass
// through, structured values are JSON-encoded, absent values fall back.
func argText(args map[string]any, key, fallback string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(raw)
}

func userMessage(text string) []mcp.PromptMessage {
	return []mcp.PromptMessage{{
		Role:    "user",
		Content: mcp.PromptContent{Type: "text", Text: text},
	}}
}

func renderNatalInterpretation(_ context.Context, args map[string]any) ([]mcp.PromptMessage, error) {
	text := fmt.Sprintf(`Generate a comprehensive natal chart interpretation based on the following chart data.

Chart Data: %s

Focus Areas: %s
Detail Level: %s

Please provide:
1. Overall personality overview
2. Key planetary placements and their meanings
3. Important aspects and their influences
4. House emphasis and life themes
5. Potential challenges and strengths
6. Life purpose and karmic lessons

Structure the interpretation in a clear, accessible way while maintaining astrological accuracy.`,
		argText(args, "chart_data", "{}"),
		argText(args, "focus_areas", "General interpretation covering all major areas"),
		argText(args, "detail_level", "medium"))
	return userMessage(text), nil
}

func renderTransitReport(_ context.Context, args map[string]any) ([]mcp.PromptMessage, error) {
	text := fmt.Sprintf(`Generate a transit report for the specified time period.

Natal Chart: %s
Transit Data: %s
Time Period: %s

Please provide:
1. Overview of current planetary transits
2. Most significant transiting aspects
3. Areas of life being activated
4. Opportunities and challenges
5. Timing and duration of key transits
6. Practical advice for navigating the period

Focus on the most impactful transits and provide actionable guidance.`,
		argText(args, "natal_chart", "{}"),
		argText(args, "transit_data", "{}"),
		argText(args, "time_period", "current"))
	return userMessage(text), nil
}

func renderCompatibilityAnalysis(_ context.Context, args map[string]any) ([]mcp.PromptMessage, error) {
	text := fmt.Sprintf(`Generate a relationship compatibility analysis based on synastry data.

Synastry Data: %s
Relationship Type: %s

Please provide:
1. Overall compatibility assessment
2. Strongest connection points
3. Potential challenges and conflicts
4. Communication styles and needs
5. Long-term potential
6. Advice for harmony and growth

Consider both harmonious and challenging aspects, providing a balanced perspective.`,
		argText(args, "synastry_data", "{}"),
		argText(args, "relationship_type", "romantic"))
	return userMessage(text), nil
}

func renderProgressionForecast(_ context.Context, args map[string]any) ([]mcp.PromptMessage, error) {
	text := fmt.Sprintf(`Generate a progressed chart analysis and forecast.

Progressed Chart: %s
Natal Chart: %s
Time Frame: %s

Please provide:
1. Key progressed planetary movements
2. New aspects forming or separating
3. Evolving life themes and priorities
4. Personal growth opportunities
5. Challenges and lessons ahead
6. Timeline of significant developments

Focus on the most meaningful progressions and their implications for personal development.`,
		argText(args, "progressed_chart", "{}"),
		argText(args, "natal_chart", "{}"),
		argText(args, "time_frame", "year ahead"))
	return userMessage(text), nil
}
