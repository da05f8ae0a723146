package mcp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func natalSchema() *InputSchema {
	return &InputSchema{
		Properties: map[string]Property{
			"date_time": {Kinds: []FieldKind{KindString}},
			"latitude":  {Kinds: []FieldKind{KindString, KindNumber}, Format: "latitude"},
			"longitude": {Kinds: []FieldKind{KindString, KindNumber}, Format: "longitude"},
			"house_system": {
				Kinds: []FieldKind{KindString},
				Enum:  []string{"placidus", "koch", "equal"},
			},
			"objects": {Kinds: []FieldKind{KindArray}, Items: KindString},
		},
		Required: []string{"date_time", "latitude", "longitude"},
	}
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		wantErr string
	}{
		{
			name: "valid decimal coordinates",
			args: map[string]any{
				"date_time": "1990-05-15 14:30:00",
				"latitude":  32.71667,
				"longitude": -117.15,
			},
		},
		{
			name: "valid sexagesimal coordinates",
			args: map[string]any{
				"date_time": "1990-05-15 14:30:00",
				"latitude":  "32n43",
				"longitude": "117w09",
			},
		},
		{
			name:    "missing required field",
			args:    map[string]any{"latitude": 32.7, "longitude": -117.1},
			wantErr: "missing required field: date_time",
		},
		{
			name: "wrong kind",
			args: map[string]any{
				"date_time": 42,
				"latitude":  32.7,
				"longitude": -117.1,
			},
			wantErr: "expected string",
		},
		{
			name: "latitude out of range",
			args: map[string]any{
				"date_time": "1990-05-15 14:30:00",
				"latitude":  95.0,
				"longitude": -117.1,
			},
			wantErr: "out of range",
		},
		{
			name: "wrong hemisphere for latitude",
			args: map[string]any{
				"date_time": "1990-05-15 14:30:00",
				"latitude":  "32e43",
				"longitude": -117.1,
			},
			wantErr: "hemisphere",
		},
		{
			name: "malformed coordinate token",
			args: map[string]any{
				"date_time": "1990-05-15 14:30:00",
				"latitude":  "north of here",
				"longitude": -117.1,
			},
			wantErr: "not decimal degrees",
		},
		{
			name: "enum violation",
			args: map[string]any{
				"date_time":    "1990-05-15 14:30:00",
				"latitude":     32.7,
				"longitude":    -117.1,
				"house_system": "vedic",
			},
			wantErr: "is not one of",
		},
		{
			name: "array item kind violation",
			args: map[string]any{
				"date_time": "1990-05-15 14:30:00",
				"latitude":  32.7,
				"longitude": -117.1,
				"objects":   []any{"sun", 7},
			},
			wantErr: "objects[1]",
		},
		{
			name: "extra keys ignored",
			args: map[string]any{
				"date_time": "1990-05-15 14:30:00",
				"latitude":  32.7,
				"longitude": -117.1,
				"unknown":   "ignored",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := natalSchema().Validate(tc.args)
			if tc.wantErr == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, KindValidation, err.Kind)
			assert.Contains(t, err.Message, tc.wantErr)
		})
	}
}

func TestSchemaValidateNestedObject(t *testing.T) {
	schema := &InputSchema{
		Properties: map[string]Property{
			"return_location": {
				Kinds: []FieldKind{KindObject},
				Properties: map[string]Property{
					"latitude": {Kinds: []FieldKind{KindString, KindNumber}, Format: "latitude"},
				},
			},
		},
	}

	err := schema.Validate(map[string]any{
		"return_location": map[string]any{"latitude": 40.7},
	})
	assert.Nil(t, err)

	err = schema.Validate(map[string]any{
		"return_location": map[string]any{"latitude": 120.0},
	})
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "return_location.latitude")
}

func TestSchemaMarshalWireShape(t *testing.T) {
	raw, err := json.Marshal(natalSchema())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "object", decoded["type"])
	props, ok := decoded["properties"].(map[string]any)
	require.True(t, ok)

	lat, ok := props["latitude"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"string", "number"}, lat["type"])

	objects, ok := props["objects"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"type": "string"}, objects["items"])

	assert.ElementsMatch(t, []any{"date_time", "latitude", "longitude"}, decoded["required"])
}
