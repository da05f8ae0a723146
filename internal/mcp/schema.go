package mcp

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// FieldKind names a JSON value kind accepted by a schema property.
type FieldKind string

const (
	KindString  FieldKind = "string"
	KindNumber  FieldKind = "number"
	KindInteger FieldKind = "integer"
	KindBoolean FieldKind = "boolean"
	KindObject  FieldKind = "object"
	KindArray   FieldKind = "array"
)

// Property declares the accepted shape of one argument. Kinds with more than
// one entry form a union ("string or number"). Format "latitude" or
// "longitude" additionally accepts sexagesimal hemisphere tokens such as
// "32n43" and range-checks numeric degrees.
type Property struct {
	Kinds       []FieldKind
	Description string
	Enum        []string
	Items       FieldKind
	Format      string
	Default     any
	Properties  map[string]Property
}

// InputSchema is the declarative descriptor owned by each ToolDefinition and
// interpreted by one generic validator. Immutable after registration.
type InputSchema struct {
	Properties map[string]Property
	Required   []string
}

// coordinate tokens: degrees, hemisphere letter, optional minutes.
var coordPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)([nsewNSEW])(\d+(?:\.\d+)?)?$`)

// Validate checks args against the schema: required-field presence, kind
// membership, enum membership, and coordinate formats. Extra keys not named
// by the schema are ignored. The first violation found is returned.
func (s *InputSchema) Validate(args map[string]any) *Error {
	for _, name := range s.Required {
		if _, ok := args[name]; !ok {
			return ValidationErr(name, nil, "missing required field: %s", name)
		}
	}
	for name, prop := range s.Properties {
		value, ok := args[name]
		if !ok {
			continue
		}
		if err := prop.validate(name, value); err != nil {
			return err
		}
	}
	return nil
}

func (p Property) validate(name string, value any) *Error {
	if !p.kindMatches(value) {
		return ValidationErr(name, value, "field %s: expected %s, got %T",
			name, strings.Join(p.kindNames(), " or "), value)
	}
	if p.Format == "latitude" || p.Format == "longitude" {
		if err := validateCoordinate(name, value, p.Format); err != nil {
			return err
		}
	}
	if len(p.Enum) > 0 {
		str, _ := value.(string)
		found := false
		for _, allowed := range p.Enum {
			if str == allowed {
				found = true
				break
			}
		}
		if !found {
			return ValidationErr(name, value, "field %s: %q is not one of [%s]",
				name, str, strings.Join(p.Enum, ", "))
		}
	}
	if p.Items != "" {
		arr, _ := value.([]any)
		for i, item := range arr {
			if !kindMatchesValue(p.Items, item) {
				return ValidationErr(name, item, "field %s[%d]: expected %s, got %T",
					name, i, p.Items, item)
			}
		}
	}
	if len(p.Properties) > 0 {
		obj, _ := value.(map[string]any)
		for sub, subProp := range p.Properties {
			subValue, ok := obj[sub]
			if !ok {
				continue
			}
			if err := subProp.validate(name+"."+sub, subValue); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p Property) kindMatches(value any) bool {
	for _, k := range p.Kinds {
		if kindMatchesValue(k, value) {
			return true
		}
	}
	return false
}

func kindMatchesValue(k FieldKind, value any) bool {
	switch k {
	case KindString:
		_, ok := value.(string)
		return ok
	case KindNumber:
		return isNumber(value)
	case KindInteger:
		f, ok := numeric(value)
		return ok && f == float64(int64(f))
	case KindBoolean:
		_, ok := value.(bool)
		return ok
	case KindObject:
		_, ok := value.(map[string]any)
		return ok
	case KindArray:
		_, ok := value.([]any)
		return ok
	}
	return false
}

func isNumber(value any) bool {
	_, ok := numeric(value)
	return ok
}

func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func validateCoordinate(name string, value any, format string) *Error {
	if f, ok := numeric(value); ok {
		limit := 90.0
		if format == "longitude" {
			limit = 180.0
		}
		if f < -limit || f > limit {
			return ValidationErr(name, value, "field %s: %v out of range [-%g, %g]",
				name, value, limit, limit)
		}
		return nil
	}
	str, _ := value.(string)
	m := coordPattern.FindStringSubmatch(str)
	if m == nil {
		return ValidationErr(name, value,
			"field %s: %q is not decimal degrees or a token like '32n43'", name, str)
	}
	hemisphere := strings.ToLower(m[2])
	limit := 90.0
	hemispheres := "ns"
	if format == "longitude" {
		limit = 180.0
		hemispheres = "ew"
	}
	if !strings.Contains(hemispheres, hemisphere) {
		return ValidationErr(name, value, "field %s: hemisphere %q not valid for %s",
			name, hemisphere, format)
	}
	degrees, err := strconv.ParseFloat(m[1], 64)
	if err != nil || degrees > limit {
		return ValidationErr(name, value, "field %s: degrees out of range [0, %g]", name, limit)
	}
	return nil
}

func (p Property) kindNames() []string {
	names := make([]string, len(p.Kinds))
	for i, k := range p.Kinds {
		names[i] = string(k)
	}
	return names
}

// MarshalJSON renders the schema in the standard inputSchema wire shape:
// {"type":"object","properties":{...},"required":[...]}.
func (s *InputSchema) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"type":       "object",
		"properties": marshalProperties(s.Properties),
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return json.Marshal(out)
}

func marshalProperties(props map[string]Property) map[string]any {
	rendered := make(map[string]any, len(props))
	for name, p := range props {
		entry := map[string]any{}
		if len(p.Kinds) == 1 {
			entry["type"] = string(p.Kinds[0])
		} else {
			entry["type"] = p.kindNames()
		}
		if p.Description != "" {
			entry["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			entry["enum"] = p.Enum
		}
		if p.Items != "" {
			entry["items"] = map[string]any{"type": string(p.Items)}
		}
		if p.Default != nil {
			entry["default"] = p.Default
		}
		if len(p.Properties) > 0 {
			entry["properties"] = marshalProperties(p.Properties)
		}
		rendered[name] = entry
	}
	return rendered
}
