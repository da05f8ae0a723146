package mcp

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopTool(context.Context, map[string]any) (any, error) { return nil, nil }

func registryWithTools(t *testing.T, n int) *Registry {
	t.Helper()
	reg := NewRegistry()
	for i := 0; i < n; i++ {
		def := Tool{Name: fmt.Sprintf("tool_%02d", i)}
		require.NoError(t, reg.RegisterTool(def, noopTool))
	}
	return reg
}

func TestRegistryDuplicateRegistration(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterTool(Tool{Name: "dup"}, noopTool))
	assert.Error(t, reg.RegisterTool(Tool{Name: "dup"}, noopTool))

	require.NoError(t, reg.RegisterResource(Resource{URI: "dup"}, func(context.Context) (any, error) { return nil, nil }))
	assert.Error(t, reg.RegisterResource(Resource{URI: "dup"}, func(context.Context) (any, error) { return nil, nil }))

	require.NoError(t, reg.RegisterPrompt(Prompt{Name: "dup"}, func(context.Context, map[string]any) ([]PromptMessage, error) { return nil, nil }))
	assert.Error(t, reg.RegisterPrompt(Prompt{Name: "dup"}, func(context.Context, map[string]any) ([]PromptMessage, error) { return nil, nil }))
}

func TestListToolsPagination(t *testing.T) {
	reg := registryWithTools(t, 12)

	first, err := reg.ListTools(nil)
	require.Nil(t, err)
	assert.Len(t, first.Tools, 10)
	require.NotNil(t, first.NextCursor)

	second, err := reg.ListTools(first.NextCursor)
	require.Nil(t, err)
	assert.Len(t, second.Tools, 2)
	assert.Nil(t, second.NextCursor)
}

// Walking the cursor chain to exhaustion must enumerate every registered
// tool exactly once, in registration order.
func TestListToolsFullEnumeration(t *testing.T) {
	const total = 25
	reg := registryWithTools(t, total)

	var names []string
	var cursor *string
	for {
		page, err := reg.ListTools(cursor)
		require.Nil(t, err)
		for _, tool := range page.Tools {
			names = append(names, tool.Name)
		}
		if page.NextCursor == nil {
			break
		}
		cursor = page.NextCursor
	}

	require.Len(t, names, total)
	seen := map[string]bool{}
	for i, name := range names {
		assert.Equal(t, fmt.Sprintf("tool_%02d", i), name)
		assert.False(t, seen[name], "duplicate %s", name)
		seen[name] = true
	}
}

func TestListToolsMalformedCursor(t *testing.T) {
	reg := registryWithTools(t, 3)

	for _, cursor := range []string{"not-base64!!", "aGVsbG8="} {
		c := cursor
		_, err := reg.ListTools(&c)
		require.NotNil(t, err, "cursor %q", cursor)
		assert.Equal(t, KindValidation, err.Kind)
	}
}

func TestListToolsCursorPastEnd(t *testing.T) {
	reg := registryWithTools(t, 3)

	cursor := encodeCursor(50)
	page, err := reg.ListTools(cursor)
	require.Nil(t, err)
	assert.Empty(t, page.Tools)
	assert.Nil(t, page.NextCursor)
}

func TestLookupUnknown(t *testing.T) {
	reg := NewRegistry()

	_, _, err := reg.LookupTool("missing")
	require.NotNil(t, err)
	assert.Equal(t, KindNotFound, err.Kind)

	_, _, err = reg.LookupResource("missing")
	require.NotNil(t, err)
	assert.Equal(t, KindNotFound, err.Kind)

	_, _, err = reg.LookupPrompt("missing")
	require.NotNil(t, err)
	assert.Equal(t, KindNotFound, err.Kind)
}

func TestListResourcesAndPrompts(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterResource(Resource{URI: "a", Name: "A"}, func(context.Context) (any, error) { return nil, nil }))
	require.NoError(t, reg.RegisterPrompt(Prompt{Name: "p"}, func(context.Context, map[string]any) ([]PromptMessage, error) { return nil, nil }))

	resources, err := reg.ListResources(nil)
	require.Nil(t, err)
	require.Len(t, resources.Resources, 1)
	assert.Equal(t, "a", resources.Resources[0].URI)
	assert.Nil(t, resources.NextCursor)

	prompts, err := reg.ListPrompts(nil)
	require.Nil(t, err)
	require.Len(t, prompts.Prompts, 1)
	assert.Equal(t, "p", prompts.Prompts[0].Name)
}
