package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDispatcher(t *testing.T, reg *Registry) *Dispatcher {
	t.Helper()
	return NewDispatcher(reg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCallToolSuccess(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterTool(
		Tool{Name: "echo", InputSchema: &InputSchema{
			Properties: map[string]Property{"value": {Kinds: []FieldKind{KindString}}},
			Required:   []string{"value"},
		}},
		func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{"echoed": args["value"]}, nil
		},
	))

	result, err := testDispatcher(t, reg).CallTool(context.Background(), CallEnvelope{
		Name:      "echo",
		Arguments: map[string]any{"value": "hello"},
	})
	require.Nil(t, err)
	assert.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	assert.Equal(t, "Tool 'echo' executed successfully", result.Content[0].Text)
	assert.Equal(t, map[string]any{"echoed": "hello"}, result.Content[0].Data)
}

// Handler failures are data, not transport errors: the dispatcher returns a
// diagnostic envelope with no computed payload and a nil error.
func TestCallToolExecutionFailure(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterTool(
		Tool{Name: "flaky"},
		func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("ephemeris unavailable")
		},
	))

	result, err := testDispatcher(t, reg).CallTool(context.Background(), CallEnvelope{Name: "flaky"})
	require.Nil(t, err)
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Contains(t, result.Content[0].Text, "ephemeris unavailable")
	assert.Nil(t, result.Content[0].Data)
}

func TestCallToolUnknownName(t *testing.T) {
	_, err := testDispatcher(t, NewRegistry()).CallTool(context.Background(), CallEnvelope{Name: "missing"})
	require.NotNil(t, err)
	assert.Equal(t, KindNotFound, err.Kind)
}

// A schema violation is a hard failure: the handler must not run.
func TestCallToolSchemaViolationSkipsHandler(t *testing.T) {
	reg := NewRegistry()
	invoked := false
	require.NoError(t, reg.RegisterTool(
		Tool{Name: "strict", InputSchema: &InputSchema{
			Properties: map[string]Property{"n": {Kinds: []FieldKind{KindNumber}}},
			Required:   []string{"n"},
		}},
		func(context.Context, map[string]any) (any, error) {
			invoked = true
			return nil, nil
		},
	))

	_, err := testDispatcher(t, reg).CallTool(context.Background(), CallEnvelope{
		Name:      "strict",
		Arguments: map[string]any{"n": "not a number"},
	})
	require.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
	assert.False(t, invoked)
}

func TestReadResource(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterResource(
		Resource{URI: "doc", MimeType: "application/json"},
		func(context.Context) (any, error) {
			return map[string]any{"systems": []string{"placidus"}}, nil
		},
	))

	result, err := testDispatcher(t, reg).ReadResource(context.Background(), "doc")
	require.Nil(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "doc", result.Contents[0].URI)
	assert.Equal(t, "application/json", result.Contents[0].MimeType)
	assert.JSONEq(t, `{"systems":["placidus"]}`, result.Contents[0].Text)
}

func TestGetPromptRequiredArguments(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterPrompt(
		Prompt{
			Name: "report",
			Arguments: []PromptArgument{
				{Name: "chart_data", Required: true},
				{Name: "detail_level", Required: false},
			},
		},
		func(_ context.Context, args map[string]any) ([]PromptMessage, error) {
			return []PromptMessage{{Role: "user", Content: PromptContent{Type: "text", Text: "ok"}}}, nil
		},
	))
	d := testDispatcher(t, reg)

	_, err := d.GetPrompt(context.Background(), CallEnvelope{Name: "report"})
	require.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
	assert.Contains(t, err.Message, "chart_data")

	// Extra arguments are ignored.
	result, err := d.GetPrompt(context.Background(), CallEnvelope{
		Name:      "report",
		Arguments: map[string]any{"chart_data": "{}", "surprise": true},
	})
	require.Nil(t, err)
	assert.Equal(t, "Formatted prompt for report", result.Description)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "user", result.Messages[0].Role)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		kind       Kind
		wantStatus int
		wantCode   int
	}{
		{KindValidation, 400, CodeInvalidParams},
		{KindNotFound, 404, CodeMethodNotFound},
		{KindToolExecution, 422, CodeToolExecution},
		{KindRateLimit, 429, CodeRateLimited},
		{KindInternal, 500, CodeInternalError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.wantStatus, tc.kind.HTTPStatus(), tc.kind.String())
		assert.Equal(t, tc.wantCode, tc.kind.RPCCode(), tc.kind.String())
	}
}

func TestAsError(t *testing.T) {
	assert.Nil(t, AsError(nil))

	typed := NotFoundErr("tool", "x")
	assert.Same(t, typed, AsError(typed))

	plain := AsError(errors.New("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, KindInternal, plain.Kind)
}
