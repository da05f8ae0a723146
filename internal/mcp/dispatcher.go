package mcp

import (
	"context"
	"fmt"
	"log/slog"
)

// Dispatcher routes validated calls to registered handlers and wraps their
// outcomes into protocol envelopes. Both transport adapters call into this
// one type, which is what keeps them protocol-equivalent.
type Dispatcher struct {
	registry *Registry
	log      *slog.Logger
}

// NewDispatcher builds a dispatcher over a populated registry.
func NewDispatcher(registry *Registry, log *slog.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, log: log}
}

// CallTool looks up the tool, validates arguments against its input schema,
// invokes the handler, and wraps the result. Schema violations and unknown
// names are hard failures returned as *Error; handler failures are data and
// come back as an isError envelope with no partial computed payload.
func (d *Dispatcher) CallTool(ctx context.Context, env CallEnvelope) (ToolResult, *Error) {
	def, handler, lookupErr := d.registry.LookupTool(env.Name)
	if lookupErr != nil {
		d.log.Warn("tool not found", "tool", env.Name)
		return ToolResult{}, lookupErr
	}
	if def.InputSchema != nil {
		if err := def.InputSchema.Validate(env.Arguments); err != nil {
			d.log.Warn("tool arguments rejected", "tool", env.Name, "error", err.Message)
			return ToolResult{}, err
		}
	}

	data, err := handler(ctx, env.Arguments)
	if err != nil {
		execErr := ExecutionErr(env.Name, err)
		d.log.Warn("tool execution failed", "tool", env.Name, "error", err)
		return ToolResult{
			Content: []Content{{Type: "text", Text: execErr.Message}},
			IsError: true,
		}, nil
	}

	d.log.Info("tool executed", "tool", env.Name)
	return ToolResult{
		Content: []Content{{
			Type: "text",
			Text: fmt.Sprintf("Tool '%s' executed successfully", env.Name),
			Data: data,
		}},
		IsError: false,
	}, nil
}

// ReadResource resolves a uri and returns its contents with the declared
// mime type and the JSON-encoded document in Text.
func (d *Dispatcher) ReadResource(ctx context.Context, uri string) (ReadResourceResult, *Error) {
	def, handler, lookupErr := d.registry.LookupResource(uri)
	if lookupErr != nil {
		d.log.Warn("resource not found", "uri", uri)
		return ReadResourceResult{}, lookupErr
	}
	doc, err := handler(ctx)
	if err != nil {
		return ReadResourceResult{}, AsError(err)
	}
	text, err := encodeJSON(doc)
	if err != nil {
		return ReadResourceResult{}, InternalErr(err)
	}
	d.log.Info("resource read", "uri", uri)
	return ReadResourceResult{
		Contents: []ResourceContents{{URI: uri, MimeType: def.MimeType, Text: text}},
	}, nil
}

// GetPrompt resolves a prompt, checks that every declared-required argument
// is present (extra keys are ignored), and renders the messages.
func (d *Dispatcher) GetPrompt(ctx context.Context, env CallEnvelope) (GetPromptResult, *Error) {
	def, handler, lookupErr := d.registry.LookupPrompt(env.Name)
	if lookupErr != nil {
		d.log.Warn("prompt not found", "prompt", env.Name)
		return GetPromptResult{}, lookupErr
	}
	for _, arg := range def.Arguments {
		if !arg.Required {
			continue
		}
		if _, ok := env.Arguments[arg.Name]; !ok {
			return GetPromptResult{}, ValidationErr(arg.Name, nil,
				"missing required argument: %s", arg.Name)
		}
	}
	messages, err := handler(ctx, env.Arguments)
	if err != nil {
		return GetPromptResult{}, AsError(err)
	}
	d.log.Info("prompt rendered", "prompt", env.Name)
	return GetPromptResult{
		Description: fmt.Sprintf("Formatted prompt for %s", env.Name),
		Messages:    messages,
	}, nil
}
