package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
)

// ToolHandler executes a tool against validated arguments and returns the
// structured payload, or a collaborator error.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// ResourceHandler produces the content document for a resource uri.
type ResourceHandler func(ctx context.Context) (any, error)

// PromptHandler renders the messages for a prompt from its arguments.
type PromptHandler func(ctx context.Context, args map[string]any) ([]PromptMessage, error)

type toolEntry struct {
	def     Tool
	handler ToolHandler
}

type resourceEntry struct {
	def     Resource
	handler ResourceHandler
}

type promptEntry struct {
	def     Prompt
	handler PromptHandler
}

// Registry holds tool, resource, and prompt definitions in registration
// order. It is populated once before serving traffic and never mutated
// afterward, so concurrent reads need no synchronization.
type Registry struct {
	tools     []toolEntry
	resources []resourceEntry
	prompts   []promptEntry

	toolsByName    map[string]int
	resourcesByURI map[string]int
	promptsByName  map[string]int
}

// NewRegistry returns an empty registry ready for registration.
func NewRegistry() *Registry {
	return &Registry{
		toolsByName:    make(map[string]int),
		resourcesByURI: make(map[string]int),
		promptsByName:  make(map[string]int),
	}
}

// RegisterTool adds a tool definition. Names must be unique for the lifetime
// of the process; a duplicate registration is a programming error.
func (r *Registry) RegisterTool(def Tool, handler ToolHandler) error {
	if _, exists := r.toolsByName[def.Name]; exists {
		return fmt.Errorf("tool %q already registered", def.Name)
	}
	r.toolsByName[def.Name] = len(r.tools)
	r.tools = append(r.tools, toolEntry{def: def, handler: handler})
	return nil
}

// RegisterResource adds a resource definition keyed by uri.
func (r *Registry) RegisterResource(def Resource, handler ResourceHandler) error {
	if _, exists := r.resourcesByURI[def.URI]; exists {
		return fmt.Errorf("resource %q already registered", def.URI)
	}
	r.resourcesByURI[def.URI] = len(r.resources)
	r.resources = append(r.resources, resourceEntry{def: def, handler: handler})
	return nil
}

// RegisterPrompt adds a prompt definition keyed by name.
func (r *Registry) RegisterPrompt(def Prompt, handler PromptHandler) error {
	if _, exists := r.promptsByName[def.Name]; exists {
		return fmt.Errorf("prompt %q already registered", def.Name)
	}
	r.promptsByName[def.Name] = len(r.prompts)
	r.prompts = append(r.prompts, promptEntry{def: def, handler: handler})
	return nil
}

// pageSize bounds one list response. Small enough to exercise pagination,
// large enough that current catalogs fit in one or two pages.
const pageSize = 10

// decodeCursor parses an opaque forward-only cursor. A nil cursor means
// start-from-beginning.
func decodeCursor(cursor *string) (int, *Error) {
	if cursor == nil || *cursor == "" {
		return 0, nil
	}
	raw, err := base64.StdEncoding.DecodeString(*cursor)
	if err != nil {
		return 0, ValidationErr("cursor", *cursor, "malformed cursor")
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0, ValidationErr("cursor", *cursor, "malformed cursor")
	}
	return offset, nil
}

func encodeCursor(offset int) *string {
	s := base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
	return &s
}

// page returns the [offset, offset+pageSize) slice bounds for a collection of
// length n plus the next cursor, nil when the enumeration is exhausted.
func page(offset, n int) (int, int, *string) {
	if offset >= n {
		return n, n, nil
	}
	end := offset + pageSize
	if end >= n {
		return offset, n, nil
	}
	return offset, end, encodeCursor(end)
}

// ListTools enumerates registered tools in registration order.
func (r *Registry) ListTools(cursor *string) (ListToolsResult, *Error) {
	offset, err := decodeCursor(cursor)
	if err != nil {
		return ListToolsResult{}, err
	}
	start, end, next := page(offset, len(r.tools))
	tools := make([]Tool, 0, end-start)
	for _, entry := range r.tools[start:end] {
		tools = append(tools, entry.def)
	}
	return ListToolsResult{Tools: tools, NextCursor: next}, nil
}

// ListResources enumerates registered resources in registration order.
func (r *Registry) ListResources(cursor *string) (ListResourcesResult, *Error) {
	offset, err := decodeCursor(cursor)
	if err != nil {
		return ListResourcesResult{}, err
	}
	start, end, next := page(offset, len(r.resources))
	resources := make([]Resource, 0, end-start)
	for _, entry := range r.resources[start:end] {
		resources = append(resources, entry.def)
	}
	return ListResourcesResult{Resources: resources, NextCursor: next}, nil
}

// ListPrompts enumerates registered prompts in registration order.
func (r *Registry) ListPrompts(cursor *string) (ListPromptsResult, *Error) {
	offset, err := decodeCursor(cursor)
	if err != nil {
		return ListPromptsResult{}, err
	}
	start, end, next := page(offset, len(r.prompts))
	prompts := make([]Prompt, 0, end-start)
	for _, entry := range r.prompts[start:end] {
		prompts = append(prompts, entry.def)
	}
	return ListPromptsResult{Prompts: prompts, NextCursor: next}, nil
}

// LookupTool resolves a tool by name.
func (r *Registry) LookupTool(name string) (Tool, ToolHandler, *Error) {
	idx, ok := r.toolsByName[name]
	if !ok {
		return Tool{}, nil, NotFoundErr("tool", name)
	}
	entry := r.tools[idx]
	return entry.def, entry.handler, nil
}

// LookupResource resolves a resource by uri.
func (r *Registry) LookupResource(uri string) (Resource, ResourceHandler, *Error) {
	idx, ok := r.resourcesByURI[uri]
	if !ok {
		return Resource{}, nil, NotFoundErr("resource", uri)
	}
	entry := r.resources[idx]
	return entry.def, entry.handler, nil
}

// LookupPrompt resolves a prompt by name.
func (r *Registry) LookupPrompt(name string) (Prompt, PromptHandler, *Error) {
	idx, ok := r.promptsByName[name]
	if !ok {
		return Prompt{}, nil, NotFoundErr("prompt", name)
	}
	entry := r.prompts[idx]
	return entry.def, entry.handler, nil
}
