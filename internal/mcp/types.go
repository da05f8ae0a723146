// Package mcp implements the Model Context Protocol dispatch core: wire
// types, the tool/resource/prompt registry, argument validation, capability
// negotiation, rate limiting, and the failure-to-code mapping shared by both
// transports.
package mcp

import "encoding/json"

// Tool describes a callable tool and its input schema.
type Tool struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	InputSchema *InputSchema `json:"inputSchema"`
}

// Resource describes a read-only reference document exposed by uri.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceContents is one entry of a resources/read result.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

// PromptArgument is one named argument of a prompt.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Prompt describes a parameterized text-template producer.
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptContent is the content part of a prompt message.
type PromptContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// PromptMessage is one message of a rendered prompt.
type PromptMessage struct {
	Role    string        `json:"role"`
	Content PromptContent `json:"content"`
}

// Content is one typed item of a tool result. Text carries the outcome
// description; Data, when present, carries the structured payload.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Data any    `json:"data,omitempty"`
}

// ToolResult is the envelope around a tool call outcome. When IsError is
// true the content carries a diagnostic and no computed data.
type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError"`
}

// ClientCapabilities advertises client features. The negotiator stores but
// never rejects them.
type ClientCapabilities map[string]json.RawMessage

// ServerCapabilities advertises the fixed server feature set.
type ServerCapabilities struct {
	Experimental map[string]any `json:"experimental"`
	Logging      map[string]any `json:"logging"`
	Prompts      struct {
		ListChanged bool `json:"listChanged"`
	} `json:"prompts"`
	Resources struct {
		Subscribe bool `json:"subscribe"`
	} `json:"resources"`
	Tools struct {
		ListChanged bool `json:"listChanged"`
	} `json:"tools"`
}

// ServerInfo identifies the server implementation.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ClientInfo identifies the client implementation.
type ClientInfo struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// InitializeRequest is the handshake request body.
type InitializeRequest struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      *ClientInfo        `json:"clientInfo,omitempty"`
}

// InitializeResult is the handshake response body.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitempty"`
}

// CallEnvelope is the one internal call shape both transport adapters map
// into. ID is the JSON-RPC correlation identifier and is empty for the
// discrete HTTP transport.
type CallEnvelope struct {
	Name      string
	Arguments map[string]any
	ID        any
}

// ListResult pages through a registry enumeration. NextCursor is nil when no
// further items exist.
type ListToolsResult struct {
	Tools      []Tool  `json:"tools"`
	NextCursor *string `json:"nextCursor"`
}

// ListResourcesResult is the resources/list response body.
type ListResourcesResult struct {
	Resources  []Resource `json:"resources"`
	NextCursor *string    `json:"nextCursor"`
}

// ListPromptsResult is the prompts/list response body.
type ListPromptsResult struct {
	Prompts    []Prompt `json:"prompts"`
	NextCursor *string  `json:"nextCursor"`
}

// ReadResourceResult is the resources/read response body.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

// GetPromptResult is the prompts/get response body.
type GetPromptResult struct {
	Description string          `json:"description"`
	Messages    []PromptMessage `json:"messages"`
}

// CallToolResult wraps a ToolResult for the tools/call response body.
type CallToolResult struct {
	Result ToolResult `json:"result"`
}
