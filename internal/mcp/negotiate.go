package mcp

import (
	"time"

	"github.com/google/uuid"
)

// Session records a completed handshake. Its lifetime is the life of the
// transport connection; the discrete HTTP transport discards it after the
// call, so no cross-request continuity exists there.
type Session struct {
	ID                 string
	ProtocolVersion    string
	ClientCapabilities ClientCapabilities
	ClientInfo         *ClientInfo
	StartedAt          time.Time
}

// Negotiator performs the announce-only capability handshake. It always
// advertises its own fixed protocol version and capability set regardless of
// what the client requested, so Initialize is idempotent.
type Negotiator struct {
	protocolVersion string
	info            ServerInfo
	capabilities    ServerCapabilities
	instructions    string
}

// NewNegotiator builds a negotiator with the fixed identity it will advertise.
func NewNegotiator(protocolVersion string, info ServerInfo) *Negotiator {
	caps := ServerCapabilities{
		Experimental: map[string]any{},
		Logging:      map[string]any{},
	}
	caps.Prompts.ListChanged = true
	caps.Resources.Subscribe = true
	caps.Tools.ListChanged = true
	return &Negotiator{
		protocolVersion: protocolVersion,
		info:            info,
		capabilities:    caps,
		instructions: "Welcome to the Immanuel MCP Server! Use the available tools " +
			"to generate astrological charts and calculations.",
	}
}

// Initialize validates the handshake request, establishes a Session for the
// calling connection, and returns the advertised server identity. The
// requested version is stored but never rejected.
func (n *Negotiator) Initialize(req InitializeRequest) (InitializeResult, *Session, *Error) {
	if req.ProtocolVersion == "" {
		return InitializeResult{}, nil, ValidationErr("protocolVersion", nil,
			"missing required field: protocolVersion")
	}
	session := &Session{
		ID:                 uuid.NewString(),
		ProtocolVersion:    n.protocolVersion,
		ClientCapabilities: req.Capabilities,
		ClientInfo:         req.ClientInfo,
		StartedAt:          time.Now().UTC(),
	}
	result := InitializeResult{
		ProtocolVersion: n.protocolVersion,
		Capabilities:    n.capabilities,
		ServerInfo:      n.info,
		Instructions:    n.instructions,
	}
	return result, session, nil
}

// Capabilities returns the advertised capability set.
func (n *Negotiator) Capabilities() ServerCapabilities { return n.capabilities }
