package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Jasperb3/Astrology-MCP/internal/mcp"
)

// rpcRequest is one JSON-RPC 2.0 call. ID is echoed back verbatim; a missing
// ID round-trips as null.
type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// handleJSONRPC serves the unified endpoint. Protocol failures travel inside
// the JSON-RPC response with HTTP 200; the one exception is admission
// rejection, which keeps its 429 status so unaware clients still back off.
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeRPC(w, http.StatusOK, rpcResponse{
			JSONRPC: "2.0",
			ID:      json.RawMessage("null"),
			Error:   &rpcError{Code: mcp.CodeInternalError, Message: "failed to read request body"},
		})
		return
	}

	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeRPC(w, http.StatusOK, rpcResponse{
			JSONRPC: "2.0",
			ID:      json.RawMessage("null"),
			Error:   &rpcError{Code: mcp.CodeParseError, Message: "parse error"},
		})
		return
	}
	if req.ID == nil {
		req.ID = json.RawMessage("null")
	}
	if req.JSONRPC != "2.0" {
		s.writeRPC(w, http.StatusOK, rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: mcp.CodeInvalidRequest, Message: "jsonrpc must be \"2.0\""},
		})
		return
	}

	// The handshake bypasses admission just as it does on the discrete
	// transport.
	if req.Method != "initialize" {
		key := clientKey(r)
		if !s.limiter.Admit(key) {
			s.log.Warn("rate limit exceeded", "client", key)
			rateErr := mcp.RateLimitErr()
			s.writeRPC(w, rateErr.Kind.HTTPStatus(), rpcResponse{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error:   &rpcError{Code: rateErr.Kind.RPCCode(), Message: rateErr.Message},
			})
			return
		}
	}

	result, dispatchErr := s.dispatchRPC(r, req)
	if dispatchErr != nil {
		s.writeRPC(w, http.StatusOK, rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   dispatchErr,
		})
		return
	}
	s.writeRPC(w, http.StatusOK, rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: result})
}

// dispatchRPC translates one method call into the same dispatch-core calls
// the discrete handlers make, so result payloads match across transports.
func (s *Server) dispatchRPC(r *http.Request, req rpcRequest) (any, *rpcError) {
	switch req.Method {
	case "initialize":
		var params mcp.InitializeRequest
		if err := unmarshalParams(req.Params, &params); err != nil {
			return nil, err
		}
		result, session, initErr := s.negotiator.Initialize(params)
		if initErr != nil {
			return nil, toRPCError(initErr)
		}
		s.log.Info("session initialized", "session", session.ID, "client", clientKey(r))
		return result, nil

	case "tools/list":
		var params listRequest
		if err := unmarshalParams(req.Params, &params); err != nil {
			return nil, err
		}
		result, listErr := s.registry.ListTools(params.Cursor)
		if listErr != nil {
			return nil, toRPCError(listErr)
		}
		return result, nil

	case "tools/call":
		var params callRequest
		if err := unmarshalParams(req.Params, &params); err != nil {
			return nil, err
		}
		result, callErr := s.dispatcher.CallTool(r.Context(), mcp.CallEnvelope{
			Name:      params.Name,
			Arguments: params.Arguments,
		})
		if callErr != nil {
			return nil, toRPCError(callErr)
		}
		return mcp.CallToolResult{Result: result}, nil

	case "resources/list":
		var params listRequest
		if err := unmarshalParams(req.Params, &params); err != nil {
			return nil, err
		}
		result, listErr := s.registry.ListResources(params.Cursor)
		if listErr != nil {
			return nil, toRPCError(listErr)
		}
		return result, nil

	case "resources/read":
		var params readResourceRequest
		if err := unmarshalParams(req.Params, &params); err != nil {
			return nil, err
		}
		result, readErr := s.dispatcher.ReadResource(r.Context(), params.URI)
		if readErr != nil {
			return nil, toRPCError(readErr)
		}
		return result, nil

	case "prompts/list":
		var params listRequest
		if err := unmarshalParams(req.Params, &params); err != nil {
			return nil, err
		}
		result, listErr := s.registry.ListPrompts(params.Cursor)
		if listErr != nil {
			return nil, toRPCError(listErr)
		}
		return result, nil

	case "prompts/get":
		var params callRequest
		if err := unmarshalParams(req.Params, &params); err != nil {
			return nil, err
		}
		result, getErr := s.dispatcher.GetPrompt(r.Context(), mcp.CallEnvelope{
			Name:      params.Name,
			Arguments: params.Arguments,
		})
		if getErr != nil {
			return nil, toRPCError(getErr)
		}
		return result, nil

	default:
		return nil, &rpcError{
			Code:    mcp.CodeMethodNotFound,
			Message: "method not found: " + req.Method,
		}
	}
}

func unmarshalParams(raw json.RawMessage, dst any) *rpcError {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &rpcError{Code: mcp.CodeInvalidParams, Message: "invalid params: " + err.Error()}
	}
	return nil
}

func toRPCError(err *mcp.Error) *rpcError {
	out := &rpcError{Code: err.Kind.RPCCode(), Message: err.Message}
	if len(err.Details) > 0 {
		out.Data = err.Details
	}
	return out
}

func (s *Server) writeRPC(w http.ResponseWriter, status int, resp rpcResponse) {
	s.writeJSON(w, status, resp)
}
