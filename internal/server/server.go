// Package server provides the HTTP transport adapters for the MCP dispatch
// core: the discrete /mcp endpoints, the unified JSON-RPC endpoint, and the
// health tree. Both transports translate into the same internal call shapes,
// so their outcomes stay protocol-equivalent.
package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/elnormous/contenttype"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Jasperb3/Astrology-MCP/internal/config"
	"github.com/Jasperb3/Astrology-MCP/internal/mcp"
	"github.com/Jasperb3/Astrology-MCP/internal/refdata"
)

// Server contains the configured router and the protocol components built
// once at startup.
type Server struct {
	cfg        config.Settings
	log        *slog.Logger
	router     *chi.Mux
	registry   *mcp.Registry
	dispatcher *mcp.Dispatcher
	negotiator *mcp.Negotiator
	limiter    *mcp.RateLimiter
	ref        *refdata.Data
	start      time.Time
}

// New constructs a Server with middleware and routes configured.
func New(cfg config.Settings, registry *mcp.Registry, ref *refdata.Data, log *slog.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		log:        log,
		router:     chi.NewRouter(),
		registry:   registry,
		dispatcher: mcp.NewDispatcher(registry, log),
		negotiator: mcp.NewNegotiator(cfg.ProtocolVersion, mcp.ServerInfo{
			Name:    cfg.ServerName,
			Version: cfg.ServerVersion,
		}),
		limiter: mcp.NewRateLimiter(cfg.RateLimitRequests, cfg.RateWindow()),
		ref:     ref,
		start:   time.Now(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOriginList(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: cfg.CORSAllowCredentials,
	}))

	s.router.Get("/", s.handleServerInfo)

	s.router.Route("/health", func(r chi.Router) {
		r.Get("/", s.handleHealth)
		r.Get("/ready", s.handleReady)
		r.Get("/liveness", s.handleLiveness)
	})

	s.router.Route("/mcp", func(r chi.Router) {
		r.Use(s.auth)
		r.Use(s.requireJSON)

		// The handshake is announce-only and idempotent, so it sits before
		// the rate-limit gate.
		r.Post("/initialize", s.handleInitialize)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/tools/list", s.handleListTools)
			r.Post("/tools/call", s.handleCallTool)
			r.Post("/resources/list", s.handleListResources)
			r.Post("/resources/read", s.handleReadResource)
			r.Post("/prompts/list", s.handleListPrompts)
			r.Post("/prompts/get", s.handleGetPrompt)
		})

		// The JSON-RPC adapter does its own per-method admission so it can
		// answer rejections in the JSON-RPC error shape.
		r.Post("/jsonrpc", s.handleJSONRPC)
	})

	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(started),
			"client", clientKey(r),
		)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.cfg.Token {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireJSON rejects POST bodies declaring a non-JSON media type. Requests
// without a Content-Type header pass through.
func (s *Server) requireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.Header.Get("Content-Type") != "" {
			mt, err := contenttype.GetMediaType(r)
			if err != nil || mt.Type != "application" || mt.Subtype != "json" {
				s.writeError(w, mcp.ValidationErr("Content-Type", r.Header.Get("Content-Type"),
					"Content-Type must be application/json"))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !s.limiter.Admit(key) {
			s.log.Warn("rate limit exceeded", "client", key)
			s.writeError(w, mcp.RateLimitErr())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey identifies a caller for rate limiting: the remote address
// without its port. middleware.RealIP has already resolved proxy headers
// into RemoteAddr.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// errorBody is the error envelope for the discrete endpoints.
type errorBody struct {
	Error     string         `json:"error"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp string         `json:"timestamp"`
}

func (s *Server) writeError(w http.ResponseWriter, err *mcp.Error) {
	s.writeJSON(w, err.Kind.HTTPStatus(), errorBody{
		Error:     err.Kind.String(),
		Message:   err.Message,
		Details:   err.Details,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

// decodeBody parses a JSON request body into dst. An empty body decodes as
// the zero value so the list endpoints accept `{}` and no body alike.
func (s *Server) decodeBody(r *http.Request, dst any) *mcp.Error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err == io.EOF {
			return nil
		}
		return mcp.ValidationErr("", nil, "invalid JSON body: %v", err)
	}
	return nil
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req mcp.InitializeRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	result, session, err := s.negotiator.Initialize(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("session initialized", "session", session.ID, "client", clientKey(r))
	s.writeJSON(w, http.StatusOK, result)
}

type listRequest struct {
	Cursor *string `json:"cursor"`
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.registry.ListTools(req.Cursor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

type callRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	var req callRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.dispatcher.CallTool(r.Context(), mcp.CallEnvelope{
		Name:      req.Name,
		Arguments: req.Arguments,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mcp.CallToolResult{Result: result})
}

func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.registry.ListResources(req.Cursor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

type readResourceRequest struct {
	URI string `json:"uri"`
}

func (s *Server) handleReadResource(w http.ResponseWriter, r *http.Request) {
	var req readResourceRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.dispatcher.ReadResource(r.Context(), req.URI)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.registry.ListPrompts(req.Cursor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	var req callRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.dispatcher.GetPrompt(r.Context(), mcp.CallEnvelope{
		Name:      req.Name,
		Arguments: req.Arguments,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// serverInfoBody mirrors the root endpoint the deployment has always served.
type serverInfoBody struct {
	Name                  string   `json:"name"`
	Version               string   `json:"version"`
	ProtocolVersion       string   `json:"protocol_version"`
	Description           string   `json:"description"`
	Capabilities          []string `json:"capabilities"`
	SupportedChartTypes   []string `json:"supported_chart_types"`
	SupportedHouseSystems []string `json:"supported_house_systems"`
	SupportedObjects      []string `json:"supported_objects"`
}

func (s *Server) handleServerInfo(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, serverInfoBody{
		Name:            s.cfg.ServerName,
		Version:         s.cfg.ServerVersion,
		ProtocolVersion: s.cfg.ProtocolVersion,
		Description:     "Model Context Protocol server for astrological chart calculation",
		Capabilities:    []string{"experimental", "logging", "prompts", "resources", "tools"},
		SupportedChartTypes: []string{
			"natal", "progressed", "solar_return", "composite", "synastry", "transits",
		},
		SupportedHouseSystems: s.ref.HouseSystems.Systems,
		SupportedObjects:      s.ref.Objects.Planets,
	})
}
