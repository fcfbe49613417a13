// Package rpc implements the HTTP JSON-RPC surface of the sale daemon.
// Requests follow the {"method": ..., "params": [{...}]} envelope; the
// response carries the result object with a status field.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/curvemint/curved/internal/rpc/handlers"

	// Handler packages register themselves with the default registry.
	_ "github.com/curvemint/curved/internal/rpc/handlers/sales"
	_ "github.com/curvemint/curved/internal/rpc/handlers/server"
)

// Config holds the RPC server settings.
type Config struct {
	// Addr is the listen address, host:port.
	Addr string

	// Timeout bounds the execution of one request.
	Timeout time.Duration

	// AdminIPs lists client IPs granted the admin role. The loopback
	// addresses are always admin.
	AdminIPs []string
}

// Server handles HTTP JSON-RPC requests.
type Server struct {
	registry *handlers.Registry
	services *handlers.Services
	config   Config
	admins   map[string]struct{}
}

// NewServer creates an RPC server over the default handler registry.
func NewServer(config Config, services *handlers.Services) *Server {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	admins := make(map[string]struct{}, len(config.AdminIPs))
	for _, ip := range config.AdminIPs {
		admins[ip] = struct{}{}
	}

	return &Server{
		registry: handlers.DefaultRegistry,
		services: services,
		config:   config,
		admins:   admins,
	}
}

// request is the wire envelope of one call.
type request struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params,omitempty"`
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodGet:
		s.handleGet(w, r)
		return
	case http.MethodPost:
		s.handlePost(w, r)
		return
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Query().Get("command")
	if method == "" {
		method = "server_info"
	}
	s.execute(w, r, method, nil)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, "", &handlers.Error{Code: handlers.CodeInternal, Message: "failed to read request body"})
		return
	}
	defer r.Body.Close()

	var req request
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, "", handlers.NewError("jsonInvalid", "invalid JSON: %v", err))
		return
	}
	if req.Method == "" {
		s.writeError(w, "", handlers.NewError("missingCommand", "missing method field"))
		return
	}

	// Params travel as an array with a single object.
	params := map[string]interface{}{}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params[0], &params); err != nil {
			s.writeError(w, req.Method, handlers.InvalidParams("params must be an object: %v", err))
			return
		}
	}

	s.execute(w, r, req.Method, params)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, method string, params map[string]interface{}) {
	handler := s.registry.Get(method)
	if handler == nil {
		s.writeError(w, method, handlers.NewError(handlers.CodeUnknownMethod, "unknown method: %s", method))
		return
	}

	if handler.RequiresAdmin() && s.role(r) != handlers.RoleAdmin {
		s.writeError(w, method, handlers.NewError(handlers.CodeForbidden, "method %s requires admin access", method))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.Timeout)
	defer cancel()

	result, err := handler.Handle(ctx, params, s.services)
	if err != nil {
		var herr *handlers.Error
		if !errors.As(err, &herr) {
			herr = &handlers.Error{Code: handlers.CodeInternal, Message: err.Error()}
		}
		s.writeError(w, method, herr)
		return
	}

	s.writeResult(w, result)
}

// role classifies the caller from its network address.
func (s *Server) role(r *http.Request) handlers.Role {
	ip := clientIP(r)
	if ip == "127.0.0.1" || ip == "::1" {
		return handlers.RoleAdmin
	}
	if _, ok := s.admins[ip]; ok {
		return handlers.RoleAdmin
	}
	return handlers.RolePublic
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

func (s *Server) writeResult(w http.ResponseWriter, result interface{}) {
	payload := map[string]interface{}{}
	if m, ok := result.(map[string]interface{}); ok {
		for k, v := range m {
			payload[k] = v
		}
	} else if result != nil {
		payload["value"] = result
	}
	payload["status"] = "success"

	s.write(w, map[string]interface{}{"result": payload})
}

func (s *Server) writeError(w http.ResponseWriter, method string, herr *handlers.Error) {
	result := map[string]interface{}{
		"status": "error",
		"error":  herr.Code,
	}
	if herr.Message != "" {
		result["error_message"] = herr.Message
	}
	if method != "" {
		result["request"] = map[string]interface{}{"method": method}
	}

	s.write(w, map[string]interface{}{"result": result})
}

func (s *Server) write(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("rpc: failed to write response: %v", err)
	}
}

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s,
		ReadTimeout:  s.config.Timeout,
		WriteTimeout: s.config.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
