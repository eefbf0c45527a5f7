// Package api serves the inspector's JSON API over HTTPS and HTTP/3.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
	"golang.org/x/sync/errgroup"

	"github.com/zsiec/sccinspect/internal/certs"
	"github.com/zsiec/sccinspect/internal/document"
)

// maxDocumentBytes bounds request bodies carrying SCC text.
const maxDocumentBytes = 32 << 20

// shutdownTimeout bounds graceful shutdown once the context is cancelled.
const shutdownTimeout = 5 * time.Second

// ServerConfig holds listen addresses, the TLS certificate and the
// document store the API serves.
type ServerConfig struct {
	// Addr is the HTTPS (TCP) listen address.
	Addr string
	// H3Addr is the HTTP/3 (UDP) listen address. Empty disables HTTP/3.
	H3Addr  string
	Cert    *certs.CertInfo
	Manager *document.Manager
	Log     *slog.Logger
}

// Server hosts the JSON API.
type Server struct {
	config ServerConfig
	log    *slog.Logger
}

// NewServer creates a Server. It returns an error if required fields are
// missing.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Cert == nil {
		return nil, errors.New("api: Cert is required")
	}
	if config.Addr == "" {
		return nil, errors.New("api: Addr is required")
	}
	if config.Manager == nil {
		return nil, errors.New("api: Manager is required")
	}
	log := config.Log
	if log == nil {
		log = slog.Default()
	}
	return &Server{config: config, log: log.With("component", "api")}, nil
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/documents", s.handleListDocuments)
	mux.HandleFunc("PUT /api/documents/{key}", s.handlePutDocument)
	mux.HandleFunc("DELETE /api/documents/{key}", s.handleDeleteDocument)
	mux.HandleFunc("GET /api/documents/{key}/report", s.handleReport)
	mux.HandleFunc("GET /api/documents/{key}/timemap", s.handleTimeMap)
	mux.HandleFunc("GET /api/documents/{key}/lines/{line}", s.handleLine)
	mux.HandleFunc("GET /api/documents/{key}/hover", s.handleHover)
	mux.HandleFunc("POST /api/decode", s.handleDecode)
	mux.HandleFunc("GET /api/report-schema", s.handleReportSchema)
	mux.HandleFunc("GET /api/cert-hash", s.handleCertHash)
	mux.HandleFunc("OPTIONS /api/", s.handleOptions)
}

// Handler returns the API routes wrapped in CORS headers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// Start runs the HTTPS server and, when H3Addr is set, the HTTP/3 server.
// It blocks until ctx is cancelled or a listener fails, then shuts both
// down.
func (s *Server) Start(ctx context.Context) error {
	handler := s.Handler()
	tlsConfig := s.config.Cert.TLSConfig()

	httpsSrv := &http.Server{
		Addr:      s.config.Addr,
		Handler:   handler,
		TLSConfig: tlsConfig,
	}

	var h3Srv *http3.Server
	if s.config.H3Addr != "" {
		h3Srv = &http3.Server{
			Addr:      s.config.H3Addr,
			Handler:   handler,
			TLSConfig: http3.ConfigureTLSConfig(tlsConfig.Clone()),
			QUICConfig: &quic.Config{
				MaxIdleTimeout: 30 * time.Second,
				Allow0RTT:      true,
			},
		}
		httpsSrv.Handler = altSvcMiddleware(h3Srv, handler, s.log)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("HTTPS API server listening", "addr", s.config.Addr)
		if err := httpsSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTPS server: %w", err)
		}
		return nil
	})

	if h3Srv != nil {
		g.Go(func() error {
			s.log.Info("HTTP/3 API server listening", "addr", s.config.H3Addr)
			err := h3Srv.ListenAndServe()
			if ctx.Err() != nil {
				return nil
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP/3 server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpsSrv.Shutdown(shutdownCtx)
		if h3Srv != nil {
			if cerr := h3Srv.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
		return err
	})

	return g.Wait()
}

// altSvcMiddleware advertises the HTTP/3 endpoint on HTTPS responses.
func altSvcMiddleware(h3 *http3.Server, next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h3.SetQUICHeaders(w.Header()); err != nil {
			log.Debug("alt-svc header unavailable", "error", err)
		}
		next.ServeHTTP(w, r)
	})
}
