// Package api provides the HTTP endpoints of the ticker logos service.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tickerlogos/tickerlogos/internal/indexer"
	"github.com/tickerlogos/tickerlogos/internal/lookup"
)

const (
	// ServiceName is reported by GET /.
	ServiceName = "Ticker Logos API"

	// DefaultVersion is reported when Options.Version is empty.
	DefaultVersion = "1.0.0"
)

// InfoResponse is the response for GET /.
type InfoResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
	Notes     string            `json:"notes"`
}

// InfoHandler handles GET /.
type InfoHandler struct {
	logger  *zap.Logger
	version string
}

// NewInfoHandler creates a new InfoHandler.
func NewInfoHandler(version string, logger *zap.Logger) *InfoHandler {
	if version == "" {
		version = DefaultVersion
	}
	return &InfoHandler{
		logger:  logger.Named("info"),
		version: version,
	}
}

// ServeHTTP implements http.Handler.
func (h *InfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	response := InfoResponse{
		Name:    ServiceName,
		Version: h.version,
		Endpoints: map[string]string{
			"get_logo_path_param":  "/logo/{ticker}",
			"get_logo_query_param": "/logo?ticker=ETSY",
		},
		Notes: "Searches recursively under the 'logos' directory and returns the best match image by ticker (case-insensitive).",
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode info response", zap.Error(err))
	}
}

// HealthHandler handles GET /health and GET /healthz.
type HealthHandler struct {
	logger  *zap.Logger
	indexer *indexer.Index
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(idx *indexer.Index, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		logger:  logger.Named("health"),
		indexer: idx,
	}
}

// HealthResponse is the response for health endpoints.
type HealthResponse struct {
	Status    string `json:"status"` // healthy, unhealthy
	Indexer   string `json:"indexer"`
	Keys      int    `json:"keys"`
	Timestamp string `json:"timestamp"`
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	status := "healthy"
	indexerStatus := "ready"
	keys := 0
	code := http.StatusOK

	if h.indexer == nil {
		status = "unhealthy"
		indexerStatus = "not initialized"
		code = http.StatusServiceUnavailable
	} else {
		keys = h.indexer.Count()
	}

	response := HealthResponse{
		Status:    status,
		Indexer:   indexerStatus,
		Keys:      keys,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

// Options configures the routes registered by RegisterHandlers.
type Options struct {
	// Version reported by GET /. Defaults to DefaultVersion.
	Version string

	// DocsURL is the redirect target of GET /logo without a ticker.
	// Defaults to "/docs".
	DocsURL string

	// AllowedOrigins for CORS. Empty disables CORS headers.
	AllowedOrigins []string
}

// RegisterHandlers registers API handlers on the given mux.
func RegisterHandlers(mux *http.ServeMux, svc *lookup.Service, logger *zap.Logger, opts Options) {
	infoHandler := NewInfoHandler(opts.Version, logger)
	healthHandler := NewHealthHandler(svc.Index(), logger)
	logoHandler := NewLogoHandler(svc, logger, opts.DocsURL)
	docsHandler := NewDocsHandler(opts.Version, logger)

	mux.Handle("/{$}", infoHandler)
	mux.HandleFunc("/logo/{ticker}", logoHandler.ServeByPath)
	mux.HandleFunc("/logo", logoHandler.ServeByQuery)
	mux.Handle("/docs", docsHandler)
	mux.Handle("/openapi.json", docsHandler)
	mux.Handle("/health", healthHandler)
	mux.Handle("/healthz", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
}

// NewRouter returns the full handler tree: all routes behind the CORS
// middleware.
func NewRouter(svc *lookup.Service, logger *zap.Logger, opts Options) http.Handler {
	mux := http.NewServeMux()
	RegisterHandlers(mux, svc, logger, opts)
	return WithCORS(mux, opts.AllowedOrigins)
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// writeError writes {"detail": msg} with the given status.
func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Detail: msg})
}
