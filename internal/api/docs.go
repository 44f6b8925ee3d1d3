package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// DocsHandler serves an OpenAPI 3 description of the public routes on
// GET /docs and GET /openapi.json. It is the default redirect target of
// GET /logo without a ticker.
type DocsHandler struct {
	logger  *zap.Logger
	version string
}

// NewDocsHandler creates a new DocsHandler.
func NewDocsHandler(version string, logger *zap.Logger) *DocsHandler {
	if version == "" {
		version = DefaultVersion
	}
	return &DocsHandler{
		logger:  logger.Named("docs"),
		version: version,
	}
}

// ServeHTTP implements http.Handler.
func (h *DocsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.document()); err != nil {
		h.logger.Error("Failed to encode docs response", zap.Error(err))
	}
}

func (h *DocsHandler) document() map[string]any {
	errorBody := map[string]any{
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/Error"},
			},
		},
	}
	imageBody := map[string]any{
		"description": "Logo image; Content-Type follows the file extension",
		"content": map[string]any{
			"image/*": map[string]any{
				"schema": map[string]any{"type": "string", "format": "binary"},
			},
		},
	}
	logoResponses := map[string]any{
		"200": imageBody,
		"400": withDescription(errorBody, "Ticker must not be empty"),
		"404": withDescription(errorBody, "No logo for the ticker"),
	}
	tickerParam := func(in string) map[string]any {
		return map[string]any{
			"name":        "ticker",
			"in":          in,
			"required":    in == "path",
			"description": "Ticker symbol, case-insensitive",
			"schema":      map[string]any{"type": "string"},
		}
	}

	return map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":   ServiceName,
			"version": h.version,
		},
		"paths": map[string]any{
			"/": map[string]any{
				"get": map[string]any{
					"summary": "Service info",
					"responses": map[string]any{
						"200": map[string]any{"description": "Name, version and endpoints"},
					},
				},
			},
			"/logo/{ticker}": map[string]any{
				"get": map[string]any{
					"summary":    "Get a logo by path parameter",
					"parameters": []any{tickerParam("path")},
					"responses":  logoResponses,
				},
			},
			"/logo": map[string]any{
				"get": map[string]any{
					"summary":    "Get a logo by query parameter; redirects here when ticker is absent",
					"parameters": []any{tickerParam("query")},
					"responses": map[string]any{
						"200": imageBody,
						"302": map[string]any{"description": "No ticker parameter, redirect to the docs"},
						"400": withDescription(errorBody, "Ticker must not be empty"),
						"404": withDescription(errorBody, "No logo for the ticker"),
					},
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Error": map[string]any{
					"type":       "object",
					"properties": map[string]any{"detail": map[string]any{"type": "string"}},
					"required":   []any{"detail"},
				},
			},
		},
	}
}

func withDescription(body map[string]any, description string) map[string]any {
	out := make(map[string]any, len(body)+1)
	for k, v := range body {
		out[k] = v
	}
	out["description"] = description
	return out
}
