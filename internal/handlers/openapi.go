package handlers

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"gopkg.in/yaml.v3"

	"github.com/aieng/conversations-api/internal/api"
)

// OpenAPIHandler serves the static OpenAPI document in YAML and JSON.
type OpenAPIHandler struct {
	specPath string
}

// NewOpenAPIHandler creates a new OpenAPI handler.
func NewOpenAPIHandler(specPath string) *OpenAPIHandler {
	return &OpenAPIHandler{specPath: specPath}
}

// RegisterRoutes registers OpenAPI routes.
func (h *OpenAPIHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/openapi.yaml", h.ServeYAML).Methods("GET")
	r.HandleFunc("/openapi.json", h.ServeJSON).Methods("GET")
}

// ServeYAML serves the document as-is.
func (h *OpenAPIHandler) ServeYAML(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(h.specPath)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "OpenAPI specification not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ServeJSON converts the YAML document to JSON on the fly.
func (h *OpenAPIHandler) ServeJSON(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(h.specPath)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "OpenAPI specification not found", nil)
		return
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		api.WriteError(w, http.StatusInternalServerError, "Failed to parse OpenAPI specification", nil)
		return
	}

	api.WriteJSON(w, http.StatusOK, doc)
}
