// Package docs serves the OpenAPI description of the sessions API.
package docs

import (
	"context"
	_ "embed"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/samber/oops"
)

//go:embed openapi.yaml
var openAPISpec []byte

// Load parses and validates the embedded OpenAPI document
func Load(ctx context.Context) (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openAPISpec)
	if err != nil {
		return nil, oops.Code("OPENAPI_LOAD_FAILED").Wrap(err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, oops.Code("OPENAPI_INVALID").Wrap(err)
	}
	return doc, nil
}

// Handler serves the API document as JSON and as the original YAML
type Handler struct {
	json []byte
}

// NewHandler loads the document once; an invalid document fails startup
func NewHandler(ctx context.Context) (*Handler, error) {
	doc, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	body, err := doc.MarshalJSON()
	if err != nil {
		return nil, oops.Code("OPENAPI_LOAD_FAILED").Wrap(err)
	}
	return &Handler{json: body}, nil
}

// ServeJSON handles GET /apidocs
func (h *Handler) ServeJSON(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(h.json)
}

// ServeYAML handles GET /apidocs/openapi.yaml
func (h *Handler) ServeYAML(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(openAPISpec)
}
