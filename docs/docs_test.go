package docs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	doc, err := Load(context.Background())
	require.NoError(t, err)

	for _, path := range []string{
		"/api/sessions/register",
		"/api/sessions/login",
		"/api/sessions/github",
		"/api/sessions/github-callback",
		"/api/sessions/restore-password",
		"/api/sessions/reset-password",
		"/api/sessions/premium/{uid}",
		"/api/sessions/current",
		"/api/sessions/logout",
	} {
		assert.NotNil(t, doc.Paths.Value(path), path)
	}

	premium := doc.Paths.Value("/api/sessions/premium/{uid}")
	require.NotNil(t, premium.Put)
	assert.NotNil(t, premium.Put.Security)
}

func TestHandler(t *testing.T) {
	h, err := NewHandler(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeJSON(context.Background(), rec, httptest.NewRequest(http.MethodGet, "/apidocs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "3.0.1", body["openapi"])

	rec = httptest.NewRecorder()
	h.ServeYAML(context.Background(), rec, httptest.NewRequest(http.MethodGet, "/apidocs/openapi.yaml", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.1")
}
