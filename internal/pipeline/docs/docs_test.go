package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocRegistered(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "/api/v1", doc.BasePath)
	for _, path := range []string{
		"/records", "/records/{id}", "/records/{id}/status", "/records/statistics",
		"/streaks/{symbol}", "/snapshot", "/portfolio", "/portfolio/transactions",
		"/pipeline/runs", "/pipeline/runs/{run_id}", "/pipeline/status",
	} {
		assert.Contains(t, doc.Paths, path)
	}
}
