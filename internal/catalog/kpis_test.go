package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `[
  {"id": 1, "name": "Order Fill Rate", "section": "Demand & Supply", "value": 96.0, "unit": "%"},
  {"id": 2, "name": "Plant Utilization Rate", "section": "Production", "value": 82.1, "unit": "%"},
  {"id": 3, "name": "On-Time Dispatch Rate", "section": "Logistics", "value": 94.5, "unit": "%"},
  {"id": 4, "name": "Scrap / Wastage Rate", "section": "Production", "value": 3.2, "unit": "%"},
  {"id": 5, "name": "Lost Sales Value", "section": "Market", "value": 8.7, "unit": "Cr"}
]`

func writeFixture(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "kpis.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReader_Load(t *testing.T) {
	reader := NewReader(writeFixture(t, fixture))
	ctx := context.Background()

	// case 1: no section returns the whole document
	raw, err := reader.Load(ctx, "")
	assert.NoError(t, err)
	assert.JSONEq(t, fixture, string(raw))

	// case 2: section filter
	raw, err = reader.Load(ctx, "Production")
	assert.NoError(t, err)
	var production []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &production))
	assert.Len(t, production, 2, "Expected exactly the two Production entries")
	assert.Equal(t, "Plant Utilization Rate", production[0]["name"])
	assert.Equal(t, "Scrap / Wastage Rate", production[1]["name"])

	// case 3: unknown section yields an empty array
	raw, err = reader.Load(ctx, "production")
	assert.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestReader_LoadSkipsNonObjects(t *testing.T) {
	reader := NewReader(writeFixture(t, `[1, null, "Production", {"section": 7}, {"section": "Production", "id": 9}]`))

	raw, err := reader.Load(context.Background(), "Production")
	assert.NoError(t, err)
	assert.JSONEq(t, `[{"section": "Production", "id": 9}]`, string(raw))
}

func TestReader_LoadErrors(t *testing.T) {
	ctx := context.Background()

	// case 1: missing file
	reader := NewReader(filepath.Join(t.TempDir(), "missing.json"))
	_, err := reader.Load(ctx, "")
	assert.True(t, errors.Is(err, ErrCatalogRead), "Missing file should be a read error")

	// case 2: malformed file
	reader = NewReader(writeFixture(t, `[{"section": "Production"`))
	_, err = reader.Load(ctx, "")
	assert.True(t, errors.Is(err, ErrCatalogParse))
	_, err = reader.Load(ctx, "Production")
	assert.True(t, errors.Is(err, ErrCatalogParse))

	// case 3: a section filter needs an array
	reader = NewReader(writeFixture(t, `{"section": "Production"}`))
	raw, err := reader.Load(ctx, "")
	assert.NoError(t, err, "Any valid document passes through unfiltered")
	assert.JSONEq(t, `{"section": "Production"}`, string(raw))
	_, err = reader.Load(ctx, "Production")
	assert.True(t, errors.Is(err, ErrCatalogParse))

	// case 4: cancelled context
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = reader.Load(cancelled, "")
	assert.ErrorIs(t, err, context.Canceled)
}
