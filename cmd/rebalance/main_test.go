package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/dto"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
)

const snapshotJSON = `{
  "warehouses": [
    {"id": "W1", "name": "Sucursal Norte"},
    {"id": "W2", "name": "Sucursal Sur"}
  ],
  "products": [
    {"id": "P1", "name": "Aceite 900ml",
     "stock_by_wh": {"W1": 0, "W2": 100},
     "sales_by_wh": {"W1": 30, "W2": 30}}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	require.NoError(t, app.Run(append([]string{"rebalance"}, args...)))
	return out.Bytes()
}

func TestClassify_Valores(t *testing.T) {
	path := writeFile(t, "values.json", `{"a": 10, "b": 90}`)
	var out dto.ClassifyResponse
	require.NoError(t, json.Unmarshal(run(t, "classify", "--values", path), &out))
	assert.Equal(t, entity.TierAA, out.Segments["b"].Tier)
	assert.Len(t, out.Segments, 2)
}

func TestGlobal_DesdeArchivo(t *testing.T) {
	path := writeFile(t, "snap.json", snapshotJSON)
	var out dto.GlobalRebalanceResponse
	require.NoError(t, json.Unmarshal(run(t, "global", "--snapshot", path, "--dest", "W1"), &out))
	require.Len(t, out.Products, 1)
	assert.Equal(t, "W2", out.Products[0].BestSourceID)
}

func TestPairwise_EscribePDF(t *testing.T) {
	path := writeFile(t, "snap.json", snapshotJSON)
	pdfPath := filepath.Join(t.TempDir(), "orden.pdf")

	var out dto.PairwiseTransferResponse
	require.NoError(t, json.Unmarshal(run(t, "pairwise", "-s", path, "--source", "W2", "--dest", "W1", "--pdf", pdfPath), &out))
	assert.Equal(t, 1, out.Stats.Total)

	raw, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestGlobal_ArchivoInexistente(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	err := app.Run([]string{"rebalance", "global", "--snapshot", "/no/existe.json", "--dest", "W1"})
	assert.Error(t, err)
}
