package inventory_test

import (
	"fmt"
	"testing"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_EntradaVacia(t *testing.T) {
	got := inventory.Classify(map[string]float64{})
	assert.Empty(t, got)
}

func TestClassify_ValorCeroEsE(t *testing.T) {
	got := inventory.Classify(map[string]float64{"A": 0})
	require.Contains(t, got, "A")
	assert.Equal(t, entity.TierE, got["A"].Tier)
	assert.Equal(t, 100.0, got["A"].CumulativePct)
}

func TestClassify_LiderSiempreAA(t *testing.T) {
	got := inventory.Classify(map[string]float64{"a": 10, "b": 90})
	assert.Equal(t, entity.TierAA, got["b"].Tier)
	// acumulado 100% → D, posición 1/2 = 50% → C; gana C
	assert.Equal(t, entity.TierC, got["a"].Tier)
}

func TestClassify_ParticipacionYAcumulado(t *testing.T) {
	got := inventory.Classify(map[string]float64{"a": 75, "b": 25})
	assert.Equal(t, 75.0, got["a"].SharePct)
	assert.Equal(t, 75.0, got["a"].CumulativePct)
	assert.Equal(t, 25.0, got["b"].SharePct)
	assert.Equal(t, 100.0, got["b"].CumulativePct)
}

func TestClassify_UmbralFuerzaAA(t *testing.T) {
	values := map[string]float64{"a": 5000, "b": 3000, "c": 1}

	sin := inventory.Classify(values)
	assert.Equal(t, entity.TierC, sin["b"].Tier, "sin umbral b queda por ranking")

	con := inventory.Classify(values, inventory.WithForceTopThreshold(2000))
	assert.Equal(t, entity.TierAA, con["a"].Tier)
	assert.Equal(t, entity.TierAA, con["b"].Tier, "b supera el umbral de 2000")
	assert.Equal(t, entity.TierD, con["c"].Tier)
}

func TestClassify_NegativosNoRompen(t *testing.T) {
	got := inventory.Classify(map[string]float64{"a": -5, "b": 10})
	assert.Equal(t, entity.TierE, got["a"].Tier)
	assert.Equal(t, entity.TierAA, got["b"].Tier)
}

func TestClassify_TotalCeroTodoE(t *testing.T) {
	got := inventory.Classify(map[string]float64{"a": 0, "b": -1, "c": 0})
	for id, seg := range got {
		assert.Equal(t, entity.TierE, seg.Tier, id)
	}
}

func TestClassify_EmpatesDeterministas(t *testing.T) {
	for i := 0; i < 20; i++ {
		got := inventory.Classify(map[string]float64{"y": 5, "x": 5})
		assert.Equal(t, entity.TierAA, got["x"].Tier)
		assert.Equal(t, entity.TierC, got["y"].Tier)
	}
}

func TestClassify_ParticionYMonotonia(t *testing.T) {
	values := make(map[string]float64)
	for i := 1; i <= 120; i++ {
		values[fmt.Sprintf("p%03d", i)] = float64(i * i % 97)
	}
	got := inventory.Classify(values)
	require.Len(t, got, len(values), "cada entidad recibe exactamente una categoría")

	// recorrer en orden de valor descendente: el rango nunca mejora
	type kv struct {
		id string
		v  float64
	}
	var ordered []kv
	for id, v := range values {
		ordered = append(ordered, kv{id, v})
	}
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j].v > ordered[i].v || (ordered[j].v == ordered[i].v && ordered[j].id < ordered[i].id) {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}
	for i := 1; i < len(ordered); i++ {
		prev := got[ordered[i-1].id].Tier
		cur := got[ordered[i].id].Tier
		assert.True(t, prev.Rank() <= cur.Rank(), "%s (%s) antes que %s (%s)", ordered[i-1].id, prev, ordered[i].id, cur)
		assert.True(t, cur.Valid())
	}
}

func TestClassify_MetricasParalelas(t *testing.T) {
	units := map[string]float64{"a": 100, "b": 1, "c": 1}
	revenue := map[string]float64{"a": 1, "b": 500, "c": 1}

	byUnits := inventory.Classify(units)
	byRevenue := inventory.Classify(revenue)

	assert.Equal(t, entity.TierAA, byUnits["a"].Tier)
	assert.Equal(t, entity.TierAA, byRevenue["b"].Tier)
	assert.NotEqual(t, byUnits["b"].Tier, byRevenue["b"].Tier)
}

func TestClassify_OverrideAdicional(t *testing.T) {
	soloC := func(r inventory.Ranked, current entity.Tier) entity.Tier {
		if r.ID == "c" {
			return entity.TierA
		}
		return current
	}
	got := inventory.Classify(map[string]float64{"a": 100, "b": 50, "c": 1}, inventory.WithOverrides(soloC))
	assert.Equal(t, entity.TierA, got["c"].Tier)
	assert.Equal(t, entity.TierAA, got["a"].Tier)
}
