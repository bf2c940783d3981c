package entity_test

import (
	"math"
	"testing"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductSnapshot_Validate(t *testing.T) {
	ok := entity.ProductSnapshot{
		ID:               "P1",
		StockByWarehouse: map[string]float64{"W1": 4},
		SalesByWarehouse: map[string]float64{"W1": 0},
	}
	require.NoError(t, ok.Validate())

	cases := map[string]entity.ProductSnapshot{
		"sin id":           {StockByWarehouse: map[string]float64{"W1": 1}},
		"stock negativo":   {ID: "P", StockByWarehouse: map[string]float64{"W1": -1}},
		"ventas NaN":       {ID: "P", SalesByWarehouse: map[string]float64{"W1": math.NaN()}},
		"pendiente inf":    {ID: "P", PendingByWarehouse: map[string]float64{"W1": math.Inf(1)}},
		"ingreso negativo": {ID: "P", RevenueByWarehouse: map[string]decimal.Decimal{"W1": decimal.NewFromInt(-3)}},
		"orden negativa":   {ID: "P", PendingOrders: []entity.PendingOrder{{OrderRef: "PO-1", Quantity: -2}}},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProductSnapshot_TierAtCaeALaGlobal(t *testing.T) {
	p := entity.ProductSnapshot{
		ABCGlobal:      entity.TierB,
		ABCByWarehouse: map[string]entity.Tier{"W1": entity.TierAA},
	}
	assert.Equal(t, entity.TierAA, p.TierAt("W1"))
	assert.Equal(t, entity.TierB, p.TierAt("W2"))

	var empty entity.ProductSnapshot
	assert.Equal(t, entity.TierE, empty.TierAt("W1"))
}

func TestProductSnapshot_Totales(t *testing.T) {
	p := entity.ProductSnapshot{
		StockByWarehouse:   map[string]float64{"W1": 4, "W2": 6},
		SalesByWarehouse:   map[string]float64{"W1": 30, "W3": 0.0005},
		RevenueByWarehouse: map[string]decimal.Decimal{"W1": decimal.RequireFromString("10.50"), "W4": decimal.NewFromInt(2)},
	}
	assert.Equal(t, 10.0, p.TotalStock())
	assert.Equal(t, 0.0, p.Stock("W9"), "ausente equivale a 0")
	assert.Equal(t, 1, p.SellingWarehouses(0.001))
	assert.True(t, p.TotalRevenue().Equal(decimal.RequireFromString("12.5")))
	assert.ElementsMatch(t, []string{"W1", "W2", "W3", "W4"}, p.Warehouses())
}

func TestTier_Orden(t *testing.T) {
	assert.Equal(t, entity.TierAA, entity.TierB.Better(entity.TierAA))
	assert.Equal(t, entity.TierA, entity.TierA.Better(entity.TierD))
	assert.Equal(t, entity.TierE, entity.ParseTier("Z"))
	assert.True(t, entity.TierA.IsTop())
	assert.False(t, entity.TierB.IsTop())
}
