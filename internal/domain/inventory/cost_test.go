package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWeightedAverageCost(t *testing.T) {
	d := decimal.RequireFromString
	cases := []struct {
		name         string
		stock        int
		cost         string
		received     int
		receivedCost string
		want         string
	}{
		{"sin stock previo", 0, "0", 10, "2.50", "2.5"},
		{"promedio simple", 10, "1", 10, "2", "1.5"},
		{"ponderado", 30, "1.20", 10, "2.00", "1.4"},
		{"redondeo", 1, "1", 2, "1.01", "1.0067"},
		{"stock negativo como cero", -5, "9", 4, "3", "3"},
		{"nada", 0, "1", 0, "1", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WeightedAverageCost(tc.stock, d(tc.cost), tc.received, d(tc.receivedCost))
			assert.True(t, d(tc.want).Equal(got), "got %s want %s", got, tc.want)
		})
	}
}
