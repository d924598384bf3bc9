package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras una entrada de stock:
// (stock × costo + recibido × costoRecibido) / (stock + recibido), redondeado a 4 decimales.
// Un stock negativo se trata como cero.
func WeightedAverageCost(stock int, cost decimal.Decimal, received int, receivedCost decimal.Decimal) decimal.Decimal {
	if stock < 0 {
		stock = 0
	}
	total := stock + received
	if total <= 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(int64(stock)).Mul(cost).
		Add(decimal.NewFromInt(int64(received)).Mul(receivedCost))
	return num.Div(decimal.NewFromInt(int64(total))).Round(4)
}
