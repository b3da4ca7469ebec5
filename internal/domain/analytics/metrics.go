// Package analytics reúne los cálculos puros de la analítica de ventas:
// márgenes, porcentajes, crecimiento entre períodos y agrupación temporal.
// Todos los montos son enteros en unidades menores (centavos).
package analytics

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Margin resultado del cálculo de rentabilidad sobre un grupo de ventas.
type Margin struct {
	RevenueCents  int64
	CostCents     int64
	ProfitCents   int64 // puede ser negativo (pérdida)
	MarginPercent float64
}

// ComputeMargin aplica profit = revenue - cost y margin = round(profit/revenue*100, 2).
// Con revenue <= 0 el margen es 0.
func ComputeMargin(revenueCents, costCents int64) Margin {
	profit := revenueCents - costCents
	m := Margin{
		RevenueCents: revenueCents,
		CostCents:    costCents,
		ProfitCents:  profit,
	}
	if revenueCents > 0 {
		m.MarginPercent = Percent(profit, revenueCents)
	}
	return m
}

// Percent devuelve round(num/den*100, 2); 0 si den == 0.
func Percent(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return decimal.NewFromInt(num).
		Mul(hundred).
		Div(decimal.NewFromInt(den)).
		Round(2).
		InexactFloat64()
}

// Growth variación porcentual del período 1 al período 2: (p2-p1)/p1*100 con 2 decimales.
// Si p1 == 0 el crecimiento se define como 0.
func Growth(period1, period2 int64) float64 {
	if period1 == 0 {
		return 0
	}
	return Percent(period2-period1, period1)
}

// AverageCents promedio entero (redondeo al centavo más cercano); 0 si count == 0.
func AverageCents(totalCents, count int64) int64 {
	if count == 0 {
		return 0
	}
	return decimal.NewFromInt(totalCents).
		Div(decimal.NewFromInt(count)).
		Round(0).
		IntPart()
}
