package purchasing

import (
	"math"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// Ajustes del puntaje de confiabilidad de proveedores.
const (
	OnTimeBonus       = 0.02
	LatePenaltyPerDay = 0.05
	DamagedPenalty    = 0.15
	GoodQualityBonus  = 0.01
	MinReliability    = 0.0
	MaxReliability    = 1.0

	hoursPerDay = 24
)

// DaysLate días de atraso redondeados hacia arriba; 0 si no hay fecha esperada o llegó a tiempo.
func DaysLate(expected *time.Time, actual time.Time) int {
	if expected == nil || !actual.After(*expected) {
		return 0
	}
	days := actual.Sub(*expected).Hours() / hoursPerDay
	return int(math.Ceil(days))
}

// Score calcula el nuevo puntaje a partir del actual, la puntualidad y la nota de calidad.
// Determinista y acotado a [0, 1].
func Score(current float64, expected *time.Time, actual time.Time, quality string) float64 {
	score := current

	if late := DaysLate(expected, actual); late <= 0 {
		score += OnTimeBonus
	} else {
		score -= LatePenaltyPerDay * float64(late)
	}

	switch quality {
	case entity.QualityDamaged:
		score -= DamagedPenalty
	case entity.QualityGood:
		score += GoodQualityBonus
	}

	return math.Max(MinReliability, math.Min(MaxReliability, score))
}
