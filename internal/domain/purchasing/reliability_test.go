package purchasing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

var expected = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func TestDaysLate(t *testing.T) {
	tests := []struct {
		name     string
		expected *time.Time
		actual   time.Time
		want     int
	}{
		{"sin fecha esperada", nil, expected.Add(96 * time.Hour), 0},
		{"antes de lo esperado", &expected, expected.Add(-48 * time.Hour), 0},
		{"justo a tiempo", &expected, expected, 0},
		{"una hora tarde cuenta un día", &expected, expected.Add(time.Hour), 1},
		{"cuatro días exactos", &expected, expected.Add(96 * time.Hour), 4},
		{"cuatro días y minutos", &expected, expected.Add(96*time.Hour + time.Minute), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysLate(tt.expected, tt.actual))
		})
	}
}

func TestScore_LateAndDamaged(t *testing.T) {
	got := Score(0.90, &expected, expected.Add(4*24*time.Hour), entity.QualityDamaged)
	assert.InDelta(t, 0.55, got, 1e-9)
}

func TestScore_OnTimeGood(t *testing.T) {
	got := Score(0.50, &expected, expected, entity.QualityGood)
	assert.InDelta(t, 0.53, got, 1e-9)
}

func TestScore_UnknownQualityOnlyTiming(t *testing.T) {
	got := Score(0.50, &expected, expected.Add(24*time.Hour), "PARTIAL_BOX")
	assert.InDelta(t, 0.45, got, 1e-9)
}

func TestScore_ClampsLowerBound(t *testing.T) {
	score := 0.3
	for i := 0; i < 20; i++ {
		score = Score(score, &expected, expected.Add(72*time.Hour), entity.QualityDamaged)
		assert.GreaterOrEqual(t, score, 0.0)
	}
	assert.Equal(t, 0.0, score)
}

func TestScore_ClampsUpperBound(t *testing.T) {
	score := 0.95
	for i := 0; i < 20; i++ {
		score = Score(score, &expected, expected.Add(-time.Hour), entity.QualityGood)
		assert.LessOrEqual(t, score, 1.0)
	}
	assert.Equal(t, 1.0, score)
}
