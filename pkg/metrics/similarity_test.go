package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{"identical direction", []float32{1, 0, 0}, []float32{2, 0, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"empty left", nil, []float32{1}, 0},
		{"empty right", []float32{1}, nil, 0},
		{"dimension mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineSimilarityClamped(t *testing.T) {
	// Accumulated float error can push the raw ratio past 1 for near
	// identical vectors; the result must still land inside [-1, 1].
	a := make([]float32, 768)
	for i := range a {
		a[i] = 0.1
	}
	got := CosineSimilarity(a, a)
	assert.LessOrEqual(t, got, 1.0)
	assert.InDelta(t, 1.0, got, 1e-6)
}

func TestAverageScore(t *testing.T) {
	assert.Equal(t, 0.0, AverageScore(nil))
	assert.InDelta(t, 0.5, AverageScore([]float64{0.25, 0.75}), 1e-9)
}
