package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluatePerfectSeparation(t *testing.T) {
	scores := []float64{-3, -1, 2, 4}
	labels := []bool{false, false, true, true}

	m := Evaluate(scores, labels)
	assert.Equal(t, 1.0, m.Accuracy)
	assert.InDelta(t, 1.0, m.AUC, 1e-12)
	assert.InDelta(t, 1.0, m.AUPRC, 1e-12)
	assert.Equal(t, 1.0, m.F1Score)
	assert.Equal(t, 1.0, m.PositivePrecision)
	assert.Equal(t, 1.0, m.PositiveRecall)
	assert.Equal(t, 1.0, m.NegativePrecision)
	assert.Equal(t, 1.0, m.NegativeRecall)
	assert.Greater(t, m.LogLossReduction, 0.0)
}

func TestEvaluateInverted(t *testing.T) {
	m := Evaluate([]float64{3, 1, -2, -4}, []bool{false, false, true, true})
	assert.Equal(t, 0.0, m.Accuracy)
	assert.InDelta(t, 0.0, m.AUC, 1e-12)
	assert.Equal(t, 0.0, m.F1Score)
	assert.Less(t, m.LogLossReduction, 0.0)
}

func TestEvaluateUninformative(t *testing.T) {
	// A constant score of zero predicts p=0.5, which costs exactly one bit
	m := Evaluate([]float64{0, 0, 0, 0}, []bool{true, false, true, false})
	assert.InDelta(t, 1.0, m.LogLoss, 1e-12)
	assert.InDelta(t, 0.0, m.LogLossReduction, 1e-12)
	assert.InDelta(t, 0.5, m.AUC, 1e-12)
	assert.Equal(t, 0.5, m.Accuracy)
}

func TestEvaluateSingleClass(t *testing.T) {
	m := Evaluate([]float64{1, 2}, []bool{true, true})
	assert.Equal(t, 1.0, m.Accuracy)
	assert.Equal(t, 0.0, m.AUC)
	assert.Equal(t, 0.0, m.AUPRC)
	assert.Equal(t, 0.0, m.LogLossReduction)

	assert.Equal(t, Metrics{}, Evaluate(nil, nil))
}

func TestMetricsMap(t *testing.T) {
	m := Metrics{Accuracy: 0.75, AUC: 1}
	out := m.Map()

	assert.Len(t, out, 10)
	for _, key := range []string{
		"Accuracy", "Auc", "Auprc", "F1Score", "LogLoss", "LogLossReduction",
		"PositivePrecision", "PositiveRecall", "NegativePrecision", "NegativeRecall",
	} {
		assert.Contains(t, out, key)
	}
	assert.Equal(t, "0.75", out["Accuracy"])
	assert.Equal(t, "1", out["Auc"])
	assert.Equal(t, "0", out["F1Score"])
}
