package classifier

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// probability clamp used by log-loss
const epsilon = 1e-15

// Metrics are the binary classification metrics reported after training.
// Log-loss values are in bits.
type Metrics struct {
	Accuracy          float64
	AUC               float64
	AUPRC             float64
	F1Score           float64
	LogLoss           float64
	LogLossReduction  float64
	PositivePrecision float64
	PositiveRecall    float64
	NegativePrecision float64
	NegativeRecall    float64
}

// Map returns the metrics keyed by their reported names with numbers formatted as strings
func (m Metrics) Map() map[string]string {
	format := func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return map[string]string{
		"Accuracy":          format(m.Accuracy),
		"Auc":               format(m.AUC),
		"Auprc":             format(m.AUPRC),
		"F1Score":           format(m.F1Score),
		"LogLoss":           format(m.LogLoss),
		"LogLossReduction":  format(m.LogLossReduction),
		"PositivePrecision": format(m.PositivePrecision),
		"PositiveRecall":    format(m.PositiveRecall),
		"NegativePrecision": format(m.NegativePrecision),
		"NegativeRecall":    format(m.NegativeRecall),
	}
}

// Evaluate computes metrics from decision values and true labels.
// A decision value above zero is a positive prediction.
func Evaluate(scores []float64, labels []bool) Metrics {
	var m Metrics
	n := len(scores)
	if n == 0 || n != len(labels) {
		return m
	}

	var tp, fp, tn, fn float64
	var logLoss float64
	var positives float64
	for i, score := range scores {
		p := math.Min(math.Max(sigmoid(score), epsilon), 1-epsilon)
		if labels[i] {
			positives++
			logLoss -= math.Log2(p)
		} else {
			logLoss -= math.Log2(1 - p)
		}

		switch predicted := score > 0; {
		case predicted && labels[i]:
			tp++
		case predicted && !labels[i]:
			fp++
		case !predicted && !labels[i]:
			tn++
		default:
			fn++
		}
	}

	total := float64(n)
	m.Accuracy = (tp + tn) / total
	m.PositivePrecision = ratio(tp, tp+fp)
	m.PositiveRecall = ratio(tp, tp+fn)
	m.NegativePrecision = ratio(tn, tn+fn)
	m.NegativeRecall = ratio(tn, tn+fp)
	m.F1Score = ratio(2*m.PositivePrecision*m.PositiveRecall, m.PositivePrecision+m.PositiveRecall)
	m.LogLoss = logLoss / total

	prior := entropy(positives / total)
	if prior > 0 {
		m.LogLossReduction = (prior - m.LogLoss) / prior
	}

	m.AUC = AUC(scores, labels)
	m.AUPRC = AUPRC(scores, labels)
	return m
}

// AUC returns the area under the ROC curve, or 0 when only one class is present
func AUC(scores []float64, labels []bool) float64 {
	if !hasBothClasses(labels) || len(scores) != len(labels) {
		return 0
	}

	y := append([]float64(nil), scores...)
	classes := append([]bool(nil), labels...)
	stat.SortWeightedLabeled(y, classes, nil)

	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}

// AUPRC returns the area under the precision-recall curve, or 0 without positives
func AUPRC(scores []float64, labels []bool) float64 {
	if !hasBothClasses(labels) || len(scores) != len(labels) {
		return 0
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	var positives float64
	for _, l := range labels {
		if l {
			positives++
		}
	}

	recall := []float64{0}
	precision := []float64{0}
	var tp, fp float64
	for i := 0; i < len(order); {
		// all examples sharing a score cross the threshold together
		j := i
		for j < len(order) && scores[order[j]] == scores[order[i]] {
			if labels[order[j]] {
				tp++
			} else {
				fp++
			}
			j++
		}
		recall = append(recall, tp/positives)
		precision = append(precision, tp/(tp+fp))
		i = j
	}
	// the curve starts at the precision of the highest threshold
	precision[0] = precision[1]

	return integrate.Trapezoidal(recall, precision)
}

func hasBothClasses(labels []bool) bool {
	var pos, neg bool
	for _, l := range labels {
		if l {
			pos = true
		} else {
			neg = true
		}
	}
	return pos && neg
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func entropy(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return -(p*math.Log2(p) + (1-p)*math.Log2(1-p))
}
