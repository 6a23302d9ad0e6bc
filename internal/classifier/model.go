package classifier

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"
)

const (
	featurizerEntry = "featurizer.json"
	predictorEntry  = "predictor.json"
	predictorKind   = "logistic-regression"
)

// Prediction is the outcome of scoring a single text
type Prediction struct {
	IsSpam      bool    `json:"isSpam"`
	Score       float32 `json:"score"`
	Probability float32 `json:"probability"`
}

// Model is a fitted featurizer plus linear weights. It is never mutated after
// construction, so it is safe for concurrent use.
type Model struct {
	featurizer *Featurizer
	weights    []float64
	bias       float64
	trainedAt  time.Time
}

// NewModel creates a model from a featurizer and one weight per feature bucket
func NewModel(featurizer *Featurizer, weights []float64, bias float64, trainedAt time.Time) (*Model, error) {
	if featurizer == nil {
		return nil, fmt.Errorf("featurizer is required")
	}
	if len(weights) != featurizer.Dimension() {
		return nil, fmt.Errorf("expected %d weights, got %d", featurizer.Dimension(), len(weights))
	}
	return &Model{
		featurizer: featurizer,
		weights:    weights,
		bias:       bias,
		trainedAt:  trainedAt,
	}, nil
}

// Featurizer returns the featurizer the model was trained with
func (m *Model) Featurizer() *Featurizer {
	return m.featurizer
}

// TrainedAt returns when the model was fitted
func (m *Model) TrainedAt() time.Time {
	return m.trainedAt
}

// Score returns the raw decision value for text
func (m *Model) Score(text string) (float64, error) {
	return m.scoreVector(m.featurizer.Featurize(text))
}

// Predict scores text. The class is positive when the decision value is above
// zero, which is where the calibrated probability crosses one half.
func (m *Model) Predict(text string) (Prediction, error) {
	score, err := m.Score(text)
	if err != nil {
		return Prediction{}, err
	}
	return newPrediction(score), nil
}

func newPrediction(score float64) Prediction {
	return Prediction{
		IsSpam:      score > 0,
		Score:       float32(score),
		Probability: float32(sigmoid(score)),
	}
}

func (m *Model) scoreVector(vec SparseVector) (float64, error) {
	score := m.bias
	for i, idx := range vec.Indices {
		if idx < 0 || idx >= len(m.weights) {
			return 0, fmt.Errorf("%w: feature index %d outside model dimension %d", ErrScoring, idx, len(m.weights))
		}
		score += m.weights[idx] * vec.Values[i]
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("%w: non-finite decision value", ErrScoring)
	}
	return score, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// predictorFile is the serialized form of the linear part, storing only non-zero weights
type predictorFile struct {
	Kind      string    `json:"kind"`
	Dimension int       `json:"dimension"`
	Bias      float64   `json:"bias"`
	Indices   []int     `json:"indices"`
	Values    []float64 `json:"values"`
	TrainedAt time.Time `json:"trainedAt"`
}

// MarshalBinary encodes the model as a zip archive holding the featurizer and predictor
func (m *Model) MarshalBinary() ([]byte, error) {
	pred := predictorFile{
		Kind:      predictorKind,
		Dimension: len(m.weights),
		Bias:      m.bias,
		TrainedAt: m.trainedAt,
	}
	for idx, w := range m.weights {
		if w != 0 {
			pred.Indices = append(pred.Indices, idx)
			pred.Values = append(pred.Values, w)
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if err := writeJSONEntry(zw, featurizerEntry, m.featurizer); err != nil {
		return nil, err
	}
	if err := writeJSONEntry(zw, predictorEntry, pred); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize model archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeJSONEntry(zw *zip.Writer, name string, v interface{}) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return nil
}

// UnmarshalModel decodes a model written by MarshalBinary
func UnmarshalModel(data []byte) (*Model, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open model archive: %w", err)
	}

	var featurizer Featurizer
	if err := readJSONEntry(zr, featurizerEntry, &featurizer); err != nil {
		return nil, err
	}
	if featurizer.HashBits < minHashBits || featurizer.HashBits > maxHashBits {
		return nil, fmt.Errorf("invalid featurizer hash bits %d", featurizer.HashBits)
	}

	var pred predictorFile
	if err := readJSONEntry(zr, predictorEntry, &pred); err != nil {
		return nil, err
	}
	if pred.Kind != predictorKind {
		return nil, fmt.Errorf("unsupported predictor kind %q", pred.Kind)
	}
	if pred.Dimension != featurizer.Dimension() || len(pred.Indices) != len(pred.Values) {
		return nil, fmt.Errorf("predictor does not match featurizer dimension %d", featurizer.Dimension())
	}

	weights := make([]float64, pred.Dimension)
	for i, idx := range pred.Indices {
		if idx < 0 || idx >= len(weights) {
			return nil, fmt.Errorf("weight index %d out of range", idx)
		}
		weights[idx] = pred.Values[i]
	}

	return NewModel(&featurizer, weights, pred.Bias, pred.TrainedAt)
}

func readJSONEntry(zr *zip.Reader, name string, v interface{}) error {
	f, err := zr.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}
