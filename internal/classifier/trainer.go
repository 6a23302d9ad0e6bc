package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// SampleMessages are scored and logged after every training run
var SampleMessages = []string{
	"Hi, wanna grab lunch together today?",
	"Win a Nokia, PSP, or €25 every week. Txt YEAHIWANNA now to join",
	"Home in 30 mins. Need anything from store?",
	"CONGRATS U WON LOTERY CLAIM UR 1 MILIONN DOLARS PRIZE",
}

// TrainerConfig holds the training parameters
type TrainerConfig struct {
	TestFraction    float64
	Seed            int64
	Folds           int
	CrossValidation bool
	HashBits        int
	L2              float64
	MaxIterations   int
}

// DefaultTrainerConfig returns the default training parameters
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		TestFraction:    0.2,
		Seed:            1,
		Folds:           5,
		CrossValidation: true,
		HashBits:        DefaultHashBits,
		L2:              1e-4,
		MaxIterations:   200,
	}
}

// Report describes a finished training run
type Report struct {
	Metrics    Metrics
	FoldAUC    []float64
	AverageAUC float64
	TrainSize  int
	TestSize   int
	Duration   time.Duration
}

// Trainer fits logistic regression models on labeled messages
type Trainer struct {
	cfg    TrainerConfig
	logger *zap.Logger
}

type example struct {
	features SparseVector
	label    bool
}

// NewTrainer creates a new trainer
func NewTrainer(cfg TrainerConfig, logger *zap.Logger) *Trainer {
	defaults := DefaultTrainerConfig()
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		cfg.TestFraction = defaults.TestFraction
	}
	if cfg.Folds < 2 {
		cfg.Folds = defaults.Folds
	}
	if cfg.L2 < 0 {
		cfg.L2 = defaults.L2
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaults.MaxIterations
	}
	return &Trainer{
		cfg:    cfg,
		logger: logger,
	}
}

// Train loads the dataset at datasetPath and trains a model on it
func (t *Trainer) Train(ctx context.Context, datasetPath string) (*Model, *Report, error) {
	records, err := LoadDataset(datasetPath)
	if err != nil {
		return nil, nil, err
	}
	t.logger.Info("Loaded dataset",
		zap.String("path", datasetPath),
		zap.Int("records", len(records)))

	return t.TrainOn(ctx, records)
}

// TrainOn splits records into train and test partitions, optionally cross-validates,
// fits a model on the train partition and evaluates it on the test partition
func (t *Trainer) TrainOn(ctx context.Context, records []LabeledMessage) (*Model, *Report, error) {
	start := time.Now()
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("%w: need at least 2 records, got %d", ErrTraining, len(records))
	}

	featurizer := NewFeaturizer(t.cfg.HashBits)
	examples := make([]example, len(records))
	for i, rec := range records {
		examples[i] = example{
			features: featurizer.Featurize(rec.Text),
			label:    ToLabel(rec.RawLabel),
		}
	}

	trainIdx, testIdx := Split(len(examples), t.cfg.TestFraction, t.cfg.Seed)
	trainSet := pick(examples, trainIdx)
	testSet := pick(examples, testIdx)

	report := &Report{
		TrainSize: len(trainSet),
		TestSize:  len(testSet),
	}

	if t.cfg.CrossValidation {
		t.logger.Info("Performing cross validation", zap.Int("folds", t.cfg.Folds))
		foldAUC, err := t.crossValidate(ctx, featurizer, trainSet)
		if err != nil {
			return nil, nil, err
		}
		report.FoldAUC = foldAUC
		if len(foldAUC) > 0 {
			report.AverageAUC = floats.Sum(foldAUC) / float64(len(foldAUC))
			t.logger.Info("Cross validation finished", zap.Float64("average_auc", report.AverageAUC))
		}
	}

	t.logger.Info("Training the model",
		zap.Int("train_size", len(trainSet)),
		zap.Int("test_size", len(testSet)))
	model, err := t.fit(ctx, featurizer, trainSet)
	if err != nil {
		return nil, nil, err
	}

	t.logger.Info("Evaluating the model")
	report.Metrics = evaluateModel(model, testSet)
	report.Duration = time.Since(start)
	t.logMetrics(report)
	t.logSamples(model)

	return model, report, nil
}

// Split shuffles n indices with seed and holds out testFraction of them for testing.
// Both partitions get at least one index when n >= 2.
func Split(n int, testFraction float64, seed int64) (train, test []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	testSize := int(math.Round(float64(n) * testFraction))
	if n >= 2 {
		if testSize < 1 {
			testSize = 1
		}
		if testSize > n-1 {
			testSize = n - 1
		}
	}

	return perm[testSize:], perm[:testSize]
}

func pick(examples []example, idx []int) []example {
	out := make([]example, len(idx))
	for i, j := range idx {
		out[i] = examples[j]
	}
	return out
}

// fit minimises the L2-regularised logistic loss with L-BFGS
func (t *Trainer) fit(ctx context.Context, featurizer *Featurizer, examples []example) (*Model, error) {
	var positives int
	for _, ex := range examples {
		if ex.label {
			positives++
		}
	}
	if positives == 0 || positives == len(examples) {
		return nil, fmt.Errorf("%w: training partition must contain both spam and ham records", ErrTraining)
	}

	dim := featurizer.Dimension()
	n := float64(len(examples))
	lambda := t.cfg.L2

	// x holds the weights followed by the bias
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			w, b := x[:dim], x[dim]
			var loss float64
			for _, ex := range examples {
				z := dot(w, ex.features) + b
				if ex.label {
					loss += softplus(-z)
				} else {
					loss += softplus(z)
				}
			}
			return loss/n + 0.5*lambda*floats.Dot(w, w)
		},
		Grad: func(grad, x []float64) {
			w, b := x[:dim], x[dim]
			for i := range grad {
				grad[i] = 0
			}
			for _, ex := range examples {
				g := sigmoid(dot(w, ex.features) + b)
				if ex.label {
					g--
				}
				g /= n
				for k, idx := range ex.features.Indices {
					grad[idx] += g * ex.features.Values[k]
				}
				grad[dim] += g
			}
			floats.AddScaled(grad[:dim], lambda, w)
		},
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: 1e-6,
		MajorIterations:   t.cfg.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-10,
			Iterations: 20,
		},
	}

	result, err := optimize.Minimize(problem, make([]float64, dim+1), settings, &optimize.LBFGS{})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrTraining, ctxErr)
	}
	if result == nil || !allFinite(result.X) {
		if err == nil {
			err = errors.New("optimizer produced no usable solution")
		}
		return nil, fmt.Errorf("%w: %v", ErrTraining, err)
	}
	if err != nil {
		// line searches can fail once the loss is flat; the last location is still valid
		t.logger.Warn("Optimizer stopped early", zap.Error(err), zap.String("status", result.Status.String()))
	}
	t.logger.Debug("Optimizer finished",
		zap.String("status", result.Status.String()),
		zap.Int("iterations", result.MajorIterations),
		zap.Float64("loss", result.F))

	weights := append([]float64(nil), result.X[:dim]...)
	return NewModel(featurizer, weights, result.X[dim], time.Now().UTC())
}

// crossValidate returns the test AUC of each fold
func (t *Trainer) crossValidate(ctx context.Context, featurizer *Featurizer, examples []example) ([]float64, error) {
	k := t.cfg.Folds
	if len(examples) < 2*k {
		t.logger.Warn("Skipping cross validation, not enough records",
			zap.Int("records", len(examples)),
			zap.Int("folds", k))
		return nil, nil
	}

	var aucs []float64
	for fold := 0; fold < k; fold++ {
		lo, hi := fold*len(examples)/k, (fold+1)*len(examples)/k
		holdout := examples[lo:hi]
		rest := make([]example, 0, len(examples)-len(holdout))
		rest = append(rest, examples[:lo]...)
		rest = append(rest, examples[hi:]...)

		model, err := t.fit(ctx, featurizer, rest)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil, err
			}
			t.logger.Warn("Skipping fold", zap.Int("fold", fold), zap.Error(err))
			continue
		}

		metrics := evaluateModel(model, holdout)
		t.logger.Info("Fold finished", zap.Int("fold", fold), zap.Float64("auc", metrics.AUC))
		aucs = append(aucs, metrics.AUC)
	}
	return aucs, nil
}

func evaluateModel(model *Model, examples []example) Metrics {
	scores := make([]float64, 0, len(examples))
	labels := make([]bool, 0, len(examples))
	for _, ex := range examples {
		score, err := model.scoreVector(ex.features)
		if err != nil {
			continue
		}
		scores = append(scores, score)
		labels = append(labels, ex.label)
	}
	return Evaluate(scores, labels)
}

func (t *Trainer) logMetrics(report *Report) {
	m := report.Metrics
	t.logger.Info("Model evaluated",
		zap.Float64("accuracy", m.Accuracy),
		zap.Float64("auc", m.AUC),
		zap.Float64("auprc", m.AUPRC),
		zap.Float64("f1_score", m.F1Score),
		zap.Float64("log_loss", m.LogLoss),
		zap.Float64("log_loss_reduction", m.LogLossReduction),
		zap.Float64("positive_precision", m.PositivePrecision),
		zap.Float64("positive_recall", m.PositiveRecall),
		zap.Float64("negative_precision", m.NegativePrecision),
		zap.Float64("negative_recall", m.NegativeRecall),
		zap.Duration("duration", report.Duration))
}

func (t *Trainer) logSamples(model *Model) {
	for _, msg := range SampleMessages {
		pred, err := model.Predict(msg)
		if err != nil {
			continue
		}
		t.logger.Info("Sample prediction",
			zap.Float32("probability", pred.Probability),
			zap.Bool("is_spam", pred.IsSpam),
			zap.String("message", msg))
	}
}

func dot(w []float64, vec SparseVector) float64 {
	var s float64
	for k, idx := range vec.Indices {
		s += w[idx] * vec.Values[k]
	}
	return s
}

func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return len(x) > 0
}
