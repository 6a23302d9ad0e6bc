package classifier

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSplit(t *testing.T) {
	train, test := Split(10, 0.2, 1)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)

	all := append(append([]int{}, train...), test...)
	sort.Ints(all)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)

	// Same seed, same split
	train2, test2 := Split(10, 0.2, 1)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)

	// Both partitions are kept non-empty
	train, test = Split(2, 0.01, 7)
	assert.Len(t, train, 1)
	assert.Len(t, test, 1)
	train, test = Split(3, 0.99, 7)
	assert.Len(t, train, 1)
	assert.Len(t, test, 2)
}

func TestTrainerTrain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spam.tsv")
	require.NoError(t, os.WriteFile(path, []byte(toTSV(syntheticMessages(80))), 0644))

	core, logs := observer.New(zap.InfoLevel)
	trainer := NewTrainer(TrainerConfig{
		TestFraction:    0.25,
		Seed:            3,
		Folds:           4,
		CrossValidation: true,
		HashBits:        12,
	}, zap.New(core))

	model, report, err := trainer.Train(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, model)

	assert.Equal(t, 60, report.TrainSize)
	assert.Equal(t, 20, report.TestSize)
	assert.Len(t, report.FoldAUC, 4)
	assert.Greater(t, report.AverageAUC, 0.9)
	assert.Greater(t, report.Metrics.Accuracy, 0.9)
	assert.Greater(t, report.Metrics.AUC, 0.9)
	assert.Greater(t, report.Metrics.LogLossReduction, 0.0)

	pred, err := model.Predict("Congratulations you won a cash prize, claim now")
	require.NoError(t, err)
	assert.True(t, pred.IsSpam)

	pred, err = model.Predict("see you at lunch, I'll be home later")
	require.NoError(t, err)
	assert.False(t, pred.IsSpam)

	// Sample messages and fold results are logged
	assert.Equal(t, len(SampleMessages), logs.FilterMessage("Sample prediction").Len())
	assert.Equal(t, 4, logs.FilterMessage("Fold finished").Len())
}

func TestTrainerIsDeterministic(t *testing.T) {
	cfg := TrainerConfig{Seed: 5, HashBits: 10}
	records := syntheticMessages(30)

	m1, _, err := NewTrainer(cfg, zap.NewNop()).TrainOn(context.Background(), records)
	require.NoError(t, err)
	m2, _, err := NewTrainer(cfg, zap.NewNop()).TrainOn(context.Background(), records)
	require.NoError(t, err)

	for _, msg := range SampleMessages {
		s1, err := m1.Score(msg)
		require.NoError(t, err)
		s2, err := m2.Score(msg)
		require.NoError(t, err)
		assert.Equal(t, s1, s2)
	}
}

func TestTrainerRequiresBothClasses(t *testing.T) {
	records := []LabeledMessage{
		{RawLabel: "ham", Text: "hello"},
		{RawLabel: "ham", Text: "see you"},
		{RawLabel: "ham", Text: "lunch?"},
		{RawLabel: "Spam", Text: "not the positive label"},
	}

	_, _, err := NewTrainer(DefaultTrainerConfig(), zap.NewNop()).TrainOn(context.Background(), records)
	assert.ErrorIs(t, err, ErrTraining)
}

func TestTrainerErrors(t *testing.T) {
	trainer := NewTrainer(DefaultTrainerConfig(), zap.NewNop())

	_, _, err := trainer.Train(context.Background(), filepath.Join(t.TempDir(), "missing.tsv"))
	assert.ErrorIs(t, err, ErrTraining)

	_, _, err = trainer.TrainOn(context.Background(), syntheticMessages(1))
	assert.ErrorIs(t, err, ErrTraining)
}

func TestTrainerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	trainer := NewTrainer(TrainerConfig{HashBits: 10}, zap.NewNop())
	_, _, err := trainer.TrainOn(ctx, syntheticMessages(40))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTraining)
}
