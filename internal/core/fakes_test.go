package core

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mikey/spam-classifier/internal/classifier"
)

// keywordPredictor flags any text containing "WIN" and fails on "BOOM"
type keywordPredictor struct {
	calls atomic.Int32
}

func (p *keywordPredictor) Predict(ctx context.Context, text string) (Prediction, error) {
	p.calls.Add(1)
	if strings.Contains(text, "BOOM") {
		return Prediction{}, errors.New("scoring exploded")
	}
	if strings.Contains(text, "WIN") {
		return Prediction{IsSpam: true, Score: 2, Probability: 0.88}, nil
	}
	return Prediction{IsSpam: false, Score: -2, Probability: 0.12}, nil
}

func encode(s string) Part {
	return Part{Data: base64.RawURLEncoding.EncodeToString([]byte(s))}
}

func mail(id, from string, parts ...string) MailContent {
	m := MailContent{ID: id, From: from}
	for _, p := range parts {
		m.Parts = append(m.Parts, encode(p))
	}
	return m
}

// biasModel returns a model that scores every text as bias
func biasModel(bias float64) *classifier.Model {
	f := classifier.NewFeaturizer(4)
	m, err := classifier.NewModel(f, make([]float64, f.Dimension()), bias, time.Unix(0, 0).UTC())
	if err != nil {
		panic(err)
	}
	return m
}

type memoryStore struct {
	mu      sync.Mutex
	model   *classifier.Model
	loadErr error
	saveErr error
	saves   int
}

func (s *memoryStore) Load(ctx context.Context) (*classifier.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.model == nil {
		return nil, ErrModelNotFound
	}
	return s.model, nil
}

func (s *memoryStore) Save(ctx context.Context, model *classifier.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.model = model
	s.saves++
	return nil
}

type stubTrainer struct {
	model   *classifier.Model
	err     error
	started chan struct{}
	release chan struct{}
	runs    atomic.Int32
	paths   []string
}

func (t *stubTrainer) Train(ctx context.Context, datasetPath string) (*classifier.Model, *classifier.Report, error) {
	t.runs.Add(1)
	t.paths = append(t.paths, datasetPath)
	if t.started != nil {
		close(t.started)
	}
	if t.release != nil {
		<-t.release
	}
	if t.err != nil {
		return nil, nil, t.err
	}
	return t.model, &classifier.Report{
		Metrics:   classifier.Metrics{Accuracy: 0.9, AUC: 0.95},
		TrainSize: 8,
		TestSize:  2,
	}, nil
}
