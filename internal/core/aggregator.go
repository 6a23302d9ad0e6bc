package core

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Aggregator scores a batch of mails and summarizes them per sender
type Aggregator struct {
	predictor       Predictor
	concurrency     int
	isolateFailures bool
	logger          *zap.Logger
}

// NewAggregator creates a new aggregator. A concurrency of zero or less uses GOMAXPROCS.
func NewAggregator(predictor Predictor, concurrency int, isolateFailures bool, logger *zap.Logger) *Aggregator {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &Aggregator{
		predictor:       predictor,
		concurrency:     concurrency,
		isolateFailures: isolateFailures,
		logger:          logger,
	}
}

// MessageText decodes every part of a mail and joins them, each followed by a space
func MessageText(mail MailContent) (string, error) {
	var sb strings.Builder
	for i, part := range mail.Parts {
		text, err := DecodeBase64URL(part.Data)
		if err != nil {
			return "", fmt.Errorf("mail %q part %d: %w", mail.ID, i, err)
		}
		sb.WriteString(text)
		sb.WriteString(" ")
	}
	return sb.String(), nil
}

type scored struct {
	text       string
	prediction Prediction
	err        error
}

// Summarize groups mails by sender in order of first appearance and reports the
// spam among them. Without failure isolation the first error aborts the batch.
func (a *Aggregator) Summarize(ctx context.Context, mails []MailContent) ([]MailPredictResult, error) {
	results := make([]scored, len(mails))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i := range mails {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := &results[i]
			res.text, res.err = MessageText(mails[i])
			if res.err == nil {
				res.prediction, res.err = a.predictor.Predict(gctx, res.text)
			}
			if res.err != nil && !a.isolateFailures {
				return res.err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]MailPredictResult, 0)
	index := make(map[string]int)
	var failed int
	for i, mail := range mails {
		pos, ok := index[mail.From]
		if !ok {
			pos = len(summaries)
			index[mail.From] = pos
			summaries = append(summaries, MailPredictResult{
				SenderEmail: ExtractSenderEmail(mail.From),
				Spams:       []FormattedEmail{},
			})
		}
		summary := &summaries[pos]
		summary.TotalSentEmail++

		res := results[i]
		if res.err != nil {
			failed++
			a.logger.Warn("Failed to score mail", zap.String("id", mail.ID), zap.Error(res.err))
			summary.Failures = append(summary.Failures, FailedEmail{ID: mail.ID, Error: res.err.Error()})
			continue
		}
		if res.prediction.IsSpam {
			summary.TotalSpam++
			summary.Spams = append(summary.Spams, FormattedEmail{
				ID:         mail.ID,
				Content:    res.text,
				Prediction: res.prediction,
			})
		}
	}

	a.logger.Debug("Summarized mail batch",
		zap.Int("mails", len(mails)),
		zap.Int("senders", len(summaries)),
		zap.Int("failed", failed))
	return summaries, nil
}
