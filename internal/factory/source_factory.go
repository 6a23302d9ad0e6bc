package factory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/adapters/gmail"
	"github.com/mikey/spam-classifier/internal/adapters/mailparse"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/ports"
)

// SourceFactory creates mail sources
type SourceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSourceFactory creates a new source factory
func NewSourceFactory(cfg *config.Config, logger *zap.Logger) *SourceFactory {
	return &SourceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailSource creates a mail source of the given kind. Paths are only used by the files source.
func (f *SourceFactory) CreateMailSource(ctx context.Context, kind string, paths []string) (ports.MailSource, error) {
	switch kind {
	case "files":
		if len(paths) == 0 {
			return nil, fmt.Errorf("files source needs at least one path")
		}
		return mailparse.NewFileSource(paths, f.logger), nil
	case "gmail":
		return gmail.NewSource(ctx, f.cfg.GetGmail(), f.logger)
	default:
		return nil, fmt.Errorf("unsupported mail source: %s", kind)
	}
}
