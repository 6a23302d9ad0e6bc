package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/adapters/api"
	"github.com/mikey/spam-classifier/internal/adapters/smtpintake"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/ports"
)

// ServerFactory creates the front ends of the spam filter service
type ServerFactory struct {
	cfg         *config.Config
	logger      *zap.Logger
	spamService *core.SpamFilterService
	aggregator  *core.Aggregator
}

// NewServerFactory creates a new server factory
func NewServerFactory(
	cfg *config.Config,
	logger *zap.Logger,
	spamService *core.SpamFilterService,
	aggregator *core.Aggregator,
) *ServerFactory {
	return &ServerFactory{
		cfg:         cfg,
		logger:      logger,
		spamService: spamService,
		aggregator:  aggregator,
	}
}

// CreateServers returns the HTTP API and, when enabled, the SMTP intake
func (f *ServerFactory) CreateServers() []ports.Server {
	servers := []ports.Server{
		api.NewServer(f.spamService, f.aggregator, f.cfg.GetServer(), f.logger.Named("api")),
	}

	smtpCfg := f.cfg.GetSMTP()
	if smtpCfg.Enabled {
		servers = append(servers, smtpintake.NewIntake(f.spamService, smtpCfg, f.logger.Named("smtp")))
	}
	return servers
}
