package smtpintake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/adapters/mailparse"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/whitelist"
)

const scoreTimeout = 10 * time.Second

// Intake is an SMTP endpoint that scores every message it receives. Spam can be
// rejected with a 550, and accepted mail can be relayed with verdict headers added.
type Intake struct {
	predictor core.Predictor
	trusted   *whitelist.Checker
	cfg       config.SMTPConfig
	logger    *zap.Logger
	server    *smtp.Server
	listener  net.Listener
}

// NewIntake creates a new SMTP intake
func NewIntake(predictor core.Predictor, cfg config.SMTPConfig, logger *zap.Logger) *Intake {
	if cfg.Domain == "" {
		cfg.Domain = "localhost"
	}
	if cfg.StatusHeader == "" {
		cfg.StatusHeader = "X-Spam-Status"
	}
	if cfg.ScoreHeader == "" {
		cfg.ScoreHeader = "X-Spam-Score"
	}
	return &Intake{
		predictor: predictor,
		trusted:   whitelist.NewChecker(cfg.TrustedDomains, logger),
		cfg:       cfg,
		logger:    logger,
	}
}

// Start listens and serves in the background
func (in *Intake) Start() error {
	in.server = smtp.NewServer(&backend{intake: in})
	in.server.Addr = in.cfg.ListenAddress
	in.server.Domain = in.cfg.Domain
	in.server.ReadTimeout = 30 * time.Second
	in.server.WriteTimeout = 30 * time.Second
	in.server.MaxMessageBytes = in.cfg.MaxMessageBytes
	in.server.MaxRecipients = 50

	l, err := net.Listen("tcp", in.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", in.cfg.ListenAddress, err)
	}
	in.listener = l

	in.logger.Info("SMTP intake starting",
		zap.String("address", l.Addr().String()),
		zap.Bool("reject_spam", in.cfg.RejectSpam),
		zap.String("forward_address", in.cfg.ForwardAddress))

	go func() {
		if err := in.server.Serve(l); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			in.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the listening address once started
func (in *Intake) Addr() string {
	if in.listener == nil {
		return in.cfg.ListenAddress
	}
	return in.listener.Addr().String()
}

// Stop stops the SMTP server
func (in *Intake) Stop() error {
	if in.server != nil {
		return in.server.Close()
	}
	return nil
}

// process scores one message and decides what to do with it
func (in *Intake) process(sender string, recipients []string, raw []byte) error {
	content, err := mailparse.Parse(bytes.NewReader(raw))
	if err != nil {
		in.logger.Warn("Failed to parse message, accepting unscored", zap.String("from", sender), zap.Error(err))
		return in.forward(sender, recipients, nil, raw)
	}

	from := content.From
	if from == "" {
		from = sender
	}
	if in.trusted.IsWhitelisted(from) {
		in.logger.Info("Sender is whitelisted, skipping scoring", zap.String("from", from))
		return in.forward(sender, recipients, &core.Prediction{}, raw)
	}

	text, err := core.MessageText(content)
	if err != nil {
		in.logger.Warn("Failed to decode message, accepting unscored", zap.String("from", sender), zap.Error(err))
		return in.forward(sender, recipients, nil, raw)
	}

	ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
	defer cancel()

	prediction, err := in.predictor.Predict(ctx, text)
	if err != nil {
		// Unscored mail is accepted, including while no model is loaded
		in.logger.Error("Failed to score message", zap.String("from", sender), zap.Error(err))
		return in.forward(sender, recipients, nil, raw)
	}

	in.logger.Info("Scored message",
		zap.String("from", sender),
		zap.String("message_id", content.ID),
		zap.Bool("is_spam", prediction.IsSpam),
		zap.Float32("probability", prediction.Probability))

	if prediction.IsSpam && in.cfg.RejectSpam {
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      fmt.Sprintf("Message rejected as spam (probability %.2f)", prediction.Probability),
		}
	}

	return in.forward(sender, recipients, &prediction, raw)
}

// forward relays the message to the downstream MTA, if one is configured
func (in *Intake) forward(sender string, recipients []string, prediction *core.Prediction, raw []byte) error {
	if in.cfg.ForwardAddress == "" {
		return nil
	}

	var buf bytes.Buffer
	if prediction != nil {
		status := "No"
		if prediction.IsSpam {
			status = "Yes"
		}
		fmt.Fprintf(&buf, "%s: %s\r\n", in.cfg.StatusHeader, status)
		fmt.Fprintf(&buf, "%s: %.4f\r\n", in.cfg.ScoreHeader, prediction.Probability)
	}
	buf.Write(raw)

	if err := relay(in.cfg.ForwardAddress, sender, recipients, &buf); err != nil {
		in.logger.Error("Failed to relay message", zap.String("forward_address", in.cfg.ForwardAddress), zap.Error(err))
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 4, 0},
			Message:      "Downstream relay unavailable, try again later",
		}
	}
	return nil
}

func relay(addr, sender string, recipients []string, body io.Reader) error {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	c, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	for _, rcpt := range recipients {
		if err := c.Rcpt(rcpt, nil); err != nil {
			return fmt.Errorf("RCPT TO %s failed: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err := io.Copy(w, body); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}
	return c.Quit()
}
