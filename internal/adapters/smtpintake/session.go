package smtpintake

import (
	"io"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"
)

type backend struct {
	intake *Intake
}

// NewSession creates a new SMTP session
func (b *backend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &session{
		intake:     b.intake,
		recipients: make([]string, 0),
	}, nil
}

type session struct {
	intake     *Intake
	sender     string
	recipients []string
}

func (s *session) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

func (s *session) Logout() error {
	return nil
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

func (s *session) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.intake.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}
	return s.intake.process(s.sender, s.recipients, raw)
}
