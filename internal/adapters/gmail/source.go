package gmail

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
)

// Source lists and downloads messages from a Gmail mailbox
type Source struct {
	service    *gmailapi.Service
	user       string
	query      string
	maxResults int64
	logger     *zap.Logger
}

// NewSource creates a Gmail source authenticated with an already issued access token.
// Extra client options are appended after the token source.
func NewSource(ctx context.Context, cfg config.GmailConfig, logger *zap.Logger, opts ...option.ClientOption) (*Source, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("gmail access token is not configured")
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
	opts = append([]option.ClientOption{option.WithTokenSource(tokenSource)}, opts...)

	service, err := gmailapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client: %w", err)
	}

	user := cfg.User
	if user == "" {
		user = "me"
	}

	return &Source{
		service:    service,
		user:       user,
		query:      cfg.Query,
		maxResults: cfg.MaxResults,
		logger:     logger,
	}, nil
}

// Fetch lists matching messages and returns their text parts
func (s *Source) Fetch(ctx context.Context) ([]core.MailContent, error) {
	call := s.service.Users.Messages.List(s.user).Context(ctx)
	if s.query != "" {
		call = call.Q(s.query)
	}
	if s.maxResults > 0 {
		call = call.MaxResults(s.maxResults)
	}

	list, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	mails := make([]core.MailContent, 0, len(list.Messages))
	for _, ref := range list.Messages {
		msg, err := s.service.Users.Messages.Get(s.user, ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", ref.Id, err)
		}
		mails = append(mails, toMailContent(msg))
	}

	s.logger.Info("Fetched Gmail messages",
		zap.String("user", s.user),
		zap.Int("count", len(mails)))
	return mails, nil
}

func toMailContent(msg *gmailapi.Message) core.MailContent {
	content := core.MailContent{
		ID:    msg.Id,
		Parts: []core.Part{},
	}
	if msg.Payload == nil {
		return content
	}

	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, "From") {
			content.From = h.Value
			break
		}
	}
	content.Parts = appendTextParts(content.Parts, msg.Payload)
	return content
}

// appendTextParts walks the part tree depth first and keeps text leaves.
// Gmail already delivers bodies as base64url.
func appendTextParts(parts []core.Part, p *gmailapi.MessagePart) []core.Part {
	if len(p.Parts) > 0 {
		for _, child := range p.Parts {
			parts = appendTextParts(parts, child)
		}
		return parts
	}
	if p.Filename != "" || !strings.HasPrefix(p.MimeType, "text/") {
		return parts
	}
	if p.Body == nil || p.Body.Data == "" {
		return parts
	}
	return append(parts, core.Part{Data: p.Body.Data})
}
