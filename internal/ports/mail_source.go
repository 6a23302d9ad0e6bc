package ports

import (
	"context"

	"github.com/mikey/spam-classifier/internal/core"
)

// MailSource produces a batch of mails to summarize
type MailSource interface {
	// Fetch retrieves the mails in provider order
	Fetch(ctx context.Context) ([]core.MailContent, error)
}
