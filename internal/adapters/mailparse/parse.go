package mailparse

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/mikey/spam-classifier/internal/core"
)

// Parse reads an RFC 5322 message and returns its sender and inline text parts.
// Part bodies are transfer-decoded, converted to UTF-8 and re-encoded as base64url.
func Parse(r io.Reader) (core.MailContent, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return core.MailContent{}, fmt.Errorf("failed to read message header: %w", err)
	}
	defer mr.Close()

	content := core.MailContent{
		From:  headerText(&mr.Header, "From"),
		Parts: []core.Part{},
	}
	if id, err := mr.Header.MessageID(); err == nil {
		content.ID = id
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return core.MailContent{}, fmt.Errorf("failed to read message part: %w", err)
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		if contentType != "" && !strings.HasPrefix(contentType, "text/") {
			continue
		}

		body, err := io.ReadAll(part.Body)
		if err != nil {
			return core.MailContent{}, fmt.Errorf("failed to read message body: %w", err)
		}
		content.Parts = append(content.Parts, core.Part{
			Data: base64.RawURLEncoding.EncodeToString(body),
		})
	}

	return content, nil
}

func headerText(h *mail.Header, key string) string {
	if v, err := h.Text(key); err == nil {
		return v
	}
	return h.Get(key)
}
