package channel

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

// EmailConfig holds the Postmark-backed email sender configuration.
// Tokens are optional so development environments can run without them
// (use NewDevEmailSender there instead).
type EmailConfig struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"NOTIFY_SENDER_EMAIL,required"`
}

// EmailSender sends the email channel payload through Postmark's
// transactional API, one message per recipient address.
type EmailSender struct {
	client *postmark.Client
	from   string
}

// NewEmailSender creates a Postmark-backed email sender.
func NewEmailSender(cfg EmailConfig) (*EmailSender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: SenderEmail is required", ErrInvalidConfig)
	}

	return &EmailSender{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		from:   cfg.SenderEmail,
	}, nil
}

// Send delivers the payload to every address. The payload section is
// expected to carry "subject" and "body_html" (or plain "body"); the
// optional "tag" feeds provider-side analytics.
func (s *EmailSender) Send(ctx context.Context, recipients []string, payload map[string]any) error {
	subject, _ := payload["subject"].(string)
	if subject == "" {
		return fmt.Errorf("%w: subject", ErrMissingPayloadField)
	}
	htmlBody, _ := payload["body_html"].(string)
	textBody, _ := payload["body"].(string)
	if htmlBody == "" && textBody == "" {
		return fmt.Errorf("%w: body_html or body", ErrMissingPayloadField)
	}
	tag, _ := payload["tag"].(string)

	var errs []error
	for _, to := range recipients {
		resp, err := s.client.SendEmail(ctx, postmark.Email{
			From:     s.from,
			To:       to,
			Subject:  subject,
			Tag:      tag,
			HTMLBody: htmlBody,
			TextBody: textBody,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", to, err))
			continue
		}
		if resp.ErrorCode > 0 {
			errs = append(errs, fmt.Errorf("send to %s: postmark error %d: %s", to, resp.ErrorCode, resp.Message))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrSendFailed}, errs...)...)
	}
	return nil
}
