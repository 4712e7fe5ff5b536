package mailer

import (
	"context"
	"fmt"
	"net/mail"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"recruitment-api/internal/common/config"
	"recruitment-api/internal/common/logger"
)

// SESMailer delivers mail through AWS SES using the raw-email API, so
// attachments travel in the same MIME document the SMTP path uses.
type SESMailer struct {
	client *ses.Client
	logger logger.Logger
}

func NewSESMailer(ctx context.Context, cfg config.SESConfig, log logger.Logger) (*SESMailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &SESMailer{
		client: ses.NewFromConfig(awsCfg),
		logger: log.WithFields(map[string]interface{}{"component": "ses"}),
	}, nil
}

// Verify confirms SES is reachable and the credentials are valid by reading
// the account send quota.
func (m *SESMailer) Verify(ctx context.Context) error {
	if _, err := m.client.GetSendQuota(ctx, &ses.GetSendQuotaInput{}); err != nil {
		return fmt.Errorf("ses connectivity check failed: %w", err)
	}
	return nil
}

func (m *SESMailer) Send(ctx context.Context, msg *Message) error {
	raw, err := BuildMIME(msg)
	if err != nil {
		return err
	}

	source := msg.From
	if addr, parseErr := mail.ParseAddress(msg.From); parseErr == nil {
		source = addr.Address
	}

	_, err = m.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		RawMessage:   &types.RawMessage{Data: raw},
		Source:       &source,
		Destinations: []string{msg.To},
	})
	if err != nil {
		return fmt.Errorf("ses send failed: %w", err)
	}

	m.logger.Info("message delivered", map[string]interface{}{
		"to":          msg.To,
		"subject":     msg.Subject,
		"attachments": len(msg.Attachments),
	})

	return nil
}
