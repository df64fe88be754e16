package notifier

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"CoastCam/internal/config"
)

const charset = "UTF-8"

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Email sends plain text mail through Amazon SES.
type Email struct {
	client sesAPI
	from   string
	to     []string
	events eventFilter
}

func NewEmail(ctx context.Context, cfg *config.EmailConfig) (*Email, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("email notifier disabled")
	}
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newEmail(sesv2.NewFromConfig(awsCfg), cfg)
}

func newEmail(client sesAPI, cfg *config.EmailConfig) (*Email, error) {
	events, err := newEventFilter(cfg.Events)
	if err != nil {
		return nil, err
	}
	return &Email{client: client, from: cfg.From, to: cfg.To, events: events}, nil
}

func (e *Email) Send(ctx context.Context, msg Message) error {
	if !e.events.allowed(msg.Event) {
		return nil
	}
	to := msg.Recipients
	if len(to) == 0 {
		to = e.to
	}
	if len(to) == 0 {
		return fmt.Errorf("email %q: no recipients", msg.Subject)
	}
	_, err := e.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(e.from),
		Destination:      &types.Destination{ToAddresses: to},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Charset: aws.String(charset), Data: aws.String(msg.Subject)},
				Body: &types.Body{
					Text: &types.Content{Charset: aws.String(charset), Data: aws.String(msg.Body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email %q: %w", msg.Subject, err)
	}
	return nil
}
