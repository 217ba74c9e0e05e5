package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"
)

// SESAPI is the subset of the SES v2 client used by SESSender.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender delivers mail through Amazon SES.
type SESSender struct {
	api SESAPI
}

// NewSESSender creates a sender using the default AWS credential chain.
func NewSESSender(ctx context.Context, region string) (*SESSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &SESSender{api: sesv2.NewFromConfig(cfg)}, nil
}

func NewSESSenderWithAPI(api SESAPI) *SESSender {
	return &SESSender{api: api}
}

func (s *SESSender) Send(ctx context.Context, msg Message) error {
	_, err := s.api.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination:      &types.Destination{ToAddresses: msg.To},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return mapSESError(err)
	}
	return nil
}

// mapSESError converts AWS SDK errors to mail sentinel errors.
func mapSESError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("ses: %w", err)
	}

	switch apiErr.ErrorCode() {
	case "MessageRejected", "MailFromDomainNotVerifiedException", "AccountSuspendedException", "SendingPausedException":
		return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrRejected)
	case "TooManyRequestsException", "LimitExceededException":
		return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrThrottled)
	default:
		return fmt.Errorf("ses %s: %w", apiErr.ErrorCode(), err)
	}
}

var _ Sender = (*SESSender)(nil)
