package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"spellsprint/internal/config"
)

// EmailService sends star-notification emails through AWS SES. It is
// disabled when no sender address is configured; sends then log and return.
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	notifyTo  string
	enabled   bool
	debug     bool
}

// NewEmailService creates an email service from configuration
func NewEmailService(cfg *config.Config) *EmailService {
	svc := &EmailService{
		fromEmail: cfg.SESFromEmail,
		fromName:  cfg.SESFromName,
		notifyTo:  cfg.StarNotifyEmail,
		debug:     cfg.EmailDebug,
	}

	if cfg.SESFromEmail == "" || cfg.StarNotifyEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL or STAR_NOTIFY_EMAIL not set")
		return svc
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Printf("Email service disabled: failed to load AWS config: %v", err)
		return svc
	}

	svc.client = sesv2.NewFromConfig(awsCfg)
	svc.enabled = true
	return svc
}

// SendStarNotification tells the configured guardian address that a player
// earned a star
func (s *EmailService) SendStarNotification(ctx context.Context, playerName, mode string, score int) error {
	subject := fmt.Sprintf("%s earned a star!", playerName)
	body := fmt.Sprintf(
		"%s just finished a %s game on Spellsprint with a perfect pass and earned a star.\n\nFinal score: %d\n",
		playerName, mode, score,
	)

	if s.debug {
		log.Printf("[EMAIL DEBUG] To: %s\nSubject: %s\n%s", s.notifyTo, subject, body)
		return nil
	}
	if !s.enabled {
		log.Printf("Email service disabled, skipping star notification for %s", playerName)
		return nil
	}

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{s.notifyTo},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send star notification: %w", err)
	}
	return nil
}
