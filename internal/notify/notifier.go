// internal/notify/notifier.go

// Package notify delivers decision outcome summaries over SES email and
// SNS SMS when a decision lands in a configured band.
package notify

import (
	"context"
	"fmt"
	"strings"

	"decision-assistant/internal/common/config"
	"decision-assistant/internal/common/logger"
	"decision-assistant/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Interfaces for mocking the AWS clients in tests.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier sends decision summaries. A nil *Notifier is valid and does
// nothing, so callers never need to branch on whether notifications are
// configured.
type Notifier struct {
	cfg       config.NotificationConfig
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
	notifyOn  map[string]bool
}

// New builds a Notifier from config. Returns nil when neither channel is
// enabled.
func New(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*Notifier, error) {
	if !cfg.Email.Enabled && !cfg.SMS.Enabled {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	n := &Notifier{
		cfg:      cfg,
		logger:   log.WithFields(map[string]interface{}{"component": "notifier"}),
		notifyOn: make(map[string]bool, len(cfg.NotifyOn)),
	}
	for _, label := range cfg.NotifyOn {
		n.notifyOn[label] = true
	}
	if cfg.Email.Enabled {
		n.sesClient = ses.NewFromConfig(awsCfg)
	}
	if cfg.SMS.Enabled {
		n.snsClient = sns.NewFromConfig(awsCfg)
	}
	return n, nil
}

// NewWithClients wires explicit clients; used by tests.
func NewWithClients(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	n := &Notifier{
		cfg:       cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
		sesClient: sesClient,
		snsClient: snsClient,
		notifyOn:  make(map[string]bool, len(cfg.NotifyOn)),
	}
	for _, label := range cfg.NotifyOn {
		n.notifyOn[label] = true
	}
	return n
}

// NotifyDecision sends the summary if the decision label is configured
// to trigger one. Send failures are logged but not surfaced: the
// decision has already been made and stored.
func (n *Notifier) NotifyDecision(ctx context.Context, rec *models.DecisionRecord) {
	if n == nil || !n.notifyOn[rec.Output.Decision] {
		return
	}

	subject := fmt.Sprintf("[%s] %s scored %d/100", rec.Output.Decision, rec.Intake.ProjectName, rec.Output.Score)
	body := n.renderBody(rec)

	if n.sesClient != nil && n.cfg.Email.ToEmail != "" {
		if err := n.sendEmail(ctx, subject, body); err != nil {
			n.logger.Error("email notification failed", map[string]interface{}{
				"decisionId": rec.ID,
				"error":      err.Error(),
			})
		}
	}

	if n.snsClient != nil && n.cfg.SMS.ToPhone != "" {
		if err := n.sendSMS(ctx, subject); err != nil {
			n.logger.Error("sms notification failed", map[string]interface{}{
				"decisionId": rec.ID,
				"error":      err.Error(),
			})
		}
	}
}

func (n *Notifier) renderBody(rec *models.DecisionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n", rec.Intake.ProjectName)
	fmt.Fprintf(&b, "Decision: %s (score %d/100)\n\n", rec.Output.Decision, rec.Output.Score)
	b.WriteString("Rationale:\n")
	for _, line := range rec.Output.Rationale {
		fmt.Fprintf(&b, "  - %s\n", line)
	}
	b.WriteString("\nRecommended next steps:\n")
	for _, line := range rec.Output.RecommendedNextSteps {
		fmt.Fprintf(&b, "  - %s\n", line)
	}
	return b.String()
}

func (n *Notifier) sendEmail(ctx context.Context, subject, body string) error {
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.cfg.Email.FromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{n.cfg.Email.ToEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, message string) error {
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(n.cfg.SMS.ToPhone),
		Message:     aws.String(message),
	})
	return err
}
