// internal/notify/notifier_test.go
package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decision-assistant/internal/common/config"
	"decision-assistant/internal/common/logger"
	"decision-assistant/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type mockSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.inputs = append(m.inputs, params)
	return &ses.SendEmailOutput{}, m.err
}

type mockSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.inputs = append(m.inputs, params)
	return &sns.PublishOutput{}, m.err
}

func createNotifyConfig() config.NotificationConfig {
	cfg := config.NotificationConfig{
		NotifyOn: []string{models.DecisionNoGo, models.DecisionNeedsReview},
	}
	cfg.Email.Enabled = true
	cfg.Email.FromEmail = "decisions@example.com"
	cfg.Email.ToEmail = "portfolio-review@example.com"
	cfg.SMS.Enabled = true
	cfg.SMS.ToPhone = "+15550100"
	return cfg
}

func createNoGoRecord() *models.DecisionRecord {
	return &models.DecisionRecord{
		ID: "6f1f9a06-6d3b-4b47-9a3e-0f12a1c2b3d4",
		Intake: models.ProjectIntake{
			ProjectName: "Legacy Rewrite",
			Objective:   "Rewrite every legacy system at once",
		},
		Output: models.DecisionOutput{
			Decision:             models.DecisionNoGo,
			Score:                18,
			Rationale:            []string{"High delivery risk suggests you need stronger plan, milestones, and contingency."},
			RecommendedNextSteps: []string{"Write a one-page alternative plan. Smaller scope or different approach."},
		},
		CreatedAt: time.Now().UTC(),
	}
}

// ==========================
// NotifyDecision Tests
// ==========================

func TestNotifier_NotifyDecision_SendsBothChannels(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := NewWithClients(createNotifyConfig(), sesMock, snsMock, logger.NewTestLogger(t))

	n.NotifyDecision(context.Background(), createNoGoRecord())

	require.Len(t, sesMock.inputs, 1)
	require.Len(t, snsMock.inputs, 1)

	email := sesMock.inputs[0]
	assert.Equal(t, "decisions@example.com", *email.Source)
	assert.Equal(t, []string{"portfolio-review@example.com"}, email.Destination.ToAddresses)
	assert.Equal(t, "[NO-GO] Legacy Rewrite scored 18/100", *email.Message.Subject.Data)
	assert.Contains(t, *email.Message.Body.Text.Data, "Decision: NO-GO (score 18/100)")
	assert.Contains(t, *email.Message.Body.Text.Data, "Recommended next steps:")

	sms := snsMock.inputs[0]
	assert.Equal(t, "+15550100", *sms.PhoneNumber)
	assert.Equal(t, "[NO-GO] Legacy Rewrite scored 18/100", *sms.Message)
}

func TestNotifier_NotifyDecision_SkipsUnconfiguredLabel(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := NewWithClients(createNotifyConfig(), sesMock, snsMock, logger.NewTestLogger(t))

	rec := createNoGoRecord()
	rec.Output.Decision = models.DecisionGo

	n.NotifyDecision(context.Background(), rec)

	assert.Empty(t, sesMock.inputs)
	assert.Empty(t, snsMock.inputs)
}

func TestNotifier_NotifyDecision_SendFailureDoesNotPanic(t *testing.T) {
	sesMock := &mockSES{err: errors.New("throttled")}
	snsMock := &mockSNS{err: errors.New("throttled")}
	n := NewWithClients(createNotifyConfig(), sesMock, snsMock, logger.NewTestLogger(t))

	n.NotifyDecision(context.Background(), createNoGoRecord())

	// Both sends were attempted despite the failures.
	assert.Len(t, sesMock.inputs, 1)
	assert.Len(t, snsMock.inputs, 1)
}

func TestNotifier_NotifyDecision_MissingRecipientsSkipsChannel(t *testing.T) {
	cfg := createNotifyConfig()
	cfg.Email.ToEmail = ""
	cfg.SMS.ToPhone = ""

	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	n := NewWithClients(cfg, sesMock, snsMock, logger.NewTestLogger(t))

	n.NotifyDecision(context.Background(), createNoGoRecord())

	assert.Empty(t, sesMock.inputs)
	assert.Empty(t, snsMock.inputs)
}

func TestNotifier_NilReceiverIsSafe(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() {
		n.NotifyDecision(context.Background(), createNoGoRecord())
	})
}

func TestNew_DisabledChannelsReturnNil(t *testing.T) {
	n, err := New(context.Background(), config.NotificationConfig{}, logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.Nil(t, n)
}
