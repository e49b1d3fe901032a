package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resend.SendEmailResponse), args.Error(1)
}

func sampleNotice() domain.NudgeNotice {
	return domain.NudgeNotice{
		Nudge:          &domain.Nudge{ID: "n-1", Message: "<b>go</b> team"},
		SenderName:     "Alice",
		RecipientName:  "Bob",
		RecipientEmail: "bob@kanso.app",
		HabitTitle:     "Guitar",
		CurrentStreak:  5,
	}
}

func TestResendNotifier_NotifyNudge(t *testing.T) {
	t.Run("Success: Sends a rendered email", func(t *testing.T) {
		sender := new(MockEmailSender)
		var sent *resend.SendEmailRequest
		sender.On("SendWithContext", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { sent = args.Get(1).(*resend.SendEmailRequest) }).
			Return(&resend.SendEmailResponse{Id: "email-1"}, nil)

		n := NewResendNotifierWithSender(sender, "")
		require.NoError(t, n.NotifyNudge(context.Background(), sampleNotice()))

		require.NotNil(t, sent)
		assert.Equal(t, DefaultFrom, sent.From)
		assert.Equal(t, []string{"bob@kanso.app"}, sent.To)
		assert.Equal(t, "Alice nudged you about Guitar", sent.Subject)
		assert.Contains(t, sent.Html, "5 day streak")
		assert.Contains(t, sent.Html, "&lt;b&gt;go&lt;/b&gt; team", "messages are escaped")
	})

	t.Run("Fail: Provider error is wrapped", func(t *testing.T) {
		sender := new(MockEmailSender)
		boom := errors.New("rate limited")
		sender.On("SendWithContext", mock.Anything, mock.Anything).Return(nil, boom)

		err := NewResendNotifierWithSender(sender, "me@kanso.app").NotifyNudge(context.Background(), sampleNotice())

		assert.ErrorIs(t, err, boom)
	})

	t.Run("Fail: No recipient address", func(t *testing.T) {
		sender := new(MockEmailSender)
		notice := sampleNotice()
		notice.RecipientEmail = ""

		err := NewResendNotifierWithSender(sender, "").NotifyNudge(context.Background(), notice)

		assert.Error(t, err)
		sender.AssertNotCalled(t, "SendWithContext", mock.Anything, mock.Anything)
	})
}

func TestRenderNudge(t *testing.T) {
	notice := sampleNotice()
	notice.CurrentStreak = 0
	notice.Nudge.Message = ""

	body, err := renderNudge(notice)

	require.NoError(t, err)
	assert.Contains(t, body, "good day to start a streak")
	assert.NotContains(t, body, "blockquote")
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))

	require.NoError(t, n.NotifyNudge(context.Background(), sampleNotice()))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "notifier", entry["component"])
	assert.Equal(t, "bob@kanso.app", entry["to"])
	assert.Equal(t, "n-1", entry["nudge_id"])
	assert.Equal(t, float64(5), entry["streak"])
}
