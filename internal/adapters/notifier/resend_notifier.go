package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

const DefaultFrom = "Kanso <nudges@kanso.app>"

const nudgeTemplate = `
<p>Hi {{.RecipientName}},</p>
<p><strong>{{.SenderName}}</strong> is cheering you on for <strong>{{.HabitTitle}}</strong>.</p>
{{if .Message}}<blockquote>{{.Message}}</blockquote>{{end}}
{{if gt .CurrentStreak 0}}<p>You are on a {{.CurrentStreak}} day streak. Keep it going!</p>
{{else}}<p>Today is a good day to start a streak.</p>{{end}}
`

var nudgeEmail = template.Must(template.New("nudge").Parse(nudgeTemplate))

// EmailSender is the part of the Resend client the notifier uses.
type EmailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type ResendNotifier struct {
	emails EmailSender
	from   string
}

func NewResendNotifier(apiKey, from string) *ResendNotifier {
	return NewResendNotifierWithSender(resend.NewClient(apiKey).Emails, from)
}

func NewResendNotifierWithSender(emails EmailSender, from string) *ResendNotifier {
	if from == "" {
		from = DefaultFrom
	}
	return &ResendNotifier{emails: emails, from: from}
}

func (r *ResendNotifier) NotifyNudge(ctx context.Context, notice domain.NudgeNotice) error {
	if notice.RecipientEmail == "" {
		return fmt.Errorf("notifier: recipient has no email")
	}

	body, err := renderNudge(notice)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{notice.RecipientEmail},
		Subject: fmt.Sprintf("%s nudged you about %s", notice.SenderName, notice.HabitTitle),
		Html:    body,
	}
	if _, err := r.emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("notifier: resend: %w", err)
	}
	return nil
}

func renderNudge(notice domain.NudgeNotice) (string, error) {
	data := struct {
		RecipientName string
		SenderName    string
		HabitTitle    string
		Message       string
		CurrentStreak int
	}{
		RecipientName: notice.RecipientName,
		SenderName:    notice.SenderName,
		HabitTitle:    notice.HabitTitle,
		CurrentStreak: notice.CurrentStreak,
	}
	if notice.Nudge != nil {
		data.Message = notice.Nudge.Message
	}

	var buf bytes.Buffer
	if err := nudgeEmail.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("notifier: render: %w", err)
	}
	return buf.String(), nil
}
