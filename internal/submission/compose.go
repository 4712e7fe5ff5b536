package submission

import (
	"fmt"
	"html"
	"strings"
	"time"

	"recruitment-api/internal/application"
	"recruitment-api/internal/i18n"
	"recruitment-api/internal/mailer"
)

// compose builds the recruitment email: localized subject, HTML body with the
// applicant's data and a formatted timestamp, one attachment per uploaded
// file under its original name.
func (s *Service) compose(app *application.Application, t *i18n.Table, now time.Time) *mailer.Message {
	msg := &mailer.Message{
		From:     s.cfg.Mail.From(),
		To:       s.cfg.Mail.Recipient,
		Subject:  fmt.Sprintf("%s: %s", t.SubjectLine, app.Position),
		HTMLBody: renderBody(app, t, now),
	}

	for _, att := range app.Attachments {
		msg.Attachments = append(msg.Attachments, mailer.Attachment{
			Filename: att.Filename,
			Content:  att.Content,
		})
	}

	return msg
}

func renderBody(app *application.Application, t *i18n.Table, now time.Time) string {
	consent := t.No
	if app.GDPRConsent {
		consent = t.Yes
	}

	rationale := strings.ReplaceAll(html.EscapeString(app.WhyThisPosition), "\n", "<br>")

	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(fmt.Sprintf(`<h2 style="color: #2563eb;">%s</h2>`, t.NewApplication))
	b.WriteString(`<div style="background: #f8fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">`)
	b.WriteString(fmt.Sprintf(`<p><strong>%s:</strong> %s</p>`, t.Username, html.EscapeString(app.Username)))
	b.WriteString(fmt.Sprintf(`<p><strong>%s:</strong> %s</p>`, t.Email, html.EscapeString(app.Email)))
	b.WriteString(fmt.Sprintf(`<p><strong>%s:</strong> %s</p>`, t.Position, html.EscapeString(app.Position)))
	b.WriteString(`</div>`)
	b.WriteString(`<div style="margin: 20px 0;">`)
	b.WriteString(fmt.Sprintf(`<p><strong>%s:</strong></p>`, t.WhyPosition))
	b.WriteString(`<div style="background: #f1f5f9; padding: 15px; border-radius: 6px; border-left: 4px solid #2563eb;">`)
	b.WriteString(rationale)
	b.WriteString(`</div></div>`)
	b.WriteString(fmt.Sprintf(`<p><strong>%s:</strong> %s</p>`, t.GDPRConsent, consent))
	b.WriteString(`<hr style="border: 1px solid #e2e8f0; margin: 30px 0;">`)
	b.WriteString(`<p style="color: #64748b; font-size: 14px;">`)
	b.WriteString(fmt.Sprintf(`%s: %s<br>`, t.SentDate, now.Format(t.DateLayout)))
	b.WriteString(fmt.Sprintf(`%s: %s<br>`, t.LanguageLabel, strings.ToUpper(app.Language)))
	b.WriteString(fmt.Sprintf(`%s: %d`, t.FilesAttached, len(app.Attachments)))
	b.WriteString(`</p></div>`)

	return b.String()
}
