package email

import (
	"fmt"
	"html"

	"github.com/mkgstf/DocRP-Backend/internal/config"
	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0f766e; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SMTPFromName), content, html.EscapeString(t.cfg.SMTPFromName))
}

// AppointmentReminder generates the reminder sent to a patient before a visit.
func (t *Templates) AppointmentReminder(r *models.AppointmentReminder) (subject, htmlBody, textBody string) {
	when := r.StartsAt.Format("Monday, 2 January 2006 at 15:04")
	subject = fmt.Sprintf("Appointment reminder: %s", when)

	content := fmt.Sprintf(`
        <p>Dear %s,</p>
        <p>This is a reminder of your upcoming appointment.</p>

        <div class="info-box">
            <p><span class="label">Doctor:</span> %s</p>
            <p><span class="label">When:</span> %s</p>
            <p><span class="label">Reason:</span> %s</p>
        </div>

        <p>If you cannot make it, please contact the clinic to reschedule.</p>
    `,
		html.EscapeString(r.PatientName),
		html.EscapeString(r.DoctorName),
		html.EscapeString(when),
		html.EscapeString(r.Reason),
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Appointment reminder

Dear %s,

This is a reminder of your upcoming appointment.

Doctor: %s
When:   %s
Reason: %s

If you cannot make it, please contact the clinic to reschedule.
`, r.PatientName, r.DoctorName, when, r.Reason)

	return subject, htmlBody, textBody
}

// WelcomeDoctor generates the email sent after a doctor registers.
func (t *Templates) WelcomeDoctor(doctor *models.Doctor) (subject, htmlBody, textBody string) {
	subject = "Welcome to " + t.cfg.SMTPFromName

	content := fmt.Sprintf(`
        <p>Dear Dr. %s,</p>
        <p>Your account <strong>%s</strong> is ready. You can now manage
        patients, appointments, and prescriptions from your dashboard.</p>
    `,
		html.EscapeString(doctor.LastName),
		html.EscapeString(doctor.Username),
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Welcome to %s

Dear Dr. %s,

Your account %s is ready. You can now manage patients, appointments, and
prescriptions from your dashboard.
`, t.cfg.SMTPFromName, doctor.LastName, doctor.Username)

	return subject, htmlBody, textBody
}
