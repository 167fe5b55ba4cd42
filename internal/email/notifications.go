package email

import (
	"github.com/mkgstf/DocRP-Backend/internal/config"
	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// Notifier sends email notifications for clinic events.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
	}
}

// IsEnabled returns true if email is configured.
func (n *Notifier) IsEnabled() bool {
	return n.service.IsEnabled()
}

// SendAppointmentReminder emails a patient about an upcoming appointment.
// The send is synchronous so the reminder job can count failures.
func (n *Notifier) SendAppointmentReminder(r *models.AppointmentReminder) error {
	if !n.service.IsEnabled() || r.PatientEmail == "" {
		return nil
	}

	subject, htmlBody, textBody := n.templates.AppointmentReminder(r)
	return n.service.SendEmail([]string{r.PatientEmail}, subject, htmlBody, textBody)
}

// NotifyDoctorRegistered sends a welcome email to a new doctor.
func (n *Notifier) NotifyDoctorRegistered(doctor *models.Doctor) {
	if !n.service.IsEnabled() || doctor.Email == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.WelcomeDoctor(doctor)
	n.service.SendAsync([]string{doctor.Email}, subject, htmlBody, textBody)
}
