package email

import (
	"strings"
	"testing"
	"time"

	"github.com/mkgstf/DocRP-Backend/internal/config"
	"github.com/mkgstf/DocRP-Backend/internal/models"
)

func testTemplates() *Templates {
	return NewTemplates(&config.Config{SMTPFromName: "DocRP Clinic"})
}

func TestAppointmentReminderTemplate(t *testing.T) {
	r := &models.AppointmentReminder{
		Appointment: models.Appointment{
			StartsAt:    time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC),
			Reason:      "Annual check-up",
			PatientName: "Jane Doe",
		},
		PatientEmail: "jane@example.com",
		DoctorName:   "Greg House",
	}

	subject, htmlBody, textBody := testTemplates().AppointmentReminder(r)

	if !strings.Contains(subject, "Appointment reminder") {
		t.Errorf("subject = %q, missing reminder prefix", subject)
	}
	for _, want := range []string{"Jane Doe", "Greg House", "Annual check-up"} {
		if !strings.Contains(htmlBody, want) {
			t.Errorf("html body missing %q", want)
		}
		if !strings.Contains(textBody, want) {
			t.Errorf("text body missing %q", want)
		}
	}
	if !strings.Contains(htmlBody, "DocRP Clinic") {
		t.Error("html body missing sender name")
	}
}

func TestAppointmentReminderEscapesHTML(t *testing.T) {
	r := &models.AppointmentReminder{
		Appointment: models.Appointment{
			StartsAt:    time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC),
			Reason:      `<script>alert("x")</script>`,
			PatientName: "Jane Doe",
		},
		DoctorName: "Greg House",
	}

	_, htmlBody, _ := testTemplates().AppointmentReminder(r)

	if strings.Contains(htmlBody, "<script>") {
		t.Error("html body contains unescaped script tag")
	}
	if !strings.Contains(htmlBody, "&lt;script&gt;") {
		t.Error("html body missing escaped reason")
	}
}

func TestWelcomeDoctorTemplate(t *testing.T) {
	doctor := &models.Doctor{
		Username: "ghouse",
		LastName: "House",
		Email:    "ghouse@example.com",
	}

	subject, htmlBody, textBody := testTemplates().WelcomeDoctor(doctor)

	if !strings.Contains(subject, "Welcome") {
		t.Errorf("subject = %q, missing welcome", subject)
	}
	for _, body := range []string{htmlBody, textBody} {
		if !strings.Contains(body, "House") || !strings.Contains(body, "ghouse") {
			t.Error("body missing doctor name or username")
		}
	}
}
