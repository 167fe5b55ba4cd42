package jobs

import (
	"context"
	"log"
	"time"

	"github.com/mkgstf/DocRP-Backend/internal/db"
	"github.com/mkgstf/DocRP-Backend/internal/email"
	"github.com/mkgstf/DocRP-Backend/internal/metrics"
)

// ReminderSweeper periodically emails patients about upcoming appointments
// and flips past scheduled appointments to no-show.
type ReminderSweeper struct {
	db       *db.DB
	notifier *email.Notifier
	interval time.Duration
	lead     time.Duration
}

// NewReminderSweeper creates a new reminder sweeper. lead is how far ahead
// of the appointment start the reminder goes out.
func NewReminderSweeper(database *db.DB, notifier *email.Notifier, interval, lead time.Duration) *ReminderSweeper {
	return &ReminderSweeper{
		db:       database,
		notifier: notifier,
		interval: interval,
		lead:     lead,
	}
}

// Start begins the background sweep loop.
func (r *ReminderSweeper) Start(ctx context.Context) {
	log.Printf("Reminder sweeper started (interval: %v, lead: %v)", r.interval, r.lead)

	// Run immediately on start
	r.sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder sweeper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *ReminderSweeper) sweep(ctx context.Context) {
	if n, err := r.db.MarkPastAppointmentsNoShow(ctx); err != nil {
		log.Printf("Reminder sweeper: failed to mark no-shows: %v", err)
	} else if n > 0 {
		log.Printf("Reminder sweeper: marked %d appointments as no-show", n)
	}

	if !r.notifier.IsEnabled() {
		return
	}

	// The claim marks reminders sent in the same statement, so a crashed
	// sweep can drop a reminder but never double-send one.
	reminders, err := r.db.ClaimAppointmentsForReminder(ctx, r.lead)
	if err != nil {
		log.Printf("Reminder sweeper: failed to claim appointments: %v", err)
		return
	}

	if len(reminders) == 0 {
		return
	}

	log.Printf("Reminder sweeper: sending %d reminders", len(reminders))

	for i := range reminders {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := r.notifier.SendAppointmentReminder(&reminders[i]); err != nil {
			log.Printf("Reminder sweeper: failed to send reminder for appointment %s: %v", reminders[i].ID, err)
			continue
		}
		metrics.RecordReminderSent()
	}
}
