package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mkgstf/DocRP-Backend/internal/db"
)

var (
	lookupEntriesDesc = prometheus.NewDesc(
		"docrp_lookup_entries",
		"Number of autocomplete entries by kind",
		[]string{"kind"},
		nil,
	)
	lookupSelectionsDesc = prometheus.NewDesc(
		"docrp_lookup_selections_total",
		"Total autocomplete selections by kind",
		[]string{"kind"},
		nil,
	)

	remindersSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "docrp_reminders_sent_total",
		Help: "Total appointment reminder emails sent",
	})
)

// LookupCollector is a custom Prometheus collector that reads autocomplete
// usage from the database on each scrape.
type LookupCollector struct {
	db *db.DB
}

// Describe sends the metric descriptors to the channel.
func (c *LookupCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- lookupEntriesDesc
	ch <- lookupSelectionsDesc
}

// Collect queries per-kind usage totals and emits them.
func (c *LookupCollector) Collect(ch chan<- prometheus.Metric) {
	usage, err := c.db.LookupUsageByKind(context.Background())
	if err != nil {
		slog.Error("failed to collect lookup usage metrics", "error", err)
		return
	}
	for _, u := range usage {
		ch <- prometheus.MustNewConstMetric(
			lookupEntriesDesc,
			prometheus.GaugeValue,
			float64(u.Entries),
			u.Kind,
		)
		ch <- prometheus.MustNewConstMetric(
			lookupSelectionsDesc,
			prometheus.CounterValue,
			float64(u.TotalUsage),
			u.Kind,
		)
	}
}

var initOnce sync.Once

// Init registers the collectors. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(&LookupCollector{db: database})
		prometheus.MustRegister(remindersSent)
	})
}

// RecordReminderSent counts one delivered appointment reminder.
func RecordReminderSent() {
	remindersSent.Inc()
}
