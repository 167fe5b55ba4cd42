package api

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/mkgstf/DocRP-Backend/internal/db"
	"github.com/mkgstf/DocRP-Backend/internal/middleware"
)

// StatsHandler serves dashboard statistics via JSON API.
type StatsHandler struct {
	db *db.DB
}

// NewStatsHandler creates a new API stats handler.
func NewStatsHandler(database *db.DB) *StatsHandler {
	return &StatsHandler{db: database}
}

// Overview returns the dashboard summary counters.
func (h *StatsHandler) Overview(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	stats, err := h.db.GetOverviewStats(c.Context(), doctor.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to compute statistics")
	}
	return jsonSuccess(c, stats)
}

func (h *StatsHandler) bucketParams(c fiber.Ctx) (from, to time.Time, groupBy string, ok bool) {
	groupBy = c.Query("group_by", "month")
	if groupBy != "day" && groupBy != "month" {
		return time.Time{}, time.Time{}, "", false
	}

	now := time.Now()
	to = now
	from = now.AddDate(-1, 0, 0)
	if groupBy == "day" {
		from = now.AddDate(0, -1, 0)
	}

	if s := c.Query("from", ""); s != "" {
		t, valid := parseDateOrTime(s)
		if !valid {
			return time.Time{}, time.Time{}, "", false
		}
		from = t
	}
	if s := c.Query("to", ""); s != "" {
		t, valid := parseDateOrTime(s)
		if !valid {
			return time.Time{}, time.Time{}, "", false
		}
		to = t
	}
	return from, to, groupBy, true
}

// Appointments returns appointment counts over time, grouped by day or month.
func (h *StatsHandler) Appointments(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	from, to, groupBy, ok := h.bucketParams(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid statistics parameters")
	}

	buckets, err := h.db.GetAppointmentBuckets(c.Context(), doctor.ID, from, to, groupBy)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to compute statistics")
	}
	return jsonSuccess(c, buckets)
}

// AppointmentsCSV downloads the appointment series as a CSV file.
func (h *StatsHandler) AppointmentsCSV(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	from, to, groupBy, ok := h.bucketParams(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid statistics parameters")
	}

	buckets, err := h.db.GetAppointmentBuckets(c.Context(), doctor.ID, from, to, groupBy)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to compute statistics")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"period", "total", "completed", "canceled", "no_show"})
	for _, b := range buckets {
		_ = w.Write([]string{
			b.Period,
			strconv.FormatInt(b.Total, 10),
			strconv.FormatInt(b.Completed, 10),
			strconv.FormatInt(b.Canceled, 10),
			strconv.FormatInt(b.NoShow, 10),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="appointments.csv"`)
	return c.Send(buf.Bytes())
}

// TopDiagnoses returns the most assigned diagnoses among the doctor's patients.
func (h *StatsHandler) TopDiagnoses(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	counts, err := h.db.GetTopDiagnoses(c.Context(), doctor.ID, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to compute statistics")
	}
	return jsonSuccess(c, counts)
}

// TopMedicines returns the doctor's most prescribed medicines.
func (h *StatsHandler) TopMedicines(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	counts, err := h.db.GetTopMedicines(c.Context(), doctor.ID, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to compute statistics")
	}
	return jsonSuccess(c, counts)
}

// RecentActivity returns the doctor's latest audit trail entries.
func (h *StatsHandler) RecentActivity(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	logs, err := h.db.ListRecentActivity(c.Context(), doctor.ID, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch activity")
	}
	return jsonSuccess(c, logs)
}
