package models

// OverviewStats summarizes a doctor's clinic activity.
type OverviewStats struct {
	TotalPatients        int64 `json:"total_patients"`
	NewPatients30d       int64 `json:"new_patients_30d"`
	UpcomingAppointments int64 `json:"upcoming_appointments"`
	TodayAppointments    int64 `json:"today_appointments"`
	TotalPrescriptions   int64 `json:"total_prescriptions"`
}

// AppointmentBucket is one point in an appointments-over-time series.
type AppointmentBucket struct {
	Period    string `json:"period"` // e.g. "2026-08" or "2026-08-24"
	Total     int64  `json:"total"`
	Completed int64  `json:"completed"`
	Canceled  int64  `json:"canceled"`
	NoShow    int64  `json:"no_show"`
}

// NameCount pairs a catalog name with an occurrence count, used for
// top-diagnoses and top-medicines statistics.
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// DosageSuggestion is the most common way a medicine has been prescribed.
type DosageSuggestion struct {
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}
