package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// InsertActivity records an action in the audit trail.
func (d *DB) InsertActivity(ctx context.Context, a *models.ActivityLog) error {
	return d.Pool.QueryRow(ctx, `
		INSERT INTO activity_logs (doctor_id, action, entity_type, entity_id, details, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, a.DoctorID, a.Action, a.EntityType, a.EntityID, a.Details, a.IPAddress,
	).Scan(&a.ID, &a.CreatedAt)
}

// ListRecentActivity returns a doctor's latest audit trail entries.
func (d *DB) ListRecentActivity(ctx context.Context, doctorID uuid.UUID, limit int) ([]models.ActivityLog, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, doctor_id, action, entity_type, entity_id, details, ip_address, created_at
		FROM activity_logs
		WHERE doctor_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, doctorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.ActivityLog
	for rows.Next() {
		var a models.ActivityLog
		if err := rows.Scan(
			&a.ID,
			&a.DoctorID,
			&a.Action,
			&a.EntityType,
			&a.EntityID,
			&a.Details,
			&a.IPAddress,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}
