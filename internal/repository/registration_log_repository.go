package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RegistrationLogEntry is one row of the registration audit log.
type RegistrationLogEntry struct {
	ID         string
	EventType  string
	Role       string
	School     string
	Name       *string
	Grade      *int16
	OccurredAt time.Time
}

// RegistrationLogRepository appends to the registration audit log.
type RegistrationLogRepository interface {
	Append(ctx context.Context, entry *RegistrationLogEntry) error
}

type registrationLogRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrationLogRepository returns a Postgres-backed implementation.
func NewRegistrationLogRepository(pool *pgxpool.Pool) RegistrationLogRepository {
	return &registrationLogRepository{pool: pool}
}

func (r *registrationLogRepository) Append(ctx context.Context, entry *RegistrationLogEntry) error {
	const query = `
        INSERT INTO registration_log (id, event_type, role, school, name, grade, occurred_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.EventType,
		entry.Role,
		entry.School,
		entry.Name,
		entry.Grade,
		entry.OccurredAt,
	)
	return err
}
