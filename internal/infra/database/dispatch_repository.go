// internal/infra/database/dispatch_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"loadtracker/internal/domain/cycle"
	"loadtracker/internal/domain/dispatch"
)

var ErrDispatchNotFound = errors.New("reminder dispatch not found")

const dispatchColumns = `id, target_date, iso_year, iso_week, phase, title, body, status, provider_id, error_message, created_at`

// dispatchRow mirrors a reminder_dispatches row.
type dispatchRow struct {
	ID           int64  `db:"id"`
	TargetDate   string `db:"target_date"`
	ISOYear      int    `db:"iso_year"`
	ISOWeek      int    `db:"iso_week"`
	Phase        string `db:"phase"`
	Title        string `db:"title"`
	Body         string `db:"body"`
	Status       string `db:"status"`
	ProviderID   string `db:"provider_id"`
	ErrorMessage string `db:"error_message"`
	CreatedAt    int64  `db:"created_at"`
}

func (row dispatchRow) toDomain(loc *time.Location) (*dispatch.Dispatch, error) {
	target, err := cycle.ParseDate(row.TargetDate, loc)
	if err != nil {
		return nil, fmt.Errorf("stored target date: %w", err)
	}
	return &dispatch.Dispatch{
		ID:           row.ID,
		TargetDate:   target,
		ISOYear:      row.ISOYear,
		ISOWeek:      row.ISOWeek,
		Phase:        cycle.Phase(row.Phase),
		Title:        row.Title,
		Body:         row.Body,
		Status:       dispatch.Status(row.Status),
		ProviderID:   row.ProviderID,
		ErrorMessage: row.ErrorMessage,
		CreatedAt:    time.Unix(row.CreatedAt, 0),
	}, nil
}

type DispatchRepository struct {
	db *DB
}

func NewDispatchRepository(db *DB) *DispatchRepository {
	return &DispatchRepository{db: db}
}

// Create stores d. Only the calendar day of TargetDate is kept, so d.TargetDate
// is truncated to midnight in its own location.
func (r *DispatchRepository) Create(ctx context.Context, d *dispatch.Dispatch) error {
	if d.TargetDate.IsZero() {
		return fmt.Errorf("error creating reminder dispatch: %w", cycle.ErrInvalidDate)
	}
	d.TargetDate = cycle.StartOfDay(d.TargetDate)
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	query := r.db.Rebind(`INSERT INTO reminder_dispatches (target_date, iso_year, iso_week, phase, title, body, status, provider_id, error_message, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
               RETURNING id`)
	err := r.db.QueryRowxContext(ctx, query,
		d.TargetDate.Format(cycle.DateLayout), d.ISOYear, d.ISOWeek, string(d.Phase),
		d.Title, d.Body, string(d.Status), d.ProviderID, d.ErrorMessage, d.CreatedAt.Unix(),
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("error creating reminder dispatch: %w", err)
	}
	return nil
}

func (r *DispatchRepository) GetLatestByTargetDateAndStatus(ctx context.Context, targetDate time.Time, status dispatch.Status) (*dispatch.Dispatch, error) {
	query := r.db.Rebind(`SELECT ` + dispatchColumns + ` FROM reminder_dispatches
               WHERE target_date = ? AND status = ?
               ORDER BY created_at DESC, id DESC LIMIT 1`)
	var row dispatchRow
	if err := r.db.GetContext(ctx, &row, query, targetDate.Format(cycle.DateLayout), string(status)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDispatchNotFound
		}
		return nil, fmt.Errorf("error getting reminder dispatch by target date: %w", err)
	}
	return row.toDomain(targetDate.Location())
}

func (r *DispatchRepository) ListRecent(ctx context.Context, limit int) ([]*dispatch.Dispatch, error) {
	if limit <= 0 {
		limit = 20
	}
	query := r.db.Rebind(`SELECT ` + dispatchColumns + ` FROM reminder_dispatches
               ORDER BY created_at DESC, id DESC LIMIT ?`)
	var rows []dispatchRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("error listing reminder dispatches: %w", err)
	}

	dispatches := make([]*dispatch.Dispatch, 0, len(rows))
	for _, row := range rows {
		d, err := row.toDomain(time.UTC)
		if err != nil {
			return nil, fmt.Errorf("error reading reminder dispatch %d: %w", row.ID, err)
		}
		dispatches = append(dispatches, d)
	}
	return dispatches, nil
}
