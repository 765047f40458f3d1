package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/codr1/bagelshop/internal/availability"
)

const timestampLayout = time.RFC3339Nano

// AvailabilityStore implements availability.Store on SQLite.
type AvailabilityStore struct {
	db *DB
}

func NewAvailabilityStore(db *DB) *AvailabilityStore {
	return &AvailabilityStore{db: db}
}

var _ availability.Store = (*AvailabilityStore)(nil)

func (s *AvailabilityStore) RunInTx(ctx context.Context, fn func(availability.Store) error) error {
	return s.db.RunInTx(ctx, func(tx *DB) error {
		return fn(&AvailabilityStore{db: tx})
	})
}

const scheduleColumns = `id, name, is_active, weekly_hours, created_at, updated_at`

func (s *AvailabilityStore) ListSchedules(ctx context.Context) ([]availability.Schedule, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]availability.Schedule, 0)
	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, sched)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}
	return schedules, nil
}

func (s *AvailabilityStore) GetSchedule(ctx context.Context, id string) (availability.Schedule, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id)
	sched, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return availability.Schedule{}, availability.ErrNotFound
	}
	return sched, err
}

// GetActiveSchedule returns nil without error when no schedule is active.
func (s *AvailabilityStore) GetActiveSchedule(ctx context.Context) (*availability.Schedule, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE is_active = 1 LIMIT 1`)
	sched, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sched, nil
}

func (s *AvailabilityStore) InsertSchedule(ctx context.Context, sched availability.Schedule) error {
	week, err := json.Marshal(sched.WeeklyHours)
	if err != nil {
		return fmt.Errorf("encode weekly hours: %w", err)
	}
	_, err = s.db.Conn().ExecContext(ctx,
		`INSERT INTO schedules (id, name, is_active, weekly_hours, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sched.ID, sched.Name, boolToInt(sched.IsActive), string(week),
		sched.CreatedAt.UTC().Format(timestampLayout), sched.UpdatedAt.UTC().Format(timestampLayout))
	if err != nil {
		if IsUniqueViolation(err) {
			return availability.ErrConflict
		}
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

func (s *AvailabilityStore) UpdateSchedule(ctx context.Context, sched availability.Schedule) error {
	week, err := json.Marshal(sched.WeeklyHours)
	if err != nil {
		return fmt.Errorf("encode weekly hours: %w", err)
	}
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE schedules SET name = ?, is_active = ?, weekly_hours = ?, updated_at = ? WHERE id = ?`,
		sched.Name, boolToInt(sched.IsActive), string(week),
		sched.UpdatedAt.UTC().Format(timestampLayout), sched.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return availability.ErrConflict
		}
		return fmt.Errorf("update schedule: %w", err)
	}
	return requireAffected(res, availability.ErrNotFound)
}

// DeactivateSchedules clears the active flag on every schedule except exceptID.
func (s *AvailabilityStore) DeactivateSchedules(ctx context.Context, exceptID string) error {
	_, err := s.db.Conn().ExecContext(ctx,
		`UPDATE schedules SET is_active = 0 WHERE is_active = 1 AND id <> ?`, exceptID)
	if err != nil {
		return fmt.Errorf("deactivate schedules: %w", err)
	}
	return nil
}

func (s *AvailabilityStore) DeleteSchedule(ctx context.Context, id string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return requireAffected(res, availability.ErrNotFound)
}

const overrideColumns = `id, date, name, is_open, open_time, close_time, created_at, updated_at`

func (s *AvailabilityStore) ListOverrides(ctx context.Context) ([]availability.DateOverride, error) {
	return s.queryOverrides(ctx,
		`SELECT `+overrideColumns+` FROM date_overrides ORDER BY date ASC, seq ASC`)
}

// ListOverridesBetween returns overrides dated within [from, to], both inclusive.
func (s *AvailabilityStore) ListOverridesBetween(ctx context.Context, from, to string) ([]availability.DateOverride, error) {
	return s.queryOverrides(ctx,
		`SELECT `+overrideColumns+` FROM date_overrides
		 WHERE date >= ? AND date <= ? ORDER BY date ASC, seq ASC`, from, to)
}

func (s *AvailabilityStore) GetOverride(ctx context.Context, id string) (availability.DateOverride, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT `+overrideColumns+` FROM date_overrides WHERE id = ?`, id)
	o, err := scanOverride(row)
	if errors.Is(err, sql.ErrNoRows) {
		return availability.DateOverride{}, availability.ErrNotFound
	}
	return o, err
}

func (s *AvailabilityStore) InsertOverride(ctx context.Context, o availability.DateOverride) error {
	_, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO date_overrides (id, date, name, is_open, open_time, close_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Date, o.Name, boolToInt(o.IsOpen), nullString(o.OpenTime), nullString(o.CloseTime),
		o.CreatedAt.UTC().Format(timestampLayout), o.UpdatedAt.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("insert override: %w", err)
	}
	return nil
}

func (s *AvailabilityStore) UpdateOverride(ctx context.Context, o availability.DateOverride) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE date_overrides
		 SET date = ?, name = ?, is_open = ?, open_time = ?, close_time = ?, updated_at = ?
		 WHERE id = ?`,
		o.Date, o.Name, boolToInt(o.IsOpen), nullString(o.OpenTime), nullString(o.CloseTime),
		o.UpdatedAt.UTC().Format(timestampLayout), o.ID)
	if err != nil {
		return fmt.Errorf("update override: %w", err)
	}
	return requireAffected(res, availability.ErrNotFound)
}

func (s *AvailabilityStore) DeleteOverride(ctx context.Context, id string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM date_overrides WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	return requireAffected(res, availability.ErrNotFound)
}

// DeleteOverridesBefore removes overrides dated strictly before date.
func (s *AvailabilityStore) DeleteOverridesBefore(ctx context.Context, date string) (int64, error) {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM date_overrides WHERE date < ?`, date)
	if err != nil {
		return 0, fmt.Errorf("delete overrides before %s: %w", date, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func (s *AvailabilityStore) queryOverrides(ctx context.Context, query string, args ...any) ([]availability.DateOverride, error) {
	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query overrides: %w", err)
	}
	defer rows.Close()

	overrides := make([]availability.DateOverride, 0)
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overrides: %w", err)
	}
	return overrides, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (availability.Schedule, error) {
	var (
		sched              availability.Schedule
		isActive           int
		week               string
		createdAt, updated string
	)
	if err := row.Scan(&sched.ID, &sched.Name, &isActive, &week, &createdAt, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sched, err
		}
		return sched, fmt.Errorf("scan schedule: %w", err)
	}
	sched.IsActive = isActive == 1
	if err := json.Unmarshal([]byte(week), &sched.WeeklyHours); err != nil {
		return sched, fmt.Errorf("decode weekly hours for schedule %s: %w", sched.ID, err)
	}
	var err error
	if sched.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return sched, err
	}
	if sched.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return sched, err
	}
	return sched, nil
}

func scanOverride(row rowScanner) (availability.DateOverride, error) {
	var (
		o                   availability.DateOverride
		isOpen              int
		openTime, closeTime sql.NullString
		createdAt, updated  string
	)
	if err := row.Scan(&o.ID, &o.Date, &o.Name, &isOpen, &openTime, &closeTime, &createdAt, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return o, err
		}
		return o, fmt.Errorf("scan override: %w", err)
	}
	o.IsOpen = isOpen == 1
	o.OpenTime = openTime.String
	o.CloseTime = closeTime.String
	var err error
	if o.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return o, err
	}
	if o.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return o, err
	}
	return o, nil
}

func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return t, nil
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
