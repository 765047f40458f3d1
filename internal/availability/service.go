package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/codr1/bagelshop/internal/metrics"
	"github.com/codr1/bagelshop/internal/timerange"
)

// lastDate bounds open-ended date range queries.
const lastDate = "9999-12-31"

// Store persists schedules and overrides. RunInTx gives fn a Store bound to a
// single write transaction; everything fn does commits or rolls back together.
type Store interface {
	ListSchedules(ctx context.Context) ([]Schedule, error)
	GetSchedule(ctx context.Context, id string) (Schedule, error)
	GetActiveSchedule(ctx context.Context) (*Schedule, error)
	InsertSchedule(ctx context.Context, sched Schedule) error
	UpdateSchedule(ctx context.Context, sched Schedule) error
	DeactivateSchedules(ctx context.Context, exceptID string) error
	DeleteSchedule(ctx context.Context, id string) error

	ListOverrides(ctx context.Context) ([]DateOverride, error)
	ListOverridesBetween(ctx context.Context, from, to string) ([]DateOverride, error)
	GetOverride(ctx context.Context, id string) (DateOverride, error)
	InsertOverride(ctx context.Context, o DateOverride) error
	UpdateOverride(ctx context.Context, o DateOverride) error
	DeleteOverride(ctx context.Context, id string) error
	DeleteOverridesBefore(ctx context.Context, date string) (int64, error)

	RunInTx(ctx context.Context, fn func(Store) error) error
}

// ViewCache keeps the public view per local date. A cached nil view means
// "no active schedule". Get resolves the entry key for the current cache
// generation; Set must write to that key so a view loaded before an
// Invalidate never lands in the new generation.
type ViewCache interface {
	Get(ctx context.Context, date string) (view *BusinessHours, key string, hit bool, err error)
	Set(ctx context.Context, key string, view *BusinessHours) error
	Invalidate(ctx context.Context) error
}

// Status is the public state at one instant.
type Status struct {
	Now    time.Time
	Hours  *BusinessHours
	IsOpen bool
}

type Service struct {
	store  Store
	clock  clockwork.Clock
	loc    *time.Location
	cache  ViewCache
	logger zerolog.Logger
}

type Option func(*Service)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func WithCache(cache ViewCache) Option {
	return func(s *Service) { s.cache = cache }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		clock:  clockwork.NewRealClock(),
		loc:    time.Local,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location is the zone used to read "today" and the current time of day.
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) Now() time.Time {
	return s.clock.Now().In(s.loc)
}

func (s *Service) ListSchedules(ctx context.Context) ([]Schedule, error) {
	schedules, err := s.store.ListSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

func (s *Service) CreateSchedule(ctx context.Context, in ScheduleInput) (Schedule, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return Schedule{}, err
	}
	week, err := validateWeek(in.WeeklyHours)
	if err != nil {
		return Schedule{}, err
	}

	now := s.clock.Now().UTC()
	sched := Schedule{
		ID:          uuid.NewString(),
		Name:        name,
		IsActive:    in.IsActive,
		WeeklyHours: week,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.store.RunInTx(ctx, func(tx Store) error {
		if sched.IsActive {
			if err := tx.DeactivateSchedules(ctx, sched.ID); err != nil {
				return err
			}
		}
		return tx.InsertSchedule(ctx, sched)
	})
	if err != nil {
		return Schedule{}, fmt.Errorf("create schedule: %w", err)
	}

	s.logger.Info().Str("schedule_id", sched.ID).Bool("is_active", sched.IsActive).Msg("Schedule created")
	s.afterScheduleMutation(ctx, "create")
	return sched, nil
}

func (s *Service) UpdateSchedule(ctx context.Context, id string, patch SchedulePatch) (Schedule, error) {
	var name string
	if patch.Name != nil {
		validated, err := validateName(*patch.Name)
		if err != nil {
			return Schedule{}, err
		}
		name = validated
	}

	var updated Schedule
	err := s.store.RunInTx(ctx, func(tx Store) error {
		current, err := tx.GetSchedule(ctx, id)
		if err != nil {
			return err
		}
		updated = current

		if patch.Name != nil {
			updated.Name = name
		}
		if patch.WeeklyHours != nil {
			week, err := mergeWeek(current.WeeklyHours, patch.WeeklyHours)
			if err != nil {
				return err
			}
			updated.WeeklyHours = week
		}
		if patch.IsActive != nil {
			updated.IsActive = *patch.IsActive
			if updated.IsActive {
				if err := tx.DeactivateSchedules(ctx, id); err != nil {
					return err
				}
			}
		}
		updated.UpdatedAt = s.clock.Now().UTC()
		return tx.UpdateSchedule(ctx, updated)
	})
	if err != nil {
		if isValidation(err) {
			return Schedule{}, err
		}
		return Schedule{}, fmt.Errorf("update schedule %s: %w", id, err)
	}

	s.logger.Info().Str("schedule_id", id).Bool("is_active", updated.IsActive).Msg("Schedule updated")
	s.afterScheduleMutation(ctx, "update")
	return updated, nil
}

// ToggleScheduleActive flips a schedule's active flag. Activating one schedule
// deactivates every other schedule in the same transaction.
func (s *Service) ToggleScheduleActive(ctx context.Context, id string, isActive bool) error {
	_, err := s.UpdateSchedule(ctx, id, SchedulePatch{IsActive: &isActive})
	return err
}

// DeleteSchedule removes a schedule even when it is the active one, leaving the
// shop with no active schedule.
func (s *Service) DeleteSchedule(ctx context.Context, id string) error {
	if err := s.store.DeleteSchedule(ctx, id); err != nil {
		return fmt.Errorf("delete schedule %s: %w", id, err)
	}
	s.logger.Info().Str("schedule_id", id).Msg("Schedule deleted")
	s.afterScheduleMutation(ctx, "delete")
	return nil
}

func (s *Service) ListOverrides(ctx context.Context) ([]DateOverride, error) {
	overrides, err := s.store.ListOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	return overrides, nil
}

// UpcomingOverrides lists overrides dated today or later, by date.
func (s *Service) UpcomingOverrides(ctx context.Context) ([]DateOverride, error) {
	today := s.Now().Format(timerange.DateLayout)
	overrides, err := s.store.ListOverridesBetween(ctx, today, lastDate)
	if err != nil {
		return nil, fmt.Errorf("list upcoming overrides: %w", err)
	}
	sortOverrides(overrides)
	return overrides, nil
}

func (s *Service) CreateOverride(ctx context.Context, in OverrideInput) (DateOverride, error) {
	now := s.clock.Now().UTC()
	o := DateOverride{
		ID:        uuid.NewString(),
		Date:      in.Date,
		Name:      in.Name,
		IsOpen:    in.IsOpen,
		OpenTime:  in.OpenTime,
		CloseTime: in.CloseTime,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := normalizeOverride(&o); err != nil {
		return DateOverride{}, err
	}
	if err := s.store.InsertOverride(ctx, o); err != nil {
		return DateOverride{}, fmt.Errorf("create override: %w", err)
	}

	s.logger.Info().Str("override_id", o.ID).Str("date", o.Date).Bool("is_open", o.IsOpen).Msg("Date override created")
	s.afterOverrideMutation(ctx, "create")
	return o, nil
}

func (s *Service) UpdateOverride(ctx context.Context, id string, patch OverridePatch) (DateOverride, error) {
	var updated DateOverride
	err := s.store.RunInTx(ctx, func(tx Store) error {
		current, err := tx.GetOverride(ctx, id)
		if err != nil {
			return err
		}
		updated = current
		if patch.Date != nil {
			updated.Date = *patch.Date
		}
		if patch.Name != nil {
			updated.Name = *patch.Name
		}
		if patch.IsOpen != nil {
			updated.IsOpen = *patch.IsOpen
		}
		if patch.OpenTime != nil {
			updated.OpenTime = *patch.OpenTime
		}
		if patch.CloseTime != nil {
			updated.CloseTime = *patch.CloseTime
		}
		if err := normalizeOverride(&updated); err != nil {
			return err
		}
		updated.UpdatedAt = s.clock.Now().UTC()
		return tx.UpdateOverride(ctx, updated)
	})
	if err != nil {
		if isValidation(err) {
			return DateOverride{}, err
		}
		return DateOverride{}, fmt.Errorf("update override %s: %w", id, err)
	}

	s.logger.Info().Str("override_id", id).Str("date", updated.Date).Msg("Date override updated")
	s.afterOverrideMutation(ctx, "update")
	return updated, nil
}

func (s *Service) DeleteOverride(ctx context.Context, id string) error {
	if err := s.store.DeleteOverride(ctx, id); err != nil {
		return fmt.Errorf("delete override %s: %w", id, err)
	}
	s.logger.Info().Str("override_id", id).Msg("Date override deleted")
	s.afterOverrideMutation(ctx, "delete")
	return nil
}

// PruneOverrides deletes overrides dated more than retentionDays before today.
func (s *Service) PruneOverrides(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays < 0 {
		retentionDays = 0
	}
	cutoff := s.Now().AddDate(0, 0, -retentionDays).Format(timerange.DateLayout)
	deleted, err := s.store.DeleteOverridesBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune overrides before %s: %w", cutoff, err)
	}
	if deleted > 0 {
		s.logger.Info().Int64("deleted", deleted).Str("cutoff", cutoff).Msg("Pruned past date overrides")
		metrics.AddOverridesPruned(deleted)
		s.invalidate(ctx)
	}
	return deleted, nil
}

// CurrentBusinessHours returns the public view for today, or nil when no
// schedule is active.
func (s *Service) CurrentBusinessHours(ctx context.Context) (*BusinessHours, error) {
	return s.businessHoursAt(ctx, s.Now())
}

// IsCurrentlyOpen answers from the same data as CurrentBusinessHours; the week
// overrides always include today's.
func (s *Service) IsCurrentlyOpen(ctx context.Context) (bool, error) {
	status, err := s.CurrentStatus(ctx)
	if err != nil {
		return false, err
	}
	return status.IsOpen, nil
}

// CurrentStatus reads the clock once and resolves both the view and the open
// flag against that instant.
func (s *Service) CurrentStatus(ctx context.Context) (Status, error) {
	now := s.Now()
	view, err := s.businessHoursAt(ctx, now)
	if err != nil {
		return Status{Now: now}, err
	}
	open := false
	if view != nil {
		open = IsOpenAt(now, s.loc, &view.Schedule, view.WeekOverrides)
	}
	metrics.IncOpenStatusCheck(open)
	return Status{Now: now, Hours: view, IsOpen: open}, nil
}

func (s *Service) businessHoursAt(ctx context.Context, now time.Time) (*BusinessHours, error) {
	today := now.Format(timerange.DateLayout)

	var cacheKey string
	if s.cache != nil {
		view, key, ok, err := s.cache.Get(ctx, today)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("date", today).Msg("Business hours cache read failed")
		case ok:
			return view, nil
		default:
			cacheKey = key
		}
	}

	active, err := s.store.GetActiveSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active schedule: %w", err)
	}
	var overrides []DateOverride
	if active != nil {
		from, to := UpcomingWindow(now)
		overrides, err = s.store.ListOverridesBetween(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("load upcoming overrides: %w", err)
		}
	}
	view := BusinessHoursAt(now, s.loc, active, overrides)

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, view); err != nil {
			s.logger.Warn().Err(err).Str("date", today).Msg("Business hours cache write failed")
		}
	}
	return view, nil
}

func (s *Service) afterScheduleMutation(ctx context.Context, op string) {
	metrics.IncScheduleMutation(op)
	s.invalidate(ctx)
}

func (s *Service) afterOverrideMutation(ctx context.Context, op string) {
	metrics.IncOverrideMutation(op)
	s.invalidate(ctx)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Business hours cache invalidation failed")
	}
}

func isValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
