package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/platform/metrics"
)

const QueueSize = 100

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type CheckInRepository interface {
	ListByHabitID(ctx context.Context, habitID string, from, to time.Time) ([]*domain.CheckIn, error)
}

// Clock reports the calendar day streaks are counted up to.
type Clock interface {
	Today() time.Time
}

type StreakJob struct {
	HabitID string
}

// StreakWorker recomputes the cached streak counters of a habit after its
// record changes. Jobs are dropped when the queue is full; the next write
// to the same habit recomputes everything anyway.
type StreakWorker struct {
	habitRepo   HabitRepository
	checkInRepo CheckInRepository
	jobs        chan StreakJob
	clock       Clock
}

func NewStreakWorker(hRepo HabitRepository, cRepo CheckInRepository, clock Clock) *StreakWorker {
	return &StreakWorker{
		habitRepo:   hRepo,
		checkInRepo: cRepo,
		jobs:        make(chan StreakJob, QueueSize),
		clock:       clock,
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Info().Msg("streak worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Info().Msg("streak worker shutting down")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- StreakJob{HabitID: habitID}:
	default:
		metrics.RecordStreakJob("dropped")
		log.Warn().Str("habit_id", habitID).Msg("streak worker queue full, dropping job")
	}
}

// Pending is the number of queued jobs.
func (w *StreakWorker) Pending() int {
	return len(w.jobs)
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		metrics.RecordStreakJob("failed")
		log.Error().Err(err).Str("habit_id", job.HabitID).Msg("streak worker: fetch habit")
		return
	}

	checkIns, err := w.checkInRepo.ListByHabitID(ctx, job.HabitID, time.Time{}, time.Time{})
	if err != nil {
		metrics.RecordStreakJob("failed")
		log.Error().Err(err).Str("habit_id", job.HabitID).Msg("streak worker: fetch check-ins")
		return
	}

	current, longest := calculateStreaks(domain.CompletionRecord(checkIns), w.clock.Today())

	if !habit.SetStreaks(current, longest) {
		metrics.RecordStreakJob("unchanged")
		return
	}

	if err := w.habitRepo.UpdateStreaks(ctx, habit.ID, current, longest); err != nil {
		metrics.RecordStreakJob("failed")
		log.Error().Err(err).Str("habit_id", habit.ID).Msg("streak worker: persist streaks")
		return
	}

	metrics.RecordStreakJob("updated")
	log.Debug().
		Str("habit_id", habit.ID).
		Int("current", current).
		Int("longest", longest).
		Msg("streaks updated")
}

func calculateStreaks(record analytics.Completions, today time.Time) (int, int) {
	return analytics.CurrentStreak(record, today).Count, analytics.BestStreak(record).Count
}
