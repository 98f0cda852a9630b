package jobs

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/fitquest/fitquest/internal/gamestate"
	"github.com/fitquest/fitquest/internal/repository"
	"github.com/fitquest/fitquest/pkg/cleanup"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the background sweeps. The only one today is the weekly
// mission reset: session stores already reset lazily on read, the sweep
// catches the records of users who never came back.
type Scheduler struct {
	cr           *cron.Cron
	progressRepo repository.ProgressRepositoryI
	logger       *slog.Logger
}

func New(progressRepo repository.ProgressRepositoryI) *Scheduler {
	if progressRepo == nil {
		log.Fatal("provided nil progress repo to scheduler")
	}
	return &Scheduler{
		cr:           cron.New(cron.WithLocation(time.UTC)),
		progressRepo: progressRepo,
		logger:       slog.Default(),
	}
}

func (s *Scheduler) Start() error {
	// Monday 00:05 UTC, right after the week identifier rolls over.
	_, err := s.cr.AddFunc("5 0 * * 1", s.sweepStaleWeeks)
	if err != nil {
		return err
	}
	s.cr.Start()
	cleanup.Register(&cleanup.Job{
		Name: "stopping job scheduler",
		F: func() error {
			<-s.cr.Stop().Done()
			return nil
		},
	})
	return nil
}

func (s *Scheduler) sweepStaleWeeks() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	weekStart := gamestate.WeekStart(time.Now().UTC()).Format(time.DateOnly)
	n, err := s.progressRepo.ResetStaleWeeks(ctx, weekStart)
	if err != nil {
		s.logger.Error("weekly mission sweep failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("weekly mission sweep done", slog.Int64("reset_records", n), slog.String("week_start", weekStart))
}
