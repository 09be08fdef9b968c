package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/agrarwerk/stallbuch/internal/config"
	"github.com/agrarwerk/stallbuch/internal/service/evaluation"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron          *cron.Cron
	evaluationSvc *evaluation.Service
	cfg           config.Config
	logger        *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured
// timezone.
func NewScheduler(cfg config.Config, evaluationSvc *evaluation.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Evaluation.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to local", zap.String("timezone", cfg.Evaluation.Timezone), zap.Error(err))
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:          c,
		evaluationSvc: evaluationSvc,
		cfg:           cfg,
		logger:        logger,
	}
}

// Start starts the scheduler. Without a configured farm the scheduler stays
// idle; evaluations can still be triggered through the HTTP API.
func (s *Scheduler) Start() {
	if s.cfg.Evaluation.FarmID == "" {
		s.logger.Warn("no evaluation farm configured, scheduler idle")
		return
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Evaluation.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.Evaluation.CronSchedule, s.runEvaluation)
	if err != nil {
		s.logger.Error("failed to schedule farm evaluation", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runEvaluation() {
	s.logger.Info("running scheduled farm evaluation", zap.String("farm_id", s.cfg.Evaluation.FarmID))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	evaluated, err := s.evaluationSvc.EvaluateFarm(ctx, s.cfg.Evaluation.FarmID)
	if err != nil {
		s.logger.Error("scheduled farm evaluation failed", zap.Error(err))
		return
	}

	s.logger.Info("scheduled farm evaluation finished", zap.Int("cycles", evaluated))
}
