package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/teamten/finhealth/internal/config"
	"github.com/teamten/finhealth/internal/domain/models"
	"github.com/teamten/finhealth/internal/service/analysis"
)

// Scheduler manages scheduled tasks, currently the fetch-cache warmer for
// the built-in industry peer lists.
type Scheduler struct {
	cron    *cron.Cron
	fetcher analysis.Fetcher
	cfg     config.BenchmarkConfig
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.BenchmarkConfig, fetcher analysis.Fetcher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow).
	c := cron.New()

	return &Scheduler{
		cron:    c,
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start registers the warm job and starts the cron loop. With no warm
// industries configured the scheduler is a no-op.
func (s *Scheduler) Start() {
	if len(s.cfg.WarmIndustries) == 0 {
		s.logger.Info("no warm industries configured, cache warmer disabled")
		return
	}

	s.logger.Info("starting scheduler",
		zap.String("schedule", s.cfg.WarmSchedule),
		zap.Strings("industries", s.cfg.WarmIndustries))

	if _, err := s.cron.AddFunc(s.cfg.WarmSchedule, s.warmCache); err != nil {
		s.logger.Error("failed to schedule cache warmer", zap.Error(err))
		return
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) warmCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var warmed, failed int
	for _, industry := range s.cfg.WarmIndustries {
		tickers, ok := models.IndustryTickers(industry)
		if !ok {
			s.logger.Warn("unknown warm industry", zap.String("industry", industry))
			continue
		}

		for _, ticker := range tickers {
			if _, _, err := s.fetcher.Fetch(ctx, ticker); err != nil {
				s.logger.Warn("cache warm fetch failed", zap.String("ticker", ticker), zap.Error(err))
				failed++
				continue
			}
			warmed++
		}
	}

	s.logger.Info("cache warm pass finished", zap.Int("warmed", warmed), zap.Int("failed", failed))
}
