package persistence

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"milktracker/internal/persistence/interfaces"
	"milktracker/internal/providers"
	"milktracker/internal/services"
	"milktracker/internal/structures"
)

type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	session  services.SessionServiceInterface
	memories services.MemoriesServiceInterface
	metrics  providers.MetricsProviderInterface
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Tracker.TickInterval
	if interval <= 0 {
		interval = time.Second
	}

	s.cron.AddFunc(gron.Every(interval), func() {
		if err := s.session.OnTick(false); err != nil {
			s.logger.Warnf(providers.TypeApp, "Tick: %s", err)
		}
	})

	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Ticking every %s", interval)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if err := s.session.Restore(); err != nil {
		return err
	}
	return s.memories.Restore()
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	s.logger.Infof(providers.TypeApp, "Persisting meals...")
	if err := s.session.Persist(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting meals: %s", err)
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, session services.SessionServiceInterface, memories services.MemoriesServiceInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		session:  session,
		memories: memories,
		metrics:  metrics,
	}
}
