package persistence

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"dmrmonitor/internal/persistence/interfaces"
	"dmrmonitor/internal/providers"
	"dmrmonitor/internal/structures"
)

// sweepInterval is how often idle subscribers are looked for.
const sweepInterval = 10 * time.Second

// Refresher re-renders time-derived state without a real change.
type Refresher interface {
	Touch()
}

// Sweeper drops subscribers that have gone quiet.
type Sweeper interface {
	Sweep()
}

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	fileManager *FileManager
	refresher   Refresher
	sweeper     Sweeper
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		if err := s.save(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		s.logger.Debugf(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
	})

	s.cron.AddFunc(gron.Every(s.config.Global.Frequency), s.refresher.Touch)

	if s.config.Website.ClientTimeout > 0 {
		s.cron.AddFunc(gron.Every(sweepInterval), s.sweeper.Sweep)
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.logger.Infof(providers.TypeApp, "Persisting state to file...")
	if err := s.save(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func (s *Scheduler) save() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return err
}

func NewScheduler(
	config *structures.Config,
	logger providers.Logger,
	fileManager *FileManager,
	refresher Refresher,
	sweeper Sweeper,
	metrics providers.MetricsProviderInterface,
) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		metrics:     metrics,
		fileManager: fileManager,
		refresher:   refresher,
		sweeper:     sweeper,
	}
}
