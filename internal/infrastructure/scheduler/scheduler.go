package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sellercentric/backend/internal/infrastructure/logger"
)

const defaultJobTimeout = 10 * time.Minute

// Job is a named unit of background work bound to a cron schedule
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Config holds configuration for the job scheduler
type Config struct {
	// Enabled indicates if scheduled execution is enabled. Registered
	// jobs can still be run manually when disabled.
	Enabled bool
	// JobTimeout is the maximum time a single job run may take
	JobTimeout time.Duration
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JobTimeout < 0 {
		return ErrInvalidConfig
	}
	if c.JobTimeout == 0 {
		c.JobTimeout = defaultJobTimeout
	}
	return nil
}

// JobStatus is a point-in-time snapshot of a registered job
type JobStatus struct {
	Name           string     `json:"name"`
	Schedule       string     `json:"schedule"`
	Running        bool       `json:"running"`
	RunCount       int64      `json:"run_count"`
	SkipCount      int64      `json:"skip_count"`
	LastStartedAt  *time.Time `json:"last_started_at,omitempty"`
	LastFinishedAt *time.Time `json:"last_finished_at,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
}

// managedJob tracks run state for one registered job. The mutex guards
// both the overlap suppression and the status fields.
type managedJob struct {
	job Job

	mu             sync.Mutex
	running        bool
	runCount       int64
	skipCount      int64
	lastStartedAt  *time.Time
	lastFinishedAt *time.Time
	lastError      string
}

func (m *managedJob) tryStart() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		m.skipCount++
		return false
	}
	now := time.Now()
	m.running = true
	m.runCount++
	m.lastStartedAt = &now
	return true
}

func (m *managedJob) finish(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	m.running = false
	m.lastFinishedAt = &now
	if err != nil {
		m.lastError = err.Error()
	} else {
		m.lastError = ""
	}
}

func (m *managedJob) status() JobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return JobStatus{
		Name:           m.job.Name,
		Schedule:       m.job.Schedule,
		Running:        m.running,
		RunCount:       m.runCount,
		SkipCount:      m.skipCount,
		LastStartedAt:  m.lastStartedAt,
		LastFinishedAt: m.lastFinishedAt,
		LastError:      m.lastError,
	}
}

// JobScheduler runs registered jobs on their cron schedules. A run that
// is still in flight when its next tick fires is skipped rather than
// stacked, so a slow marketplace cannot pile up concurrent pipelines.
type JobScheduler struct {
	config Config
	logger *zap.Logger
	cron   *cron.Cron

	mu        sync.Mutex
	isRunning bool
	baseCtx   context.Context
	cancel    context.CancelFunc

	jobsMu sync.RWMutex
	jobs   map[string]*managedJob
	order  []string
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(config Config, log *zap.Logger) (*JobScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &JobScheduler{
		config: config,
		logger: log,
		cron:   cron.New(),
		jobs:   make(map[string]*managedJob),
	}, nil
}

// Register adds a job to the scheduler. Jobs must be registered before
// Start is called.
func (s *JobScheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("%w: job needs a name and a run function", ErrInvalidConfig)
	}
	if _, err := cron.ParseStandard(job.Schedule); err != nil {
		return fmt.Errorf("%w: job %s: %q: %v", ErrInvalidSchedule, job.Name, job.Schedule, err)
	}

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()
	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("%w: job %s registered twice", ErrInvalidConfig, job.Name)
	}
	s.jobs[job.Name] = &managedJob{job: job}
	s.order = append(s.order, job.Name)
	return nil
}

// Start begins scheduled execution. It is a no-op when scheduling is
// disabled or the scheduler is already running.
func (s *JobScheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Job scheduler disabled, jobs will only run on manual trigger")
		return nil
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.baseCtx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.jobsMu.RLock()
	for _, name := range s.order {
		managed := s.jobs[name]
		if _, err := s.cron.AddFunc(managed.job.Schedule, func() {
			s.execute(s.baseCtx, managed)
		}); err != nil {
			s.jobsMu.RUnlock()
			return fmt.Errorf("%w: job %s: %v", ErrInvalidSchedule, managed.job.Name, err)
		}
		s.logger.Info("Job scheduled",
			zap.String("job", managed.job.Name),
			zap.String("schedule", managed.job.Schedule),
		)
	}
	s.jobsMu.RUnlock()

	s.cron.Start()
	s.logger.Info("Job scheduler started",
		zap.Int("jobs", len(s.order)),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop halts scheduling and waits for in-flight jobs to finish, bounded
// by the given context.
func (s *JobScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	drained := s.cron.Stop()

	select {
	case <-drained.Done():
		s.logger.Info("Job scheduler stopped gracefully")
		if cancel != nil {
			cancel()
		}
		return nil
	case <-ctx.Done():
		if cancel != nil {
			cancel()
		}
		s.logger.Warn("Job scheduler stop timed out")
		return ctx.Err()
	}
}

// RunNow executes a registered job immediately, outside its schedule.
// Returns ErrJobAlreadyRunning if a run is still in flight.
func (s *JobScheduler) RunNow(ctx context.Context, name string) error {
	s.jobsMu.RLock()
	managed, ok := s.jobs[name]
	s.jobsMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	if !managed.tryStart() {
		return fmt.Errorf("%w: %s", ErrJobAlreadyRunning, name)
	}
	return s.run(ctx, managed)
}

// TriggerAsync starts a registered job in the background. The run slot is
// claimed before returning, so callers get ErrJobAlreadyRunning instead of
// a second concurrent run.
func (s *JobScheduler) TriggerAsync(name string) error {
	s.jobsMu.RLock()
	managed, ok := s.jobs[name]
	s.jobsMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	if !managed.tryStart() {
		return fmt.Errorf("%w: %s", ErrJobAlreadyRunning, name)
	}

	go func() {
		if err := s.run(context.Background(), managed); err != nil {
			s.logger.Error("Manually triggered job failed",
				zap.String("job", managed.job.Name),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// Statuses returns a snapshot of every registered job in registration order
func (s *JobScheduler) Statuses() []JobStatus {
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	statuses := make([]JobStatus, 0, len(s.order))
	for _, name := range s.order {
		statuses = append(statuses, s.jobs[name].status())
	}
	return statuses
}

// execute is the cron entry point, it applies overlap suppression
func (s *JobScheduler) execute(ctx context.Context, managed *managedJob) {
	if !managed.tryStart() {
		s.logger.Warn("Skipping job run, previous run still in flight",
			zap.String("job", managed.job.Name),
		)
		return
	}
	if err := s.run(ctx, managed); err != nil {
		s.logger.Error("Job run failed",
			zap.String("job", managed.job.Name),
			zap.Error(err),
		)
	}
}

// run executes the job body with a timeout. The caller must have already
// claimed the run slot via tryStart.
func (s *JobScheduler) run(ctx context.Context, managed *managedJob) error {
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	jobCtx, log := logger.WithJob(jobCtx, s.logger, managed.job.Name)
	log.Info("Job run started")

	start := time.Now()
	err := managed.job.Run(jobCtx)
	managed.finish(err)

	if err != nil {
		log.Error("Job run finished with error",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return err
	}

	log.Info("Job run finished",
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
