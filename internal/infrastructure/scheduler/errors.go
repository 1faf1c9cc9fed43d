package scheduler

import "errors"

var (
	// ErrInvalidConfig indicates the scheduler configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrSchedulerNotRunning indicates an operation requires a running scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrInvalidSchedule indicates a job carries an unparseable cron expression
	ErrInvalidSchedule = errors.New("invalid cron schedule")

	// ErrUnknownJob indicates no job is registered under the given name
	ErrUnknownJob = errors.New("unknown job")

	// ErrJobAlreadyRunning indicates a run was requested while the previous
	// run of the same job had not finished
	ErrJobAlreadyRunning = errors.New("job is already running")
)
