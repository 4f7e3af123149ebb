package jobs

import (
	"openshelf-backend/internal/config"
	"openshelf-backend/internal/logger"
	"openshelf-backend/internal/service"
)

// JobRunner coordinates the scheduled sweeps. The sweeps themselves live in
// the batch service so the staff batch endpoints run exactly the same code.
type JobRunner struct {
	batch   service.BatchService
	reports service.ReportService
	config  *config.Config
}

func NewJobRunner(batch service.BatchService, reports service.ReportService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		batch:   batch,
		reports: reports,
		config:  cfg,
	}
}

// Config exposes the configuration for the scheduler to read cron specs.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery so one bad sweep
// cannot take down the scheduler.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs every sweep once, in dependency order: loans are
// relabeled before reminders go out, and holds expire before the report.
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.MarkOverdueLoans()
	jr.SendOverdueReminders()
	jr.ExpireReservations()
	jr.ExpireMemberships()
	jr.DailyReport()
}
