package jobs

import (
	"context"
	"time"

	"openshelf-backend/internal/logger"
)

// MarkOverdueLoans relabels open loans past their due date as Overdue.
func (jr *JobRunner) MarkOverdueLoans() {
	jr.runWithRecovery("MarkOverdueLoans", func() {
		ctx := context.Background()
		count, err := jr.batch.MarkOverdueLoans(ctx)
		if err != nil {
			logger.Error("Failed to mark overdue loans", "error", err)
			return
		}
		logger.Info("Marked loans as overdue", "count", count)
	})
}

// SendOverdueReminders emails every patron holding overdue items.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()
		count, err := jr.batch.SendOverdueReminders(ctx)
		if err != nil {
			logger.Error("Failed to send overdue reminders", "error", err)
			return
		}
		logger.Info("Sent overdue reminders", "patrons", count)
	})
}

// ExpireReservations retires Ready holds whose pickup window has lapsed.
func (jr *JobRunner) ExpireReservations() {
	jr.runWithRecovery("ExpireReservations", func() {
		ctx := context.Background()
		count, err := jr.batch.ExpireReservations(ctx)
		if err != nil {
			logger.Error("Failed to expire reservations", "error", err)
			return
		}
		logger.Info("Expired stale reservations", "count", count)
	})
}

// ExpireMemberships flips Active patrons past their membership expiry to
// Expired.
func (jr *JobRunner) ExpireMemberships() {
	jr.runWithRecovery("ExpireMemberships", func() {
		ctx := context.Background()
		count, err := jr.batch.ExpireMemberships(ctx)
		if err != nil {
			logger.Error("Failed to expire memberships", "error", err)
			return
		}
		logger.Info("Expired lapsed memberships", "count", count)
	})
}

// DailyReport logs yesterday's circulation summary across all branches.
func (jr *JobRunner) DailyReport() {
	jr.runWithRecovery("DailyReport", func() {
		ctx := context.Background()
		yesterday := time.Now().Add(-24 * time.Hour)
		report, err := jr.reports.DailyCirculation(ctx, nil, yesterday)
		if err != nil {
			logger.Error("Failed to build daily report", "error", err)
			return
		}
		logger.Info("Daily circulation report",
			"day", report.Day.Format("2006-01-02"),
			"checkouts", report.Checkouts,
			"returns", report.Returns,
			"fines_assessed_cents", report.FinesAssessedCents,
			"fines_collected_cents", report.FinesCollectedCents,
			"new_reservations", report.NewReservations)
	})
}
