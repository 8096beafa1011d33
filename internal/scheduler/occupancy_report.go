package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtside/courtside/internal/db"
	"github.com/courtside/courtside/internal/occupancy"
)

const occupancyReportDays = 7

// RegisterOccupancyReportJob schedules a nightly job that logs each club's
// trailing occupancy rate. The report is observational; it never mutates
// the ledger.
func RegisterOccupancyReportJob(database *db.DB, reporter *occupancy.Service) error {
	if database == nil || reporter == nil {
		return fmt.Errorf("occupancy report job requires database and reporter")
	}

	jobName := "occupancy_report"
	cronExpr := "0 2 * * *"
	jobLogger := log.With().
		Str("component", "occupancy_report_job").
		Str("job_name", jobName).
		Str("cron", cronExpr).
		Logger()

	_, err := AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		clubs, err := database.Queries.ListClubs(ctx)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to load clubs for occupancy report")
			return
		}

		now := time.Now().UTC()
		from := now.AddDate(0, 0, -occupancyReportDays)

		for _, club := range clubs {
			report, err := reporter.Rate(ctx, club.ID, from, now)
			if err != nil {
				jobLogger.Error().Err(err).Int64("club_id", club.ID).Msg("Failed to compute occupancy")
				continue
			}
			jobLogger.Info().
				Int64("club_id", club.ID).
				Str("club_slug", club.Slug).
				Int64("confirmed", report.Confirmed).
				Int64("capacity", report.Capacity).
				Float64("rate", report.Rate).
				Msg("Trailing occupancy")
		}
	})
	if err != nil {
		return fmt.Errorf("register occupancy report job: %w", err)
	}
	return nil
}
