package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/salepoint/salepoint/internal/reporting"
	"github.com/salepoint/salepoint/internal/shared"
)

// TaskSummaryRebuild regenerates the daily sales summary for a date.
// The nightly run seals the previous day after the last corrections.
const TaskSummaryRebuild = "reports:summary_rebuild"

// SummaryRebuildPayload picks the date to rebuild. An empty date means
// the day before the run.
type SummaryRebuildPayload struct {
	Date string `json:"date,omitempty"`
}

// NewSummaryRebuildTask constructs the Asynq task.
func NewSummaryRebuildTask(date string) (*asynq.Task, error) {
	data, err := json.Marshal(SummaryRebuildPayload{Date: date})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSummaryRebuild, data), nil
}

// SummaryRebuildJob recomputes a day's sales rollup in the background.
type SummaryRebuildJob struct {
	Reports *reporting.Service
	Clock   shared.Clock
	Logger  *slog.Logger
}

func NewSummaryRebuildJob(reports *reporting.Service, clock shared.Clock, logger *slog.Logger) *SummaryRebuildJob {
	return &SummaryRebuildJob{Reports: reports, Clock: clock, Logger: logger}
}

// Handle processes TaskSummaryRebuild tasks.
func (j *SummaryRebuildJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("summary rebuild: handler not configured")
	}
	var payload SummaryRebuildPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	date := j.Clock.Today().AddDate(0, 0, -1)
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			return asynq.SkipRetry
		}
		date = parsed
	}

	start := j.Clock.Now()
	summary, err := j.Reports.Generate(ctx, date)
	if err != nil {
		j.Logger.Error("summary rebuild failed", slog.String("date", date.Format("2006-01-02")), slog.Any("error", err))
		return err
	}

	j.Logger.Info("summary rebuilt",
		slog.String("date", summary.Date),
		slog.Int("transactions", summary.TotalTransactions),
		slog.Float64("revenue", summary.TotalRevenue),
		slog.Duration("duration", time.Since(start)))
	return nil
}
