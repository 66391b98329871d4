package scheduler

import (
	"time"

	"go.uber.org/zap"

	"advisoriq/internal/services"
)

// SnapshotJob records a performance snapshot for every advisor.
type SnapshotJob struct {
	snapshots services.SnapshotServicer
	log       *zap.SugaredLogger
	now       func() time.Time
}

// NewSnapshotJob creates a SnapshotJob.
func NewSnapshotJob(snapshots services.SnapshotServicer, log *zap.SugaredLogger) *SnapshotJob {
	return &SnapshotJob{snapshots: snapshots, log: log, now: time.Now}
}

// Name implements Job.
func (j *SnapshotJob) Name() string {
	return "performance_snapshots"
}

// Run implements Job. The recording time is truncated to the minute so a
// retried run overwrites the same snapshots.
func (j *SnapshotJob) Run() error {
	recordedAt := j.now().UTC().Truncate(time.Minute)
	count, err := j.snapshots.ComputeAndRecordSnapshots(recordedAt)
	if err != nil {
		return err
	}
	j.log.Infow("performance snapshots recorded", "count", count, "recorded_at", recordedAt)
	return nil
}
