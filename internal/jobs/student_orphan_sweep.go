// File: internal/jobs/student_orphan_sweep.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"campus_identity_backend/internal/config"
	"campus_identity_backend/internal/directory"
	"campus_identity_backend/internal/docstore"
	"campus_identity_backend/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StudentOrphanSweepJob removes students/<uid> documents whose account no
// longer exists. Student delete removes the account first, so a failed
// document delete leaves such orphans behind.
type StudentOrphanSweepJob struct {
	dir           directory.Directory
	store         docstore.Store
	recorder      metrics.Recorder
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewStudentOrphanSweepJob creates a new StudentOrphanSweepJob. recorder may be nil.
func NewStudentOrphanSweepJob(
	dir directory.Directory,
	store docstore.Store,
	recorder metrics.Recorder,
	logger *zap.Logger,
	cfg *config.Config,
) *StudentOrphanSweepJob {
	cronLog := NewCronLogger(logger.Named("cron"))
	scheduler := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.SkipIfStillRunning(cronLog)),
	)

	return &StudentOrphanSweepJob{
		dir:           dir,
		store:         store,
		recorder:      recorder,
		logger:        logger.Named("StudentOrphanSweepJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job. An empty schedule disables it.
func (j *StudentOrphanSweepJob) SetupAndStart() error {
	jobSpec := j.cfg.StudentOrphanSweepSchedule
	if jobSpec == "" {
		j.logger.Info("Student orphan sweep schedule not defined (STUDENT_ORPHAN_SWEEP_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule student orphan sweep", zap.String("spec", jobSpec), zap.Error(err))
		return fmt.Errorf("schedule student orphan sweep: %w", err)
	}

	j.logger.Info("Student orphan sweep scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

func (j *StudentOrphanSweepJob) runJob() {
	j.logger.Info("Starting student orphan sweep run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	deleted, err := j.Sweep(ctx)
	if err != nil {
		j.logger.Error("Student orphan sweep run failed", zap.Int("orphans_deleted", deleted), zap.Error(err))
		return
	}
	j.logger.Info("Student orphan sweep run completed", zap.Int("orphans_deleted", deleted))
}

// Sweep performs one pass and returns the number of documents deleted.
// Documents whose account lookup fails for a reason other than not-found are
// left in place.
func (j *StudentOrphanSweepJob) Sweep(ctx context.Context) (int, error) {
	docs, err := j.store.List(ctx, docstore.CollectionStudents)
	if err != nil {
		return 0, fmt.Errorf("list student documents: %w", err)
	}

	deleted := 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			j.record(deleted)
			return deleted, err
		}

		_, err := j.dir.GetAccount(ctx, doc.ID)
		if err == nil {
			continue
		}
		if !directory.IsNotFound(err) {
			j.logger.Warn("Skipping student document; account lookup failed", zap.String("uid", doc.ID), zap.Error(err))
			continue
		}

		if err := j.store.Delete(ctx, docstore.CollectionStudents, doc.ID); err != nil {
			j.logger.Error("Failed to delete orphaned student document", zap.String("uid", doc.ID), zap.Error(err))
			continue
		}
		j.logger.Info("Deleted orphaned student document", zap.String("uid", doc.ID))
		deleted++
	}

	j.record(deleted)
	return deleted, nil
}

func (j *StudentOrphanSweepJob) record(deleted int) {
	if j.recorder != nil && deleted > 0 {
		j.recorder.RecordOrphansDeleted(deleted)
	}
}

// Stop gracefully stops the cron scheduler.
func (j *StudentOrphanSweepJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping student orphan sweep scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Student orphan sweep scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Student orphan sweep scheduler stop timed out.")
	}
}
