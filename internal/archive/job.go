package archive

import (
	"context"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/repository"
	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// Job moves delivered and cancelled bookings to the archive in batches.
type Job struct {
	bookings  repository.BookingRepository
	archiver  Archiver
	batchSize int
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewJob(bookings repository.BookingRepository, archiver Archiver, batchSize int, log logrus.FieldLogger) *Job {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Job{bookings: bookings, archiver: archiver, batchSize: batchSize, log: log, now: time.Now}
}

// RunOnce archives one batch. A booking that fails to upload or to be marked
// is skipped and picked up again on the next run.
func (j *Job) RunOnce(ctx context.Context) (int, error) {
	pending, err := j.bookings.ListArchivable(ctx, j.batchSize)
	if err != nil {
		return 0, err
	}

	archived := 0
	for i := range pending {
		b := &pending[i]
		key, err := j.archiver.Archive(ctx, b)
		if err != nil {
			j.log.WithError(err).WithField("ref_id", b.RefID).Warn("archive upload failed")
			continue
		}
		if err := j.bookings.MarkArchived(ctx, b.RefID, j.now().UTC()); err != nil {
			j.log.WithError(err).WithField("ref_id", b.RefID).Warn("failed to mark booking archived")
			continue
		}
		j.log.WithFields(logrus.Fields{"ref_id": b.RefID, "key": key}).Debug("booking archived")
		archived++
	}
	return archived, nil
}

// Schedule registers the job on s to run every interval. Overlapping runs are
// rescheduled rather than queued.
func (j *Job) Schedule(ctx context.Context, s gocron.Scheduler, interval time.Duration) (gocron.Job, error) {
	return s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			n, err := j.RunOnce(ctx)
			if err != nil {
				j.log.WithError(err).Error("archive run failed")
				return
			}
			if n > 0 {
				j.log.WithField("archived", n).Info("archived finished bookings")
			}
		}),
		gocron.WithName("archive-bookings"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
}
