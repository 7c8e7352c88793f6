// internal/queue/queue.go
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/leadflow/sequencer-backend/internal/events"
	"github.com/leadflow/sequencer-backend/internal/model"
	"github.com/leadflow/sequencer-backend/internal/repository"
	"github.com/leadflow/sequencer-backend/internal/service"
)

// Dispatcher is the slice of the message dispatcher the queue needs.
type Dispatcher interface {
	DispatchRaw(ctx context.Context, lead *model.Lead, msgType, content string) service.DispatchResult
}

// SequenceQueue implements the fetch-and-process capability over the job
// repository. Jobs are processed sequentially in due order; every fetched job
// counts as handed off whatever the dispatcher reports, and its terminal
// status is written back before the next job starts.
type SequenceQueue struct {
	Jobs       repository.SequenceJobRepositoryInterface
	Leads      repository.LeadRepositoryInterface
	Dispatcher Dispatcher
	Events     events.Publisher // optional
}

// FetchAndProcessDue pulls up to batchSize due jobs and processes each one.
// Only the fetch itself can fail; individual jobs cannot.
func (q *SequenceQueue) FetchAndProcessDue(ctx context.Context, batchSize int) (int, error) {
	jobs, err := q.Jobs.FetchDue(batchSize)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, job := range jobs {
		q.processJob(ctx, job)
		processed++
	}
	return processed, nil
}

func (q *SequenceQueue) processJob(ctx context.Context, job *model.SequenceJob) {
	fields := logrus.Fields{"job_id": job.ID, "lead_id": job.LeadID, "type": job.MessageType}

	var res service.DispatchResult
	lead, err := q.Leads.GetByID(ctx, job.LeadID)
	switch {
	case err != nil:
		res = service.DispatchResult{Outcome: service.OutcomeFailed, Reason: "load lead: " + err.Error()}
	case lead == nil:
		res = service.DispatchResult{Outcome: service.OutcomeSkipped, Reason: "lead not found"}
	default:
		res = q.Dispatcher.DispatchRaw(ctx, lead, job.MessageType, job.Content)
	}

	switch res.Outcome {
	case service.OutcomeFailed:
		logrus.WithFields(fields).WithField("reason", res.Reason).Error("sequence job failed")
	case service.OutcomeSkipped:
		logrus.WithFields(fields).WithField("reason", res.Reason).Warn("sequence job skipped")
	default:
		logrus.WithFields(fields).Info("sequence job sent")
	}

	if err := q.Jobs.MarkProcessed(job.ID, res.Outcome.String(), res.Reason); err != nil {
		logrus.WithFields(fields).WithError(err).Error("failed to mark job processed")
	}

	if q.Events != nil {
		evt := events.DispatchedEvent{
			EventID: uuid.NewString(),
			JobID:   job.ID,
			LeadID:  job.LeadID,
			Kind:    job.MessageType,
			Outcome: res.Outcome.String(),
			Reason:  res.Reason,
			At:      time.Now(),
		}
		if err := q.Events.PublishDispatched(evt); err != nil {
			logrus.WithFields(fields).WithError(err).Warn("failed to publish dispatch event")
		}
	}
}
