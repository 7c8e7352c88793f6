// internal/service/processor.go
package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/leadflow/sequencer-backend/internal/lock"
)

// TaskName is the lock key that serializes scheduler ticks.
const TaskName = "processSequences"

const (
	defaultBatchSize   = 200
	defaultLockTimeout = 5 * time.Minute
)

// SequenceQueue is the queue capability: fetch due jobs up to batchSize,
// process each (including marking them), report how many were handed off.
type SequenceQueue interface {
	FetchAndProcessDue(ctx context.Context, batchSize int) (int, error)
}

// Processor is the scheduled entry point. It serializes itself through the
// lock registry and keeps every failure inside the tick: a locked run or a
// failing queue both come back as 0, never as a panic or error out of the
// scheduler.
type Processor struct {
	Locks       *lock.Registry
	Queue       SequenceQueue
	BatchSize   int
	LockTimeout time.Duration
}

// ProcessSequences runs one tick and returns the number of jobs handed off.
func (p *Processor) ProcessSequences(ctx context.Context) int {
	batchSize := p.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	timeout := p.LockTimeout
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}

	count, ran := p.Locks.WithLock(TaskName, timeout, func() int {
		n, err := p.Queue.FetchAndProcessDue(ctx, batchSize)
		if err != nil {
			logrus.WithError(err).WithField("task", TaskName).Error("sequence batch failed")
			return 0
		}
		return n
	})
	if !ran {
		logrus.WithField("task", TaskName).Warn("previous run still holds the lock, skipping tick")
		return 0
	}
	if count > 0 {
		logrus.WithFields(logrus.Fields{"task": TaskName, "processed": count}).Info("sequence tick done")
	}
	return count
}
