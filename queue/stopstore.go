package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskBelongTTL bounds how long the "task belongs to owner" bookkeeping
// record is kept after run start.
const TaskBelongTTL = 30 * time.Minute

// StopFlagTTL bounds the stop-flag record so abandoned flags cannot
// accumulate. It only needs to outlive the channel long enough to be
// observed once more.
const StopFlagTTL = 30 * time.Minute

// TaskBelongKey renders the bookkeeping key recording which owner started a
// task.
func TaskBelongKey(taskID uuid.UUID) string {
	return "lumo:task:belong:" + taskID.String()
}

// TaskStoppedKey renders the key whose presence marks a task as stopped.
func TaskStoppedKey(taskID uuid.UUID) string {
	return "lumo:task:stopped:" + taskID.String()
}

// StopStore is the narrow external key/value contract backing cooperative
// cancellation. Implementations must be safe for concurrent use from
// multiple processes; presence of the stop key is the only cancellation
// signal.
type StopStore interface {
	// SetTaskBelong records the owner of a freshly started task with the
	// given TTL.
	SetTaskBelong(ctx context.Context, taskID uuid.UUID, owner string, ttl time.Duration) error

	// Stop marks the task as stopped. Idempotent.
	Stop(ctx context.Context, taskID uuid.UUID) error

	// IsStopped reports whether the stop flag for the task is present.
	IsStopped(ctx context.Context, taskID uuid.UUID) (bool, error)
}
