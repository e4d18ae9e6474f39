package scheduler

import (
	"github.com/hibiken/asynq"
)

// TaskLeadRescore recomputes every lead's score so recency decay shows up
// without waiting for a mutation.
const TaskLeadRescore = "leads.rescore"

// TaskAutoMatch runs the batch property matcher over eligible leads.
const TaskAutoMatch = "matching.auto_match"

func NewLeadRescoreTask() *asynq.Task {
	return asynq.NewTask(TaskLeadRescore, nil)
}

func NewAutoMatchTask() *asynq.Task {
	return asynq.NewTask(TaskAutoMatch, nil)
}
