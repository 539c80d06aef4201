package assoc

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mindkeep/mindkeep/internal/model"
)

// Task is an awaitable boolean result of a long-running trigger.
type Task struct {
	id   string
	done chan struct{}
	once sync.Once
	ok   bool
}

// NewTask creates an unresolved task with a fresh job id.
func NewTask() *Task {
	return &Task{id: uuid.NewString(), done: make(chan struct{})}
}

// Resolved returns an already-completed task with the given result.
func Resolved(ok bool) *Task {
	t := NewTask()
	t.Resolve(ok)
	return t
}

// ID returns the job identifier, used for log correlation.
func (t *Task) ID() string {
	return t.id
}

// Resolve completes the task. Only the first call has any effect.
func (t *Task) Resolve(ok bool) {
	t.once.Do(func() {
		t.ok = ok
		close(t.done)
	})
}

// Done returns a channel closed on completion.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Await blocks until the task completes or the context is cancelled.
func (t *Task) Await(ctx context.Context) (bool, error) {
	select {
	case <-t.done:
		return t.ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Association pairs a note with its relevance score.
type Association struct {
	Note  *model.Note
	Score float64
}

// RankTask is an awaitable association leaderboard.
type RankTask struct {
	done   chan struct{}
	once   sync.Once
	result []Association
}

// NewRankTask creates an unresolved rank task.
func NewRankTask() *RankTask {
	return &RankTask{done: make(chan struct{})}
}

// Resolve completes the task with the ranked result.
func (t *RankTask) Resolve(result []Association) {
	t.once.Do(func() {
		t.result = result
		close(t.done)
	})
}

// Await blocks until the leaderboard is ready or the context is cancelled.
func (t *RankTask) Await(ctx context.Context) ([]Association, error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
