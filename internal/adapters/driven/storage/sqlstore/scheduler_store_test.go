package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learningequality/alignpro/internal/core/domain"
)

func TestSchedulerStore_SaveAndGetTask(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	ss := store.SchedulerStore()

	now := time.Now().UTC()
	task := &domain.ScheduledTask{
		ID:          domain.TaskIDModelEvaluation,
		Name:        "Model Evaluation",
		Interval:    time.Hour,
		LastRun:     now.Add(-30 * time.Minute),
		NextRun:     now.Add(30 * time.Minute),
		LastSuccess: now.Add(-30 * time.Minute),
		Enabled:     true,
	}
	require.NoError(t, ss.SaveTask(ctx, task))

	got, err := ss.GetTask(ctx, domain.TaskIDModelEvaluation)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, task.Name, got.Name)
	assert.Equal(t, task.Interval, got.Interval)
	assert.True(t, got.Enabled)
	assert.True(t, got.LastRun.Equal(task.LastRun))
	assert.True(t, got.NextRun.Equal(task.NextRun))
	assert.True(t, got.LastSuccess.Equal(task.LastSuccess))
	assert.Empty(t, got.LastError)
}

func TestSchedulerStore_GetTask_NotFound(t *testing.T) {
	store := setupTestStore(t)

	task, err := store.SchedulerStore().GetTask(context.Background(), "non-existent")
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestSchedulerStore_SaveTask_Update(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	ss := store.SchedulerStore()

	task := &domain.ScheduledTask{ID: "test-task", Name: "Test Task", Interval: time.Hour, Enabled: true}
	require.NoError(t, ss.SaveTask(ctx, task))

	task.Name = "Updated Task"
	task.Interval = 2 * time.Hour
	task.LastError = "model baseline: corrupt artifact"
	task.Enabled = false
	require.NoError(t, ss.SaveTask(ctx, task))

	got, err := ss.GetTask(ctx, "test-task")
	require.NoError(t, err)
	assert.Equal(t, "Updated Task", got.Name)
	assert.Equal(t, 2*time.Hour, got.Interval)
	assert.Equal(t, "model baseline: corrupt artifact", got.LastError)
	assert.False(t, got.Enabled)
	assert.True(t, got.LastRun.IsZero())
}

func TestSchedulerStore_ListAndDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	ss := store.SchedulerStore()

	empty, err := ss.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, task := range []*domain.ScheduledTask{
		{ID: "task-2", Name: "Task 2", Interval: 2 * time.Hour},
		{ID: "task-1", Name: "Task 1", Interval: time.Hour, Enabled: true},
		{ID: "task-3", Name: "Task 3", Interval: 30 * time.Minute, Enabled: true},
	} {
		require.NoError(t, ss.SaveTask(ctx, task))
	}

	tasks, err := ss.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "task-1", tasks[0].ID)
	assert.False(t, tasks[1].Enabled)

	require.NoError(t, ss.DeleteTask(ctx, "task-2"))
	got, err := ss.GetTask(ctx, "task-2")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, ss.SaveTask(ctx, nil), domain.ErrInvalidInput)
}

func TestSchedulerStore_History(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	ss := store.SchedulerStore()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, ss.RecordResult(ctx, &domain.TaskResult{
		TaskID: "eval", StartedAt: now.Add(-5 * time.Minute), EndedAt: now, Success: true, ItemsProcessed: 10,
	}))
	require.NoError(t, ss.RecordResult(ctx, &domain.TaskResult{
		TaskID: "eval", StartedAt: now, EndedAt: now.Add(time.Minute), Error: "model store unavailable",
	}))
	assert.ErrorIs(t, ss.RecordResult(ctx, nil), domain.ErrInvalidInput)

	history, err := ss.GetTaskHistory(ctx, "eval", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.False(t, history[0].Success)
	assert.Equal(t, "model store unavailable", history[0].Error)
	assert.True(t, history[1].Success)
	assert.Equal(t, 10, history[1].ItemsProcessed)
	assert.True(t, history[1].StartedAt.Equal(now.Add(-5*time.Minute)))

	none, err := ss.GetTaskHistory(ctx, "other", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSchedulerStore_PruneHistory(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	ss := store.SchedulerStore()

	now := time.Now().UTC().Truncate(time.Second)
	for _, taskID := range []string{"eval", "other"} {
		for i := 0; i < 10; i++ {
			require.NoError(t, ss.RecordResult(ctx, &domain.TaskResult{
				TaskID:         taskID,
				StartedAt:      now.Add(time.Duration(i) * time.Minute),
				EndedAt:        now.Add(time.Duration(i)*time.Minute + 30*time.Second),
				Success:        true,
				ItemsProcessed: i + 1,
			}))
		}
	}

	require.NoError(t, ss.PruneHistory(ctx, 3))

	for _, taskID := range []string{"eval", "other"} {
		history, err := ss.GetTaskHistory(ctx, taskID, 100)
		require.NoError(t, err)
		require.Len(t, history, 3, taskID)
		assert.Equal(t, 10, history[0].ItemsProcessed)
		assert.Equal(t, 9, history[1].ItemsProcessed)
		assert.Equal(t, 8, history[2].ItemsProcessed)
	}
}
