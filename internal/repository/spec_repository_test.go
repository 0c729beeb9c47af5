package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nexlified/Recaller-sub002/internal/model"
	"github.com/Nexlified/Recaller-sub002/internal/recurrence"
)

func TestApplyPatchResetsBookkeepingOnPatternChange(t *testing.T) {
	db := newTestDB(t)
	tasks := NewTaskRepository(db)
	specs := NewSpecRepository(db)
	ctx := context.Background()

	task := seedRecurringTask(t, tasks)
	due := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tasks.GenerateInstance(ctx, task.ID, due))

	interval := 3
	spec, err := specs.ApplyPatch(ctx, model.OwnerTasks, task.ID, model.RecurrencePatch{Interval: &interval})
	require.NoError(t, err)
	assert.Equal(t, 3, spec.Interval)
	assert.Zero(t, spec.GenerationCount, "pattern edit resets bookkeeping")
	assert.Nil(t, spec.LastGeneratedAt)
}

func TestApplyPatchKeepsBookkeepingWhenNothingChanged(t *testing.T) {
	db := newTestDB(t)
	tasks := NewTaskRepository(db)
	specs := NewSpecRepository(db)
	ctx := context.Background()

	task := seedRecurringTask(t, tasks)
	due := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tasks.GenerateInstance(ctx, task.ID, due))

	sameInterval := 1
	spec, err := specs.ApplyPatch(ctx, model.OwnerTasks, task.ID, model.RecurrencePatch{Interval: &sameInterval})
	require.NoError(t, err)
	assert.Equal(t, 1, spec.GenerationCount)
	require.NotNil(t, spec.LastGeneratedAt)
}

func TestPurgeOrphans(t *testing.T) {
	db := newTestDB(t)
	tasks := NewTaskRepository(db)
	specs := NewSpecRepository(db)
	ctx := context.Background()

	kept := seedRecurringTask(t, tasks)
	orphaned := seedRecurringTask(t, tasks)
	// Remove the owner row directly, stranding its spec.
	require.NoError(t, db.Exec("DELETE FROM tasks WHERE id = ?", orphaned.ID).Error)

	purged, err := specs.PurgeOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = specs.FindForOwner(ctx, model.OwnerTasks, kept.ID)
	require.NoError(t, err, "spec with a live owner survives")
}

func TestFindForOwner(t *testing.T) {
	db := newTestDB(t)
	tasks := NewTaskRepository(db)
	specs := NewSpecRepository(db)
	ctx := context.Background()

	task := seedRecurringTask(t, tasks)

	spec, err := specs.FindForOwner(ctx, model.OwnerTasks, task.ID)
	require.NoError(t, err)
	assert.Equal(t, string(recurrence.Daily), spec.Frequency)

	require.NoError(t, specs.DeleteForOwner(ctx, model.OwnerTasks, task.ID))
	_, err = specs.FindForOwner(ctx, model.OwnerTasks, task.ID)
	assert.Error(t, err)
}
