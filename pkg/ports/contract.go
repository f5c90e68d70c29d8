package ports

import (
	"context"
	"testing"
	"time"

	"github.com/railyard/shunt/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRunStoreContract runs a suite of tests verifying that a RunStore
// implementation adheres to the interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-run-" + time.Now().Format("20060102150405.000")

	t.Run("Save and Load", func(t *testing.T) {
		record := &domain.RunRecord{
			RunID:     runID,
			Workflow:  "contract",
			Status:    domain.StatusSucceeded,
			StartedAt: time.Now().UTC().Truncate(time.Millisecond),
			Steps: []domain.StepRecord{
				{Name: "prepare", Duration: 5 * time.Millisecond},
				{Name: "ship", Duration: 7 * time.Millisecond},
			},
		}

		err := store.Save(ctx, record)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, record.RunID, loaded.RunID)
		assert.Equal(t, record.Workflow, loaded.Workflow)
		assert.Equal(t, record.Status, loaded.Status)
		require.Len(t, loaded.Steps, 2)
		assert.Equal(t, "prepare", loaded.Steps[0].Name)
	})

	t.Run("Load does not share state", func(t *testing.T) {
		record := &domain.RunRecord{
			RunID:    runID + "-iso",
			Workflow: "contract",
			Status:   domain.StatusFailed,
			Steps:    []domain.StepRecord{{Name: "only"}},
		}
		require.NoError(t, store.Save(ctx, record))

		first, err := store.Load(ctx, record.RunID)
		require.NoError(t, err)
		first.Steps[0].Name = "mutated"
		first.Status = domain.StatusSucceeded

		second, err := store.Load(ctx, record.RunID)
		require.NoError(t, err)
		assert.Equal(t, "only", second.Steps[0].Name)
		assert.Equal(t, domain.StatusFailed, second.Status)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &domain.RunRecord{RunID: runID, Workflow: "contract"}))

		err := store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		assert.NoError(t, store.Delete(ctx, runID), "deleting a missing record is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		require.NoError(t, store.Save(ctx, &domain.RunRecord{RunID: id1, Workflow: "contract"}))
		require.NoError(t, store.Save(ctx, &domain.RunRecord{RunID: id2, Workflow: "contract"}))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
