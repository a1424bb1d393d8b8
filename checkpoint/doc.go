// Package checkpoint tracks which profile blocks a run has completed or
// failed so an interrupted run can resume without repeating remote calls.
//
// A Store keeps the state in memory and writes it through a
// storage.CheckpointRepository:
//
//	store := checkpoint.New(file.NewCheckpointRepository("pipeline_progress.json"), runID)
//	if _, err := store.Load(ctx); err != nil {
//	    return err
//	}
//	if !store.IsDone(id) && !store.ShouldSkipRetry(id) {
//	    // extract, then store.MarkSuccess(id) or store.MarkFailure(id, err)
//	}
//	err := store.Save(ctx)
//
// An identifier is in at most one of the completed and failed sets.
// MarkSuccess removes a prior failure; MarkFailure replaces the prior
// failure entry with one whose attempt count is one higher.
package checkpoint
