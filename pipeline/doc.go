// Package pipeline runs the resumable profile extraction batch.
//
// A run moves through INIT, LOADING_CHECKPOINT, PROCESSING and FINALIZING
// and ends in DONE, INTERRUPTED or FAILED:
//
//   - INIT validates the config, finds the documents and checks the credential.
//   - LOADING_CHECKPOINT restores progress and earlier output rows on resume.
//   - PROCESSING segments every document and extracts each block in order,
//     skipping blocks that completed before or failed too often. Progress is
//     saved every FlushInterval attempted blocks.
//   - FINALIZING saves progress once more. A run without any record fails.
//
// Cancelling the context stops the run at the next block boundary; the
// remote call in flight finishes first and progress is saved before Run
// returns ErrInterrupted.
//
// Basic usage:
//
//	cfg := pipeline.NewConfig(pipeline.WithAPIKey(os.Getenv("DEEPSEEK_API_KEY")))
//	store := checkpoint.New(file.NewCheckpointRepository(cfg.CheckpointPath), uuid.NewString())
//	orch, err := pipeline.NewOrchestrator(cfg, client, store, sink.NewCSV(cfg.OutputPath))
//	if err != nil {
//	    return err
//	}
//	summary, err := orch.Run(ctx)
//
// Estimate reports block counts and the expected duration without calling
// the extraction service.
package pipeline
