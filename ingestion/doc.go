// Package ingestion loads transcript JSON files and feeds them into storage.
//
// The Pipeline type manages the ingestion workflow for a transcript:
//   - Storing video metadata and segments
//   - Generating segment embeddings in batches on a worker pool
//   - Normalizing vectors and writing them back
//
// Ingestion is synchronous per transcript: IngestTranscript returns after
// every batch has settled, reporting the first failure.
package ingestion
