// Package reembed regenerates the embeddings of stored transcript segments
// after a change of embedding model.
//
// Segments are processed in batches with progress tracking and retry with
// exponential backoff. Vectors are unit-normalized before being written
// back, keeping dot-product search equivalent to cosine similarity.
package reembed
