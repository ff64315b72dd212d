// Package blobstore provides storage abstraction for clustering reports.
//
// A Store holds named, immutable artifacts (centers and indices tables,
// run summaries). Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, atomic writes via temp-file rename
//   - MemoryStore: in-process map, for tests
//   - minio.Store: MinIO and other S3-compatible servers
//   - s3.Store: Amazon S3, uploads through the S3 transfer manager
//
// # Custom Implementations
//
//	type Store interface {
//	    Put(ctx, name, data) error          // Atomic write
//	    Get(ctx, name) ([]byte, error)      // ErrNotFound if missing
//	    List(ctx, prefix) ([]string, error) // Sorted names
//	    Delete(ctx, name) error             // Missing blobs are not an error
//	}
package blobstore
