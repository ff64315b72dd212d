// Package s3 provides an S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("reports/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = report.Publish(ctx, store, result)
//
// # Features
//
//   - Uploads through the S3 transfer manager (multipart for large blobs)
//   - CRC32C integrity checksums
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
