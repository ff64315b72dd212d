package s3

import (
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
)

// UploadConfig tunes the transfer manager used by Put.
//
// Report tables stay far below one part for typical K and d, so most puts
// are a single PutObject; large center tables (big d) switch to multipart.
type UploadConfig struct {
	// PartSize is the multipart threshold and part size in bytes.
	// The S3 minimum of 5 MiB applies.
	PartSize int64

	// Concurrency bounds the parts in flight per Put.
	Concurrency int

	// EnableChecksum attaches a CRC32C checksum to every object.
	EnableChecksum bool

	// LeavePartsOnError keeps the parts of a failed multipart upload
	// instead of aborting it.
	LeavePartsOnError bool
}

// DefaultUploadConfig returns 8 MiB parts, three in flight, with checksums.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:       8 << 20,
		Concurrency:    3,
		EnableChecksum: true,
	}
}

func newUploader(client Client, cfg UploadConfig) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		if cfg.PartSize >= manager.MinUploadPartSize {
			u.PartSize = cfg.PartSize
		}
		if cfg.Concurrency > 0 {
			u.Concurrency = cfg.Concurrency
		}
		u.LeavePartsOnError = cfg.LeavePartsOnError
	})
}
