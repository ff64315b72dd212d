// Package resource governs the two resources a clustering run shares with
// its host process:
//
//   - Memory: the evaluator's n x k distance cache reserves its bytes up
//     front (non-blocking, fail-fast). When the reservation fails the cache
//     is simply disabled; results do not change.
//   - IO: report uploads to shared object stores can be throttled with a
//     token bucket.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   512 << 20,
//	    IOLimitBytesPerSec: 8 << 20,
//	})
//
//	if rc.TryAcquireMemory(bytes) {
//	    defer rc.ReleaseMemory(bytes)
//	}
//
// All methods handle a nil Controller gracefully; they become no-ops that
// grant every request.
package resource
