package minio

import (
	"context"
	"testing"

	"github.com/hupe1980/lmbclust/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Keys(t *testing.T) {
	s := NewStore(nil, "bucket", "reports/")
	assert.Equal(t, "reports/run-1/centers.txt", s.key("run-1/centers.txt"))
	assert.Equal(t, "run-1/centers.txt", s.name("reports/run-1/centers.txt"))

	bare := NewStore(nil, "bucket", "")
	assert.Equal(t, "indices.txt", bare.key("indices.txt"))
	assert.Equal(t, "indices.txt", bare.name("indices.txt"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType("summary.json"))
	assert.Equal(t, "text/plain", contentType("centers.txt"))
	assert.Equal(t, "application/octet-stream", contentType("centers.txt.zst"))
}

func TestStore_RejectsInvalidName(t *testing.T) {
	s := NewStore(nil, "bucket", "")
	assert.Error(t, s.Put(context.Background(), "../x", nil))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-lmbclust"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	_, err = client.ListBuckets(ctx)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("1 0 10 0.5\n")
	require.NoError(t, store.Put(ctx, "run/centers.txt", data))

	got, err := store.Get(ctx, "run/centers.txt")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "run/")
	require.NoError(t, err)
	assert.Contains(t, names, "run/centers.txt")

	require.NoError(t, store.Delete(ctx, "run/centers.txt"))
	_, err = store.Get(ctx, "run/centers.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
