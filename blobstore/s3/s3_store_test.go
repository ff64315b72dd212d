package s3

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/lmbclust/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	require.NoError(t, err)

	prefix := fmt.Sprintf("test-lmbclust-%d/", time.Now().UnixNano())
	store := NewStore(s3.NewFromConfig(cfg), bucket, WithPrefix(prefix))

	data := []byte("# k objective\n1 101\n")
	require.NoError(t, store.Put(ctx, "indices.txt", data))

	got, err := store.Get(ctx, "indices.txt")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "indices.txt")

	require.NoError(t, store.Delete(ctx, "indices.txt"))
	_, err = store.Get(ctx, "indices.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
