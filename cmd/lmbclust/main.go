// Command lmbclust clusters a numeric data file incrementally for
// k = 1..K and writes the centers, validity indices and a run summary.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/hupe1980/lmbclust"
	"github.com/hupe1980/lmbclust/blobstore"
	miniostore "github.com/hupe1980/lmbclust/blobstore/minio"
	s3store "github.com/hupe1980/lmbclust/blobstore/s3"
	"github.com/hupe1980/lmbclust/codec"
	"github.com/hupe1980/lmbclust/dataset"
	"github.com/hupe1980/lmbclust/internal/resource"
	"github.com/hupe1980/lmbclust/promcollector"
	"github.com/hupe1980/lmbclust/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "lmbclust: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	s, err := loadSettings(args, stderr)
	if err != nil {
		return err
	}

	logger := newLogger(s, stderr)

	c, ok := codec.ByName(s.Codec)
	if !ok {
		return fmt.Errorf("unknown codec %q", s.Codec)
	}

	ds, err := dataset.LoadFile(s.Data, s.Cluster.Records, s.Cluster.Features)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, s)
	if err != nil {
		return fmt.Errorf("open %s store: %w", s.Store, err)
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   s.MemoryLimit,
		IOLimitBytesPerSec: s.IOLimit,
	})

	opts := []lmbclust.Option{
		lmbclust.WithLogger(logger),
		lmbclust.WithResourceController(rc),
	}
	if s.Workers > 0 {
		opts = append(opts, lmbclust.WithWorkers(s.Workers))
	}

	if s.MetricsAddr != "" {
		collector, err := promcollector.New(prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}
		opts = append(opts, lmbclust.WithMetricsCollector(collector))

		srv := &http.Server{Addr: s.MetricsAddr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "addr", s.MetricsAddr, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	res, err := lmbclust.Run(ctx, s.Cluster, ds, opts...)
	if err != nil {
		return err
	}

	// Publish even when the run was interrupted; the records so far are valid.
	names, err := report.Publish(context.WithoutCancel(ctx), store, res,
		report.WithPrefix(s.Prefix),
		report.WithCompression(s.Compression),
		report.WithCodec(c),
		report.WithResourceController(rc),
	)
	if err != nil {
		return err
	}
	logger.Info("reports published", "store", s.Store, "blobs", names)

	fmt.Fprintln(stdout, res.Summary())
	return nil
}

func newLogger(s *settings, w io.Writer) *lmbclust.Logger {
	opts := &slog.HandlerOptions{Level: s.LogLevel}
	if s.LogFormat == "json" {
		return lmbclust.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return lmbclust.NewLogger(slog.NewTextHandler(w, opts))
}

func openStore(ctx context.Context, s *settings) (blobstore.Store, error) {
	switch s.Store {
	case "minio":
		client, err := minio.New(s.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(s.AccessKey, s.SecretKey, ""),
			Secure: s.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		return miniostore.NewStore(client, s.Bucket, ""), nil
	case "s3":
		var optFns []s3store.Option
		if s.Region != "" {
			optFns = append(optFns, s3store.WithRegion(s.Region))
		}
		return s3store.New(ctx, s.Bucket, optFns...)
	default:
		if err := os.MkdirAll(s.OutDir, 0o755); err != nil {
			return nil, err
		}
		return blobstore.NewLocalStore(s.OutDir), nil
	}
}
