package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/lmbclust"
	"github.com/hupe1980/lmbclust/blobstore"
	"github.com/hupe1980/lmbclust/codec"
	"github.com/hupe1980/lmbclust/internal/resource"
)

// Blob names, before prefix and compression suffix.
const (
	CentersName = "centers.txt"
	IndicesName = "indices.txt"
	SummaryName = "summary.json"
)

// Option configures Publish and the Fetch helpers.
type Option func(*options)

type options struct {
	prefix      string
	compression Compression
	codec       codec.Codec
	rc          *resource.Controller
}

// WithPrefix places the blobs under prefix (e.g. a run id).
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithCompression sets the blob compression. Fetch must use the same value.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithCodec sets the summary codec. Defaults to codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithResourceController throttles encoded output through the controller's
// IO limit.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) { o.rc = rc }
}

func applyOptions(optFns []Option) options {
	o := options{codec: codec.Default}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

func (o *options) blobName(name string) string {
	return path.Join(o.prefix, name) + o.compression.Suffix()
}

// Publish renders the centers table, the indices table and the summary of
// res and stores them concurrently. It returns the blob names written, in
// the order centers, indices, summary.
func Publish(ctx context.Context, store blobstore.Store, res *lmbclust.Result, optFns ...Option) ([]string, error) {
	o := applyOptions(optFns)

	blobs := []struct {
		name   string
		render func(io.Writer) error
	}{
		{CentersName, func(w io.Writer) error { return WriteCenters(w, res) }},
		{IndicesName, func(w io.Writer) error { return WriteIndices(w, res) }},
		{SummaryName, func(w io.Writer) error {
			s := NewSummary(res)
			s.Codec = o.codec.Name()
			data, err := o.codec.Marshal(s)
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		}},
	}

	names := make([]string, len(blobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, b := range blobs {
		names[i] = o.blobName(b.name)
		g.Go(func() error {
			data, err := o.encode(gctx, b.render)
			if err != nil {
				return fmt.Errorf("report: render %s: %w", b.name, err)
			}
			if err := store.Put(gctx, names[i], data); err != nil {
				return fmt.Errorf("report: put %s: %w", names[i], err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return names, nil
}

func (o *options) encode(ctx context.Context, render func(io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	cw, err := o.compression.compressTo(resource.NewRateLimitedWriter(ctx, &buf, o.rc))
	if err != nil {
		return nil, err
	}
	if err := render(cw); err != nil {
		_ = cw.Close()
		return nil, err
	}
	if err := cw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fetch(ctx context.Context, store blobstore.Store, name string, o *options) ([]byte, error) {
	data, err := store.Get(ctx, o.blobName(name))
	if err != nil {
		return nil, fmt.Errorf("report: get %s: %w", o.blobName(name), err)
	}
	plain, err := o.compression.decompress(data)
	if err != nil {
		return nil, fmt.Errorf("report: decompress %s: %w", o.blobName(name), err)
	}
	return plain, nil
}

// FetchCenters reads a published centers table.
func FetchCenters(ctx context.Context, store blobstore.Store, optFns ...Option) ([]CenterSet, error) {
	o := applyOptions(optFns)
	data, err := fetch(ctx, store, CentersName, &o)
	if err != nil {
		return nil, err
	}
	return ParseCenters(bytes.NewReader(data))
}

// FetchIndices reads a published indices table.
func FetchIndices(ctx context.Context, store blobstore.Store, optFns ...Option) ([]IndexRow, error) {
	o := applyOptions(optFns)
	data, err := fetch(ctx, store, IndicesName, &o)
	if err != nil {
		return nil, err
	}
	return ParseIndices(bytes.NewReader(data))
}

// FetchSummary reads a published summary.
func FetchSummary(ctx context.Context, store blobstore.Store, optFns ...Option) (*Summary, error) {
	o := applyOptions(optFns)
	data, err := fetch(ctx, store, SummaryName, &o)
	if err != nil {
		return nil, err
	}
	var s Summary
	if err := o.codec.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("report: decode %s: %w", SummaryName, err)
	}
	return &s, nil
}
