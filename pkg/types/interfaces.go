package types

import (
	"context"
)

// BlobClient defines the interface for blob storage access. The production
// implementation wraps the Azure SDK; tests use in-memory fakes.
type BlobClient interface {
	// Properties fetches metadata for a single blob without reading its
	// contents.
	Properties(ctx context.Context, container, key string) (*ObjectInfo, error)

	// DownloadRange reads len(buf) bytes starting at offset into buf and
	// returns the number of bytes written. A short object results in an
	// error, never a silent short read.
	DownloadRange(ctx context.Context, container, key string, buf []byte, offset int64, opts ReadOptions) (int64, error)

	// ListBlobs returns a pager over all blob keys in container that start
	// with prefix.
	ListBlobs(container, prefix string) ListPager
}

// ListPager pages through blob listing results. More reports whether another
// page exists; NextPage fetches it. Enumeration is complete only when More
// returns false.
type ListPager interface {
	More() bool
	NextPage(ctx context.Context) ([]string, error)
}
