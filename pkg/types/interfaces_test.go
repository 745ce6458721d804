package types

import (
	"context"
	"testing"
)

// TestInterfaces verifies that our interfaces are properly structured
func TestInterfaces(t *testing.T) {
	var (
		_ BlobClient = (*mockBlobClient)(nil)
		_ ListPager  = (*mockListPager)(nil)
	)
}

// Mock implementations for testing interface compliance

type mockBlobClient struct{}

func (m *mockBlobClient) Properties(ctx context.Context, container, key string) (*ObjectInfo, error) {
	return nil, nil
}

func (m *mockBlobClient) DownloadRange(ctx context.Context, container, key string, buf []byte, offset int64, opts ReadOptions) (int64, error) {
	return 0, nil
}

func (m *mockBlobClient) ListBlobs(container, prefix string) ListPager {
	return &mockListPager{}
}

type mockListPager struct{}

func (m *mockListPager) More() bool {
	return false
}

func (m *mockListPager) NextPage(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestReadOptionsValidate(t *testing.T) {
	opts := DefaultReadOptions()
	if err := opts.Validate(); err != nil {
		t.Fatalf("default options should validate: %v", err)
	}
	if opts.TransferConcurrency != 5 {
		t.Errorf("TransferConcurrency = %d, want 5", opts.TransferConcurrency)
	}
	if opts.TransferChunkSize != 1024*1024 {
		t.Errorf("TransferChunkSize = %d, want 1MiB", opts.TransferChunkSize)
	}
	if opts.BufferSize != 1024*1024 {
		t.Errorf("BufferSize = %d, want 1MiB", opts.BufferSize)
	}

	opts.TransferConcurrency = 0
	if err := opts.Validate(); err == nil {
		t.Error("zero concurrency should fail validation")
	}

	opts = DefaultReadOptions()
	opts.BufferSize = -1
	if err := opts.Validate(); err == nil {
		t.Error("negative buffer size should fail validation")
	}
}

func TestOpenFlags(t *testing.T) {
	if OpenRead.Direct() {
		t.Error("OpenRead should not request direct I/O")
	}
	if !(OpenRead | OpenDirectIO).Direct() {
		t.Error("OpenDirectIO should request direct I/O")
	}
}
