package types

import (
	"time"
)

// Default transfer tuning values applied when the corresponding settings are
// absent.
const (
	DefaultTransferConcurrency = 5
	DefaultTransferChunkSize   = 1024 * 1024
	DefaultBufferSize          = 1024 * 1024
)

// ObjectInfo represents metadata about a blob as reported by the storage
// service.
type ObjectInfo struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	LastModified time.Time         `json:"last_modified"`
	ETag         string            `json:"etag"`
	ContentType  string            `json:"content_type,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// ReadOptions carries the transfer tuning knobs for ranged downloads. The
// values are resolved from settings when a storage context is created and are
// immutable afterwards.
type ReadOptions struct {
	// TransferConcurrency is the number of parallel range requests used for
	// a single download.
	TransferConcurrency int `json:"transfer_concurrency"`

	// TransferChunkSize is the size in bytes of each range request.
	TransferChunkSize int64 `json:"transfer_chunk_size"`

	// BufferSize is the size in bytes of the per-handle read buffer.
	BufferSize int64 `json:"buffer_size"`
}

// DefaultReadOptions returns ReadOptions populated with the default tuning
// values.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		TransferConcurrency: DefaultTransferConcurrency,
		TransferChunkSize:   DefaultTransferChunkSize,
		BufferSize:          DefaultBufferSize,
	}
}

// Validate checks that all tuning values are usable.
func (o ReadOptions) Validate() error {
	if o.TransferConcurrency < 1 {
		return &ValidationError{Field: "transfer_concurrency", Reason: "must be at least 1"}
	}
	if o.TransferChunkSize < 1 {
		return &ValidationError{Field: "transfer_chunk_size", Reason: "must be at least 1"}
	}
	if o.BufferSize < 1 {
		return &ValidationError{Field: "buffer_size", Reason: "must be at least 1"}
	}
	return nil
}

// ValidationError reports an out-of-range option value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// OpenFlags controls how a file handle is opened.
type OpenFlags uint8

const (
	// OpenRead opens the handle for buffered reads.
	OpenRead OpenFlags = 1 << iota

	// OpenDirectIO disables the read buffer; every read becomes an exact
	// ranged request.
	OpenDirectIO
)

// Direct reports whether the flags request unbuffered I/O.
func (f OpenFlags) Direct() bool {
	return f&OpenDirectIO != 0
}
