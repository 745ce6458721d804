// Package filesystem presents remote blob storage as a random-access,
// seekable, read-only filesystem. The interface abstracts away the storage
// backend so query layers and tools can consume blobs through plain
// file-handle semantics, with glob-style discovery on top.
package filesystem

import (
	"context"
	"time"

	"github.com/objectfs/azurefs/pkg/types"
)

// FileHandle represents an open handle onto a single blob. Size and
// LastModified are captured when the handle is opened and never re-queried;
// a blob replaced mid-read is not observed by existing handles.
type FileHandle interface {
	Path() string
	Flags() types.OpenFlags
	Size() int64
	LastModified() time.Time
	Close() error
}

// FileSystem defines the operations exposed over remote blobs. Handles
// returned by Open must only be passed back to the FileSystem that created
// them.
type FileSystem interface {
	// Open parses the path, resolves a storage context, and probes the blob
	// for its length and last-modified time.
	Open(ctx context.Context, path string, flags types.OpenFlags) (FileHandle, error)

	// Read reads up to len(p) bytes at the handle's current position,
	// clamped to the remaining length, and advances the position. It
	// returns io.EOF at end of file.
	Read(ctx context.Context, fh FileHandle, p []byte) (int, error)

	// ReadAt reads exactly len(p) bytes starting at offset. The handle
	// position afterwards is offset+len(p).
	ReadAt(ctx context.Context, fh FileHandle, p []byte, offset int64) error

	// Seek moves the handle position without touching the read buffer;
	// buffered bytes remain valid for later reads that land inside them.
	Seek(fh FileHandle, offset int64) error

	// SeekPosition reports the handle's current position.
	SeekPosition(fh FileHandle) (int64, error)

	// Write is not supported and always fails.
	Write(ctx context.Context, fh FileHandle, p []byte, offset int64) (int, error)

	// FileSync is not supported and always fails.
	FileSync(ctx context.Context, fh FileHandle) error

	// FileExists reports whether path names a readable, non-empty blob.
	FileExists(ctx context.Context, path string) bool

	// Glob expands a path pattern into the matching blob URLs.
	Glob(ctx context.Context, path string) ([]string, error)

	// CanHandleFile reports whether path carries a scheme this filesystem
	// serves.
	CanHandleFile(path string) bool

	// CanSeek reports that handles support random access.
	CanSeek() bool

	// OnDiskFile reports whether handles are backed by local disk.
	OnDiskFile() bool

	// EndSession marks all cached storage contexts stale so credential or
	// setting changes take effect on subsequent opens.
	EndSession()

	// Name identifies the filesystem implementation.
	Name() string
}
