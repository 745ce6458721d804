package filesystem

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/objectfs/azurefs/internal/buffer"
	"github.com/objectfs/azurefs/internal/cache"
	"github.com/objectfs/azurefs/internal/config"
	"github.com/objectfs/azurefs/internal/storage/azure"
	azerrors "github.com/objectfs/azurefs/pkg/errors"
	"github.com/objectfs/azurefs/pkg/types"
)

// Connector resolves credentials for a parsed URL and returns a ready blob
// client. The default connector builds a real Azure client; tests substitute
// fakes.
type Connector func(settings config.Settings, secrets azure.SecretStore, path string, parsed azure.ParsedURL, observer azure.RequestObserver) (types.BlobClient, error)

func defaultConnector(settings config.Settings, secrets azure.SecretStore, path string, parsed azure.ParsedURL, observer azure.RequestObserver) (types.BlobClient, error) {
	client, err := azure.Connect(settings, secrets, path, parsed, observer)
	if err != nil {
		return nil, err
	}
	return azure.NewBackend(client), nil
}

// Option configures an AzureFileSystem.
type Option func(*AzureFileSystem)

// WithConnector overrides how blob clients are constructed.
func WithConnector(connect Connector) Option {
	return func(fs *AzureFileSystem) { fs.connect = connect }
}

// WithObserver attaches an HTTP request observer. It only takes effect when
// the http stats setting is enabled.
func WithObserver(observer azure.RequestObserver) Option {
	return func(fs *AzureFileSystem) { fs.observer = observer }
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(fs *AzureFileSystem) { fs.logger = logger.With("component", "azure-fs") }
}

var _ FileSystem = (*AzureFileSystem)(nil)

// AzureFileSystem serves azure:// and az:// URLs backed by Azure Blob
// Storage. Storage contexts (credentials plus transfer tuning) are resolved
// once per account and cached until invalidated.
type AzureFileSystem struct {
	settings config.Settings
	secrets  azure.SecretStore
	contexts *cache.ContextCache
	connect  Connector
	observer azure.RequestObserver
	logger   *slog.Logger
}

// New creates an AzureFileSystem over the given settings and secret store.
func New(settings config.Settings, secrets azure.SecretStore, opts ...Option) (*AzureFileSystem, error) {
	caching, err := config.GetBool(settings, config.KeyContextCaching, true)
	if err != nil {
		return nil, err
	}

	fs := &AzureFileSystem{
		settings: settings,
		secrets:  secrets,
		contexts: cache.New(caching),
		connect:  defaultConnector,
		logger:   slog.Default().With("component", "azure-fs"),
	}
	for _, opt := range opts {
		opt(fs)
	}
	return fs, nil
}

// AzureFileHandle is a read-only handle onto a single blob. It owns a read
// window sized by the buffer setting and a position cursor; neither is safe
// for concurrent use.
type AzureFileHandle struct {
	path   string
	parsed azure.ParsedURL
	flags  types.OpenFlags
	sctx   *cache.AccountContext

	length       int64
	lastModified time.Time

	offset int64
	window *buffer.Window
	closed bool
}

// Path returns the URL the handle was opened with.
func (h *AzureFileHandle) Path() string { return h.path }

// Flags returns the open flags.
func (h *AzureFileHandle) Flags() types.OpenFlags { return h.flags }

// Size returns the blob length captured at open time.
func (h *AzureFileHandle) Size() int64 { return h.length }

// LastModified returns the blob modification time captured at open time.
func (h *AzureFileHandle) LastModified() time.Time { return h.lastModified }

// Close releases the handle. Further operations on it fail.
func (h *AzureFileHandle) Close() error {
	h.closed = true
	return nil
}

// storageContext returns the cached context for the account named by parsed,
// resolving credentials and transfer tuning on a miss.
func (fs *AzureFileSystem) storageContext(path string, parsed azure.ParsedURL) (*cache.AccountContext, error) {
	return fs.contexts.GetOrCreate(parsed.AccountName, func() (*cache.AccountContext, error) {
		opts, err := config.ResolveReadOptions(fs.settings)
		if err != nil {
			return nil, err
		}
		client, err := fs.connect(fs.settings, fs.secrets, path, parsed, fs.statsObserver())
		if err != nil {
			return nil, err
		}
		fs.logger.Debug("resolved storage context",
			"account", parsed.AccountName,
			"buffer_size", opts.BufferSize,
			"concurrency", opts.TransferConcurrency)
		return cache.NewAccountContext(parsed.AccountName, client, opts), nil
	})
}

func (fs *AzureFileSystem) statsObserver() azure.RequestObserver {
	enabled, err := config.GetBool(fs.settings, config.KeyHTTPStats, false)
	if err != nil || !enabled {
		return nil
	}
	return fs.observer
}

// Open resolves a storage context for path and probes the blob for its
// length and last-modified time.
func (fs *AzureFileSystem) Open(ctx context.Context, path string, flags types.OpenFlags) (FileHandle, error) {
	parsed, err := azure.ParseURL(path)
	if err != nil {
		return nil, err
	}

	sctx, err := fs.storageContext(path, parsed)
	if err != nil {
		return nil, err
	}

	info, err := sctx.Client.Properties(ctx, parsed.Container, parsed.Path)
	if err != nil {
		return nil, err
	}

	return &AzureFileHandle{
		path:         path,
		parsed:       parsed,
		flags:        flags,
		sctx:         sctx,
		length:       info.Size,
		lastModified: info.LastModified,
		window:       buffer.NewWindow(sctx.ReadOptions.BufferSize),
	}, nil
}

func (fs *AzureFileSystem) handle(fh FileHandle) (*AzureFileHandle, error) {
	h, ok := fh.(*AzureFileHandle)
	if !ok {
		return nil, azerrors.NewError(azerrors.ErrCodeInternalError,
			fmt.Sprintf("foreign file handle %T", fh)).
			WithComponent("azure-fs")
	}
	if h.closed {
		return nil, azerrors.NewError(azerrors.ErrCodeInternalError, "file handle is closed").
			WithComponent("azure-fs").
			WithContext("path", h.path)
	}
	return h, nil
}

func (fs *AzureFileSystem) fetch(ctx context.Context, h *AzureFileHandle, offset int64, p []byte) error {
	_, err := h.sctx.Client.DownloadRange(ctx, h.parsed.Container, h.parsed.Path, p, offset, h.sctx.ReadOptions)
	return err
}

// ReadAt reads exactly len(p) bytes starting at location. Bytes already held
// by the handle's read window are served from memory; a read larger than one
// window refill goes straight to the caller's slice and leaves the window
// empty.
func (fs *AzureFileSystem) ReadAt(ctx context.Context, fh FileHandle, p []byte, location int64) error {
	h, err := fs.handle(fh)
	if err != nil {
		return err
	}

	toRead := int64(len(p))
	if location < 0 || location+toRead > h.length {
		return azerrors.NewError(azerrors.ErrCodeStorageRead,
			fmt.Sprintf("read [%d, %d) outside file of length %d", location, location+toRead, h.length)).
			WithComponent("azure-fs").
			WithOperation("ReadAt").
			WithContext("path", h.path)
	}

	if h.flags.Direct() {
		if toRead == 0 {
			return nil
		}
		if err := fs.fetch(ctx, h, location, p); err != nil {
			return err
		}
		h.window.Reset()
		h.offset = location + toRead
		return nil
	}

	h.window.Seek(location)
	h.offset = location

	var bufferOffset int64
	for toRead > 0 {
		n := h.window.Drain(p[bufferOffset : bufferOffset+toRead])
		bufferOffset += n
		toRead -= n
		h.offset += n

		if toRead > 0 && h.window.Available() == 0 {
			newAvailable := min(h.window.Capacity(), h.length-h.offset)

			// A read that exceeds one refill bypasses the window
			// entirely; buffering it would just add a copy.
			if toRead > newAvailable {
				if err := fs.fetch(ctx, h, h.offset, p[bufferOffset:bufferOffset+toRead]); err != nil {
					return err
				}
				h.window.Reset()
				h.offset += toRead
				break
			}

			if err := fs.fetch(ctx, h, h.offset, h.window.Fill(newAvailable)); err != nil {
				return err
			}
			h.window.Commit(h.offset, newAvailable)
		}
	}
	return nil
}

// Read reads up to len(p) bytes at the handle's current position, clamped to
// the remaining blob length, and advances the position.
func (fs *AzureFileSystem) Read(ctx context.Context, fh FileHandle, p []byte) (int, error) {
	h, err := fs.handle(fh)
	if err != nil {
		return 0, err
	}

	n := min(int64(len(p)), h.length-h.offset)
	if n <= 0 {
		return 0, io.EOF
	}
	if err := fs.ReadAt(ctx, fh, p[:n], h.offset); err != nil {
		return 0, err
	}
	return int(n), nil
}

// Seek moves the handle position. The read window is left intact, so a later
// read landing inside it is still served from memory.
func (fs *AzureFileSystem) Seek(fh FileHandle, offset int64) error {
	h, err := fs.handle(fh)
	if err != nil {
		return err
	}
	if offset < 0 {
		return azerrors.NewError(azerrors.ErrCodeStorageRead,
			fmt.Sprintf("negative seek offset %d", offset)).
			WithComponent("azure-fs").
			WithOperation("Seek").
			WithContext("path", h.path)
	}
	h.offset = offset
	return nil
}

// SeekPosition reports the handle's current position.
func (fs *AzureFileSystem) SeekPosition(fh FileHandle) (int64, error) {
	h, err := fs.handle(fh)
	if err != nil {
		return 0, err
	}
	return h.offset, nil
}

// Write always fails; blobs are read-only through this filesystem.
func (fs *AzureFileSystem) Write(ctx context.Context, fh FileHandle, p []byte, offset int64) (int, error) {
	return 0, azerrors.NewError(azerrors.ErrCodeUnsupportedOperation, "writes are not supported").
		WithComponent("azure-fs").
		WithOperation("Write")
}

// FileSync always fails; there is nothing to flush on a read-only handle.
func (fs *AzureFileSystem) FileSync(ctx context.Context, fh FileHandle) error {
	return azerrors.NewError(azerrors.ErrCodeUnsupportedOperation, "sync is not supported").
		WithComponent("azure-fs").
		WithOperation("FileSync")
}

// FileExists reports whether path names a readable, non-empty blob. Any
// failure to open counts as absence, including auth failures. Zero-length
// blobs report false; they are indistinguishable from virtual directory
// markers.
func (fs *AzureFileSystem) FileExists(ctx context.Context, path string) bool {
	fh, err := fs.Open(ctx, path, types.OpenRead)
	if err != nil {
		return false
	}
	defer fh.Close()
	return fh.Size() > 0
}

// Glob expands a wildcard pattern into the URLs of all matching blobs. Paths
// without wildcards are returned verbatim without touching the service. The
// listing is paginated; every page is fetched before matching completes.
func (fs *AzureFileSystem) Glob(ctx context.Context, path string) ([]string, error) {
	parsed, err := azure.ParseURL(path)
	if err != nil {
		return nil, err
	}

	if !azure.HasWildcard(parsed.Path) {
		return []string{path}, nil
	}

	sctx, err := fs.storageContext(path, parsed)
	if err != nil {
		return nil, err
	}

	prefix := azure.ListPrefix(parsed.Path)
	pattern := azure.SplitSegments(parsed.Path)
	resultPrefix := parsed.ResultPrefix()

	var matches []string
	pager := sctx.Client.ListBlobs(parsed.Container, prefix)
	pages := 0
	for pager.More() {
		keys, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		pages++
		for _, key := range keys {
			if azure.Match(azure.SplitSegments(key), pattern) {
				matches = append(matches, resultPrefix+"/"+key)
			}
		}
	}

	fs.logger.Debug("glob expanded",
		"pattern", path,
		"prefix", prefix,
		"pages", pages,
		"matches", len(matches))
	return matches, nil
}

// CanHandleFile reports whether path uses the azure:// or az:// scheme.
func (fs *AzureFileSystem) CanHandleFile(path string) bool {
	return azure.CanHandle(path)
}

// CanSeek reports that handles support random access.
func (fs *AzureFileSystem) CanSeek() bool { return true }

// OnDiskFile reports that handles are never backed by local disk.
func (fs *AzureFileSystem) OnDiskFile() bool { return false }

// EndSession marks every cached storage context stale. Handles already open
// keep their context; new opens resolve fresh credentials.
func (fs *AzureFileSystem) EndSession() {
	fs.contexts.InvalidateAll()
}

// InvalidateAccount marks the cached context for one account stale.
func (fs *AzureFileSystem) InvalidateAccount(account string) {
	fs.contexts.Invalidate(account)
}

// ContextStats returns a snapshot of context cache statistics.
func (fs *AzureFileSystem) ContextStats() cache.Stats {
	return fs.contexts.Stats()
}

// Name identifies this filesystem implementation.
func (fs *AzureFileSystem) Name() string { return "AzureBlobFileSystem" }
