package azure

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"

	azerrors "github.com/objectfs/azurefs/pkg/errors"
	"github.com/objectfs/azurefs/pkg/types"
)

// Backend adapts an azblob service client to the types.BlobClient surface
// the filesystem consumes.
type Backend struct {
	client *azblob.Client
	logger *slog.Logger
}

// NewBackend wraps an azblob client.
func NewBackend(client *azblob.Client) *Backend {
	return &Backend{
		client: client,
		logger: slog.Default().With("component", "azure-backend"),
	}
}

// Properties implements types.BlobClient.
func (b *Backend) Properties(ctx context.Context, container, key string) (*types.ObjectInfo, error) {
	blobClient := b.client.ServiceClient().NewContainerClient(container).NewBlobClient(key)
	resp, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		return nil, translateError(err, "Properties", container, key)
	}

	info := &types.ObjectInfo{Key: key}
	if resp.ContentLength != nil {
		info.Size = *resp.ContentLength
	}
	if resp.LastModified != nil {
		info.LastModified = *resp.LastModified
	}
	if resp.ETag != nil {
		info.ETag = string(*resp.ETag)
	}
	if resp.ContentType != nil {
		info.ContentType = *resp.ContentType
	}
	if len(resp.Metadata) > 0 {
		info.Metadata = make(map[string]string, len(resp.Metadata))
		for k, v := range resp.Metadata {
			if v != nil {
				info.Metadata[k] = *v
			}
		}
	}
	return info, nil
}

// DownloadRange implements types.BlobClient. It requests exactly
// [offset, offset+len(buf)) split into chunked parallel range requests per
// the transfer options.
func (b *Backend) DownloadRange(ctx context.Context, container, key string, buf []byte, offset int64, opts types.ReadOptions) (int64, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	blobClient := b.client.ServiceClient().NewContainerClient(container).NewBlobClient(key)
	n, err := blobClient.DownloadBuffer(ctx, buf, &blob.DownloadBufferOptions{
		Range: blob.HTTPRange{
			Offset: offset,
			Count:  int64(len(buf)),
		},
		BlockSize:   opts.TransferChunkSize,
		Concurrency: uint16(opts.TransferConcurrency),
	})
	if err != nil {
		return 0, translateError(err, "DownloadRange", container, key)
	}

	b.logger.Debug("downloaded range",
		"container", container,
		"key", key,
		"offset", offset,
		"bytes", n)
	return n, nil
}

// ListBlobs implements types.BlobClient using the service's flat listing
// with continuation handled by the pager.
func (b *Backend) ListBlobs(container, prefix string) types.ListPager {
	pager := b.client.NewListBlobsFlatPager(container, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})
	return &listPager{pager: pager, container: container}
}

type listPager struct {
	pager     *runtime.Pager[azblob.ListBlobsFlatResponse]
	container string
}

func (p *listPager) More() bool {
	return p.pager.More()
}

func (p *listPager) NextPage(ctx context.Context) ([]string, error) {
	page, err := p.pager.NextPage(ctx)
	if err != nil {
		return nil, translateError(err, "ListBlobs", p.container, "")
	}

	keys := make([]string, 0, len(page.Segment.BlobItems))
	for _, item := range page.Segment.BlobItems {
		if item.Name != nil {
			keys = append(keys, *item.Name)
		}
	}
	return keys, nil
}

// translateError maps service failures onto the structured error taxonomy,
// carrying the service error code, HTTP status, and message as details.
func translateError(err error, operation, container, key string) error {
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return azerrors.NewError(azerrors.ErrCodeTransportError, "request failed").
			WithComponent("azure-backend").
			WithOperation(operation).
			WithContext("container", container).
			WithContext("key", key).
			WithCause(err)
	}

	code := azerrors.ErrCodeTransportError
	message := "service request failed"
	switch respErr.StatusCode {
	case http.StatusNotFound:
		code = azerrors.ErrCodeObjectNotFound
		message = "blob not found"
	case http.StatusUnauthorized, http.StatusForbidden:
		code = azerrors.ErrCodeAccessDenied
		message = "access denied"
	}

	return azerrors.NewError(code, message).
		WithComponent("azure-backend").
		WithOperation(operation).
		WithContext("container", container).
		WithContext("key", key).
		WithDetail("status_code", respErr.StatusCode).
		WithDetail("service_code", respErr.ErrorCode).
		WithCause(err)
}
