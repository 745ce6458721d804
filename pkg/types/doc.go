/*
Package types provides the core interfaces and data structures shared across
AzureFS.

This package defines the contracts between the filesystem layer and the
storage layer so that the two can evolve independently and be tested in
isolation.

# Core Interfaces

BlobClient:
Abstracts the blob storage service to the three operations the filesystem
needs: a metadata probe, an exact ranged download, and a paginated prefix
listing. The production implementation wraps the Azure Blob SDK; tests
substitute in-memory fakes.

ListPager:
Pages through listing results. Callers must drain the pager until More
returns false; a single page is never assumed to be the complete result set.

# Data Structures

ObjectInfo:
Metadata for a stored blob including size, last-modified timestamp, ETag, and
custom metadata attributes.

ReadOptions:
Transfer tuning for ranged downloads (concurrency, chunk size, and the
per-handle buffer size). Resolved once per storage context and immutable
afterwards.

# Interface Contracts

All interfaces in this package follow these principles:

 1. Context Awareness: blocking operations accept context.Context for
    cancellation and timeouts
 2. Error Handling: all operations return explicit errors following Go
    conventions
 3. Range Operations: downloads request exact byte ranges, never whole
    objects
 4. Thread Safety: implementations must be safe for concurrent use
*/
package types
