/*
Package cache provides the per-account storage context cache.

Resolving credentials and constructing a blob client is expensive relative to
a single read, so resolved contexts are cached keyed by storage account name
and shared across file handles. The empty account name is a valid key for
paths that do not carry one.

# Invalidation Semantics

Invalidation is forward-looking. Invalidate and InvalidateAll flip a per-entry
valid flag without evicting: any handle already holding a context keeps using
its captured client and tuning, while the next GetOrCreate for that account
re-resolves and replaces the entry. The valid flag moves from true to false
exactly once per entry; stale entries are replaced, never revalidated.

InvalidateAll is intended for session boundaries, where credential or setting
changes made during the session must take effect on subsequent lookups.

# Concurrency

All cache operations are safe for concurrent use. Resolution runs under the
cache lock, so concurrent lookups for the same account resolve once.
*/
package cache
