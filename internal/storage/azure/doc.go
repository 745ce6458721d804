/*
Package azure implements the Azure Blob Storage backend: URL parsing for the
azure:// and az:// schemes, credential resolution, transport construction,
ranged downloads, and paginated listing with glob matching support.

# URLs

Two URL forms are accepted. The short form leaves the account to be resolved
from secrets or settings:

	azure://container/path/to/blob

The fully qualified form pins the account and endpoint in the path itself,
recognized by a dot before the first slash:

	azure://myaccount.blob.core.windows.net/container/path/to/blob

# Credential resolution

Connect resolves credentials in a fixed order. A secret whose scope matches
the path wins; its provider decides the mechanism (inline connection string,
credential chain, or service principal). Without a matching secret the
connection string setting is tried, then the credential chain setting, and
finally an anonymous client against the configured account.

# Transport

The SDK pipeline runs over a tuned http.Transport. The curl option type
additionally probes the common CA bundle locations honored by libcurl so
deployments that pin certificates there keep working. An optional observer
receives one callback per logical request for statistics collection.
*/
package azure
