package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/objectfs/azurefs/pkg/types"
)

// Setting keys recognized by the settings lookup layer.
const (
	KeyTransferConcurrency = "azure_read_transfer_concurrency"
	KeyTransferChunkSize   = "azure_read_transfer_chunk_size"
	KeyBufferSize          = "azure_read_buffer_size"
	KeyContextCaching      = "azure_context_caching"
	KeyHTTPStats           = "azure_http_stats"
	KeyTransportOptionType = "azure_transport_option_type"
	KeyHTTPProxy           = "azure_http_proxy"
	KeyProxyUserName       = "azure_proxy_user_name"
	KeyProxyPassword       = "azure_proxy_password"
	KeyCredentialChain     = "azure_credential_chain"
	KeyConnectionString    = "azure_storage_connection_string"
	KeyAccountName         = "azure_account_name"
	KeyEndpoint            = "azure_endpoint"
)

// Settings provides string-keyed lookup of runtime settings. Implementations
// must be safe for concurrent reads.
type Settings interface {
	// Lookup returns the raw string value for key and whether it is set.
	Lookup(key string) (string, bool)
}

// Map is an in-memory Settings implementation.
type Map map[string]string

// Lookup implements Settings.
func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Env resolves settings from environment variables. A key such as
// azure_http_proxy is looked up as <Prefix>AZURE_HTTP_PROXY.
type Env struct {
	Prefix string
}

// Lookup implements Settings.
func (e Env) Lookup(key string) (string, bool) {
	return os.LookupEnv(e.Prefix + strings.ToUpper(key))
}

// Chain tries each Settings in order and returns the first hit.
type Chain []Settings

// Lookup implements Settings.
func (c Chain) Lookup(key string) (string, bool) {
	for _, s := range c {
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// GetString returns the value for key, or def when unset.
func GetString(s Settings, key, def string) string {
	if v, ok := s.Lookup(key); ok {
		return v
	}
	return def
}

// GetBool parses the value for key as a boolean, or returns def when unset.
func GetBool(s Settings, key string, def bool) (bool, error) {
	v, ok := s.Lookup(key)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(v)))
	if err != nil {
		return false, fmt.Errorf("setting %s: invalid boolean %q", key, v)
	}
	return b, nil
}

// GetInt parses the value for key as an integer, or returns def when unset.
func GetInt(s Settings, key string, def int) (int, error) {
	v, ok := s.Lookup(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("setting %s: invalid integer %q", key, v)
	}
	return n, nil
}

// GetByteSize parses the value for key as a byte size such as "1MB" or a
// plain integer, or returns def when unset.
func GetByteSize(s Settings, key string, def int64) (int64, error) {
	v, ok := s.Lookup(key)
	if !ok {
		return def, nil
	}
	n, err := ParseByteSize(v)
	if err != nil {
		return 0, fmt.Errorf("setting %s: %w", key, err)
	}
	return n, nil
}

// ParseByteSize parses human-readable sizes like "512", "64KB", "1MB", "2GB".
func ParseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n * multiplier, nil
}

// ResolveReadOptions builds transfer tuning from settings, falling back to
// defaults for anything unset.
func ResolveReadOptions(s Settings) (types.ReadOptions, error) {
	opts := types.DefaultReadOptions()

	concurrency, err := GetInt(s, KeyTransferConcurrency, opts.TransferConcurrency)
	if err != nil {
		return types.ReadOptions{}, err
	}
	opts.TransferConcurrency = concurrency

	chunkSize, err := GetByteSize(s, KeyTransferChunkSize, opts.TransferChunkSize)
	if err != nil {
		return types.ReadOptions{}, err
	}
	opts.TransferChunkSize = chunkSize

	bufferSize, err := GetByteSize(s, KeyBufferSize, opts.BufferSize)
	if err != nil {
		return types.ReadOptions{}, err
	}
	opts.BufferSize = bufferSize

	if err := opts.Validate(); err != nil {
		return types.ReadOptions{}, err
	}
	return opts, nil
}
