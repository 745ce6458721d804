package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	if cfg.Global.LogLevel != "INFO" {
		t.Errorf("Expected LogLevel to be INFO, got %s", cfg.Global.LogLevel)
	}
	if cfg.Storage.Endpoint != "blob.core.windows.net" {
		t.Errorf("Expected default endpoint, got %s", cfg.Storage.Endpoint)
	}
	if cfg.Transfer.ReadConcurrency != 5 {
		t.Errorf("Expected ReadConcurrency to be 5, got %d", cfg.Transfer.ReadConcurrency)
	}
	if cfg.Transfer.ReadChunkSize != "1MB" {
		t.Errorf("Expected ReadChunkSize to be 1MB, got %s", cfg.Transfer.ReadChunkSize)
	}
	if cfg.Transfer.ReadBufferSize != "1MB" {
		t.Errorf("Expected ReadBufferSize to be 1MB, got %s", cfg.Transfer.ReadBufferSize)
	}
	if cfg.Transport.OptionType != "default" {
		t.Errorf("Expected transport option_type to be default, got %s", cfg.Transport.OptionType)
	}
	if !cfg.Features.ContextCaching {
		t.Error("Expected ContextCaching to be enabled by default")
	}
	if cfg.Features.HTTPStats {
		t.Error("Expected HTTPStats to be disabled by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default configuration should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
global:
  log_level: DEBUG
storage:
  account_name: myaccount
  credential_chain: cli;env
transfer:
  read_transfer_concurrency: 8
  read_transfer_chunk_size: 4MB
  read_buffer_size: 2MB
features:
  context_caching: false
  http_stats: true
`
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg := NewDefault()
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Global.LogLevel != "DEBUG" {
		t.Errorf("LogLevel = %s, want DEBUG", cfg.Global.LogLevel)
	}
	if cfg.Storage.AccountName != "myaccount" {
		t.Errorf("AccountName = %s, want myaccount", cfg.Storage.AccountName)
	}
	if cfg.Storage.CredentialChain != "cli;env" {
		t.Errorf("CredentialChain = %s, want cli;env", cfg.Storage.CredentialChain)
	}
	if cfg.Transfer.ReadConcurrency != 8 {
		t.Errorf("ReadConcurrency = %d, want 8", cfg.Transfer.ReadConcurrency)
	}
	if cfg.Features.ContextCaching {
		t.Error("ContextCaching should be disabled by the file")
	}
	if !cfg.Features.HTTPStats {
		t.Error("HTTPStats should be enabled by the file")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := NewDefault()
	if err := cfg.LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("AZUREFS_AZURE_ACCOUNT_NAME", "envaccount")
	t.Setenv("AZUREFS_AZURE_READ_TRANSFER_CONCURRENCY", "12")
	t.Setenv("AZUREFS_AZURE_HTTP_STATS", "true")

	cfg := NewDefault()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.Storage.AccountName != "envaccount" {
		t.Errorf("AccountName = %s, want envaccount", cfg.Storage.AccountName)
	}
	if cfg.Transfer.ReadConcurrency != 12 {
		t.Errorf("ReadConcurrency = %d, want 12", cfg.Transfer.ReadConcurrency)
	}
	if !cfg.Features.HTTPStats {
		t.Error("HTTPStats should be enabled from environment")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Configuration)
		wantErr bool
	}{
		{"default", func(c *Configuration) {}, false},
		{"zero concurrency", func(c *Configuration) { c.Transfer.ReadConcurrency = 0 }, true},
		{"bad chunk size", func(c *Configuration) { c.Transfer.ReadChunkSize = "lots" }, true},
		{"bad buffer size", func(c *Configuration) { c.Transfer.ReadBufferSize = "" }, true},
		{"bad transport", func(c *Configuration) { c.Transport.OptionType = "quic" }, true},
		{"curl transport", func(c *Configuration) { c.Transport.OptionType = "curl" }, false},
		{"bad log level", func(c *Configuration) { c.Global.LogLevel = "TRACE" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSettingsLookup(t *testing.T) {
	m := Map{KeyAccountName: "myaccount"}

	if v, ok := m.Lookup(KeyAccountName); !ok || v != "myaccount" {
		t.Errorf("Map lookup = %q, %v", v, ok)
	}
	if _, ok := m.Lookup(KeyEndpoint); ok {
		t.Error("Map lookup of unset key should miss")
	}

	t.Setenv("AZUREFS_AZURE_ENDPOINT", "blob.core.usgovcloudapi.net")
	env := Env{Prefix: "AZUREFS_"}
	if v, ok := env.Lookup(KeyEndpoint); !ok || v != "blob.core.usgovcloudapi.net" {
		t.Errorf("Env lookup = %q, %v", v, ok)
	}

	chain := Chain{m, env}
	if v, _ := chain.Lookup(KeyAccountName); v != "myaccount" {
		t.Errorf("Chain should prefer the first provider, got %q", v)
	}
	if v, _ := chain.Lookup(KeyEndpoint); v != "blob.core.usgovcloudapi.net" {
		t.Errorf("Chain should fall through to later providers, got %q", v)
	}
}

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"512", 512, false},
		{"512B", 512, false},
		{"64KB", 64 * 1024, false},
		{"1MB", 1024 * 1024, false},
		{"2GB", 2 * 1024 * 1024 * 1024, false},
		{" 1mb ", 1024 * 1024, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseByteSize(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseByteSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseByteSize(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestResolveReadOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts, err := ResolveReadOptions(Map{})
		if err != nil {
			t.Fatalf("ResolveReadOptions failed: %v", err)
		}
		if opts.TransferConcurrency != 5 || opts.TransferChunkSize != 1024*1024 || opts.BufferSize != 1024*1024 {
			t.Errorf("unexpected defaults: %+v", opts)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		opts, err := ResolveReadOptions(Map{
			KeyTransferConcurrency: "10",
			KeyTransferChunkSize:   "4MB",
			KeyBufferSize:          "8MB",
		})
		if err != nil {
			t.Fatalf("ResolveReadOptions failed: %v", err)
		}
		if opts.TransferConcurrency != 10 {
			t.Errorf("TransferConcurrency = %d, want 10", opts.TransferConcurrency)
		}
		if opts.TransferChunkSize != 4*1024*1024 {
			t.Errorf("TransferChunkSize = %d, want 4MiB", opts.TransferChunkSize)
		}
		if opts.BufferSize != 8*1024*1024 {
			t.Errorf("BufferSize = %d, want 8MiB", opts.BufferSize)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		if _, err := ResolveReadOptions(Map{KeyTransferConcurrency: "many"}); err == nil {
			t.Error("expected error for non-numeric concurrency")
		}
		if _, err := ResolveReadOptions(Map{KeyBufferSize: "0"}); err == nil {
			t.Error("expected error for zero buffer size")
		}
	})
}

func TestConfigurationSettings(t *testing.T) {
	cfg := NewDefault()
	cfg.Storage.AccountName = "myaccount"
	cfg.Storage.ConnectionString = "DefaultEndpointsProtocol=https;AccountName=myaccount;AccountKey=secret"

	s := cfg.Settings()
	if v, _ := s.Lookup(KeyAccountName); v != "myaccount" {
		t.Errorf("settings account name = %q", v)
	}
	if v, _ := s.Lookup(KeyContextCaching); v != "true" {
		t.Errorf("settings context caching = %q", v)
	}
	if _, ok := s.Lookup(KeyHTTPProxy); ok {
		t.Error("empty proxy should stay unset")
	}
}
