package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Configuration represents the complete application configuration
type Configuration struct {
	Global    GlobalConfig    `yaml:"global"`
	Storage   StorageConfig   `yaml:"storage"`
	Transfer  TransferConfig  `yaml:"transfer"`
	Transport TransportConfig `yaml:"transport"`
	Features  FeatureConfig   `yaml:"features"`
}

// GlobalConfig represents global application settings
type GlobalConfig struct {
	LogLevel    string `yaml:"log_level"`
	MetricsPort int    `yaml:"metrics_port"`
}

// StorageConfig represents account and credential settings
type StorageConfig struct {
	AccountName      string `yaml:"account_name"`
	Endpoint         string `yaml:"endpoint"`
	ConnectionString string `yaml:"connection_string"`
	CredentialChain  string `yaml:"credential_chain"`
}

// TransferConfig represents transfer tuning settings
type TransferConfig struct {
	ReadConcurrency int    `yaml:"read_transfer_concurrency"`
	ReadChunkSize   string `yaml:"read_transfer_chunk_size"`
	ReadBufferSize  string `yaml:"read_buffer_size"`
}

// TransportConfig represents HTTP transport settings
type TransportConfig struct {
	OptionType    string        `yaml:"option_type"`
	HTTPProxy     string        `yaml:"http_proxy"`
	ProxyUserName string        `yaml:"proxy_user_name"`
	ProxyPassword string        `yaml:"proxy_password"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
}

// FeatureConfig represents feature flags
type FeatureConfig struct {
	ContextCaching bool `yaml:"context_caching"`
	HTTPStats      bool `yaml:"http_stats"`
}

// NewDefault returns a configuration with sensible defaults
func NewDefault() *Configuration {
	return &Configuration{
		Global: GlobalConfig{
			LogLevel:    "INFO",
			MetricsPort: 8080,
		},
		Storage: StorageConfig{
			Endpoint: "blob.core.windows.net",
		},
		Transfer: TransferConfig{
			ReadConcurrency: 5,
			ReadChunkSize:   "1MB",
			ReadBufferSize:  "1MB",
		},
		Transport: TransportConfig{
			OptionType:  "default",
			IdleTimeout: 90 * time.Second,
		},
		Features: FeatureConfig{
			ContextCaching: true,
			HTTPStats:      false,
		},
	}
}

// LoadFromFile loads configuration from a YAML file
func (c *Configuration) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables
func (c *Configuration) LoadFromEnv() error {
	if val := os.Getenv("AZUREFS_LOG_LEVEL"); val != "" {
		c.Global.LogLevel = val
	}
	if val := os.Getenv("AZUREFS_METRICS_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Global.MetricsPort = port
		}
	}

	if val := os.Getenv("AZUREFS_AZURE_ACCOUNT_NAME"); val != "" {
		c.Storage.AccountName = val
	}
	if val := os.Getenv("AZUREFS_AZURE_ENDPOINT"); val != "" {
		c.Storage.Endpoint = val
	}
	if val := os.Getenv("AZUREFS_AZURE_STORAGE_CONNECTION_STRING"); val != "" {
		c.Storage.ConnectionString = val
	}
	if val := os.Getenv("AZUREFS_AZURE_CREDENTIAL_CHAIN"); val != "" {
		c.Storage.CredentialChain = val
	}

	if val := os.Getenv("AZUREFS_AZURE_READ_TRANSFER_CONCURRENCY"); val != "" {
		if concurrency, err := strconv.Atoi(val); err == nil {
			c.Transfer.ReadConcurrency = concurrency
		}
	}
	if val := os.Getenv("AZUREFS_AZURE_READ_TRANSFER_CHUNK_SIZE"); val != "" {
		c.Transfer.ReadChunkSize = val
	}
	if val := os.Getenv("AZUREFS_AZURE_READ_BUFFER_SIZE"); val != "" {
		c.Transfer.ReadBufferSize = val
	}

	if val := os.Getenv("AZUREFS_AZURE_TRANSPORT_OPTION_TYPE"); val != "" {
		c.Transport.OptionType = val
	}
	if val := os.Getenv("AZUREFS_AZURE_HTTP_PROXY"); val != "" {
		c.Transport.HTTPProxy = val
	}

	if val := os.Getenv("AZUREFS_AZURE_CONTEXT_CACHING"); val != "" {
		c.Features.ContextCaching = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("AZUREFS_AZURE_HTTP_STATS"); val != "" {
		c.Features.HTTPStats = strings.ToLower(val) == "true"
	}

	return nil
}

// Validate validates the configuration
func (c *Configuration) Validate() error {
	if c.Transfer.ReadConcurrency <= 0 {
		return fmt.Errorf("read_transfer_concurrency must be greater than 0")
	}

	if _, err := ParseByteSize(c.Transfer.ReadChunkSize); err != nil {
		return fmt.Errorf("invalid read_transfer_chunk_size: %w", err)
	}

	if _, err := ParseByteSize(c.Transfer.ReadBufferSize); err != nil {
		return fmt.Errorf("invalid read_buffer_size: %w", err)
	}

	if c.Transport.OptionType != "default" && c.Transport.OptionType != "curl" {
		return fmt.Errorf("invalid transport option_type: %s (must be default or curl)", c.Transport.OptionType)
	}

	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	logLevelValid := false
	for _, level := range validLogLevels {
		if c.Global.LogLevel == level {
			logLevelValid = true
			break
		}
	}
	if !logLevelValid {
		return fmt.Errorf("invalid log_level: %s (must be one of: %s)",
			c.Global.LogLevel, strings.Join(validLogLevels, ", "))
	}

	return nil
}

// Settings flattens the configuration into the key-value settings surface
// consumed by the storage layer. Empty values are left unset so defaults and
// other providers in a Chain can apply.
func (c *Configuration) Settings() Map {
	m := Map{
		KeyTransferConcurrency: strconv.Itoa(c.Transfer.ReadConcurrency),
		KeyTransferChunkSize:   c.Transfer.ReadChunkSize,
		KeyBufferSize:          c.Transfer.ReadBufferSize,
		KeyContextCaching:      strconv.FormatBool(c.Features.ContextCaching),
		KeyHTTPStats:           strconv.FormatBool(c.Features.HTTPStats),
		KeyTransportOptionType: c.Transport.OptionType,
	}

	set := func(key, val string) {
		if val != "" {
			m[key] = val
		}
	}
	set(KeyAccountName, c.Storage.AccountName)
	set(KeyEndpoint, c.Storage.Endpoint)
	set(KeyConnectionString, c.Storage.ConnectionString)
	set(KeyCredentialChain, c.Storage.CredentialChain)
	set(KeyHTTPProxy, c.Transport.HTTPProxy)
	set(KeyProxyUserName, c.Transport.ProxyUserName)
	set(KeyProxyPassword, c.Transport.ProxyPassword)

	return m
}
