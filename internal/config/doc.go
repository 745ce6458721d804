/*
Package config provides configuration management for AzureFS with multi-source support.

This package implements a hierarchical configuration system that supports YAML files,
environment variables, and in-memory overrides, plus the flat key-value settings
surface consumed by the storage layer.

# Configuration Architecture

Multi-source configuration hierarchy with precedence:

	┌─────────────────────────────────────────────┐
	│          Runtime Overrides                  │ ← Highest Priority
	│          (in-memory Map values)             │
	└─────────────────────────────────────────────┘
	                      │
	┌─────────────────────────────────────────────┐
	│        Environment Variables                │
	│             (AZUREFS_*)                     │
	└─────────────────────────────────────────────┘
	                      │
	┌─────────────────────────────────────────────┐
	│         Configuration Files                 │
	│            (YAML format)                    │
	└─────────────────────────────────────────────┘
	                      │
	┌─────────────────────────────────────────────┐
	│           Default Values                    │ ← Lowest Priority
	│        (compiled-in defaults)               │
	└─────────────────────────────────────────────┘

# Settings Surface

The storage layer reads its knobs through the Settings interface, a flat
string-keyed lookup. The recognized keys are the Key* constants: transfer
tuning (azure_read_transfer_concurrency, azure_read_transfer_chunk_size,
azure_read_buffer_size), feature toggles (azure_context_caching,
azure_http_stats), transport selection (azure_transport_option_type,
azure_http_proxy, azure_proxy_user_name, azure_proxy_password), and
credential inputs (azure_storage_connection_string, azure_credential_chain,
azure_account_name, azure_endpoint).

Map, Env, and Chain are the stock providers; Configuration.Settings() flattens
a parsed YAML file into a Map so all sources compose through a single Chain.

# Typed Getters

GetString, GetBool, GetInt, and GetByteSize parse raw setting values with
defaults for unset keys. Byte sizes accept humanized values such as "1MB".
*/
package config
