package azure

import (
	"sort"
	"strings"
	"sync"
)

// Secret provider kinds. The provider decides which credential resolution
// strategy a secret feeds.
const (
	ProviderConfig           = "config"
	ProviderCredentialChain  = "credential_chain"
	ProviderServicePrincipal = "service_principal"
)

// Value keys recognized inside secrets.
const (
	SecretConnectionString      = "connection_string"
	SecretAccountName           = "account_name"
	SecretEndpoint              = "endpoint"
	SecretChain                 = "chain"
	SecretTenantID              = "tenant_id"
	SecretClientID              = "client_id"
	SecretClientSecret          = "client_secret"
	SecretClientCertificatePath = "client_certificate_path"
	SecretHTTPProxy             = "http_proxy"
	SecretProxyUserName         = "proxy_user_name"
	SecretProxyPassword         = "proxy_password"
)

// Secret is a named key-value credential bundle scoped to one or more path
// prefixes. Secrets are immutable once registered.
type Secret struct {
	Name     string
	Provider string
	Scope    []string
	values   map[string]string
}

// NewSecret builds a secret. An empty scope defaults to both recognized
// schemes so the secret applies to every path.
func NewSecret(name, provider string, scope []string, values map[string]string) *Secret {
	if len(scope) == 0 {
		scope = []string{SchemeAzure, SchemeAz}
	}
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Secret{
		Name:     name,
		Provider: provider,
		Scope:    scope,
		values:   copied,
	}
}

// Get returns the value for key and whether it is present.
func (s *Secret) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// GetOrDefault returns the value for key, or def when absent.
func (s *Secret) GetOrDefault(key, def string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// longestScopeMatch returns the length of the longest scope prefix of path,
// or -1 when no scope matches.
func (s *Secret) longestScopeMatch(path string) int {
	best := -1
	for _, scope := range s.Scope {
		if strings.HasPrefix(path, scope) && len(scope) > best {
			best = len(scope)
		}
	}
	return best
}

// SecretStore resolves the best matching secret for a path.
type SecretStore interface {
	// Lookup returns the secret whose scope best matches path, if any.
	Lookup(path string) (*Secret, bool)
}

// MemorySecretStore is an in-memory SecretStore. The secret with the longest
// matching scope prefix wins; ties break on registration order.
type MemorySecretStore struct {
	mu      sync.RWMutex
	secrets []*Secret
}

// NewMemorySecretStore creates an empty store.
func NewMemorySecretStore() *MemorySecretStore {
	return &MemorySecretStore{}
}

// Add registers a secret. A secret with the same name replaces the previous
// registration.
func (st *MemorySecretStore) Add(s *Secret) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for i, existing := range st.secrets {
		if existing.Name == s.Name {
			st.secrets[i] = s
			return
		}
	}
	st.secrets = append(st.secrets, s)
}

// Remove drops the secret with the given name.
func (st *MemorySecretStore) Remove(name string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for i, existing := range st.secrets {
		if existing.Name == name {
			st.secrets = append(st.secrets[:i], st.secrets[i+1:]...)
			return
		}
	}
}

// Lookup implements SecretStore.
func (st *MemorySecretStore) Lookup(path string) (*Secret, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	type candidate struct {
		secret *Secret
		match  int
		order  int
	}
	var candidates []candidate
	for i, s := range st.secrets {
		if m := s.longestScopeMatch(path); m >= 0 {
			candidates = append(candidates, candidate{secret: s, match: m, order: i})
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].match != candidates[j].match {
			return candidates[i].match > candidates[j].match
		}
		return candidates[i].order < candidates[j].order
	})
	return candidates[0].secret, true
}
