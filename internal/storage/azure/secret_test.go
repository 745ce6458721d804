package azure

import (
	"testing"
)

func TestSecretValues(t *testing.T) {
	s := NewSecret("s1", ProviderConfig, nil, map[string]string{
		SecretAccountName: "myaccount",
	})

	if v, ok := s.Get(SecretAccountName); !ok || v != "myaccount" {
		t.Errorf("Get(account_name) = %q, %v", v, ok)
	}
	if _, ok := s.Get(SecretEndpoint); ok {
		t.Error("unset key should miss")
	}
	if v := s.GetOrDefault(SecretEndpoint, DefaultEndpoint); v != DefaultEndpoint {
		t.Errorf("GetOrDefault = %q", v)
	}
}

func TestSecretDefaultScope(t *testing.T) {
	s := NewSecret("s1", ProviderConfig, nil, nil)
	store := NewMemorySecretStore()
	store.Add(s)

	for _, path := range []string{"azure://c/p", "az://c/p"} {
		if _, ok := store.Lookup(path); !ok {
			t.Errorf("default-scoped secret should match %q", path)
		}
	}
	if _, ok := store.Lookup("s3://c/p"); ok {
		t.Error("secret should not match foreign schemes")
	}
}

func TestSecretStoreLongestScopeWins(t *testing.T) {
	store := NewMemorySecretStore()
	broad := NewSecret("broad", ProviderConfig, []string{"azure://"}, nil)
	narrow := NewSecret("narrow", ProviderCredentialChain, []string{"azure://private/"}, nil)
	store.Add(broad)
	store.Add(narrow)

	got, ok := store.Lookup("azure://private/data/file.parquet")
	if !ok || got.Name != "narrow" {
		t.Errorf("Lookup returned %v, want narrow", got)
	}

	got, ok = store.Lookup("azure://public/data/file.parquet")
	if !ok || got.Name != "broad" {
		t.Errorf("Lookup returned %v, want broad", got)
	}
}

func TestSecretStoreReplaceAndRemove(t *testing.T) {
	store := NewMemorySecretStore()
	store.Add(NewSecret("s1", ProviderConfig, nil, map[string]string{SecretAccountName: "one"}))
	store.Add(NewSecret("s1", ProviderConfig, nil, map[string]string{SecretAccountName: "two"}))

	got, ok := store.Lookup("azure://c/p")
	if !ok {
		t.Fatal("expected a secret")
	}
	if v, _ := got.Get(SecretAccountName); v != "two" {
		t.Errorf("replacement did not take effect, account = %q", v)
	}

	store.Remove("s1")
	if _, ok := store.Lookup("azure://c/p"); ok {
		t.Error("removed secret should not resolve")
	}
}
