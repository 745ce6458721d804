package azure

import (
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/objectfs/azurefs/internal/config"
	azerrors "github.com/objectfs/azurefs/pkg/errors"
)

func authError(message string) *azerrors.AzureFSError {
	return azerrors.NewError(azerrors.ErrCodeAuthResolution, message).
		WithComponent("azure").
		WithOperation("Connect")
}

// Connect resolves credentials for the given path and returns a service
// client. When a secret matches the path its provider decides the strategy;
// otherwise the settings-only resolution applies: connection string, then
// credential chain, then anonymous access.
func Connect(settings config.Settings, secrets SecretStore, path string, parsed ParsedURL, observer RequestObserver) (*azblob.Client, error) {
	if secrets != nil {
		if secret, ok := secrets.Lookup(path); ok {
			return connectWithSecret(settings, secret, parsed, observer)
		}
	}
	return connectFromSettings(settings, parsed, observer)
}

func connectWithSecret(settings config.Settings, secret *Secret, parsed ParsedURL, observer RequestObserver) (*azblob.Client, error) {
	transportOpts, err := ResolveTransportOptions(settings, secret)
	if err != nil {
		return nil, err
	}
	transport, err := transportOpts.Transporter()
	if err != nil {
		return nil, err
	}
	clientOpts := ClientOptions(transport, observer)

	switch secret.Provider {
	case ProviderConfig:
		if connectionString, ok := secret.Get(SecretConnectionString); ok && connectionString != "" {
			if err := checkConnectionStringAccount(connectionString, parsed.AccountName); err != nil {
				return nil, err
			}
			return newClientFromConnectionString(connectionString, clientOpts)
		}
		// Config secret without connection string: public storage account.
		accountURL, err := resolveAccountURL(settings, secret, parsed)
		if err != nil {
			return nil, err
		}
		return newAnonymousClient(accountURL, clientOpts)

	case ProviderCredentialChain:
		chain := secret.GetOrDefault(SecretChain, "default")
		credential, err := chainedCredential(chain, transport)
		if err != nil {
			return nil, err
		}
		accountURL, err := resolveAccountURL(settings, secret, parsed)
		if err != nil {
			return nil, err
		}
		return newTokenClient(accountURL, credential, clientOpts)

	case ProviderServicePrincipal:
		credential, err := servicePrincipalCredential(secret, transport)
		if err != nil {
			return nil, err
		}
		accountURL, err := resolveAccountURL(settings, secret, parsed)
		if err != nil {
			return nil, err
		}
		return newTokenClient(accountURL, credential, clientOpts)
	}

	return nil, authError("unsupported provider type " + secret.Provider)
}

func connectFromSettings(settings config.Settings, parsed ParsedURL, observer RequestObserver) (*azblob.Client, error) {
	transportOpts, err := ResolveTransportOptions(settings, nil)
	if err != nil {
		return nil, err
	}
	transport, err := transportOpts.Transporter()
	if err != nil {
		return nil, err
	}
	clientOpts := ClientOptions(transport, observer)

	if connectionString := config.GetString(settings, config.KeyConnectionString, ""); connectionString != "" {
		if err := checkConnectionStringAccount(connectionString, parsed.AccountName); err != nil {
			return nil, err
		}
		return newClientFromConnectionString(connectionString, clientOpts)
	}

	accountURL, err := resolveAccountURL(settings, nil, parsed)
	if err != nil {
		return nil, err
	}

	if chain := config.GetString(settings, config.KeyCredentialChain, ""); chain != "" {
		credential, err := chainedCredential(chain, transport)
		if err != nil {
			return nil, err
		}
		return newTokenClient(accountURL, credential, clientOpts)
	}

	// No credential signal at all: anonymous access as the last resort.
	return newAnonymousClient(accountURL, clientOpts)
}

// resolveAccountURL builds https://<account>.<endpoint> with the account
// taken from the URL, then the secret, then settings; same for the endpoint
// with DefaultEndpoint as the final fallback.
func resolveAccountURL(settings config.Settings, secret *Secret, parsed ParsedURL) (string, error) {
	account := parsed.AccountName
	if account == "" && secret != nil {
		account = secret.GetOrDefault(SecretAccountName, "")
	}
	if account == "" {
		account = config.GetString(settings, config.KeyAccountName, "")
	}
	if account == "" {
		return "", authError("no storage account name could be resolved from the URL, secrets, or settings")
	}

	endpoint := parsed.Endpoint
	if endpoint == "" && secret != nil {
		endpoint = secret.GetOrDefault(SecretEndpoint, "")
	}
	if endpoint == "" {
		endpoint = config.GetString(settings, config.KeyEndpoint, "")
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return "https://" + account + "." + endpoint, nil
}

// checkConnectionStringAccount verifies that a connection string belongs to
// the account named in the URL. A mismatch is a hard error, never a fallback
// to another credential strategy.
func checkConnectionStringAccount(connectionString, account string) error {
	if account == "" {
		return nil
	}

	embedded := ""
	found := false
	for _, segment := range strings.Split(connectionString, ";") {
		if value, ok := strings.CutPrefix(segment, "AccountName="); ok {
			embedded = value
			found = true
			break
		}
	}
	if !found {
		return authError("an invalid connection string has been provided")
	}
	if embedded != account {
		return authError("the provided connection string does not match the storage account named " + account)
	}
	return nil
}

// chainedCredential builds a ChainedTokenCredential from a ";"-separated
// list of provider names: cli, managed_identity, env, default.
func chainedCredential(chain string, transport policy.Transporter) (azcore.TokenCredential, error) {
	clientOpts := azcore.ClientOptions{Transport: transport}

	var sources []azcore.TokenCredential
	for _, item := range strings.Split(chain, ";") {
		switch item {
		case "cli":
			cred, err := azidentity.NewAzureCLICredential(nil)
			if err != nil {
				return nil, authError("building cli credential failed").WithCause(err)
			}
			sources = append(sources, cred)
		case "managed_identity":
			cred, err := azidentity.NewManagedIdentityCredential(&azidentity.ManagedIdentityCredentialOptions{
				ClientOptions: clientOpts,
			})
			if err != nil {
				return nil, authError("building managed_identity credential failed").WithCause(err)
			}
			sources = append(sources, cred)
		case "env":
			cred, err := azidentity.NewEnvironmentCredential(&azidentity.EnvironmentCredentialOptions{
				ClientOptions: clientOpts,
			})
			if err != nil {
				return nil, authError("building env credential failed").WithCause(err)
			}
			sources = append(sources, cred)
		case "default":
			cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
				ClientOptions: clientOpts,
			})
			if err != nil {
				return nil, authError("building default credential failed").WithCause(err)
			}
			sources = append(sources, cred)
		default:
			return nil, authError("unknown credential provider found: " + item)
		}
	}

	credential, err := azidentity.NewChainedTokenCredential(sources, nil)
	if err != nil {
		return nil, authError("building credential chain failed").WithCause(err)
	}
	return credential, nil
}

// servicePrincipalCredential builds a client-secret or client-certificate
// credential. tenant_id and client_id are required; exactly one of
// client_secret and client_certificate_path must be present.
func servicePrincipalCredential(secret *Secret, transport policy.Transporter) (azcore.TokenCredential, error) {
	tenantID, ok := secret.Get(SecretTenantID)
	if !ok || tenantID == "" {
		return nil, authError("service_principal secret is missing tenant_id")
	}
	clientID, ok := secret.Get(SecretClientID)
	if !ok || clientID == "" {
		return nil, authError("service_principal secret is missing client_id")
	}

	clientSecret := secret.GetOrDefault(SecretClientSecret, "")
	certificatePath := secret.GetOrDefault(SecretClientCertificatePath, "")

	clientOpts := azcore.ClientOptions{Transport: transport}

	switch {
	case clientSecret != "" && certificatePath != "":
		return nil, authError("service_principal secret must carry exactly one of client_secret and client_certificate_path")
	case clientSecret != "":
		credential, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret,
			&azidentity.ClientSecretCredentialOptions{ClientOptions: clientOpts})
		if err != nil {
			return nil, authError("building client secret credential failed").WithCause(err)
		}
		return credential, nil
	case certificatePath != "":
		data, err := os.ReadFile(certificatePath)
		if err != nil {
			return nil, authError("cannot read client certificate").
				WithContext("client_certificate_path", certificatePath).
				WithCause(err)
		}
		certs, key, err := azidentity.ParseCertificates(data, nil)
		if err != nil {
			return nil, authError("cannot parse client certificate").
				WithContext("client_certificate_path", certificatePath).
				WithCause(err)
		}
		credential, err := azidentity.NewClientCertificateCredential(tenantID, clientID, certs, key,
			&azidentity.ClientCertificateCredentialOptions{ClientOptions: clientOpts})
		if err != nil {
			return nil, authError("building client certificate credential failed").WithCause(err)
		}
		return credential, nil
	}
	return nil, authError("service_principal secret must carry one of client_secret and client_certificate_path")
}

func newClientFromConnectionString(connectionString string, opts *azblob.ClientOptions) (*azblob.Client, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, opts)
	if err != nil {
		return nil, authError("creating client from connection string failed").WithCause(err)
	}
	return client, nil
}

func newAnonymousClient(accountURL string, opts *azblob.ClientOptions) (*azblob.Client, error) {
	client, err := azblob.NewClientWithNoCredential(accountURL, opts)
	if err != nil {
		return nil, authError("creating anonymous client failed").WithCause(err)
	}
	return client, nil
}

func newTokenClient(accountURL string, credential azcore.TokenCredential, opts *azblob.ClientOptions) (*azblob.Client, error) {
	client, err := azblob.NewClient(accountURL, credential, opts)
	if err != nil {
		return nil, authError("creating client failed").WithCause(err)
	}
	return client, nil
}
