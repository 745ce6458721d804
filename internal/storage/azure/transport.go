package azure

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/objectfs/azurefs/internal/config"
	azerrors "github.com/objectfs/azurefs/pkg/errors"
)

// Transport option types selectable through azure_transport_option_type.
const (
	TransportDefault = "default"
	TransportCurl    = "curl"
)

// caBundlePaths are probed in order when the curl transport is selected and
// CURL_CA_INFO is unset.
var caBundlePaths = []string{
	"/etc/ssl/certs/ca-certificates.crt",                // Debian/Ubuntu/Gentoo etc.
	"/etc/pki/tls/certs/ca-bundle.crt",                  // Fedora/RHEL 6
	"/etc/ssl/ca-bundle.pem",                            // OpenSUSE
	"/etc/pki/tls/cacert.pem",                           // OpenELEC
	"/etc/pki/ca-trust/extracted/pem/tls-ca-bundle.pem", // CentOS/RHEL 7
	"/etc/ssl/cert.pem",                                 // Alpine Linux
}

// TransportOptions selects and configures the HTTP transport used for all
// service traffic, token requests included.
type TransportOptions struct {
	OptionType    string
	Proxy         string
	ProxyUserName string
	ProxyPassword string
}

// ResolveTransportOptions builds transport options from the secret (when
// present) with settings as fallback. The HTTP_PROXY environment variable is
// honored when nothing else names a proxy.
func ResolveTransportOptions(settings config.Settings, secret *Secret) (TransportOptions, error) {
	opts := TransportOptions{
		OptionType: config.GetString(settings, config.KeyTransportOptionType, TransportDefault),
	}

	lookup := func(secretKey, settingKey string) string {
		if secret != nil {
			if v, ok := secret.Get(secretKey); ok {
				return v
			}
		}
		return config.GetString(settings, settingKey, "")
	}

	opts.Proxy = lookup(SecretHTTPProxy, config.KeyHTTPProxy)
	if opts.Proxy == "" {
		opts.Proxy = os.Getenv("HTTP_PROXY")
	}
	opts.ProxyUserName = lookup(SecretProxyUserName, config.KeyProxyUserName)
	opts.ProxyPassword = lookup(SecretProxyPassword, config.KeyProxyPassword)

	if opts.OptionType != TransportDefault && opts.OptionType != TransportCurl {
		return TransportOptions{}, azerrors.NewError(azerrors.ErrCodeInvalidConfig,
			"transport_option_type cannot take value '"+opts.OptionType+"'").
			WithComponent("azure").
			WithOperation("ResolveTransportOptions")
	}
	return opts, nil
}

// Transporter builds the policy.Transporter for these options.
func (o TransportOptions) Transporter() (policy.Transporter, error) {
	base, err := o.baseTransport()
	if err != nil {
		return nil, err
	}
	if o.OptionType == TransportCurl {
		if err := applyCurlTrust(base); err != nil {
			return nil, err
		}
	}
	return transportAdapter{rt: base}, nil
}

func (o TransportOptions) baseTransport() (*http.Transport, error) {
	var clone *http.Transport
	if base, ok := http.DefaultTransport.(*http.Transport); ok {
		clone = base.Clone()
	} else {
		clone = &http.Transport{}
	}
	if clone.MaxIdleConns == 0 {
		clone.MaxIdleConns = 256
	}
	if clone.MaxIdleConnsPerHost == 0 {
		clone.MaxIdleConnsPerHost = 64
	}
	if clone.IdleConnTimeout == 0 {
		clone.IdleConnTimeout = 90 * time.Second
	}
	if clone.TLSHandshakeTimeout == 0 {
		clone.TLSHandshakeTimeout = 10 * time.Second
	}
	if clone.ExpectContinueTimeout == 0 {
		clone.ExpectContinueTimeout = 1 * time.Second
	}

	if o.Proxy != "" {
		proxyURL, err := url.Parse(o.Proxy)
		if err != nil {
			return nil, azerrors.NewError(azerrors.ErrCodeInvalidConfig,
				"invalid proxy URL").
				WithComponent("azure").
				WithCause(err)
		}
		if proxyURL.Scheme == "" {
			proxyURL.Scheme = "http"
		}
		if o.ProxyUserName != "" {
			proxyURL.User = url.UserPassword(o.ProxyUserName, o.ProxyPassword)
		}
		clone.Proxy = http.ProxyURL(proxyURL)
	}
	return clone, nil
}

// applyCurlTrust mirrors libcurl's trust store discovery: an explicit
// CURL_CA_INFO bundle, otherwise the first readable well-known bundle, plus
// any certificates under CURL_CA_PATH.
func applyCurlTrust(transport *http.Transport) error {
	pool := x509.NewCertPool()
	loaded := false

	caInfo := os.Getenv("CURL_CA_INFO")
	if caInfo == "" {
		for _, candidate := range caBundlePaths {
			if _, err := os.Stat(candidate); err == nil {
				caInfo = candidate
				break
			}
		}
	}
	if caInfo != "" {
		pem, err := os.ReadFile(caInfo)
		if err != nil {
			return azerrors.NewError(azerrors.ErrCodeInvalidConfig,
				"cannot read CA bundle").
				WithComponent("azure").
				WithContext("ca_info", caInfo).
				WithCause(err)
		}
		if pool.AppendCertsFromPEM(pem) {
			loaded = true
		}
	}

	if caPath := os.Getenv("CURL_CA_PATH"); caPath != "" {
		entries, err := os.ReadDir(caPath)
		if err == nil {
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				pem, err := os.ReadFile(filepath.Join(caPath, entry.Name()))
				if err != nil {
					continue
				}
				if pool.AppendCertsFromPEM(pem) {
					loaded = true
				}
			}
		}
	}

	if loaded {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{}
		} else {
			transport.TLSClientConfig = transport.TLSClientConfig.Clone()
		}
		transport.TLSClientConfig.RootCAs = pool
	}
	return nil
}

type transportAdapter struct {
	rt http.RoundTripper
}

func (t transportAdapter) Do(req *http.Request) (*http.Response, error) {
	if t.rt == nil {
		return http.DefaultTransport.RoundTrip(req)
	}
	return t.rt.RoundTrip(req)
}

// RequestObserver receives per-request HTTP transfer statistics.
type RequestObserver interface {
	ObserveRequest(method string, statusCode int)
	ObserveBytes(received, sent int64)
}

// statsPolicy records request and byte counts for every service call. It is
// registered per call and not per retry, so retries triggered by network
// issues do not inflate the counts.
type statsPolicy struct {
	observer RequestObserver
}

func newStatsPolicy(observer RequestObserver) policy.Policy {
	return &statsPolicy{observer: observer}
}

func (p *statsPolicy) Do(req *policy.Request) (*http.Response, error) {
	var sent int64
	if raw := req.Raw(); raw != nil && raw.ContentLength > 0 {
		sent = raw.ContentLength
	}

	resp, err := req.Next()
	if err != nil {
		return resp, err
	}

	p.observer.ObserveRequest(req.Raw().Method, resp.StatusCode)
	var received int64
	if resp.ContentLength > 0 {
		received = resp.ContentLength
	}
	p.observer.ObserveBytes(received, sent)
	return resp, nil
}

// ClientOptions assembles azblob client options for the given transport and
// optional statistics observer.
func ClientOptions(transport policy.Transporter, observer RequestObserver) *azblob.ClientOptions {
	opts := &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Transport: transport,
		},
	}
	if observer != nil {
		opts.PerCallPolicies = append(opts.PerCallPolicies, newStatsPolicy(observer))
	}
	return opts
}
