package azure

import (
	"strings"

	azerrors "github.com/objectfs/azurefs/pkg/errors"
)

// DefaultEndpoint is the service endpoint used when neither the URL, the
// secret, nor the settings provide one.
const DefaultEndpoint = "blob.core.windows.net"

// Scheme prefixes recognized by this filesystem.
const (
	SchemeAzure = "azure://"
	SchemeAz    = "az://"
)

// ParsedURL is the decomposition of an azure:// or az:// URL. Values are
// plain path components; nothing is resolved or validated against the
// service.
type ParsedURL struct {
	// Prefix is the scheme including the trailing slashes, e.g. "azure://".
	Prefix string

	// AccountName is the storage account, empty for the short form.
	AccountName string

	// Endpoint is the service endpoint from the URL, empty for the short
	// form. Set whenever AccountName is set.
	Endpoint string

	// Container is the blob container, never empty.
	Container string

	// Path is the blob key or key pattern, possibly empty.
	Path string
}

const urlFormats = "(azure|az)://<container>/[<path>] or (azure|az)://<account>.<endpoint>/<container>/[<path>]"

func malformed(url string) error {
	return azerrors.NewError(azerrors.ErrCodeMalformedURL,
		"URL does not match the expected formats: "+urlFormats).
		WithComponent("azure").
		WithContext("url", url)
}

// ParseURL splits an azure:// or az:// URL into its components. Two forms
// are accepted: the short form names only container and path, leaving the
// account to be resolved from settings or secrets; the fully qualified form
// carries <account>.<endpoint> before the container. A dot before the first
// slash selects the fully qualified form.
func ParseURL(url string) (ParsedURL, error) {
	var prefixEnd int
	switch {
	case strings.HasPrefix(url, SchemeAzure):
		prefixEnd = len(SchemeAzure)
	case strings.HasPrefix(url, SchemeAz):
		prefixEnd = len(SchemeAz)
	default:
		return ParsedURL{}, azerrors.NewError(azerrors.ErrCodeMalformedURL,
			"URL needs to start with azure:// or az://").
			WithComponent("azure").
			WithContext("url", url)
	}

	rest := url[prefixEnd:]
	slashPos := strings.IndexByte(rest, '/')
	if slashPos < 0 {
		return ParsedURL{}, malformed(url)
	}
	dotPos := strings.IndexByte(rest, '.')

	parsed := ParsedURL{Prefix: url[:prefixEnd]}

	if dotPos >= 0 && dotPos < slashPos {
		// (azure|az)://<account>.<endpoint>/<container>/[<path>]
		containerSlash := slashPos
		pathSlash := strings.IndexByte(rest[containerSlash+1:], '/')
		if pathSlash < 0 {
			return ParsedURL{}, malformed(url)
		}
		pathSlash += containerSlash + 1

		parsed.AccountName = rest[:dotPos]
		parsed.Endpoint = rest[dotPos+1 : containerSlash]
		parsed.Container = rest[containerSlash+1 : pathSlash]
		parsed.Path = rest[pathSlash+1:]

		if parsed.AccountName == "" || parsed.Endpoint == "" {
			return ParsedURL{}, malformed(url)
		}
	} else {
		// (azure|az)://<container>/[<path>]
		// The account is resolved later from settings or secrets.
		parsed.Container = rest[:slashPos]
		parsed.Path = rest[slashPos+1:]
	}

	if parsed.Container == "" {
		return ParsedURL{}, malformed(url)
	}

	return parsed, nil
}

// CanHandle reports whether path carries a scheme this filesystem serves.
func CanHandle(path string) bool {
	return strings.HasPrefix(path, SchemeAzure) || strings.HasPrefix(path, SchemeAz)
}

// ResultPrefix returns the URL prefix that listing results are rewritten
// under: the scheme plus, for fully qualified URLs, the account and endpoint.
func (u ParsedURL) ResultPrefix() string {
	if u.AccountName == "" {
		return u.Prefix + u.Container
	}
	return u.Prefix + u.AccountName + "." + u.Endpoint + "/" + u.Container
}
