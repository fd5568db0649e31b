// authclient/config.go
package authclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/deploymenttheory/go-api-bearer-auth/credentialstore"
	"github.com/deploymenttheory/go-api-bearer-auth/refreshhandler"
)

const (
	DefaultLogLevelString        = "LogLevelInfo"
	DefaultLogOutputFormatString = "console"
	DefaultLogConsoleSeparator   = "\t"
	DefaultHideSensitiveData     = false
	DefaultAuthHeaderPrefix      = "Bearer "
	DefaultCustomTimeout         = 10 * time.Second
)

// Options/Variables for the augmented client.
type ClientConfig struct {
	// Store provides the access and refresh credentials. Required. Use
	// credentialstore.FuncStore to assemble one from per-operation functions.
	Store credentialstore.Store

	// RefreshEndpoint is the absolute URL POSTed to when an authorization failure
	// triggers a credential refresh. Required.
	RefreshEndpoint string

	// AuthHeaderPrefix is prepended to the access credential in the Authorization
	// header. Defaults to "Bearer ".
	AuthHeaderPrefix string

	// OnRefreshFailure is invoked once per failed refresh cycle, after the stored
	// credentials have been removed. Typical use: navigate the user to a login flow.
	// It must not block indefinitely; the failing requests are not released until
	// it returns.
	OnRefreshFailure func(err error)

	// PayloadAdapter and ResponseAdapter override the wire shape of the refresh
	// exchange. Both default to the field mappings in the refreshhandler package.
	PayloadAdapter  refreshhandler.PayloadAdapter
	ResponseAdapter refreshhandler.ResponseAdapter

	// Base is the underlying transport requests are dispatched on. Defaults to
	// http.DefaultTransport.
	Base http.RoundTripper

	// Log
	LogLevel            string
	LogOutputFormat     string // Output format of the logs. Use "json" for JSON format, "console" for human-readable format
	LogConsoleSeparator string
	HideSensitiveData   bool

	// Misc
	CustomTimeout time.Duration
}

// SetDefaultValuesClientConfig sets default values for the client configuration,
// ensuring that all optional fields have a valid or minimum value.
func SetDefaultValuesClientConfig(config *ClientConfig) {
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevelString
	}
	if config.LogOutputFormat == "" {
		config.LogOutputFormat = DefaultLogOutputFormatString
	}
	if config.LogConsoleSeparator == "" {
		config.LogConsoleSeparator = DefaultLogConsoleSeparator
	}
	if config.AuthHeaderPrefix == "" {
		config.AuthHeaderPrefix = DefaultAuthHeaderPrefix
	}
	if config.CustomTimeout == 0 {
		config.CustomTimeout = DefaultCustomTimeout
	}
	if config.Base == nil {
		config.Base = http.DefaultTransport
	}
	if config.PayloadAdapter == nil {
		config.PayloadAdapter = refreshhandler.DefaultPayloadAdapter
	}
	if config.ResponseAdapter == nil {
		config.ResponseAdapter = refreshhandler.DefaultResponseAdapter
	}
}

func validateClientConfig(config ClientConfig) error {
	if config.Store == nil {
		return errors.New("no credential store supplied, provide a credentialstore.Store implementation or a complete credentialstore.FuncStore")
	}

	if funcStore, ok := config.Store.(credentialstore.FuncStore); ok && !funcStore.Complete() {
		return errors.New("credentialstore.FuncStore is missing one or more operation functions")
	}

	if config.RefreshEndpoint == "" {
		return errors.New("no refresh endpoint supplied")
	}

	endpointURL, err := url.Parse(config.RefreshEndpoint)
	if err != nil {
		return fmt.Errorf("refresh endpoint is not a valid URL: %w", err)
	}
	if !endpointURL.IsAbs() || endpointURL.Host == "" {
		return errors.New("refresh endpoint must be an absolute URL")
	}

	if config.CustomTimeout < 0 {
		return errors.New("timeout cannot be less than 0 seconds")
	}

	return nil
}
