// authclient/client.go
/* The `authclient` package augments a standard *http.Client with bearer-token
authentication and transparent single-flight credential refresh. Every outgoing
request has the stored access credential attached; a response that fails authorization
triggers exactly one coordinated refresh shared across all concurrently failing
requests, after which each of them is reissued once. The augmented client is a plain
*http.Client, used exactly as an unmodified one. */
package authclient

import (
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/deploymenttheory/go-api-bearer-auth/logger"
	"github.com/deploymenttheory/go-api-bearer-auth/refreshhandler"
)

// BuildClient creates a new augmented HTTP client with the provided configuration.
func BuildClient(config ClientConfig, populateDefaultValues bool) (*http.Client, error) {
	transport, err := NewTransport(config, populateDefaultValues)
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: transport,
		Timeout:   transport.timeout(),
	}, nil
}

// NewTransport validates the configuration and builds the bearer-auth RoundTripper.
// Exposed for callers that compose their own *http.Client.
func NewTransport(config ClientConfig, populateDefaultValues bool) (*Transport, error) {
	if populateDefaultValues {
		SetDefaultValuesClientConfig(&config)
	}

	if err := validateClientConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	parsedLogLevel := logger.ParseLogLevelFromString(config.LogLevel)
	log := logger.BuildLogger(parsedLogLevel, config.LogOutputFormat, config.LogConsoleSeparator)

	// Already validated.
	refreshURL, err := url.Parse(config.RefreshEndpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	base := config.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// The refresh call rides the base transport directly, so it can never recurse
	// into the coordinator.
	refresher := refreshhandler.NewRefreshHandler(refreshhandler.Config{
		Store:           config.Store,
		RefreshEndpoint: config.RefreshEndpoint,
		Client: &http.Client{
			Transport: base,
			Timeout:   config.CustomTimeout,
		},
		PayloadAdapter:   config.PayloadAdapter,
		ResponseAdapter:  config.ResponseAdapter,
		OnRefreshFailure: config.OnRefreshFailure,
		Logger:           log,
	})

	log.Debug("bearer auth transport initialized",
		zap.String("refresh_endpoint", config.RefreshEndpoint),
		zap.String("auth_header_prefix", config.AuthHeaderPrefix),
		zap.String("log_level", config.LogLevel),
		zap.Bool("hide_sensitive_data", config.HideSensitiveData),
		zap.Duration("timeout", config.CustomTimeout),
	)

	return &Transport{
		base:              base,
		store:             config.Store,
		refresher:         refresher,
		refreshURL:        refreshURL,
		authPrefix:        config.AuthHeaderPrefix,
		hideSensitiveData: config.HideSensitiveData,
		log:               log,
		customTimeout:     config.CustomTimeout,
	}, nil
}
