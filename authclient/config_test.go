// authclient/config_test.go
package authclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-api-bearer-auth/credentialstore"
)

func TestValidateClientConfig(t *testing.T) {
	validStore := credentialstore.NewMemoryStore()

	tests := []struct {
		name          string
		config        ClientConfig
		expectedError string
	}{
		{
			name: "valid",
			config: ClientConfig{
				Store:           validStore,
				RefreshEndpoint: "https://api.example.com/auth/refresh",
			},
		},
		{
			name: "missing store",
			config: ClientConfig{
				RefreshEndpoint: "https://api.example.com/auth/refresh",
			},
			expectedError: "no credential store supplied",
		},
		{
			name: "incomplete func store",
			config: ClientConfig{
				Store: credentialstore.FuncStore{
					GetCredentialFn: func(ctx context.Context) (string, error) { return "", nil },
				},
				RefreshEndpoint: "https://api.example.com/auth/refresh",
			},
			expectedError: "missing one or more operation functions",
		},
		{
			name: "missing refresh endpoint",
			config: ClientConfig{
				Store: validStore,
			},
			expectedError: "no refresh endpoint supplied",
		},
		{
			name: "relative refresh endpoint",
			config: ClientConfig{
				Store:           validStore,
				RefreshEndpoint: "/auth/refresh",
			},
			expectedError: "must be an absolute URL",
		},
		{
			name: "negative timeout",
			config: ClientConfig{
				Store:           validStore,
				RefreshEndpoint: "https://api.example.com/auth/refresh",
				CustomTimeout:   -1,
			},
			expectedError: "timeout cannot be less than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateClientConfig(tt.config)
			if tt.expectedError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestSetDefaultValuesClientConfig(t *testing.T) {
	config := ClientConfig{
		Store:           credentialstore.NewMemoryStore(),
		RefreshEndpoint: "https://api.example.com/auth/refresh",
	}

	SetDefaultValuesClientConfig(&config)

	assert.Equal(t, DefaultLogLevelString, config.LogLevel)
	assert.Equal(t, DefaultLogOutputFormatString, config.LogOutputFormat)
	assert.Equal(t, DefaultLogConsoleSeparator, config.LogConsoleSeparator)
	assert.Equal(t, DefaultAuthHeaderPrefix, config.AuthHeaderPrefix)
	assert.Equal(t, DefaultCustomTimeout, config.CustomTimeout)
	assert.Equal(t, http.DefaultTransport, config.Base)
	assert.NotNil(t, config.PayloadAdapter)
	assert.NotNil(t, config.ResponseAdapter)
}

func TestBuildClientRejectsInvalidConfig(t *testing.T) {
	_, err := BuildClient(ClientConfig{}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestBuildClientInstallsTransport(t *testing.T) {
	client, err := BuildClient(ClientConfig{
		Store:           credentialstore.NewMemoryStore(),
		RefreshEndpoint: "https://api.example.com/auth/refresh",
	}, true)
	require.NoError(t, err)

	assert.IsType(t, &Transport{}, client.Transport)
	assert.Equal(t, DefaultCustomTimeout, client.Timeout)
}
