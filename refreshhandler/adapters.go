// refreshhandler/adapters.go
package refreshhandler

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Credentials is the pair a successful refresh produces: a new access credential and,
// optionally, a rotated refresh credential.
type Credentials struct {
	Credential        string
	RefreshCredential string
}

// PayloadAdapter maps a refresh credential onto the request body sent to the refresh
// endpoint. The returned value is JSON-encoded by the handler. Adapters must be pure:
// no I/O, no panics for a non-empty credential.
type PayloadAdapter func(refreshCredential string) any

// ResponseAdapter maps the refresh endpoint's response body onto a Credentials pair.
// Adapters must be pure and must return an error rather than panic on unexpected input.
// An empty RefreshCredential in the result means "keep the existing refresh credential".
type ResponseAdapter func(body []byte) (Credentials, error)

// DefaultPayloadAdapter produces {"refreshToken": <credential>}.
func DefaultPayloadAdapter(refreshCredential string) any {
	return map[string]string{"refreshToken": refreshCredential}
}

// DefaultResponseAdapter reads the access credential from the "token" field, falling
// back to "accessToken", and the refresh credential from "refreshToken". A body without
// an access credential is an error.
func DefaultResponseAdapter(body []byte) (Credentials, error) {
	var parsed struct {
		Token        string `json:"token"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Credentials{}, fmt.Errorf("decode refresh response: %w", err)
	}

	credential := parsed.Token
	if credential == "" {
		credential = parsed.AccessToken
	}
	if credential == "" {
		return Credentials{}, errors.New("refresh response contains no access credential")
	}

	return Credentials{
		Credential:        credential,
		RefreshCredential: parsed.RefreshToken,
	}, nil
}
