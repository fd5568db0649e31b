// response/error_test.go
package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewRefreshEndpointError tests message extraction across the content types a
// refresh endpoint may answer with.
func TestNewRefreshEndpointError(t *testing.T) {
	tests := []struct {
		name            string
		responseStatus  int
		contentType     string
		responseBody    string
		expectedMessage string
	}{
		{
			name:            "structured JSON error",
			responseStatus:  http.StatusBadRequest,
			contentType:     "application/json",
			responseBody:    `{"message": "refresh token expired"}`,
			expectedMessage: "refresh token expired",
		},
		{
			name:            "oauth style JSON error",
			responseStatus:  http.StatusBadRequest,
			contentType:     "application/json",
			responseBody:    `{"error": "invalid_grant", "error_description": "token revoked"}`,
			expectedMessage: "token revoked",
		},
		{
			name:            "XML error",
			responseStatus:  http.StatusForbidden,
			contentType:     "application/xml",
			responseBody:    `<error><message>session terminated</message></error>`,
			expectedMessage: "session terminated",
		},
		{
			name:            "HTML error page",
			responseStatus:  http.StatusBadGateway,
			contentType:     "text/html",
			responseBody:    `<html><head><title>502 Bad Gateway</title></head><body><p>upstream unavailable</p></body></html>`,
			expectedMessage: "502 Bad Gateway; upstream unavailable",
		},
		{
			name:            "plain text error",
			responseStatus:  http.StatusServiceUnavailable,
			contentType:     "text/plain",
			responseBody:    "maintenance window",
			expectedMessage: "maintenance window",
		},
		{
			name:            "unknown content type",
			responseStatus:  http.StatusInternalServerError,
			contentType:     "application/octet-stream",
			responseBody:    "binary junk",
			expectedMessage: "refresh endpoint returned an error response",
		},
		{
			name:            "malformed JSON keeps generic message",
			responseStatus:  http.StatusBadRequest,
			contentType:     "application/json",
			responseBody:    `{"message":`,
			expectedMessage: "refresh endpoint returned an error response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			recorder.Header().Set("Content-Type", tt.contentType)
			recorder.WriteHeader(tt.responseStatus)
			recorder.WriteString(tt.responseBody) //nolint:errcheck

			resp := recorder.Result()
			resp.Request = httptest.NewRequest(http.MethodPost, "https://api.example.com/auth/refresh", nil)

			result := NewRefreshEndpointError(resp)

			assert.Equal(t, tt.responseStatus, result.StatusCode)
			assert.Equal(t, http.MethodPost, result.Method)
			assert.Equal(t, tt.expectedMessage, result.Message)
			assert.Equal(t, tt.responseBody, result.RawResponse)
		})
	}
}

func TestRefreshEndpointErrorString(t *testing.T) {
	err := &RefreshEndpointError{StatusCode: http.StatusForbidden, Message: "revoked"}
	assert.Contains(t, err.Error(), "status=403")
	assert.Contains(t, err.Error(), "revoked")

	empty := &RefreshEndpointError{StatusCode: http.StatusUnauthorized}
	assert.Contains(t, empty.Error(), http.StatusText(http.StatusUnauthorized))
}
