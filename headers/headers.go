// headers/headers.go
package headers

import (
	"fmt"
	"net/http"
	"strings"
)

// DefaultAuthPrefix is the Authorization scheme prefix used when the client
// configuration does not override it.
const DefaultAuthPrefix = "Bearer "

// SetAuthorization sets the Authorization header for the request as
// "<prefix><credential>". The credential is used verbatim unless it already carries
// the prefix, in which case it is not prefixed twice.
func SetAuthorization(req *http.Request, prefix, credential string) {
	if prefix == "" {
		prefix = DefaultAuthPrefix
	}
	if !strings.HasPrefix(credential, prefix) {
		credential = prefix + credential
	}
	req.Header.Set("Authorization", credential)
}

// RedactSensitiveHeaderData redacts sensitive values based on the hideSensitiveData flag.
func RedactSensitiveHeaderData(hideSensitiveData bool, key, value string) string {
	if hideSensitiveData {
		sensitiveKeys := map[string]bool{
			"AccessToken":   true,
			"Authorization": true,
		}

		if _, found := sensitiveKeys[key]; found {
			return "REDACTED"
		}
	}
	return value
}

// HeadersToString converts a http.Header to a string for logging, with each header on
// a new line for readability.
func HeadersToString(headers http.Header) string {
	var headerStrings []string
	for name, values := range headers {
		valueStr := strings.Join(values, ", ")
		headerStrings = append(headerStrings, fmt.Sprintf("%s: %s", name, valueStr))
	}
	return strings.Join(headerStrings, "\n")
}
