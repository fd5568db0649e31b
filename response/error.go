// response/error.go
// This package provides utility functions and structures for handling and categorizing
// HTTP error responses from the credential refresh endpoint.
package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html"
)

// RefreshEndpointError represents a failed call to the refresh endpoint: a transport
// level success but a non-2xx status, or a 2xx whose body could not yield a credential.
type RefreshEndpointError struct {
	StatusCode  int    `json:"status_code"`            // HTTP status code, 0 when the failure is body-shaped rather than status-shaped
	Method      string `json:"method"`                 // HTTP method used for the refresh request
	URL         string `json:"url"`                    // The URL of the refresh request
	Message     string `json:"message"`                // Summary of the error
	RawResponse string `json:"raw_response,omitempty"` // Raw response body for debugging
}

// Error returns a string representation of the RefreshEndpointError, making it
// compatible with the error interface.
func (e *RefreshEndpointError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("refresh endpoint error: status=%d, message=%s", e.StatusCode, msg)
}

// NewRefreshEndpointError builds a RefreshEndpointError from a non-2xx refresh
// response, extracting a human-readable message from the body where the content type
// is recognisable. The response body is consumed but not closed.
func NewRefreshEndpointError(resp *http.Response) *RefreshEndpointError {
	endpointError := &RefreshEndpointError{
		StatusCode: resp.StatusCode,
		Method:     resp.Request.Method,
		URL:        resp.Request.URL.String(),
		Message:    "refresh endpoint returned an error response",
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		endpointError.RawResponse = "failed to read response body"
		return endpointError
	}

	mimeType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	switch mimeType {
	case "application/json":
		parseJSONResponse(bodyBytes, endpointError)
	case "application/xml", "text/xml":
		parseXMLResponse(bodyBytes, endpointError)
	case "text/html":
		parseHTMLResponse(bodyBytes, endpointError)
	case "text/plain":
		parseTextResponse(bodyBytes, endpointError)
	default:
		endpointError.RawResponse = string(bodyBytes)
	}

	return endpointError
}

// jsonErrorBody covers the common field names refresh endpoints use for error details.
type jsonErrorBody struct {
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Detail           string `json:"detail"`
}

// parseJSONResponse attempts to parse the JSON error response and update the
// RefreshEndpointError structure.
func parseJSONResponse(bodyBytes []byte, endpointError *RefreshEndpointError) {
	endpointError.RawResponse = string(bodyBytes)

	var body jsonErrorBody
	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		return
	}

	switch {
	case body.Message != "":
		endpointError.Message = body.Message
	case body.ErrorDescription != "":
		endpointError.Message = body.ErrorDescription
	case body.Error != "":
		endpointError.Message = body.Error
	case body.Detail != "":
		endpointError.Message = body.Detail
	}
}

// parseXMLResponse dynamically parses XML error responses and accumulates potential
// error messages from the document's text nodes.
func parseXMLResponse(bodyBytes []byte, endpointError *RefreshEndpointError) {
	endpointError.RawResponse = string(bodyBytes)

	doc, err := xmlquery.Parse(bytes.NewReader(bodyBytes))
	if err != nil {
		return
	}

	var messages []string
	var traverse func(*xmlquery.Node)
	traverse = func(n *xmlquery.Node) {
		if n.Type == xmlquery.TextNode && strings.TrimSpace(n.Data) != "" {
			messages = append(messages, strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}

	traverse(doc)

	if len(messages) > 0 {
		endpointError.Message = strings.Join(messages, "; ")
	}
}

// parseTextResponse updates the RefreshEndpointError structure based on a plain text
// error response.
func parseTextResponse(bodyBytes []byte, endpointError *RefreshEndpointError) {
	bodyText := strings.TrimSpace(string(bodyBytes))
	endpointError.RawResponse = bodyText
	if bodyText != "" {
		endpointError.Message = bodyText
	}
}

// parseHTMLResponse extracts meaningful information from an HTML error response,
// concatenating the text content of <title> and <p> elements.
func parseHTMLResponse(bodyBytes []byte, endpointError *RefreshEndpointError) {
	endpointError.RawResponse = string(bodyBytes)

	doc, err := html.Parse(bytes.NewReader(bodyBytes))
	if err != nil {
		return
	}

	var messages []string
	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "title" || n.Data == "p") {
			text := strings.TrimSpace(collectText(n))
			if text != "" {
				messages = append(messages, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)

	if len(messages) > 0 {
		endpointError.Message = strings.Join(messages, "; ")
	}
}

// collectText gathers the text nodes beneath n into a single space-joined string.
func collectText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(c.Data))
			b.WriteString(" ")
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}
