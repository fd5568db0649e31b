// authclient/transport.go
package authclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deploymenttheory/go-api-bearer-auth/credentialstore"
	"github.com/deploymenttheory/go-api-bearer-auth/headers"
	"github.com/deploymenttheory/go-api-bearer-auth/logger"
	"github.com/deploymenttheory/go-api-bearer-auth/refreshhandler"
)

type contextKey int

const (
	// retriedKey marks a request that has already been reissued once after a
	// refresh, so a second authorization failure passes through untouched.
	retriedKey contextKey = iota
	// exemptKey marks a request that must bypass credential injection and the
	// refresh coordinator entirely.
	exemptKey
)

// MarkExempt returns a context whose requests bypass the bearer-auth transport:
// no credential injection, no refresh on authorization failure.
func MarkExempt(ctx context.Context) context.Context {
	return context.WithValue(ctx, exemptKey, true)
}

func isExempt(ctx context.Context) bool {
	exempt, _ := ctx.Value(exemptKey).(bool)
	return exempt
}

func markRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey, true)
}

func isRetried(ctx context.Context) bool {
	retried, _ := ctx.Value(retriedKey).(bool)
	return retried
}

// Transport is the http.RoundTripper installed on the augmented client. On the request
// phase it attaches the stored access credential; on the response phase it intercepts
// authorization failures, funnels them through the refresh handler, and reissues the
// request once with the refreshed credential.
type Transport struct {
	base              http.RoundTripper
	store             credentialstore.Store
	refresher         *refreshhandler.RefreshHandler
	refreshURL        *url.URL
	authPrefix        string
	hideSensitiveData bool
	log               logger.Logger
	customTimeout     time.Duration
}

var _ http.RoundTripper = (*Transport)(nil)

// timeout exposes the configured request timeout for BuildClient.
func (t *Transport) timeout() time.Duration {
	return t.customTimeout
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Requests to the refresh endpoint never re-enter the coordinator: a refresh
	// call that itself fails authorization must fail the cycle, not start another.
	if isExempt(req.Context()) || t.isRefreshEndpoint(req.URL) {
		return t.base.RoundTrip(req)
	}

	outReq, err := t.injectCredential(req)
	if err != nil {
		return nil, err
	}

	resp, err := t.base.RoundTrip(outReq)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	if isRetried(req.Context()) {
		t.log.Debug("authorization failure on already-retried request, passing through",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
		)
		return resp, nil
	}

	// A retry replays the request body; without GetBody the stream is already
	// consumed and the failure has to stand.
	if req.Body != nil && req.GetBody == nil {
		t.log.Warn("authorization failure on request with non-replayable body, passing through",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
		)
		return resp, nil
	}

	return t.refreshAndRetry(req, resp)
}

// injectCredential returns the request to dispatch: a clone carrying the Authorization
// header when a credential is stored, or the caller's request untouched when none is.
func (t *Transport) injectCredential(req *http.Request) (*http.Request, error) {
	credential, err := t.store.GetCredential(req.Context())
	if err != nil {
		return nil, &refreshhandler.StoreError{Op: "get credential", Err: err}
	}
	if credential == "" {
		return req, nil
	}

	outReq := req.Clone(req.Context())
	headers.SetAuthorization(outReq, t.authPrefix, credential)

	t.log.Debug("attached access credential",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("credential", headers.RedactSensitiveHeaderData(t.hideSensitiveData, "Authorization", credential)),
	)

	return outReq, nil
}

// refreshAndRetry drives (or joins) a refresh cycle for a request that failed
// authorization on its first attempt, then reissues the request once. A failed
// refresh surfaces the refresh error to the caller in place of the 401.
func (t *Transport) refreshAndRetry(req *http.Request, resp *http.Response) (*http.Response, error) {
	log := t.log.With(zap.String("request_id", uuid.NewString()))
	log.Debug("authorization failure, refreshing credentials",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
	)

	// The failed response is replaced by the retry outcome; release its connection.
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	resp.Body.Close()

	if _, err := t.refresher.Refresh(req.Context()); err != nil {
		return nil, err
	}

	retry := req.Clone(markRetried(req.Context()))
	if req.Body != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("authclient: rewind request body for retry: %w", err)
		}
		retry.Body = body
	}

	log.Debug("reissuing request with refreshed credential",
		zap.String("method", retry.Method),
		zap.String("url", retry.URL.String()),
	)

	// Back through the full transport so injection picks up the stored new
	// credential; the retry marker stops a second refresh attempt.
	return t.RoundTrip(retry)
}

// isRefreshEndpoint reports whether the request targets the configured refresh
// endpoint. Query strings and fragments are ignored.
func (t *Transport) isRefreshEndpoint(u *url.URL) bool {
	return u.Scheme == t.refreshURL.Scheme &&
		u.Host == t.refreshURL.Host &&
		u.Path == t.refreshURL.Path
}
